package postgresql

import (
	"context"
	"fmt"

	"github.com/dannyaudian/payroll-indonesia-go/internal/domain/tax"
	"github.com/dannyaudian/payroll-indonesia-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type taxSettingsRepository struct {
	db *database.DB
}

func NewTaxSettingsRepository(db *database.DB) tax.SettingsRepository {
	return &taxSettingsRepository{db: db}
}

func (r *taxSettingsRepository) GetPTKPTable(ctx context.Context) ([]tax.PTKPEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT tax_status, ptkp_amount
		FROM ptkp_rates
		ORDER BY tax_status
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get ptkp table: %w", err)
	}
	defer rows.Close()

	var entries []tax.PTKPEntry
	for rows.Next() {
		var entry tax.PTKPEntry
		if err := rows.Scan(&entry.TaxStatus, &entry.PTKPAmount); err != nil {
			return nil, fmt.Errorf("failed to scan ptkp row: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (r *taxSettingsRepository) GetTaxBrackets(ctx context.Context) ([]tax.TaxBracket, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT income_from, income_to, tax_rate
		FROM tax_brackets
		ORDER BY income_from
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get tax brackets: %w", err)
	}
	defer rows.Close()

	var brackets []tax.TaxBracket
	for rows.Next() {
		var bracket tax.TaxBracket
		if err := rows.Scan(&bracket.IncomeFrom, &bracket.IncomeTo, &bracket.TaxRate); err != nil {
			return nil, fmt.Errorf("failed to scan tax bracket: %w", err)
		}
		brackets = append(brackets, bracket)
	}
	return brackets, rows.Err()
}

func (r *taxSettingsRepository) GetTERBrackets(ctx context.Context, category string) ([]tax.TERBracket, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT category, income_from, income_to, rate, is_highest_bracket
		FROM ter_brackets
		WHERE UPPER(category) = UPPER($1)
		ORDER BY income_from
	`

	rows, err := q.Query(ctx, query, category)
	if err != nil {
		return nil, fmt.Errorf("failed to get ter brackets: %w", err)
	}
	defer rows.Close()

	var brackets []tax.TERBracket
	for rows.Next() {
		var bracket tax.TERBracket
		if err := rows.Scan(
			&bracket.Category, &bracket.IncomeFrom, &bracket.IncomeTo,
			&bracket.Rate, &bracket.IsHighestBracket,
		); err != nil {
			return nil, fmt.Errorf("failed to scan ter bracket: %w", err)
		}
		brackets = append(brackets, bracket)
	}
	return brackets, rows.Err()
}

func (r *taxSettingsRepository) GetTERDefaultRate(ctx context.Context, category string) (decimal.Decimal, bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT rate
		FROM ter_default_rates
		WHERE UPPER(category) = UPPER($1)
	`

	var rate decimal.Decimal
	err := q.QueryRow(ctx, query, category).Scan(&rate)
	if err != nil {
		if err == pgx.ErrNoRows {
			return decimal.Zero, false, nil
		}
		return decimal.Zero, false, fmt.Errorf("failed to get ter default rate: %w", err)
	}
	return rate, true, nil
}

func (r *taxSettingsRepository) GetBPJSSettings(ctx context.Context) (*tax.BPJSSettings, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT kesehatan_employee_percent, kesehatan_employer_percent, kesehatan_max_salary,
			   jht_employee_percent, jht_employer_percent,
			   jp_employee_percent, jp_employer_percent, jp_max_salary,
			   jkk_percent, jkm_percent
		FROM bpjs_settings
		ORDER BY updated_at DESC
		LIMIT 1
	`

	var s tax.BPJSSettings
	err := q.QueryRow(ctx, query).Scan(
		&s.KesehatanEmployeePercent, &s.KesehatanEmployerPercent, &s.KesehatanMaxSalary,
		&s.JHTEmployeePercent, &s.JHTEmployerPercent,
		&s.JPEmployeePercent, &s.JPEmployerPercent, &s.JPMaxSalary,
		&s.JKKPercent, &s.JKMPercent,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, tax.ErrSettingsNotFound
		}
		return nil, fmt.Errorf("failed to get bpjs settings: %w", err)
	}
	return &s, nil
}

func (r *taxSettingsRepository) GetComponentTaxEffect(ctx context.Context, component string, componentType tax.ComponentType) (tax.TaxEffect, bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT tax_effect
		FROM salary_component_tax_effects
		WHERE LOWER(salary_component) = LOWER($1) AND component_type = $2
	`

	var effect string
	err := q.QueryRow(ctx, query, component, string(componentType)).Scan(&effect)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get component tax effect: %w", err)
	}
	return tax.TaxEffect(effect), true, nil
}

// ========== EMPLOYEES ==========

type employeeRepository struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) tax.EmployeeGateway {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) GetEmployee(ctx context.Context, name string) (*tax.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT name, employee_name, company, tax_status, employment_type
		FROM employees
		WHERE name = $1
	`

	var e tax.Employee
	err := q.QueryRow(ctx, query, name).Scan(
		&e.Name, &e.EmployeeName, &e.Company, &e.TaxStatus, &e.EmploymentType,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, tax.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	return &e, nil
}
