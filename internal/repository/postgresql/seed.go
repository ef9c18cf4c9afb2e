package postgresql

import (
	"context"
	"fmt"

	"github.com/dannyaudian/payroll-indonesia-go/internal/fixtures"
	"github.com/dannyaudian/payroll-indonesia-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

// SeedTaxDefaults loads the statutory PTKP, bracket, TER, and BPJS
// defaults into an empty settings schema. Existing rows win: every insert
// is a no-op on conflict, so the seed is safe to run on every boot.
func SeedTaxDefaults(ctx context.Context, db *database.DB) error {
	return WithTransaction(ctx, db, func(tx pgx.Tx) error {
		for _, entry := range fixtures.GetDefaultPTKPEntries() {
			_, err := tx.Exec(ctx, `
				INSERT INTO ptkp_rates (id, tax_status, ptkp_amount, created_at, updated_at)
				VALUES (gen_random_uuid(), $1, $2, NOW(), NOW())
				ON CONFLICT (tax_status) DO NOTHING
			`, entry.TaxStatus, entry.PTKPAmount)
			if err != nil {
				return fmt.Errorf("failed to seed ptkp rate %s: %w", entry.TaxStatus, err)
			}
		}

		for _, bracket := range fixtures.GetDefaultTaxBrackets() {
			_, err := tx.Exec(ctx, `
				INSERT INTO tax_brackets (id, income_from, income_to, tax_rate, created_at, updated_at)
				VALUES (gen_random_uuid(), $1, $2, $3, NOW(), NOW())
				ON CONFLICT (income_from) DO NOTHING
			`, bracket.IncomeFrom, bracket.IncomeTo, bracket.TaxRate)
			if err != nil {
				return fmt.Errorf("failed to seed tax bracket from %s: %w", bracket.IncomeFrom.String(), err)
			}
		}

		for _, bracket := range fixtures.GetDefaultTERBrackets() {
			_, err := tx.Exec(ctx, `
				INSERT INTO ter_brackets (id, category, income_from, income_to, rate, is_highest_bracket, created_at, updated_at)
				VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, NOW(), NOW())
				ON CONFLICT (category, income_from) DO NOTHING
			`, bracket.Category, bracket.IncomeFrom, bracket.IncomeTo, bracket.Rate, bracket.IsHighestBracket)
			if err != nil {
				return fmt.Errorf("failed to seed ter bracket %s/%s: %w",
					bracket.Category, bracket.IncomeFrom.String(), err)
			}
		}

		settings := fixtures.GetDefaultBPJSSettings()
		_, err := tx.Exec(ctx, `
			INSERT INTO bpjs_settings (
				id,
				kesehatan_employee_percent, kesehatan_employer_percent, kesehatan_max_salary,
				jht_employee_percent, jht_employer_percent,
				jp_employee_percent, jp_employer_percent, jp_max_salary,
				jkk_percent, jkm_percent,
				created_at, updated_at
			)
			SELECT gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW()
			WHERE NOT EXISTS (SELECT 1 FROM bpjs_settings)
		`,
			settings.KesehatanEmployeePercent, settings.KesehatanEmployerPercent, settings.KesehatanMaxSalary,
			settings.JHTEmployeePercent, settings.JHTEmployerPercent,
			settings.JPEmployeePercent, settings.JPEmployerPercent, settings.JPMaxSalary,
			settings.JKKPercent, settings.JKMPercent,
		)
		if err != nil {
			return fmt.Errorf("failed to seed bpjs settings: %w", err)
		}

		return nil
	})
}
