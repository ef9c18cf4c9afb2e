package postgresql

import (
	"context"
	"fmt"

	"github.com/dannyaudian/payroll-indonesia-go/internal/domain/annual"
	"github.com/dannyaudian/payroll-indonesia-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type annualHistoryRepository struct {
	db *database.DB
}

func NewAnnualHistoryRepository(db *database.DB) annual.Repository {
	return &annualHistoryRepository{db: db}
}

const historyColumns = `
	id, employee, company, fiscal_year,
	bruto_total, pengurang_netto_total, biaya_jabatan_total, netto_total,
	ptkp_annual, pkp_annual, pph21_annual, koreksi_pph21,
	error_state, created_at, updated_at
`

func (r *annualHistoryRepository) getByKey(ctx context.Context, employee string, fiscalYear int, forUpdate bool) (*annual.PayrollHistory, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM annual_payroll_histories
		WHERE employee = $1 AND fiscal_year = $2
	`, historyColumns)
	if forUpdate {
		query += " FOR UPDATE"
	}

	var h annual.PayrollHistory
	err := q.QueryRow(ctx, query, employee, fiscalYear).Scan(
		&h.ID, &h.Employee, &h.Company, &h.FiscalYear,
		&h.BrutoTotal, &h.PengurangNettoTotal, &h.BiayaJabatanTotal, &h.NettoTotal,
		&h.PTKPAnnual, &h.PKPAnnual, &h.PPh21Annual, &h.KoreksiPPh21,
		&h.ErrorState, &h.CreatedAt, &h.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, annual.ErrHistoryNotFound
		}
		return nil, fmt.Errorf("failed to get annual payroll history: %w", err)
	}

	monthly, err := r.getMonthly(ctx, h.ID)
	if err != nil {
		return nil, err
	}
	h.Monthly = monthly
	return &h, nil
}

func (r *annualHistoryRepository) Get(ctx context.Context, employee string, fiscalYear int) (*annual.PayrollHistory, error) {
	return r.getByKey(ctx, employee, fiscalYear, false)
}

func (r *annualHistoryRepository) GetForUpdate(ctx context.Context, employee string, fiscalYear int) (*annual.PayrollHistory, error) {
	return r.getByKey(ctx, employee, fiscalYear, true)
}

func (r *annualHistoryRepository) getMonthly(ctx context.Context, historyID string) ([]annual.MonthlyDetail, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, history_id, bulan, salary_slip,
			   bruto, pengurang_netto, biaya_jabatan, netto, pkp, rate, pph21,
			   error_state
		FROM annual_payroll_monthly_details
		WHERE history_id = $1
		ORDER BY bulan, salary_slip
	`

	rows, err := q.Query(ctx, query, historyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get monthly details: %w", err)
	}
	defer rows.Close()

	var details []annual.MonthlyDetail
	for rows.Next() {
		var d annual.MonthlyDetail
		if err := rows.Scan(
			&d.ID, &d.HistoryID, &d.Bulan, &d.SalarySlip,
			&d.Bruto, &d.PengurangNetto, &d.BiayaJabatan, &d.Netto, &d.PKP, &d.Rate, &d.PPh21,
			&d.ErrorState,
		); err != nil {
			return nil, fmt.Errorf("failed to scan monthly detail: %w", err)
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

func (r *annualHistoryRepository) Create(ctx context.Context, history *annual.PayrollHistory) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO annual_payroll_histories (
			id, employee, company, fiscal_year,
			bruto_total, pengurang_netto_total, biaya_jabatan_total, netto_total,
			ptkp_annual, pkp_annual, pph21_annual, koreksi_pph21,
			error_state, created_at, updated_at
		) VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		history.Employee, history.Company, history.FiscalYear,
		history.BrutoTotal, history.PengurangNettoTotal, history.BiayaJabatanTotal,
		history.NettoTotal, history.PTKPAnnual, history.PKPAnnual,
		history.PPh21Annual, history.KoreksiPPh21, history.ErrorState,
	).Scan(&history.ID, &history.CreatedAt, &history.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create annual payroll history: %w", err)
	}
	return nil
}

func (r *annualHistoryRepository) UpdateParent(ctx context.Context, history *annual.PayrollHistory) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE annual_payroll_histories
		SET bruto_total = $2, pengurang_netto_total = $3, biaya_jabatan_total = $4,
			netto_total = $5, ptkp_annual = $6, pkp_annual = $7,
			pph21_annual = $8, koreksi_pph21 = $9, error_state = $10,
			updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		history.ID,
		history.BrutoTotal, history.PengurangNettoTotal, history.BiayaJabatanTotal,
		history.NettoTotal, history.PTKPAnnual, history.PKPAnnual,
		history.PPh21Annual, history.KoreksiPPh21, history.ErrorState,
	)
	if err != nil {
		return fmt.Errorf("failed to update annual payroll history: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return annual.ErrHistoryNotFound
	}
	return nil
}

func (r *annualHistoryRepository) UpsertMonthly(ctx context.Context, historyID string, detail *annual.MonthlyDetail) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO annual_payroll_monthly_details (
			id, history_id, bulan, salary_slip,
			bruto, pengurang_netto, biaya_jabatan, netto, pkp, rate, pph21,
			error_state
		) VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (history_id, salary_slip) DO UPDATE SET
			bulan = EXCLUDED.bulan,
			bruto = EXCLUDED.bruto,
			pengurang_netto = EXCLUDED.pengurang_netto,
			biaya_jabatan = EXCLUDED.biaya_jabatan,
			netto = EXCLUDED.netto,
			pkp = EXCLUDED.pkp,
			rate = EXCLUDED.rate,
			pph21 = EXCLUDED.pph21,
			error_state = EXCLUDED.error_state
		RETURNING id
	`

	err := q.QueryRow(ctx, query,
		historyID, detail.Bulan, detail.SalarySlip,
		detail.Bruto, detail.PengurangNetto, detail.BiayaJabatan,
		detail.Netto, detail.PKP, detail.Rate, detail.PPh21,
		detail.ErrorState,
	).Scan(&detail.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert monthly detail: %w", err)
	}
	detail.HistoryID = historyID
	return nil
}

func (r *annualHistoryRepository) DeleteMonthly(ctx context.Context, historyID string, salarySlip string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		DELETE FROM annual_payroll_monthly_details
		WHERE history_id = $1 AND salary_slip = $2
	`

	if _, err := q.Exec(ctx, query, historyID, salarySlip); err != nil {
		return fmt.Errorf("failed to delete monthly detail: %w", err)
	}
	return nil
}

func (r *annualHistoryRepository) Delete(ctx context.Context, historyID string) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `DELETE FROM annual_payroll_monthly_details WHERE history_id = $1`, historyID); err != nil {
		return fmt.Errorf("failed to delete monthly details: %w", err)
	}
	if _, err := q.Exec(ctx, `DELETE FROM annual_payroll_histories WHERE id = $1`, historyID); err != nil {
		return fmt.Errorf("failed to delete annual payroll history: %w", err)
	}
	return nil
}

// ========== SALARY SLIPS ==========

type salarySlipRepository struct {
	db *database.DB
}

func NewSalarySlipRepository(db *database.DB) annual.SlipGateway {
	return &salarySlipRepository{db: db}
}

func (r *salarySlipRepository) GetSlip(ctx context.Context, name string) (*annual.SlipRef, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT name,
			   COALESCE(to_char(posting_date, 'YYYY-MM-DD'), ''),
			   COALESCE(to_char(start_date, 'YYYY-MM-DD'), ''),
			   COALESCE(tax_type, ''),
			   COALESCE(pph21_info, '')
		FROM salary_slips
		WHERE name = $1
	`

	var slip annual.SlipRef
	err := q.QueryRow(ctx, query, name).Scan(
		&slip.Name, &slip.PostingDate, &slip.StartDate, &slip.TaxType, &slip.PPh21Info,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("salary slip %s not found", name)
		}
		return nil, fmt.Errorf("failed to get salary slip: %w", err)
	}
	return &slip, nil
}

func (r *salarySlipRepository) CancelSlip(ctx context.Context, name string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE salary_slips
		SET status = 'Cancelled', updated_at = NOW()
		WHERE name = $1
	`

	tag, err := q.Exec(ctx, query, name)
	if err != nil {
		return fmt.Errorf("failed to cancel salary slip: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("salary slip %s not found", name)
	}
	return nil
}
