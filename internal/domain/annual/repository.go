package annual

import "context"

// Repository persists annual payroll histories and their monthly rows.
type Repository interface {
	// GetForUpdate loads the ledger for an employee and fiscal year,
	// locking it for the duration of the transaction. Returns
	// ErrHistoryNotFound when no ledger exists yet.
	GetForUpdate(ctx context.Context, employee string, fiscalYear int) (*PayrollHistory, error)
	Get(ctx context.Context, employee string, fiscalYear int) (*PayrollHistory, error)
	Create(ctx context.Context, history *PayrollHistory) error
	UpdateParent(ctx context.Context, history *PayrollHistory) error
	UpsertMonthly(ctx context.Context, historyID string, detail *MonthlyDetail) error
	DeleteMonthly(ctx context.Context, historyID string, salarySlip string) error
	Delete(ctx context.Context, historyID string) error
}

// SlipGateway reaches back into the host payroll system for the slips a
// ledger references. Cancelling a ledger cascades through it.
type SlipGateway interface {
	GetSlip(ctx context.Context, name string) (*SlipRef, error)
	CancelSlip(ctx context.Context, name string) error
}

// SlipRef - the slice of a salary slip CascadeCancel needs for ordering.
type SlipRef struct {
	Name        string `json:"name"`
	PostingDate string `json:"posting_date"` // YYYY-MM-DD
	StartDate   string `json:"start_date"`   // YYYY-MM-DD
	TaxType     string `json:"tax_type"`     // "DECEMBER" marks a reconciliation slip
	PPh21Info   string `json:"pph21_info"`   // JSON blob, may carry _tax_type
}
