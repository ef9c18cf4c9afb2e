package annual

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayrollHistory - one employee's running PPh 21 ledger for a fiscal year.
// Aggregates are recomputed from the monthly rows on every mutation.
type PayrollHistory struct {
	ID                  string          `json:"id"`
	Employee            string          `json:"employee"`
	Company             string          `json:"company"`
	FiscalYear          int             `json:"fiscal_year"`
	BrutoTotal          decimal.Decimal `json:"bruto_total"`
	PengurangNettoTotal decimal.Decimal `json:"pengurang_netto_total"`
	BiayaJabatanTotal   decimal.Decimal `json:"biaya_jabatan_total"`
	NettoTotal          decimal.Decimal `json:"netto_total"`
	// PTKPAnnual is supplied by the December reconciliation summary; it
	// cannot be derived from the monthly rows.
	PTKPAnnual  decimal.Decimal `json:"ptkp_annual"`
	PKPAnnual   decimal.Decimal `json:"pkp_annual"`
	PPh21Annual decimal.Decimal `json:"pph21_annual"`
	// KoreksiPPh21 is written only by the December reconciliation and is
	// never touched when aggregates are recomputed.
	KoreksiPPh21 decimal.Decimal `json:"koreksi_pph21"`
	ErrorState   *string         `json:"error_state,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`

	Monthly []MonthlyDetail `json:"monthly"`
}

// MonthlyDetail - one month's withholding snapshot, keyed by salary slip.
type MonthlyDetail struct {
	ID             string          `json:"id"`
	HistoryID      string          `json:"history_id"`
	Bulan          int             `json:"bulan"`
	SalarySlip     string          `json:"salary_slip"`
	Bruto          decimal.Decimal `json:"bruto"`
	PengurangNetto decimal.Decimal `json:"pengurang_netto"`
	BiayaJabatan   decimal.Decimal `json:"biaya_jabatan"`
	Netto          decimal.Decimal `json:"netto"`
	PKP            decimal.Decimal `json:"pkp"`
	Rate           decimal.Decimal `json:"rate"`
	PPh21          decimal.Decimal `json:"pph21"`
	ErrorState     *string         `json:"error_state,omitempty"`
}

// MonthlyResult - the synchronizer's input row for one salary slip.
type MonthlyResult struct {
	Bulan          int             `json:"bulan"`
	SalarySlip     string          `json:"salary_slip"`
	Bruto          decimal.Decimal `json:"bruto"`
	PengurangNetto decimal.Decimal `json:"pengurang_netto"`
	BiayaJabatan   decimal.Decimal `json:"biaya_jabatan"`
	Netto          decimal.Decimal `json:"netto"`
	PKP            decimal.Decimal `json:"pkp"`
	Rate           decimal.Decimal `json:"rate"`
	PPh21          decimal.Decimal `json:"pph21"`
}

// Summary - December reconciliation figures pushed onto the parent ledger.
type Summary struct {
	BrutoTotal   decimal.Decimal `json:"bruto_total"`
	NettoTotal   decimal.Decimal `json:"netto_total"`
	PTKPAnnual   decimal.Decimal `json:"ptkp_annual"`
	PKPAnnual    decimal.Decimal `json:"pkp_annual"`
	PPh21Annual  decimal.Decimal `json:"pph21_annual"`
	KoreksiPPh21 decimal.Decimal `json:"koreksi_pph21"`
}

// EmployeeRef identifies the ledger owner. Callers may pass just a name;
// Normalize fills the rest from the slip when available.
type EmployeeRef struct {
	Name         string `json:"name"`
	EmployeeName string `json:"employee_name"`
	Company      string `json:"company"`
}
