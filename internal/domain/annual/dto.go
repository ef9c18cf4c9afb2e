package annual

import (
	"encoding/json"

	"github.com/dannyaudian/payroll-indonesia-go/internal/pkg/validator"
)

// ========== SYNC DTOs ==========

// SyncRequest mirrors the sync payload host systems post after submitting
// or cancelling a salary slip. Employee accepts either a bare name string
// or an object with name/company/employee_name.
type SyncRequest struct {
	Employee       json.RawMessage `json:"employee"`
	FiscalYear     int             `json:"fiscal_year"`
	MonthlyResults []MonthlyResult `json:"monthly_results"`
	Summary        *Summary        `json:"summary,omitempty"`
	ErrorState     json.RawMessage `json:"error_state,omitempty"`
	Cancelled      bool            `json:"cancelled"`
	CancelledSlip  string          `json:"cancelled_salary_slip,omitempty"`
}

// EmployeeRef decodes the employee field, accepting both shapes.
func (r *SyncRequest) EmployeeRef() (EmployeeRef, error) {
	var ref EmployeeRef
	if len(r.Employee) == 0 {
		return ref, ErrEmployeeRequired
	}
	var name string
	if err := json.Unmarshal(r.Employee, &name); err == nil {
		ref.Name = name
		ref.EmployeeName = name
		return ref, nil
	}
	if err := json.Unmarshal(r.Employee, &ref); err != nil {
		return ref, err
	}
	if ref.Name == "" {
		return ref, ErrEmployeeRequired
	}
	if ref.EmployeeName == "" {
		ref.EmployeeName = ref.Name
	}
	return ref, nil
}

func (r *SyncRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, err := r.EmployeeRef(); err != nil {
		errs = append(errs, validator.ValidationError{Field: "employee", Message: "is required"})
	}
	if r.FiscalYear < 2000 {
		errs = append(errs, validator.ValidationError{Field: "fiscal_year", Message: "must be 2000 or later"})
	}
	if r.Cancelled && r.CancelledSlip == "" {
		errs = append(errs, validator.ValidationError{Field: "cancelled_salary_slip", Message: "is required when cancelled"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CancelCascadeRequest struct {
	Employee   string `json:"employee"`
	FiscalYear int    `json:"fiscal_year"`
}

func (r *CancelCascadeRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Employee == "" {
		errs = append(errs, validator.ValidationError{Field: "employee", Message: "is required"})
	}
	if r.FiscalYear < 2000 {
		errs = append(errs, validator.ValidationError{Field: "fiscal_year", Message: "must be 2000 or later"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ========== RESPONSE DTOs ==========

type MonthlyDetailResponse struct {
	Bulan          int     `json:"bulan"`
	SalarySlip     string  `json:"salary_slip"`
	Bruto          string  `json:"bruto"`
	PengurangNetto string  `json:"pengurang_netto"`
	BiayaJabatan   string  `json:"biaya_jabatan"`
	Netto          string  `json:"netto"`
	PKP            string  `json:"pkp"`
	Rate           string  `json:"rate"`
	PPh21          string  `json:"pph21"`
	ErrorState     *string `json:"error_state,omitempty"`
}

type HistoryResponse struct {
	Employee            string                  `json:"employee"`
	Company             string                  `json:"company"`
	FiscalYear          int                     `json:"fiscal_year"`
	BrutoTotal          string                  `json:"bruto_total"`
	PengurangNettoTotal string                  `json:"pengurang_netto_total"`
	BiayaJabatanTotal   string                  `json:"biaya_jabatan_total"`
	NettoTotal          string                  `json:"netto_total"`
	PTKPAnnual          string                  `json:"ptkp_annual"`
	PKPAnnual           string                  `json:"pkp_annual"`
	PPh21Annual         string                  `json:"pph21_annual"`
	KoreksiPPh21        string                  `json:"koreksi_pph21"`
	ErrorState          *string                 `json:"error_state,omitempty"`
	Monthly             []MonthlyDetailResponse `json:"monthly"`
}
