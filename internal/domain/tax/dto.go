package tax

import (
	"github.com/dannyaudian/payroll-indonesia-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== CALCULATION DTOs ==========

type ComponentRowRequest struct {
	SalaryComponent       string          `json:"salary_component"`
	Amount                decimal.Decimal `json:"amount"`
	IsTaxApplicable       bool            `json:"is_tax_applicable"`
	IsIncomeTaxComponent  bool            `json:"is_income_tax_component"`
	DoNotIncludeInTotal   bool            `json:"do_not_include_in_total"`
	StatisticalComponent  bool            `json:"statistical_component"`
	ExemptedFromIncomeTax bool            `json:"exempted_from_income_tax"`
}

type SalarySlipRequest struct {
	Name               string                `json:"name"`
	Employee           string                `json:"employee"`
	Company            string                `json:"company"`
	StartDate          string                `json:"start_date"`   // YYYY-MM-DD
	PostingDate        string                `json:"posting_date"` // YYYY-MM-DD
	TaxMethod          string                `json:"tax_method,omitempty"`
	IsDecemberOverride bool                  `json:"is_december_override"`
	Earnings           []ComponentRowRequest `json:"earnings"`
	Deductions         []ComponentRowRequest `json:"deductions"`
}

func (r *SalarySlipRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Employee == "" {
		errs = append(errs, validator.ValidationError{Field: "employee", Message: "is required"})
	}
	if r.StartDate == "" && r.PostingDate == "" {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "start_date or posting_date is required"})
	}
	if r.TaxMethod != "" && r.TaxMethod != string(MethodProgressive) && r.TaxMethod != string(MethodTER) {
		errs = append(errs, validator.ValidationError{Field: "tax_method", Message: "must be 'Progressive' or 'TER'"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CategorizeRequest struct {
	Slip SalarySlipRequest `json:"slip"`
}

func (r *CategorizeRequest) Validate() error {
	return r.Slip.Validate()
}

type ProgressiveTaxRequest struct {
	Slip SalarySlipRequest `json:"slip"`
}

func (r *ProgressiveTaxRequest) Validate() error {
	return r.Slip.Validate()
}

type TERTaxRequest struct {
	Slip SalarySlipRequest `json:"slip"`
}

func (r *TERTaxRequest) Validate() error {
	return r.Slip.Validate()
}

type DecemberTaxRequest struct {
	Slip       SalarySlipRequest `json:"slip"`
	YTDBruto   decimal.Decimal   `json:"ytd_bruto"`
	YTDNetto   decimal.Decimal   `json:"ytd_netto"`
	YTDTaxPaid decimal.Decimal   `json:"ytd_tax_paid"`
}

func (r *DecemberTaxRequest) Validate() error {
	var errs validator.ValidationErrors

	if err := r.Slip.Validate(); err != nil {
		if ve, ok := err.(validator.ValidationErrors); ok {
			errs = append(errs, ve...)
		} else {
			return err
		}
	}
	if r.YTDBruto.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "ytd_bruto", Message: "must be non-negative"})
	}
	if r.YTDNetto.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "ytd_netto", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type DecemberFromSlipsRequest struct {
	Employee string              `json:"employee"`
	Company  string              `json:"company"`
	Slips    []SalarySlipRequest `json:"slips"`
}

func (r *DecemberFromSlipsRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Employee == "" {
		errs = append(errs, validator.ValidationError{Field: "employee", Message: "is required"})
	}
	if len(r.Slips) == 0 {
		errs = append(errs, validator.ValidationError{Field: "slips", Message: "at least one slip is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type BPJSRequest struct {
	BaseSalary decimal.Decimal `json:"base_salary"`
}

func (r *BPJSRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.BaseSalary.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "base_salary", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
