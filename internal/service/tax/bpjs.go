package tax

import (
	"context"

	"github.com/dannyaudian/payroll-indonesia-go/internal/domain/tax"
	"github.com/shopspring/decimal"
)

// CalculateBPJS computes employee and employer social insurance
// contributions from a base salary. Kesehatan and JP contributions are
// assessed on a capped salary; amounts round to whole rupiah.
func (s *Service) CalculateBPJS(ctx context.Context, req *tax.BPJSRequest) (*tax.BPJSResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	settings := s.rates.BPJS(ctx)

	kesehatanBase := req.BaseSalary
	if settings.KesehatanMaxSalary.IsPositive() {
		kesehatanBase = decimal.Min(kesehatanBase, settings.KesehatanMaxSalary)
	}
	jpBase := req.BaseSalary
	if settings.JPMaxSalary.IsPositive() {
		jpBase = decimal.Min(jpBase, settings.JPMaxSalary)
	}

	contribution := func(base, percent decimal.Decimal) decimal.Decimal {
		return base.Mul(percent).Div(oneHundred).Round(0)
	}

	result := &tax.BPJSResult{
		KesehatanEmployee: contribution(kesehatanBase, settings.KesehatanEmployeePercent),
		KesehatanEmployer: contribution(kesehatanBase, settings.KesehatanEmployerPercent),
		JHTEmployee:       contribution(req.BaseSalary, settings.JHTEmployeePercent),
		JHTEmployer:       contribution(req.BaseSalary, settings.JHTEmployerPercent),
		JPEmployee:        contribution(jpBase, settings.JPEmployeePercent),
		JPEmployer:        contribution(jpBase, settings.JPEmployerPercent),
		JKK:               contribution(req.BaseSalary, settings.JKKPercent),
		JKM:               contribution(req.BaseSalary, settings.JKMPercent),
	}

	result.TotalEmployee = result.KesehatanEmployee.Add(result.JHTEmployee).Add(result.JPEmployee)
	result.TotalEmployer = result.KesehatanEmployer.
		Add(result.JHTEmployer).
		Add(result.JPEmployer).
		Add(result.JKK).
		Add(result.JKM)

	return result, nil
}
