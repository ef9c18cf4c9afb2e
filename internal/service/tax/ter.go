package tax

import (
	"context"

	"github.com/dannyaudian/payroll-indonesia-go/internal/domain/tax"
	"github.com/shopspring/decimal"
)

const employmentFullTime = "Full-time"

// CalculateTER computes one month's withholding with the TER method: a
// flat rate looked up by (category, monthly bruto) applied to bruto.
// PKP and netto are carried in the result for audit only.
func (s *Service) CalculateTER(ctx context.Context, req *tax.TERTaxRequest) (*tax.TERResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	slip := slipFromRequest(req.Slip)
	employee := s.resolveEmployee(ctx, slip.Employee)

	// TER withholding applies to permanent employees only.
	if employee.EmploymentType != "" && employee.EmploymentType != employmentFullTime {
		return &tax.TERResult{
			TaxMethod:             "TER",
			EmploymentTypeChecked: false,
		}, nil
	}

	bruto := sumBrutoEarnings(slip)
	pengurangNetto := sumPengurangNetto(slip)

	biayaJabatan := biayaJabatanFromComponent(slip)
	if biayaJabatan.IsZero() {
		biayaJabatan = decimal.Min(
			bruto.Mul(tax.BiayaJabatanPercent).Div(oneHundred),
			tax.BiayaJabatanMaxMonthly,
		)
	}

	netto := bruto.Sub(biayaJabatan).Sub(pengurangNetto)
	ptkpMonthly := s.rates.PTKPAnnual(ctx, employee.TaxStatus).Div(tax.MonthsPerYear)
	pkp := decimal.Max(decimal.Zero, netto.Sub(ptkpMonthly))

	category := s.rates.TERCategory(employee.TaxStatus)
	rate := s.rates.TERRate(ctx, category, bruto)
	pph21 := bruto.Mul(rate).Round(0)

	return &tax.TERResult{
		TaxMethod:             "TER",
		TERCategory:           category,
		PTKP:                  ptkpMonthly,
		Bruto:                 bruto,
		PengurangNetto:        pengurangNetto,
		BiayaJabatan:          biayaJabatan,
		Netto:                 netto,
		PKP:                   pkp,
		Rate:                  rate,
		PPh21:                 pph21,
		EmploymentTypeChecked: true,
	}, nil
}
