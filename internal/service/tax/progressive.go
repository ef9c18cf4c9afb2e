package tax

import (
	"context"

	"github.com/dannyaudian/payroll-indonesia-go/internal/domain/tax"
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)
var oneThousand = decimal.NewFromInt(1000)

// floorToThousand rounds PKP down to the nearest thousand rupiah, the
// bracket convention for annual taxable income.
func floorToThousand(value decimal.Decimal) decimal.Decimal {
	return value.Div(oneThousand).Floor().Mul(oneThousand)
}

// applyProgressiveBrackets walks PKP through the cumulative bands and
// returns the annual tax with a per-band audit trail.
func applyProgressiveBrackets(pkp decimal.Decimal, brackets []tax.TaxBracket) (decimal.Decimal, []tax.BracketDetail) {
	if !pkp.IsPositive() {
		return decimal.Zero, nil
	}

	total := decimal.Zero
	var details []tax.BracketDetail
	remaining := pkp

	for _, bracket := range brackets {
		if !remaining.IsPositive() {
			break
		}

		rate := bracket.TaxRate.Div(oneHundred)

		// Open-ended top band, or PKP ends inside this band.
		if bracket.IncomeTo.IsZero() || bracket.IncomeTo.GreaterThan(remaining.Add(bracket.IncomeFrom)) {
			taxInBand := remaining.Mul(rate)
			total = total.Add(taxInBand)
			details = append(details, tax.BracketDetail{
				From:   bracket.IncomeFrom,
				To:     bracket.IncomeFrom.Add(remaining),
				Amount: remaining,
				Rate:   bracket.TaxRate,
				Tax:    taxInBand,
			})
			break
		}

		bandWidth := bracket.IncomeTo.Sub(bracket.IncomeFrom)
		if remaining.LessThanOrEqual(bandWidth) {
			taxInBand := remaining.Mul(rate)
			total = total.Add(taxInBand)
			details = append(details, tax.BracketDetail{
				From:   bracket.IncomeFrom,
				To:     bracket.IncomeFrom.Add(remaining),
				Amount: remaining,
				Rate:   bracket.TaxRate,
				Tax:    taxInBand,
			})
			break
		}

		taxInBand := bandWidth.Mul(rate)
		total = total.Add(taxInBand)
		details = append(details, tax.BracketDetail{
			From:   bracket.IncomeFrom,
			To:     bracket.IncomeTo,
			Amount: bandWidth,
			Rate:   bracket.TaxRate,
			Tax:    taxInBand,
		})
		remaining = remaining.Sub(bandWidth)
	}

	return total, details
}

// CalculateProgressive computes one month's withholding by annualizing the
// month's taxable gross. The x12 projection assumes constant monthly
// income; December reconciliation settles the difference.
func (s *Service) CalculateProgressive(ctx context.Context, req *tax.ProgressiveTaxRequest) (*tax.ProgressiveResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	slip := slipFromRequest(req.Slip)
	employee := s.resolveEmployee(ctx, slip.Employee)

	categorized := s.Categorize(ctx, slip)
	bruto := categorized.Total.PenambahBruto
	if bruto.IsZero() {
		// Slips from hosts without component tagging carry flags instead.
		bruto = sumBrutoEarnings(slip)
	}
	pengurangNetto := sumPengurangNetto(slip)

	annualTaxable := bruto.Mul(tax.MonthsPerYear)
	biayaJabatanAnnual := decimal.Min(
		annualTaxable.Mul(tax.BiayaJabatanPercent).Div(oneHundred),
		tax.BiayaJabatanMaxMonthly.Mul(tax.MonthsPerYear),
	)
	biayaJabatanMonthly := biayaJabatanAnnual.Div(tax.MonthsPerYear)

	netto := bruto.Sub(pengurangNetto).Sub(biayaJabatanMonthly)
	nettoAnnual := netto.Mul(tax.MonthsPerYear)

	ptkp := s.rates.PTKPAnnual(ctx, employee.TaxStatus)
	pkp := decimal.Max(decimal.Zero, nettoAnnual.Sub(ptkp))
	pkp = floorToThousand(pkp)

	annualTax, details := applyProgressiveBrackets(pkp, s.rates.TaxBrackets(ctx))
	monthlyTax := annualTax.Div(tax.MonthsPerYear).Round(2)

	return &tax.ProgressiveResult{
		TaxMethod:      "PROGRESSIVE",
		TaxStatus:      employee.TaxStatus,
		Bruto:          bruto,
		PengurangNetto: pengurangNetto,
		BiayaJabatan:   biayaJabatanMonthly,
		Netto:          netto,
		AnnualTaxable:  annualTaxable,
		PTKPAnnual:     ptkp,
		PKP:            pkp,
		AnnualTax:      annualTax,
		MonthlyTax:     monthlyTax,
		TaxDetails:     details,
	}, nil
}
