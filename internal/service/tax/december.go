package tax

import (
	"context"
	"strings"

	"github.com/dannyaudian/payroll-indonesia-go/internal/domain/tax"
	"github.com/shopspring/decimal"
)

var biayaJabatanMaxAnnual = decimal.NewFromInt(6_000_000)

// jpJhtEmployeeMonthly sums the pension-fund employee contributions that
// reduce the annualized netto in the December path.
func jpJhtEmployeeMonthly(slip tax.SalarySlip) decimal.Decimal {
	total := decimal.Zero
	for _, row := range slip.Deductions {
		name := strings.ToLower(strings.TrimSpace(row.SalaryComponent))
		if name == "bpjs jht employee" || name == "bpjs jp employee" {
			total = total.Add(row.Amount)
		}
	}
	return total
}

// CalculateDecember recomputes the full-year tax from the December slip
// and settles the difference against what was withheld January through
// November. KoreksiPPh21 may be negative; an over-withheld amount flows
// back to the employee as a refund and is never clamped to zero.
func (s *Service) CalculateDecember(ctx context.Context, req *tax.DecemberTaxRequest) (*tax.DecemberResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	slip := slipFromRequest(req.Slip)
	employee := s.resolveEmployee(ctx, slip.Employee)

	if employee.EmploymentType != "" && employee.EmploymentType != employmentFullTime {
		return &tax.DecemberResult{
			TaxMethod:             "DECEMBER",
			EmploymentTypeChecked: false,
		}, nil
	}

	brutoDecember := sumBrutoEarnings(slip)
	// The December-month pengurang is reported as-is; it is not
	// annualized, only the JHT/JP employee contributions are.
	pengurangDecember := sumPengurangNetto(slip)

	// Biaya jabatan from the slip is clamped back to the statutory
	// formula before annualizing.
	bjMonth := biayaJabatanFromComponent(slip)
	bjFormula := decimal.Min(
		brutoDecember.Mul(tax.BiayaJabatanPercent).Div(oneHundred),
		tax.BiayaJabatanMaxMonthly,
	)
	if bjMonth.IsZero() || bjMonth.GreaterThan(bjFormula) {
		bjMonth = bjFormula
	}
	bjAnnual := decimal.Min(bjMonth.Mul(tax.MonthsPerYear), biayaJabatanMaxAnnual)

	jpJhtMonth := jpJhtEmployeeMonthly(slip)
	jpJhtAnnual := jpJhtMonth.Mul(tax.MonthsPerYear)

	brutoAnnual := brutoDecember.Mul(tax.MonthsPerYear)
	nettoAnnual := brutoAnnual.Sub(bjAnnual).Sub(jpJhtAnnual)

	ptkp := s.rates.PTKPAnnual(ctx, employee.TaxStatus)
	pkpAnnual := floorToThousand(decimal.Max(decimal.Zero, nettoAnnual.Sub(ptkp)))

	annualTax, details := applyProgressiveBrackets(pkpAnnual, s.rates.TaxBrackets(ctx))
	annualTax = annualTax.Round(0)

	koreksi := annualTax.Sub(req.YTDTaxPaid)

	return &tax.DecemberResult{
		TaxMethod:             "DECEMBER",
		BrutoTotal:            brutoAnnual,
		PengurangNettoTotal:   jpJhtAnnual,
		PengurangNettoBulan:   pengurangDecember,
		BiayaJabatanTotal:     bjAnnual,
		NettoTotal:            nettoAnnual,
		PTKPAnnual:            ptkp,
		PKPAnnual:             pkpAnnual,
		PPh21Annual:           annualTax,
		YTDTaxPaid:            req.YTDTaxPaid,
		KoreksiPPh21:          koreksi,
		PPh21Bulan:            koreksi,
		TaxDetails:            details,
		EmploymentTypeChecked: true,
	}, nil
}

// pph21PaidInSlip reads the withheld tax off a regular month's slip from
// its PPh 21 deduction row.
func pph21PaidInSlip(slip tax.SalarySlip) decimal.Decimal {
	for _, row := range slip.Deductions {
		name := strings.ToLower(strings.TrimSpace(row.SalaryComponent))
		if name == "pph 21" || name == "pph21" || name == "pph-21" {
			return row.Amount
		}
	}
	return decimal.Zero
}

// CalculateDecemberFromSlips runs the year-end reconciliation straight
// off the year's slips: January-November slips supply the withheld total,
// December slips supply the annualization base.
func (s *Service) CalculateDecemberFromSlips(ctx context.Context, req *tax.DecemberFromSlipsRequest) (*tax.DecemberResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	employee := s.resolveEmployee(ctx, req.Employee)
	if employee.EmploymentType != "" && employee.EmploymentType != employmentFullTime {
		return &tax.DecemberResult{
			TaxMethod:             "DECEMBER",
			EmploymentTypeChecked: false,
		}, nil
	}

	brutoDecember := decimal.Zero
	pengurangDecember := decimal.Zero
	jpJhtMonth := decimal.Zero
	ytdTaxPaid := decimal.Zero
	haveDecember := false

	for _, slipReq := range req.Slips {
		slip := slipFromRequest(slipReq)
		if slip.Month() == 12 || slip.IsDecemberOverride {
			brutoDecember = brutoDecember.Add(sumBrutoEarnings(slip))
			pengurangDecember = pengurangDecember.Add(sumPengurangNetto(slip))
			jpJhtMonth = jpJhtMonth.Add(jpJhtEmployeeMonthly(slip))
			haveDecember = true
			continue
		}
		ytdTaxPaid = ytdTaxPaid.Add(pph21PaidInSlip(slip))
	}
	if !haveDecember {
		s.logger.Warn("no december slip in reconciliation set", "employee", req.Employee)
	}

	bjMonth := decimal.Min(
		brutoDecember.Mul(tax.BiayaJabatanPercent).Div(oneHundred),
		tax.BiayaJabatanMaxMonthly,
	)
	bjAnnual := decimal.Min(bjMonth.Mul(tax.MonthsPerYear), biayaJabatanMaxAnnual)

	brutoAnnual := brutoDecember.Mul(tax.MonthsPerYear)
	jpJhtAnnual := jpJhtMonth.Mul(tax.MonthsPerYear)
	nettoAnnual := brutoAnnual.Sub(bjAnnual).Sub(jpJhtAnnual)

	ptkp := s.rates.PTKPAnnual(ctx, employee.TaxStatus)
	pkpAnnual := floorToThousand(decimal.Max(decimal.Zero, nettoAnnual.Sub(ptkp)))

	annualTax, details := applyProgressiveBrackets(pkpAnnual, s.rates.TaxBrackets(ctx))
	annualTax = annualTax.Round(0)

	koreksi := annualTax.Sub(ytdTaxPaid)

	return &tax.DecemberResult{
		TaxMethod:             "DECEMBER",
		BrutoTotal:            brutoAnnual,
		PengurangNettoTotal:   jpJhtAnnual,
		PengurangNettoBulan:   pengurangDecember,
		BiayaJabatanTotal:     bjAnnual,
		NettoTotal:            nettoAnnual,
		PTKPAnnual:            ptkp,
		PKPAnnual:             pkpAnnual,
		PPh21Annual:           annualTax,
		YTDTaxPaid:            ytdTaxPaid,
		KoreksiPPh21:          koreksi,
		PPh21Bulan:            koreksi,
		TaxDetails:            details,
		EmploymentTypeChecked: true,
	}, nil
}
