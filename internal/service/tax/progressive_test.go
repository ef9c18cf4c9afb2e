package tax

import (
	"context"
	"testing"

	"github.com/dannyaudian/payroll-indonesia-go/internal/domain/tax"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===== PROGRESSIVE CALCULATOR TESTS =====

func TestTaxService_CalculateProgressive_TK0_FirstBracket(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	employees := &fakeEmployeeGateway{employees: map[string]*tax.Employee{
		"EMP-0001": fullTimeEmployee("EMP-0001", "TK0"),
	}}
	service := newTestService(&fakeSettingsRepo{}, employees)

	req := &tax.ProgressiveTaxRequest{Slip: tax.SalarySlipRequest{
		Employee:  "EMP-0001",
		StartDate: "2025-03-01",
		Earnings: []tax.ComponentRowRequest{
			taxableEarning("Gaji Pokok", 10_000_000),
		},
	}}

	// Act
	result, err := service.CalculateProgressive(ctx, req)

	// Assert: 10M/month annualized = 120M, biaya jabatan 6M, netto 114M,
	// PKP = 114M - 54M PTKP = 60M, tax 5% = 3M/year = 250k/month.
	require.NoError(t, err)
	assertDecimalEqual(t, "10000000", result.Bruto)
	assertDecimalEqual(t, "500000", result.BiayaJabatan)
	assertDecimalEqual(t, "9500000", result.Netto)
	assertDecimalEqual(t, "54000000", result.PTKPAnnual)
	assertDecimalEqual(t, "60000000", result.PKP)
	assertDecimalEqual(t, "3000000", result.AnnualTax)
	assertDecimalEqual(t, "250000", result.MonthlyTax)
	require.Len(t, result.TaxDetails, 1)
	assertDecimalEqual(t, "5", result.TaxDetails[0].Rate)
}

func TestTaxService_CalculateProgressive_BiayaJabatanCapped(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	employees := &fakeEmployeeGateway{employees: map[string]*tax.Employee{
		"EMP-0002": fullTimeEmployee("EMP-0002", "TK0"),
	}}
	service := newTestService(&fakeSettingsRepo{}, employees)

	req := &tax.ProgressiveTaxRequest{Slip: tax.SalarySlipRequest{
		Employee:  "EMP-0002",
		StartDate: "2025-03-01",
		Earnings: []tax.ComponentRowRequest{
			taxableEarning("Gaji Pokok", 30_000_000),
		},
	}}

	// Act
	result, err := service.CalculateProgressive(ctx, req)

	// Assert: 5% of 360M is 18M, but biaya jabatan caps at 500k/month.
	// PKP = 354M - 54M = 300M; brackets: 3M + 28.5M + 12.5M = 44M/year.
	require.NoError(t, err)
	assertDecimalEqual(t, "500000", result.BiayaJabatan)
	assertDecimalEqual(t, "300000000", result.PKP)
	assertDecimalEqual(t, "44000000", result.AnnualTax)
	assertDecimalEqual(t, "3666666.67", result.MonthlyTax)
	require.Len(t, result.TaxDetails, 3)
}

func TestTaxService_CalculateProgressive_BelowPTKP_ZeroTax(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	employees := &fakeEmployeeGateway{employees: map[string]*tax.Employee{
		"EMP-0003": fullTimeEmployee("EMP-0003", "K3"),
	}}
	service := newTestService(&fakeSettingsRepo{}, employees)

	req := &tax.ProgressiveTaxRequest{Slip: tax.SalarySlipRequest{
		Employee:  "EMP-0003",
		StartDate: "2025-03-01",
		Earnings: []tax.ComponentRowRequest{
			taxableEarning("Gaji Pokok", 4_000_000),
		},
	}}

	result, err := service.CalculateProgressive(ctx, req)

	require.NoError(t, err)
	assert.True(t, result.PKP.IsZero())
	assert.True(t, result.AnnualTax.IsZero())
	assert.True(t, result.MonthlyTax.IsZero())
	assert.Empty(t, result.TaxDetails)
}

func TestTaxService_CalculateProgressive_PKPFlooredToThousand(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	employees := &fakeEmployeeGateway{employees: map[string]*tax.Employee{
		"EMP-0004": fullTimeEmployee("EMP-0004", "TK0"),
	}}
	service := newTestService(&fakeSettingsRepo{}, employees)

	// 10,000,123/month: netto annual = 120,001,476 - 6,000,073.80... is
	// messy on purpose; the floored PKP must end in 000.
	req := &tax.ProgressiveTaxRequest{Slip: tax.SalarySlipRequest{
		Employee:  "EMP-0004",
		StartDate: "2025-03-01",
		Earnings: []tax.ComponentRowRequest{
			taxableEarning("Gaji Pokok", 10_000_123),
		},
	}}

	result, err := service.CalculateProgressive(ctx, req)

	require.NoError(t, err)
	assert.True(t, result.PKP.Mod(decimal.NewFromInt(1000)).IsZero(),
		"PKP %s not floored to thousand", result.PKP.String())
}

func TestTaxService_CalculateProgressive_UnknownEmployee_DefaultsTK0(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	service := newTestService(&fakeSettingsRepo{}, nil)

	req := &tax.ProgressiveTaxRequest{Slip: tax.SalarySlipRequest{
		Employee:  "EMP-MISSING",
		StartDate: "2025-03-01",
		Earnings: []tax.ComponentRowRequest{
			taxableEarning("Gaji Pokok", 10_000_000),
		},
	}}

	result, err := service.CalculateProgressive(ctx, req)

	require.NoError(t, err)
	assert.Equal(t, "TK0", result.TaxStatus)
	assertDecimalEqual(t, "54000000", result.PTKPAnnual)
}

func TestTaxService_CalculateProgressive_PengurangNettoReducesTax(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	employees := &fakeEmployeeGateway{employees: map[string]*tax.Employee{
		"EMP-0005": fullTimeEmployee("EMP-0005", "TK0"),
	}}
	service := newTestService(&fakeSettingsRepo{}, employees)

	req := &tax.ProgressiveTaxRequest{Slip: tax.SalarySlipRequest{
		Employee:  "EMP-0005",
		StartDate: "2025-03-01",
		Earnings: []tax.ComponentRowRequest{
			taxableEarning("Gaji Pokok", 10_000_000),
		},
		Deductions: []tax.ComponentRowRequest{
			incomeTaxDeduction("BPJS JHT Employee", 200_000),
			incomeTaxDeduction("BPJS JP Employee", 100_000),
		},
	}}

	result, err := service.CalculateProgressive(ctx, req)

	// netto = 10M - 300k - 500k = 9.2M; annual 110.4M - 54M = 56.4M PKP;
	// 5% = 2.82M/year = 235k/month.
	require.NoError(t, err)
	assertDecimalEqual(t, "300000", result.PengurangNetto)
	assertDecimalEqual(t, "56400000", result.PKP)
	assertDecimalEqual(t, "235000", result.MonthlyTax)
}
