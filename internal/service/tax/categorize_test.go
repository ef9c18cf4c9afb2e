package tax

import (
	"context"
	"testing"

	"github.com/dannyaudian/payroll-indonesia-go/internal/domain/tax"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===== CATEGORIZER TESTS =====

func TestTaxService_Categorize_AllBuckets(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	settings := &fakeSettingsRepo{
		effects: map[string]tax.TaxEffect{
			"Gaji Pokok":              tax.EffectPenambahBruto,
			"Tunjangan Makan":         tax.EffectPenambahBruto,
			"Fasilitas Mobil":         tax.EffectNaturaObjek,
			"BPJS JHT Employee":       tax.EffectPengurangNetto,
			"Tunjangan Direksi Asing": tax.EffectTidakBerpengaruh,
		},
	}
	service := newTestService(settings, nil)

	slip := slipFromRequest(tax.SalarySlipRequest{
		Name:      "SS-0001",
		Employee:  "EMP-0001",
		StartDate: "2025-03-01",
		Earnings: []tax.ComponentRowRequest{
			taxableEarning("Gaji Pokok", 10_000_000),
			taxableEarning("Tunjangan Makan", 1_000_000),
			taxableEarning("Fasilitas Mobil", 2_000_000),
			taxableEarning("Tunjangan Direksi Asing", 500_000),
			taxableEarning("Bonus Tak Terdaftar", 300_000),
		},
		Deductions: []tax.ComponentRowRequest{
			incomeTaxDeduction("BPJS JHT Employee", 200_000),
		},
	})

	// Act
	result := service.Categorize(ctx, slip)

	// Assert: every component lands in exactly one bucket
	assertDecimalEqual(t, "11000000", result.Total.PenambahBruto)
	assertDecimalEqual(t, "2000000", result.Total.NaturaObjek)
	assertDecimalEqual(t, "200000", result.Total.PengurangNetto)
	// Untagged components are neutral, not dropped.
	assertDecimalEqual(t, "800000", result.Total.TidakBerpengaruh)
	assertDecimalEqual(t, "300000", result.TidakBerpengaruh["Bonus Tak Terdaftar"])

	placed := result.Total.PenambahBruto.
		Add(result.Total.NaturaObjek).
		Add(result.Total.NaturaNonObjek).
		Add(result.Total.PengurangNetto).
		Add(result.Total.TidakBerpengaruh)
	assertDecimalEqual(t, "14000000", placed)
}

func TestTaxService_Categorize_NaturaNonObjek_CollapsesOutsideDecember(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	settings := &fakeSettingsRepo{
		effects: map[string]tax.TaxEffect{
			"Fasilitas Ibadah": tax.EffectNaturaNonObjek,
		},
	}
	service := newTestService(settings, nil)

	slip := slipFromRequest(tax.SalarySlipRequest{
		Employee:  "EMP-0001",
		StartDate: "2025-06-01",
		Earnings: []tax.ComponentRowRequest{
			taxableEarning("Fasilitas Ibadah", 750_000),
		},
	})

	// Act
	result := service.Categorize(ctx, slip)

	// Assert: outside December the non-objek tag folds into natura objek
	assert.True(t, result.Total.NaturaNonObjek.IsZero())
	assert.Empty(t, result.NaturaNonObjek)
	assertDecimalEqual(t, "750000", result.Total.NaturaObjek)
	assertDecimalEqual(t, "750000", result.NaturaObjek["Fasilitas Ibadah"])
}

func TestTaxService_Categorize_NaturaNonObjek_KeptInDecember(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	settings := &fakeSettingsRepo{
		effects: map[string]tax.TaxEffect{
			"Fasilitas Ibadah": tax.EffectNaturaNonObjek,
		},
	}
	service := newTestService(settings, nil)

	slip := slipFromRequest(tax.SalarySlipRequest{
		Employee:  "EMP-0001",
		StartDate: "2025-12-01",
		Earnings: []tax.ComponentRowRequest{
			taxableEarning("Fasilitas Ibadah", 750_000),
		},
	})

	// Act
	result := service.Categorize(ctx, slip)

	// Assert
	assertDecimalEqual(t, "750000", result.Total.NaturaNonObjek)
	assert.True(t, result.Total.NaturaObjek.IsZero())
}

func TestTaxService_Categorize_DecemberOverride(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	settings := &fakeSettingsRepo{
		effects: map[string]tax.TaxEffect{
			"Fasilitas Ibadah": tax.EffectNaturaNonObjek,
		},
	}
	service := newTestService(settings, nil)

	// A June slip flagged as the year-end run behaves like December.
	slip := slipFromRequest(tax.SalarySlipRequest{
		Employee:           "EMP-0001",
		StartDate:          "2025-06-01",
		IsDecemberOverride: true,
		Earnings: []tax.ComponentRowRequest{
			taxableEarning("Fasilitas Ibadah", 750_000),
		},
	})

	result := service.Categorize(ctx, slip)

	assertDecimalEqual(t, "750000", result.Total.NaturaNonObjek)
}

func TestTaxService_Categorize_RepeatedComponent_Accumulates(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	settings := &fakeSettingsRepo{
		effects: map[string]tax.TaxEffect{
			"Lembur": tax.EffectPenambahBruto,
		},
	}
	service := newTestService(settings, nil)

	slip := slipFromRequest(tax.SalarySlipRequest{
		Employee:  "EMP-0001",
		StartDate: "2025-03-01",
		Earnings: []tax.ComponentRowRequest{
			taxableEarning("Lembur", 100_000),
			taxableEarning("Lembur", 250_000),
		},
	})

	result := service.Categorize(ctx, slip)

	assertDecimalEqual(t, "350000", result.PenambahBruto["Lembur"])
	assertDecimalEqual(t, "350000", result.Total.PenambahBruto)
}

func TestTaxService_CategorizeSlip_Validation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	service := newTestService(&fakeSettingsRepo{}, nil)

	_, err := service.CategorizeSlip(ctx, &tax.CategorizeRequest{
		Slip: tax.SalarySlipRequest{
			Earnings: []tax.ComponentRowRequest{
				{SalaryComponent: "Gaji Pokok", Amount: decimal.NewFromInt(1)},
			},
		},
	})

	require.Error(t, err)
}
