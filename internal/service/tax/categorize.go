package tax

import (
	"context"

	"github.com/dannyaudian/payroll-indonesia-go/internal/domain/tax"
	"github.com/shopspring/decimal"
)

// componentTaxEffect resolves the configured tag for a component, caching
// per name+type. Untagged components read as neutral.
func (s *Service) componentTaxEffect(ctx context.Context, component string, componentType tax.ComponentType) tax.TaxEffect {
	cacheKey := "tax:effect:" + string(componentType) + ":" + component
	if cached, ok := s.cache.Get(ctx, cacheKey); ok {
		return tax.TaxEffect(cached)
	}

	effect, ok, err := s.settingsRepo.GetComponentTaxEffect(ctx, component, componentType)
	if err != nil {
		s.logger.Warn("failed to look up component tax effect", "component", component, "error", err)
		return tax.EffectTidakBerpengaruh
	}
	if !ok {
		effect = tax.EffectTidakBerpengaruh
	}

	s.cache.Set(ctx, cacheKey, string(effect), ratesCacheTTL)
	return effect
}

// Categorize groups a slip's earnings and deductions into tax-effect
// buckets. Outside December the natura non-objek tag collapses into the
// natura objek bucket; December keeps the two apart for the annual return.
func (s *Service) Categorize(ctx context.Context, slip tax.SalarySlip) tax.CategorizedComponents {
	isDecember := slip.IsDecemberOverride || slip.Month() == 12

	result := tax.CategorizedComponents{
		PenambahBruto:    make(map[string]decimal.Decimal),
		NaturaObjek:      make(map[string]decimal.Decimal),
		NaturaNonObjek:   make(map[string]decimal.Decimal),
		PengurangNetto:   make(map[string]decimal.Decimal),
		TidakBerpengaruh: make(map[string]decimal.Decimal),
	}

	place := func(row tax.ComponentRow, componentType tax.ComponentType) {
		effect := s.componentTaxEffect(ctx, row.SalaryComponent, componentType)

		switch effect {
		case tax.EffectPenambahBruto:
			result.PenambahBruto[row.SalaryComponent] = result.PenambahBruto[row.SalaryComponent].Add(row.Amount)
			result.Total.PenambahBruto = result.Total.PenambahBruto.Add(row.Amount)
		case tax.EffectNaturaObjek:
			result.NaturaObjek[row.SalaryComponent] = result.NaturaObjek[row.SalaryComponent].Add(row.Amount)
			result.Total.NaturaObjek = result.Total.NaturaObjek.Add(row.Amount)
		case tax.EffectNaturaNonObjek:
			if isDecember {
				result.NaturaNonObjek[row.SalaryComponent] = result.NaturaNonObjek[row.SalaryComponent].Add(row.Amount)
				result.Total.NaturaNonObjek = result.Total.NaturaNonObjek.Add(row.Amount)
			} else {
				result.NaturaObjek[row.SalaryComponent] = result.NaturaObjek[row.SalaryComponent].Add(row.Amount)
				result.Total.NaturaObjek = result.Total.NaturaObjek.Add(row.Amount)
			}
		case tax.EffectPengurangNetto:
			result.PengurangNetto[row.SalaryComponent] = result.PengurangNetto[row.SalaryComponent].Add(row.Amount)
			result.Total.PengurangNetto = result.Total.PengurangNetto.Add(row.Amount)
		default:
			result.TidakBerpengaruh[row.SalaryComponent] = result.TidakBerpengaruh[row.SalaryComponent].Add(row.Amount)
			result.Total.TidakBerpengaruh = result.Total.TidakBerpengaruh.Add(row.Amount)
		}
	}

	for _, row := range slip.Earnings {
		place(row, tax.ComponentEarning)
	}
	for _, row := range slip.Deductions {
		place(row, tax.ComponentDeduction)
	}

	return result
}
