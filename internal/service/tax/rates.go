package tax

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/dannyaudian/payroll-indonesia-go/internal/domain/tax"
	"github.com/dannyaudian/payroll-indonesia-go/internal/pkg/cache"
	"github.com/shopspring/decimal"
)

const ratesCacheTTL = time.Hour

// Statutory fallbacks used when the settings tables have no matching row.
// A lookup miss degrades to these values with a warning instead of
// aborting the payroll run.
var defaultPTKP = map[string]int64{
	"TK0": 54_000_000,
	"TK1": 58_500_000,
	"TK2": 63_000_000,
	"TK3": 67_500_000,
	"K0":  58_500_000,
	"K1":  63_000_000,
	"K2":  67_500_000,
	"K3":  72_000_000,
	"HB0": 112_500_000,
	"HB1": 117_000_000,
	"HB2": 121_500_000,
	"HB3": 126_000_000,
}

// Progressive bands per UU HPP, in effect since 2022. IncomeTo zero marks
// the open-ended top band.
func defaultTaxBrackets() []tax.TaxBracket {
	return []tax.TaxBracket{
		{IncomeFrom: decimal.Zero, IncomeTo: decimal.NewFromInt(60_000_000), TaxRate: decimal.NewFromInt(5)},
		{IncomeFrom: decimal.NewFromInt(60_000_000), IncomeTo: decimal.NewFromInt(250_000_000), TaxRate: decimal.NewFromInt(15)},
		{IncomeFrom: decimal.NewFromInt(250_000_000), IncomeTo: decimal.NewFromInt(500_000_000), TaxRate: decimal.NewFromInt(25)},
		{IncomeFrom: decimal.NewFromInt(500_000_000), IncomeTo: decimal.NewFromInt(5_000_000_000), TaxRate: decimal.NewFromInt(30)},
		{IncomeFrom: decimal.NewFromInt(5_000_000_000), IncomeTo: decimal.Zero, TaxRate: decimal.NewFromInt(35)},
	}
}

var defaultTERRates = map[string]decimal.Decimal{
	tax.TERCategoryA: decimal.NewFromFloat(0.05),
	tax.TERCategoryB: decimal.NewFromFloat(0.10),
	tax.TERCategoryC: decimal.NewFromFloat(0.15),
}

// Rates resolves tax configuration with a read-through cache in front of
// the settings repository. Every resolver degrades to a statutory default
// on a miss or repository error rather than failing the calculation.
type Rates struct {
	repo   tax.SettingsRepository
	cache  cache.Store
	logger *slog.Logger
}

func NewRates(repo tax.SettingsRepository, store cache.Store, logger *slog.Logger) *Rates {
	return &Rates{repo: repo, cache: store, logger: logger}
}

// PTKPAnnual returns the annual non-taxable income threshold for a PTKP
// status code. Unknown codes fall back to TK0.
func (r *Rates) PTKPAnnual(ctx context.Context, taxStatus string) decimal.Decimal {
	status := strings.ToUpper(strings.TrimSpace(taxStatus))
	if status == "" {
		r.logger.Warn("empty tax status, using TK0")
		status = "TK0"
	}

	cacheKey := "tax:ptkp:" + status
	if cached, ok := r.cache.Get(ctx, cacheKey); ok {
		if value, err := decimal.NewFromString(cached); err == nil {
			return value
		}
	}

	entries, err := r.repo.GetPTKPTable(ctx)
	if err != nil {
		r.logger.Warn("failed to load ptkp table, using defaults", "error", err)
	}
	for _, entry := range entries {
		if strings.EqualFold(entry.TaxStatus, status) {
			r.cache.Set(ctx, cacheKey, entry.PTKPAmount.String(), ratesCacheTTL)
			return entry.PTKPAmount
		}
	}

	amount, ok := defaultPTKP[status]
	if !ok {
		r.logger.Warn("unknown tax status, using TK0", "tax_status", status)
		amount = defaultPTKP["TK0"]
	}

	value := decimal.NewFromInt(amount)
	r.cache.Set(ctx, cacheKey, value.String(), ratesCacheTTL)
	return value
}

// TaxBrackets returns the progressive bands sorted by lower bound. The
// settings table wins when present; the statutory bands are the fallback.
func (r *Rates) TaxBrackets(ctx context.Context) []tax.TaxBracket {
	cacheKey := "tax:brackets"
	if cached, ok := r.cache.Get(ctx, cacheKey); ok {
		var brackets []tax.TaxBracket
		if err := json.Unmarshal([]byte(cached), &brackets); err == nil && len(brackets) > 0 {
			return brackets
		}
	}

	brackets, err := r.repo.GetTaxBrackets(ctx)
	if err != nil {
		r.logger.Warn("failed to load tax brackets, using defaults", "error", err)
		return defaultTaxBrackets()
	}
	if len(brackets) == 0 {
		return defaultTaxBrackets()
	}

	sort.Slice(brackets, func(i, j int) bool {
		return brackets[i].IncomeFrom.LessThan(brackets[j].IncomeFrom)
	})

	if encoded, err := json.Marshal(brackets); err == nil {
		r.cache.Set(ctx, cacheKey, string(encoded), ratesCacheTTL)
	}
	return brackets
}

// TERCategory maps a PTKP status code onto its TER withholding category
// per PMK 168/2023. Unknown codes map to the highest category.
func (r *Rates) TERCategory(taxStatus string) string {
	status := strings.ToUpper(strings.TrimSpace(taxStatus))

	switch {
	case status == "TK0":
		return tax.TERCategoryA
	case status == "TK1" || status == "TK2" || status == "TK3":
		return tax.TERCategoryB
	case status == "K0":
		return tax.TERCategoryB
	case status == "K1" || status == "K2" || status == "K3":
		return tax.TERCategoryC
	case strings.HasPrefix(status, "HB"):
		return tax.TERCategoryC
	default:
		r.logger.Warn("unknown ptkp code, defaulting to TER C", "tax_status", taxStatus)
		return tax.TERCategoryC
	}
}

// TERRate resolves the effective withholding fraction for a category and
// monthly income. Bracket rates stored in percentage form (>1) are
// normalized by dividing by 100; fractional rates pass through unchanged.
func (r *Rates) TERRate(ctx context.Context, category string, monthlyIncome decimal.Decimal) decimal.Decimal {
	category = strings.ToUpper(strings.TrimSpace(category))

	cacheKey := "tax:ter_rate:" + category + ":" + monthlyIncome.Truncate(0).String()
	if cached, ok := r.cache.Get(ctx, cacheKey); ok {
		if rate, err := decimal.NewFromString(cached); err == nil {
			return rate
		}
	}

	brackets, err := r.repo.GetTERBrackets(ctx, category)
	if err != nil {
		r.logger.Warn("failed to load ter brackets", "category", category, "error", err)
	}

	sort.Slice(brackets, func(i, j int) bool {
		return brackets[i].IncomeFrom.LessThan(brackets[j].IncomeFrom)
	})

	for _, bracket := range brackets {
		if monthlyIncome.LessThan(bracket.IncomeFrom) {
			continue
		}
		if bracket.IsHighestBracket || bracket.IncomeTo.IsZero() || monthlyIncome.LessThan(bracket.IncomeTo) {
			rate := normalizeTERRate(bracket.Rate)
			r.cache.Set(ctx, cacheKey, rate.String(), ratesCacheTTL)
			return rate
		}
	}

	if rate, ok, err := r.repo.GetTERDefaultRate(ctx, category); err == nil && ok {
		rate = normalizeTERRate(rate)
		r.cache.Set(ctx, cacheKey, rate.String(), ratesCacheTTL)
		return rate
	}

	rate, ok := defaultTERRates[category]
	if !ok {
		rate = defaultTERRates[tax.TERCategoryC]
	}
	r.logger.Warn("no matching ter bracket, using default rate",
		"category", category,
		"income", monthlyIncome.String(),
		"rate", rate.String(),
	)
	r.cache.Set(ctx, cacheKey, rate.String(), ratesCacheTTL)
	return rate
}

// BPJS returns contribution settings, falling back to the statutory rates.
func (r *Rates) BPJS(ctx context.Context) tax.BPJSSettings {
	settings, err := r.repo.GetBPJSSettings(ctx)
	if err != nil || settings == nil {
		if err != nil {
			r.logger.Warn("failed to load bpjs settings, using defaults", "error", err)
		}
		return tax.DefaultBPJSSettings()
	}
	return *settings
}

func normalizeTERRate(rate decimal.Decimal) decimal.Decimal {
	if rate.GreaterThan(decimal.NewFromInt(1)) {
		return rate.Div(decimal.NewFromInt(100))
	}
	return rate
}
