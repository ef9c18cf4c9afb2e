package tax

import (
	"context"

	"github.com/shopspring/decimal"
)

// SettingsRepository loads tax configuration rows. Implementations back
// onto the tax_settings tables; the rate resolver layers a cache on top.
type SettingsRepository interface {
	GetPTKPTable(ctx context.Context) ([]PTKPEntry, error)
	GetTaxBrackets(ctx context.Context) ([]TaxBracket, error)
	GetTERBrackets(ctx context.Context, category string) ([]TERBracket, error)
	GetTERDefaultRate(ctx context.Context, category string) (decimal.Decimal, bool, error)
	GetBPJSSettings(ctx context.Context) (*BPJSSettings, error)
	// GetComponentTaxEffect returns the configured tax-effect tag for a
	// salary component. ok=false means the component is untagged.
	GetComponentTaxEffect(ctx context.Context, component string, componentType ComponentType) (TaxEffect, bool, error)
}

// EmployeeGateway resolves employee records from the host system.
type EmployeeGateway interface {
	GetEmployee(ctx context.Context, name string) (*Employee, error)
}
