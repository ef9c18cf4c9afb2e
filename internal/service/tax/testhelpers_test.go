package tax

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/dannyaudian/payroll-indonesia-go/internal/domain/tax"
	"github.com/dannyaudian/payroll-indonesia-go/internal/pkg/cache"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertDecimalEqual(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	expected, err := decimal.NewFromString(want)
	require.NoError(t, err)
	assert.True(t, expected.Equal(got), "expected %s, got %s", want, got.String())
}

type fakeSettingsRepo struct {
	ptkp        []tax.PTKPEntry
	brackets    []tax.TaxBracket
	ter         map[string][]tax.TERBracket
	terDefaults map[string]decimal.Decimal
	bpjs        *tax.BPJSSettings
	effects     map[string]tax.TaxEffect
}

func (f *fakeSettingsRepo) GetPTKPTable(context.Context) ([]tax.PTKPEntry, error) {
	return f.ptkp, nil
}

func (f *fakeSettingsRepo) GetTaxBrackets(context.Context) ([]tax.TaxBracket, error) {
	return f.brackets, nil
}

func (f *fakeSettingsRepo) GetTERBrackets(_ context.Context, category string) ([]tax.TERBracket, error) {
	return f.ter[category], nil
}

func (f *fakeSettingsRepo) GetTERDefaultRate(_ context.Context, category string) (decimal.Decimal, bool, error) {
	rate, ok := f.terDefaults[category]
	return rate, ok, nil
}

func (f *fakeSettingsRepo) GetBPJSSettings(context.Context) (*tax.BPJSSettings, error) {
	if f.bpjs == nil {
		return nil, tax.ErrSettingsNotFound
	}
	return f.bpjs, nil
}

func (f *fakeSettingsRepo) GetComponentTaxEffect(_ context.Context, component string, _ tax.ComponentType) (tax.TaxEffect, bool, error) {
	effect, ok := f.effects[component]
	return effect, ok, nil
}

type fakeEmployeeGateway struct {
	employees map[string]*tax.Employee
}

func (f *fakeEmployeeGateway) GetEmployee(_ context.Context, name string) (*tax.Employee, error) {
	employee, ok := f.employees[name]
	if !ok {
		return nil, tax.ErrEmployeeNotFound
	}
	return employee, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(settings *fakeSettingsRepo, employees *fakeEmployeeGateway) *Service {
	if settings.ter == nil {
		settings.ter = map[string][]tax.TERBracket{}
	}
	if settings.terDefaults == nil {
		settings.terDefaults = map[string]decimal.Decimal{}
	}
	if settings.effects == nil {
		settings.effects = map[string]tax.TaxEffect{}
	}
	if employees == nil {
		employees = &fakeEmployeeGateway{employees: map[string]*tax.Employee{}}
	}
	return NewService(settings, employees, cache.NewMemoryStore(), discardLogger())
}

func fullTimeEmployee(name, taxStatus string) *tax.Employee {
	return &tax.Employee{
		Name:           name,
		EmployeeName:   name,
		Company:        "PT Maju Jaya",
		TaxStatus:      taxStatus,
		EmploymentType: "Full-time",
	}
}

func taxableEarning(name string, amount int64) tax.ComponentRowRequest {
	return tax.ComponentRowRequest{
		SalaryComponent: name,
		Amount:          decimal.NewFromInt(amount),
		IsTaxApplicable: true,
	}
}

func incomeTaxDeduction(name string, amount int64) tax.ComponentRowRequest {
	return tax.ComponentRowRequest{
		SalaryComponent:      name,
		Amount:               decimal.NewFromInt(amount),
		IsIncomeTaxComponent: true,
	}
}
