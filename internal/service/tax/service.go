package tax

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/dannyaudian/payroll-indonesia-go/internal/domain/tax"
	"github.com/dannyaudian/payroll-indonesia-go/internal/pkg/cache"
	"github.com/shopspring/decimal"
)

const biayaJabatanComponent = "biaya jabatan"

// Deduction components that reduce taxable netto by name, for slips whose
// rows carry no income-tax flag.
var pengurangNettoNames = map[string]struct{}{
	"bpjs kesehatan employee": {},
	"bpjs jht employee":       {},
	"bpjs jp employee":        {},
	"iuran pensiun":           {},
	"dana pensiun":            {},
}

// Service computes PPh 21 withholding. All monetary math is decimal;
// conversion to float happens only at the JSON boundary.
type Service struct {
	settingsRepo tax.SettingsRepository
	employees    tax.EmployeeGateway
	rates        *Rates
	cache        cache.Store
	logger       *slog.Logger
}

func NewService(
	settingsRepo tax.SettingsRepository,
	employees tax.EmployeeGateway,
	store cache.Store,
	logger *slog.Logger,
) *Service {
	return &Service{
		settingsRepo: settingsRepo,
		employees:    employees,
		rates:        NewRates(settingsRepo, store, logger),
		cache:        store,
		logger:       logger,
	}
}

// Rates exposes the underlying configuration resolvers.
func (s *Service) Rates() *Rates {
	return s.rates
}

// resolveEmployee loads the employee record; a missing record degrades to
// TK0 so the payroll run is not blocked.
func (s *Service) resolveEmployee(ctx context.Context, name string) tax.Employee {
	employee, err := s.employees.GetEmployee(ctx, name)
	if err != nil || employee == nil {
		s.logger.Warn("employee not found, using default tax status", "employee", name, "error", err)
		return tax.Employee{Name: name, EmployeeName: name, TaxStatus: "TK0"}
	}
	if employee.TaxStatus == "" {
		s.logger.Warn("employee has no tax status, using TK0", "employee", name)
		employee.TaxStatus = "TK0"
	}
	return *employee
}

// sumBrutoEarnings totals earning rows that feed the gross taxable base.
func sumBrutoEarnings(slip tax.SalarySlip) decimal.Decimal {
	total := decimal.Zero
	for _, row := range slip.Earnings {
		if !row.IsTaxApplicable && !row.IsIncomeTaxComponent {
			continue
		}
		if row.DoNotIncludeInTotal || row.StatisticalComponent || row.ExemptedFromIncomeTax {
			continue
		}
		total = total.Add(row.Amount)
	}
	return total
}

// sumPengurangNetto totals deduction rows that reduce taxable netto,
// excluding the biaya jabatan row which is handled separately.
func sumPengurangNetto(slip tax.SalarySlip) decimal.Decimal {
	total := decimal.Zero
	for _, row := range slip.Deductions {
		name := strings.ToLower(strings.TrimSpace(row.SalaryComponent))
		if strings.Contains(name, biayaJabatanComponent) {
			continue
		}
		if row.DoNotIncludeInTotal || row.StatisticalComponent {
			continue
		}
		_, known := pengurangNettoNames[name]
		if !row.IsIncomeTaxComponent && !known {
			continue
		}
		total = total.Add(row.Amount)
	}
	return total
}

// biayaJabatanFromComponent returns the explicit biaya jabatan deduction
// row when the slip carries one, zero otherwise.
func biayaJabatanFromComponent(slip tax.SalarySlip) decimal.Decimal {
	for _, row := range slip.Deductions {
		if strings.Contains(strings.ToLower(row.SalaryComponent), biayaJabatanComponent) {
			return row.Amount
		}
	}
	return decimal.Zero
}

// slipFromRequest converts the transport DTO into the domain slip.
func slipFromRequest(req tax.SalarySlipRequest) tax.SalarySlip {
	slip := tax.SalarySlip{
		Name:               req.Name,
		Employee:           req.Employee,
		Company:            req.Company,
		TaxMethod:          tax.TaxMethod(req.TaxMethod),
		IsDecemberOverride: req.IsDecemberOverride,
	}
	if t, err := time.Parse("2006-01-02", req.StartDate); err == nil {
		slip.StartDate = t
	}
	if t, err := time.Parse("2006-01-02", req.PostingDate); err == nil {
		slip.PostingDate = t
	}
	for _, row := range req.Earnings {
		slip.Earnings = append(slip.Earnings, componentFromRequest(row))
	}
	for _, row := range req.Deductions {
		slip.Deductions = append(slip.Deductions, componentFromRequest(row))
	}
	slip.GrossPay = sumBrutoEarnings(slip)
	return slip
}

func componentFromRequest(row tax.ComponentRowRequest) tax.ComponentRow {
	return tax.ComponentRow{
		SalaryComponent:       row.SalaryComponent,
		Amount:                row.Amount,
		IsTaxApplicable:       row.IsTaxApplicable,
		IsIncomeTaxComponent:  row.IsIncomeTaxComponent,
		DoNotIncludeInTotal:   row.DoNotIncludeInTotal,
		StatisticalComponent:  row.StatisticalComponent,
		ExemptedFromIncomeTax: row.ExemptedFromIncomeTax,
	}
}

// CategorizeSlip is the DTO-facing wrapper around Categorize.
func (s *Service) CategorizeSlip(ctx context.Context, req *tax.CategorizeRequest) (tax.CategorizedComponents, error) {
	if err := req.Validate(); err != nil {
		return tax.CategorizedComponents{}, err
	}
	return s.Categorize(ctx, slipFromRequest(req.Slip)), nil
}
