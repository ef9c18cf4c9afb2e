package tax

import (
	"time"

	"github.com/shopspring/decimal"
)

// TaxMethod enum
type TaxMethod string

const (
	MethodProgressive TaxMethod = "Progressive"
	MethodTER         TaxMethod = "TER"
)

// TaxEffect classifies how a salary component affects PPh 21.
type TaxEffect string

const (
	EffectPenambahBruto    TaxEffect = "Penambah Bruto/Objek Pajak"
	EffectPengurangNetto   TaxEffect = "Pengurang Netto/Tax Deduction"
	EffectTidakBerpengaruh TaxEffect = "Tidak Berpengaruh ke Pajak"
	EffectNaturaObjek      TaxEffect = "Natura/Fasilitas (Objek Pajak)"
	EffectNaturaNonObjek   TaxEffect = "Natura/Fasilitas (Non-Objek Pajak)"
)

// ComponentType enum for salary components
type ComponentType string

const (
	ComponentEarning   ComponentType = "Earning"
	ComponentDeduction ComponentType = "Deduction"
)

// TER categories per PMK 168/2023
const (
	TERCategoryA = "TER A"
	TERCategoryB = "TER B"
	TERCategoryC = "TER C"
)

// Statutory biaya jabatan parameters
var (
	BiayaJabatanPercent    = decimal.NewFromInt(5)
	BiayaJabatanMaxMonthly = decimal.NewFromInt(500_000)
	MonthsPerYear          = decimal.NewFromInt(12)
)

// ComponentRow - one earning or deduction line on a salary slip
type ComponentRow struct {
	SalaryComponent       string          `json:"salary_component"`
	Amount                decimal.Decimal `json:"amount"`
	IsTaxApplicable       bool            `json:"is_tax_applicable"`
	IsIncomeTaxComponent  bool            `json:"is_income_tax_component"`
	DoNotIncludeInTotal   bool            `json:"do_not_include_in_total"`
	StatisticalComponent  bool            `json:"statistical_component"`
	ExemptedFromIncomeTax bool            `json:"exempted_from_income_tax"`
}

// SalarySlip - the slice of a host-system salary slip the tax engine reads.
// The host payroll system owns the full document; this is a value copy.
type SalarySlip struct {
	Name               string          `json:"name"`
	Employee           string          `json:"employee"`
	Company            string          `json:"company"`
	StartDate          time.Time       `json:"start_date"`
	PostingDate        time.Time       `json:"posting_date"`
	GrossPay           decimal.Decimal `json:"gross_pay"`
	TaxMethod          TaxMethod       `json:"tax_method"`
	IsDecemberOverride bool            `json:"is_december_override"`
	Earnings           []ComponentRow  `json:"earnings"`
	Deductions         []ComponentRow  `json:"deductions"`
}

// Month returns the posting month of the slip, preferring start_date.
func (s SalarySlip) Month() int {
	if !s.StartDate.IsZero() {
		return int(s.StartDate.Month())
	}
	if !s.PostingDate.IsZero() {
		return int(s.PostingDate.Month())
	}
	return 0
}

// Year returns the fiscal year of the slip, preferring start_date.
func (s SalarySlip) Year() int {
	if !s.StartDate.IsZero() {
		return s.StartDate.Year()
	}
	if !s.PostingDate.IsZero() {
		return s.PostingDate.Year()
	}
	return 0
}

// Employee - the slice of the host employee record the tax engine reads
type Employee struct {
	Name           string `json:"name"`
	EmployeeName   string `json:"employee_name"`
	Company        string `json:"company"`
	TaxStatus      string `json:"tax_status"` // PTKP code: TK0, K1, ...
	EmploymentType string `json:"employment_type"`
}

// BucketTotals - per-bucket sums of categorized component amounts
type BucketTotals struct {
	PenambahBruto    decimal.Decimal `json:"penambah_bruto"`
	NaturaObjek      decimal.Decimal `json:"natura_objek"`
	NaturaNonObjek   decimal.Decimal `json:"natura_non_objek"`
	PengurangNetto   decimal.Decimal `json:"pengurang_netto"`
	TidakBerpengaruh decimal.Decimal `json:"tidak_berpengaruh"`
}

// CategorizedComponents - slip components grouped by tax effect.
// Each bucket maps component name to amount.
type CategorizedComponents struct {
	PenambahBruto    map[string]decimal.Decimal `json:"penambah_bruto"`
	NaturaObjek      map[string]decimal.Decimal `json:"natura_objek"`
	NaturaNonObjek   map[string]decimal.Decimal `json:"natura_non_objek"`
	PengurangNetto   map[string]decimal.Decimal `json:"pengurang_netto"`
	TidakBerpengaruh map[string]decimal.Decimal `json:"tidak_berpengaruh"`
	Total            BucketTotals               `json:"total"`
}

// TaxBracket - one progressive tax band. IncomeTo of zero means open-ended.
type TaxBracket struct {
	IncomeFrom decimal.Decimal `json:"income_from"`
	IncomeTo   decimal.Decimal `json:"income_to"`
	TaxRate    decimal.Decimal `json:"tax_rate"` // percent
}

// BracketDetail - audit breakdown of one band applied to a PKP figure
type BracketDetail struct {
	From   decimal.Decimal `json:"from"`
	To     decimal.Decimal `json:"to"`
	Amount decimal.Decimal `json:"amount"`
	Rate   decimal.Decimal `json:"rate"` // percent
	Tax    decimal.Decimal `json:"tax"`
}

// PTKPEntry - non-taxable income threshold row
type PTKPEntry struct {
	TaxStatus  string          `json:"tax_status"`
	PTKPAmount decimal.Decimal `json:"ptkp_amount"` // annual
}

// TERBracket - one TER withholding band for a category.
// Rate may be stored as a percentage (>1) or a fraction (<=1).
type TERBracket struct {
	Category         string          `json:"category"`
	IncomeFrom       decimal.Decimal `json:"income_from"`
	IncomeTo         decimal.Decimal `json:"income_to"`
	Rate             decimal.Decimal `json:"rate"`
	IsHighestBracket bool            `json:"is_highest_bracket"`
}

// ProgressiveResult - monthly progressive calculation detail
type ProgressiveResult struct {
	TaxMethod      string          `json:"tax_method"`
	TaxStatus      string          `json:"tax_status"`
	Bruto          decimal.Decimal `json:"bruto"`
	PengurangNetto decimal.Decimal `json:"pengurang_netto"`
	BiayaJabatan   decimal.Decimal `json:"biaya_jabatan"`
	Netto          decimal.Decimal `json:"netto"`
	AnnualTaxable  decimal.Decimal `json:"annual_taxable"`
	PTKPAnnual     decimal.Decimal `json:"ptkp_annual"`
	PKP            decimal.Decimal `json:"pkp"`
	AnnualTax      decimal.Decimal `json:"annual_tax"`
	MonthlyTax     decimal.Decimal `json:"monthly_tax"`
	TaxDetails     []BracketDetail `json:"tax_details"`
}

// TERResult - monthly TER calculation detail
type TERResult struct {
	TaxMethod             string          `json:"tax_method"`
	TERCategory           string          `json:"ter_category"`
	PTKP                  decimal.Decimal `json:"ptkp"` // monthly
	Bruto                 decimal.Decimal `json:"bruto"`
	PengurangNetto        decimal.Decimal `json:"pengurang_netto"`
	BiayaJabatan          decimal.Decimal `json:"biaya_jabatan"`
	Netto                 decimal.Decimal `json:"netto"`
	PKP                   decimal.Decimal `json:"pkp"`
	Rate                  decimal.Decimal `json:"rate"` // fraction
	PPh21                 decimal.Decimal `json:"pph21"`
	EmploymentTypeChecked bool            `json:"employment_type_checked"`
}

// DecemberResult - annual reconciliation detail. KoreksiPPh21 and PPh21Bulan
// may be negative (over-withheld refund) and must not be clamped.
type DecemberResult struct {
	TaxMethod             string          `json:"tax_method"`
	BrutoTotal            decimal.Decimal `json:"bruto_total"`
	PengurangNettoTotal   decimal.Decimal `json:"pengurang_netto_total"`
	PengurangNettoBulan   decimal.Decimal `json:"pengurang_netto_desember"`
	BiayaJabatanTotal     decimal.Decimal `json:"biaya_jabatan_total"`
	NettoTotal            decimal.Decimal `json:"netto_total"`
	PTKPAnnual            decimal.Decimal `json:"ptkp_annual"`
	PKPAnnual             decimal.Decimal `json:"pkp_annual"`
	PPh21Annual           decimal.Decimal `json:"pph21_annual"`
	YTDTaxPaid            decimal.Decimal `json:"ytd_tax_paid"`
	KoreksiPPh21          decimal.Decimal `json:"koreksi_pph21"`
	PPh21Bulan            decimal.Decimal `json:"pph21_bulan"`
	TaxDetails            []BracketDetail `json:"tax_details"`
	EmploymentTypeChecked bool            `json:"employment_type_checked"`
}

// BPJSResult - employee and employer social insurance contributions
type BPJSResult struct {
	KesehatanEmployee decimal.Decimal `json:"kesehatan_employee"`
	KesehatanEmployer decimal.Decimal `json:"kesehatan_employer"`
	JHTEmployee       decimal.Decimal `json:"jht_employee"`
	JHTEmployer       decimal.Decimal `json:"jht_employer"`
	JPEmployee        decimal.Decimal `json:"jp_employee"`
	JPEmployer        decimal.Decimal `json:"jp_employer"`
	JKK               decimal.Decimal `json:"jkk"`
	JKM               decimal.Decimal `json:"jkm"`
	TotalEmployee     decimal.Decimal `json:"total_employee"`
	TotalEmployer     decimal.Decimal `json:"total_employer"`
}

// BPJSSettings - contribution percentages and salary caps
type BPJSSettings struct {
	KesehatanEmployeePercent decimal.Decimal `json:"kesehatan_employee_percent"`
	KesehatanEmployerPercent decimal.Decimal `json:"kesehatan_employer_percent"`
	KesehatanMaxSalary       decimal.Decimal `json:"kesehatan_max_salary"`
	JHTEmployeePercent       decimal.Decimal `json:"jht_employee_percent"`
	JHTEmployerPercent       decimal.Decimal `json:"jht_employer_percent"`
	JPEmployeePercent        decimal.Decimal `json:"jp_employee_percent"`
	JPEmployerPercent        decimal.Decimal `json:"jp_employer_percent"`
	JPMaxSalary              decimal.Decimal `json:"jp_max_salary"`
	JKKPercent               decimal.Decimal `json:"jkk_percent"`
	JKMPercent               decimal.Decimal `json:"jkm_percent"`
}

// DefaultBPJSSettings returns the statutory default rates.
func DefaultBPJSSettings() BPJSSettings {
	return BPJSSettings{
		KesehatanEmployeePercent: decimal.NewFromFloat(1.0),
		KesehatanEmployerPercent: decimal.NewFromFloat(4.0),
		KesehatanMaxSalary:       decimal.NewFromInt(12_000_000),
		JHTEmployeePercent:       decimal.NewFromFloat(2.0),
		JHTEmployerPercent:       decimal.NewFromFloat(3.7),
		JPEmployeePercent:        decimal.NewFromFloat(1.0),
		JPEmployerPercent:        decimal.NewFromFloat(2.0),
		JPMaxSalary:              decimal.NewFromInt(9_077_600),
		JKKPercent:               decimal.NewFromFloat(0.24),
		JKMPercent:               decimal.NewFromFloat(0.3),
	}
}
