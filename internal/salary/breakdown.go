package salary

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Statutory tax types the calculator resolves on every run. The rule
// registry accepts further types; these four are always consulted.
const (
	TaxTypeIncomeTax       = "income_tax"
	TaxTypePF              = "pf"
	TaxTypeESI             = "esi"
	TaxTypeProfessionalTax = "professional_tax"
)

// TaxRule is the resolved statutory rule the calculator consumes.
// Rate is in percent when IsPercentage is set, otherwise a flat amount.
type TaxRule struct {
	TaxType      string
	Rate         decimal.Decimal
	IsPercentage bool
	MinThreshold *decimal.Decimal
	MaxThreshold *decimal.Decimal
}

// EmployeeProfile is the read-only employee snapshot a calculation runs
// against. It never changes mid-calculation.
type EmployeeProfile struct {
	EmployeeID  uuid.UUID
	BasicSalary decimal.Decimal
	HourlyRate  *decimal.Decimal
}

var monthlyHours = decimal.NewFromInt(30 * 8)

func (p EmployeeProfile) EffectiveHourlyRate() decimal.Decimal {
	if p.HourlyRate != nil {
		return *p.HourlyRate
	}
	return p.BasicSalary.Div(monthlyHours)
}

type OvertimeInput struct {
	Date       time.Time
	Hours      decimal.Decimal
	Multiplier decimal.Decimal
	Approved   bool
}

type EarningInput struct {
	Amount      decimal.Decimal
	Description string
}

type DeductionInput struct {
	Category    string
	Amount      *decimal.Decimal
	Percentage  *decimal.Decimal
	Mandatory   bool
	Description string
}

// Inputs carries the variable earnings and deductions for one employee
// in one pay period. Entries are validated at submission time; the
// calculator trusts them.
type Inputs struct {
	Overtime    []OvertimeInput
	Bonuses     []EarningInput
	Commissions []EarningInput
	Deductions  []DeductionInput
}

type DeductionLine struct {
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Mandatory   bool            `json:"mandatory"`
	Description string          `json:"description,omitempty"`
}

// Breakdown is an immutable salary computation snapshot. A
// re-calculation produces a fresh Breakdown; nothing patches an old one.
type Breakdown struct {
	EmployeeID uuid.UUID `json:"employee_id"`
	AsOf       time.Time `json:"as_of"`

	BasicPay           decimal.Decimal `json:"basic_pay"`
	HRA                decimal.Decimal `json:"hra"`
	DA                 decimal.Decimal `json:"da"`
	MedicalAllowance   decimal.Decimal `json:"medical_allowance"`
	TransportAllowance decimal.Decimal `json:"transport_allowance"`
	OvertimePay        decimal.Decimal `json:"overtime_pay"`
	BonusTotal         decimal.Decimal `json:"bonus_total"`
	CommissionTotal    decimal.Decimal `json:"commission_total"`
	GrossSalary        decimal.Decimal `json:"gross_salary"`

	IncomeTax       decimal.Decimal `json:"income_tax"`
	PF              decimal.Decimal `json:"pf"`
	ESI             decimal.Decimal `json:"esi"`
	ProfessionalTax decimal.Decimal `json:"professional_tax"`
	OtherDeductions []DeductionLine `json:"other_deductions,omitempty"`

	TotalDeductions decimal.Decimal `json:"total_deductions"`
	NetSalary       decimal.Decimal `json:"net_salary"`

	// NeedsReview is set when the computed net is negative. The value is
	// kept as computed; approval is a manual step.
	NeedsReview bool      `json:"needs_review"`
	ComputedAt  time.Time `json:"computed_at"`
}
