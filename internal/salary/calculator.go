package salary

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// RuleResolver yields the statutory rule applicable at a date.
// The rule registry implements it.
type RuleResolver interface {
	Resolve(ctx context.Context, taxType string, asOf time.Time) (TaxRule, error)
}

// AllowancePolicy holds the configuration-driven allowance components.
// HRA and DA are fractions of basic pay; medical and transport are flat
// monthly amounts identical for every employee.
type AllowancePolicy struct {
	HRARate            decimal.Decimal
	DARate             decimal.Decimal
	MedicalAllowance   decimal.Decimal
	TransportAllowance decimal.Decimal
}

func DefaultAllowancePolicy() AllowancePolicy {
	return AllowancePolicy{
		HRARate:            decimal.NewFromFloat(0.40),
		DARate:             decimal.NewFromFloat(0.15),
		MedicalAllowance:   decimal.NewFromInt(1250),
		TransportAllowance: decimal.NewFromInt(1600),
	}
}

type Calculator struct {
	policy AllowancePolicy
	rules  RuleResolver
}

func NewCalculator(policy AllowancePolicy, rules RuleResolver) *Calculator {
	return &Calculator{policy: policy, rules: rules}
}

// Calculate produces the full salary breakdown for one employee. It is a
// pure function of its inputs: no shared state, safe to run in parallel
// across employees. An unresolvable statutory rule aborts the whole
// calculation; no partial breakdown is ever returned.
func (c *Calculator) Calculate(
	ctx context.Context,
	profile EmployeeProfile,
	inputs Inputs,
	asOf time.Time,
) (Breakdown, error) {
	basic := profile.BasicSalary
	hra := basic.Mul(c.policy.HRARate)
	da := basic.Mul(c.policy.DARate)

	overtimePay := c.overtimePay(profile, inputs.Overtime)
	bonusTotal := sumEarnings(inputs.Bonuses)
	commissionTotal := sumEarnings(inputs.Commissions)

	gross := basic.
		Add(hra).
		Add(da).
		Add(c.policy.MedicalAllowance).
		Add(c.policy.TransportAllowance).
		Add(overtimePay).
		Add(bonusTotal).
		Add(commissionTotal)

	statutory := make(map[string]decimal.Decimal, 4)
	for _, taxType := range []string{TaxTypeIncomeTax, TaxTypePF, TaxTypeESI, TaxTypeProfessionalTax} {
		rule, err := c.rules.Resolve(ctx, taxType, asOf)
		if err != nil {
			return Breakdown{}, fmt.Errorf("resolve %s rule: %w", taxType, err)
		}
		statutory[taxType] = StatutoryAmount(rule, gross)
	}

	otherDeductions, otherTotal := applyDeductions(inputs.Deductions, gross)

	totalDeductions := statutory[TaxTypeIncomeTax].
		Add(statutory[TaxTypePF]).
		Add(statutory[TaxTypeESI]).
		Add(statutory[TaxTypeProfessionalTax]).
		Add(otherTotal)

	net := gross.Sub(totalDeductions)

	return Breakdown{
		EmployeeID:         profile.EmployeeID,
		AsOf:               asOf,
		BasicPay:           basic,
		HRA:                hra,
		DA:                 da,
		MedicalAllowance:   c.policy.MedicalAllowance,
		TransportAllowance: c.policy.TransportAllowance,
		OvertimePay:        overtimePay,
		BonusTotal:         bonusTotal,
		CommissionTotal:    commissionTotal,
		GrossSalary:        gross,
		IncomeTax:          statutory[TaxTypeIncomeTax],
		PF:                 statutory[TaxTypePF],
		ESI:                statutory[TaxTypeESI],
		ProfessionalTax:    statutory[TaxTypeProfessionalTax],
		OtherDeductions:    otherDeductions,
		TotalDeductions:    totalDeductions,
		NetSalary:          net,
		NeedsReview:        net.IsNegative(),
		ComputedAt:         time.Now().UTC(),
	}, nil
}

func (c *Calculator) overtimePay(profile EmployeeProfile, records []OvertimeInput) decimal.Decimal {
	rate := profile.EffectiveHourlyRate()
	total := decimal.Zero
	for _, rec := range records {
		if !rec.Approved {
			continue
		}
		total = total.Add(rec.Hours.Mul(rate).Mul(rec.Multiplier))
	}
	return total
}

func sumEarnings(earnings []EarningInput) decimal.Decimal {
	total := decimal.Zero
	for _, e := range earnings {
		total = total.Add(e.Amount)
	}
	return total
}

func applyDeductions(deductions []DeductionInput, gross decimal.Decimal) ([]DeductionLine, decimal.Decimal) {
	lines := make([]DeductionLine, 0, len(deductions))
	total := decimal.Zero
	for _, d := range deductions {
		amount := decimal.Zero
		switch {
		case d.Amount != nil:
			amount = *d.Amount
		case d.Percentage != nil:
			amount = gross.Mul(*d.Percentage).Div(hundred)
		}
		lines = append(lines, DeductionLine{
			Category:    d.Category,
			Amount:      amount,
			Mandatory:   d.Mandatory,
			Description: d.Description,
		})
		total = total.Add(amount)
	}
	return lines, total
}

// StatutoryAmount applies one resolved rule to a gross salary.
//
// Percentage rules with a max threshold normally cap the taxable base at
// the threshold (the PF wage ceiling). ESI is different: the threshold
// is an eligibility cutoff, and a gross above it contributes nothing.
// The two behaviors must not be merged.
func StatutoryAmount(rule TaxRule, gross decimal.Decimal) decimal.Decimal {
	if !rule.IsPercentage {
		// Flat amount, e.g. professional tax slabs collapsed to one value.
		return rule.Rate
	}

	if rule.MinThreshold != nil && gross.LessThan(*rule.MinThreshold) {
		return decimal.Zero
	}

	base := gross
	if rule.MaxThreshold != nil {
		if rule.TaxType == TaxTypeESI {
			if gross.GreaterThan(*rule.MaxThreshold) {
				return decimal.Zero
			}
		} else if gross.GreaterThan(*rule.MaxThreshold) {
			base = *rule.MaxThreshold
		}
	}

	return base.Mul(rule.Rate).Div(hundred)
}
