package salary_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-payroll/internal/salary"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type stubResolver struct {
	rules map[string]salary.TaxRule
}

func (s stubResolver) Resolve(_ context.Context, taxType string, _ time.Time) (salary.TaxRule, error) {
	rule, ok := s.rules[taxType]
	if !ok {
		return salary.TaxRule{}, errors.New("no active configuration for " + taxType)
	}
	return rule, nil
}

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func decPtr(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

// Standard statutory fixture: income tax 10%, PF 12% capped at 15000,
// ESI 0.75% with a 21000 eligibility cutoff, professional tax flat 200.
func statutoryFixture() stubResolver {
	return stubResolver{rules: map[string]salary.TaxRule{
		salary.TaxTypeIncomeTax: {
			TaxType: salary.TaxTypeIncomeTax, Rate: dec("10"), IsPercentage: true,
		},
		salary.TaxTypePF: {
			TaxType: salary.TaxTypePF, Rate: dec("12"), IsPercentage: true,
			MaxThreshold: decPtr("15000"),
		},
		salary.TaxTypeESI: {
			TaxType: salary.TaxTypeESI, Rate: dec("0.75"), IsPercentage: true,
			MaxThreshold: decPtr("21000"),
		},
		salary.TaxTypeProfessionalTax: {
			TaxType: salary.TaxTypeProfessionalTax, Rate: dec("200"), IsPercentage: false,
		},
	}}
}

func fixedProfile(basic string) salary.EmployeeProfile {
	return salary.EmployeeProfile{
		EmployeeID:  uuid.New(),
		BasicSalary: dec(basic),
	}
}

func asOf(t *testing.T) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", "2026-01-31")
	assert.NoError(t, err)
	return d
}

func TestCalculateBaselineBreakdown(t *testing.T) {
	calc := salary.NewCalculator(salary.DefaultAllowancePolicy(), statutoryFixture())

	bd, err := calc.Calculate(context.Background(), fixedProfile("50000"), salary.Inputs{}, asOf(t))
	assert.NoError(t, err)

	assert.True(t, bd.HRA.Equal(dec("20000")), "hra = %s", bd.HRA)
	assert.True(t, bd.DA.Equal(dec("7500")), "da = %s", bd.DA)
	assert.True(t, bd.MedicalAllowance.Equal(dec("1250")))
	assert.True(t, bd.TransportAllowance.Equal(dec("1600")))
	assert.True(t, bd.GrossSalary.Equal(dec("80350")), "gross = %s", bd.GrossSalary)

	// PF is capped at the 15000 wage ceiling, ESI is zero above the
	// 21000 eligibility cutoff: the two threshold semantics differ.
	assert.True(t, bd.PF.Equal(dec("1800")), "pf = %s", bd.PF)
	assert.True(t, bd.ESI.Equal(dec("0")), "esi = %s", bd.ESI)
	assert.True(t, bd.IncomeTax.Equal(dec("8035")), "income tax = %s", bd.IncomeTax)
	assert.True(t, bd.ProfessionalTax.Equal(dec("200")))

	assert.True(t, bd.TotalDeductions.Equal(dec("10035")), "deductions = %s", bd.TotalDeductions)
	assert.True(t, bd.NetSalary.Equal(dec("70315")), "net = %s", bd.NetSalary)
	assert.False(t, bd.NeedsReview)
}

func TestCalculateESIBelowCutoffContributes(t *testing.T) {
	calc := salary.NewCalculator(salary.DefaultAllowancePolicy(), statutoryFixture())

	// basic 10000 -> gross 10000 + 4000 + 1500 + 1250 + 1600 = 18350 < 21000
	bd, err := calc.Calculate(context.Background(), fixedProfile("10000"), salary.Inputs{}, asOf(t))
	assert.NoError(t, err)

	assert.True(t, bd.GrossSalary.Equal(dec("18350")), "gross = %s", bd.GrossSalary)
	assert.True(t, bd.ESI.Equal(dec("137.625")), "esi = %s", bd.ESI)
	// PF base stays capped at 15000 even though gross is above it
	assert.True(t, bd.PF.Equal(dec("1800")), "pf = %s", bd.PF)
}

func TestCalculateGrossIsSumOfSevenComponents(t *testing.T) {
	calc := salary.NewCalculator(salary.DefaultAllowancePolicy(), statutoryFixture())

	inputs := salary.Inputs{
		Overtime: []salary.OvertimeInput{
			{Hours: dec("4"), Multiplier: dec("1.5"), Approved: true},
		},
		Bonuses: []salary.EarningInput{
			{Amount: dec("2500"), Description: "festival bonus"},
			{Amount: dec("500"), Description: "referral"},
		},
		Commissions: []salary.EarningInput{
			{Amount: dec("1200"), Description: "billing target"},
		},
	}

	bd, err := calc.Calculate(context.Background(), fixedProfile("48000"), inputs, asOf(t))
	assert.NoError(t, err)

	sum := bd.BasicPay.
		Add(bd.HRA).
		Add(bd.DA).
		Add(bd.MedicalAllowance).
		Add(bd.TransportAllowance).
		Add(bd.OvertimePay).
		Add(bd.BonusTotal).
		Add(bd.CommissionTotal)
	assert.True(t, bd.GrossSalary.Equal(sum), "gross %s != component sum %s", bd.GrossSalary, sum)
	assert.True(t, bd.NetSalary.Equal(bd.GrossSalary.Sub(bd.TotalDeductions)))
}

func TestCalculateOvertimePay(t *testing.T) {
	calc := salary.NewCalculator(salary.DefaultAllowancePolicy(), statutoryFixture())

	// default hourly rate = 48000 / 240 = 200
	inputs := salary.Inputs{
		Overtime: []salary.OvertimeInput{
			{Hours: dec("4"), Multiplier: dec("1.5"), Approved: true},  // 1200
			{Hours: dec("2"), Multiplier: dec("2"), Approved: true},    // 800
			{Hours: dec("8"), Multiplier: dec("2.5"), Approved: false}, // unapproved: zero
		},
	}

	bd, err := calc.Calculate(context.Background(), fixedProfile("48000"), inputs, asOf(t))
	assert.NoError(t, err)
	assert.True(t, bd.OvertimePay.Equal(dec("2000")), "overtime = %s", bd.OvertimePay)
}

func TestCalculateExplicitHourlyRateWins(t *testing.T) {
	calc := salary.NewCalculator(salary.DefaultAllowancePolicy(), statutoryFixture())

	profile := fixedProfile("48000")
	profile.HourlyRate = decPtr("300")

	inputs := salary.Inputs{
		Overtime: []salary.OvertimeInput{
			{Hours: dec("2"), Multiplier: dec("2"), Approved: true},
		},
	}

	bd, err := calc.Calculate(context.Background(), profile, inputs, asOf(t))
	assert.NoError(t, err)
	assert.True(t, bd.OvertimePay.Equal(dec("1200")), "overtime = %s", bd.OvertimePay)
}

func TestCalculateAdHocDeductions(t *testing.T) {
	calc := salary.NewCalculator(salary.DefaultAllowancePolicy(), statutoryFixture())

	inputs := salary.Inputs{
		Deductions: []salary.DeductionInput{
			{Category: "canteen", Amount: decPtr("750"), Mandatory: false},
			{Category: "welfare_fund", Percentage: decPtr("2"), Mandatory: true},
		},
	}

	bd, err := calc.Calculate(context.Background(), fixedProfile("50000"), inputs, asOf(t))
	assert.NoError(t, err)

	// percentage deduction is computed against gross (80350), fixed as-is
	assert.Len(t, bd.OtherDeductions, 2)
	assert.True(t, bd.OtherDeductions[0].Amount.Equal(dec("750")))
	assert.True(t, bd.OtherDeductions[1].Amount.Equal(dec("1607")), "welfare = %s", bd.OtherDeductions[1].Amount)
	assert.True(t, bd.TotalDeductions.Equal(dec("12392")), "total = %s", bd.TotalDeductions)
}

func TestCalculateNegativeNetFlaggedNotClamped(t *testing.T) {
	calc := salary.NewCalculator(salary.DefaultAllowancePolicy(), statutoryFixture())

	inputs := salary.Inputs{
		Deductions: []salary.DeductionInput{
			{Category: "loan_recovery", Amount: decPtr("100000"), Mandatory: true},
		},
	}

	bd, err := calc.Calculate(context.Background(), fixedProfile("50000"), inputs, asOf(t))
	assert.NoError(t, err)

	assert.True(t, bd.NetSalary.IsNegative(), "net = %s", bd.NetSalary)
	assert.True(t, bd.NetSalary.Equal(bd.GrossSalary.Sub(bd.TotalDeductions)))
	assert.True(t, bd.NeedsReview)
}

func TestCalculateMissingRuleAbortsWholeCalculation(t *testing.T) {
	resolver := statutoryFixture()
	delete(resolver.rules, salary.TaxTypeIncomeTax)
	calc := salary.NewCalculator(salary.DefaultAllowancePolicy(), resolver)

	bd, err := calc.Calculate(context.Background(), fixedProfile("50000"), salary.Inputs{}, asOf(t))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "income_tax")
	// no partial breakdown
	assert.True(t, bd.GrossSalary.IsZero())
}

func TestStatutoryAmountMinThresholdExemption(t *testing.T) {
	rule := salary.TaxRule{
		TaxType:      salary.TaxTypeIncomeTax,
		Rate:         dec("10"),
		IsPercentage: true,
		MinThreshold: decPtr("25000"),
	}

	assert.True(t, salary.StatutoryAmount(rule, dec("20000")).IsZero())
	assert.True(t, salary.StatutoryAmount(rule, dec("30000")).Equal(dec("3000")))
}
