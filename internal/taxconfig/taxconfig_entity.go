package taxconfig

import (
	"time"

	"go-payroll/internal/salary"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TaxConfiguration is one versioned, date-scoped statutory rule. A new
// statute never edits an old row; it arrives as a new configuration with
// a later effective_from, and history stays intact for completed runs.
// The unique index covers active rows only: a deactivated configuration
// may be recreated with the same (tax_type, effective_from), matching
// the service's ambiguity pre-check.
type TaxConfiguration struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	TaxType string    `gorm:"type:varchar(40);not null;index;uniqueIndex:uq_tax_config_type_effective,where:is_active = true"`

	// Rate is percent when IsPercentage is set, a flat amount otherwise.
	Rate         decimal.Decimal  `gorm:"type:numeric(12,4);not null"`
	IsPercentage bool             `gorm:"not null"`
	MinThreshold *decimal.Decimal `gorm:"type:numeric(14,2)"`
	MaxThreshold *decimal.Decimal `gorm:"type:numeric(14,2)"`

	EffectiveFrom time.Time  `gorm:"type:date;not null;uniqueIndex:uq_tax_config_type_effective"`
	EffectiveTo   *time.Time `gorm:"type:date"`
	IsActive      bool       `gorm:"not null;default:true;index"`

	Description string `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AppliesAt reports whether this configuration is a resolution candidate
// for the given evaluation date.
func (c TaxConfiguration) AppliesAt(asOf time.Time) bool {
	if !c.IsActive {
		return false
	}
	if c.EffectiveFrom.After(asOf) {
		return false
	}
	if c.EffectiveTo != nil && c.EffectiveTo.Before(asOf) {
		return false
	}
	return true
}

// Rule projects the configuration into the calculator's input shape.
func (c TaxConfiguration) Rule() salary.TaxRule {
	return salary.TaxRule{
		TaxType:      c.TaxType,
		Rate:         c.Rate,
		IsPercentage: c.IsPercentage,
		MinThreshold: c.MinThreshold,
		MaxThreshold: c.MaxThreshold,
	}
}
