package employee

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var monthlyHours = decimal.NewFromInt(30 * 8)

type Employee struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeNumber string    `gorm:"type:varchar(20);uniqueIndex"`
	FullName       string
	Department     string `gorm:"type:varchar(120);index"`
	Position       string `gorm:"type:varchar(120)"`

	// BasicSalary is the monthly base pay. HourlyRate is optional and
	// falls back to BasicSalary / (30 x 8) for overtime valuation.
	BasicSalary decimal.Decimal  `gorm:"type:numeric(14,2);not null"`
	HourlyRate  *decimal.Decimal `gorm:"type:numeric(14,2)"`

	IsActive  bool `gorm:"not null;default:true;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// EffectiveHourlyRate returns the explicit hourly rate when set,
// otherwise the derived monthly-hours rate.
func (e Employee) EffectiveHourlyRate() decimal.Decimal {
	if e.HourlyRate != nil {
		return *e.HourlyRate
	}
	return e.BasicSalary.Div(monthlyHours)
}
