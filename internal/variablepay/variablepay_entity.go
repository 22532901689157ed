package variablepay

import (
	"time"

	"go-payroll/internal/salary"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OvertimeRecord is operator-submitted and only contributes pay once
// approved. The multiplier is restricted to the statutory bands.
type OvertimeRecord struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	EmployeeID uuid.UUID       `gorm:"type:uuid;not null;index:idx_overtime_employee_date"`
	Date       time.Time       `gorm:"type:date;not null;index:idx_overtime_employee_date"`
	Hours      decimal.Decimal `gorm:"type:numeric(5,2);not null"`
	Multiplier decimal.Decimal `gorm:"type:numeric(3,1);not null"`
	Approved   bool            `gorm:"not null;default:false"`
	ApprovedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Bonus struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	EmployeeID  uuid.UUID       `gorm:"type:uuid;not null;index:idx_bonus_employee_date"`
	Date        time.Time       `gorm:"type:date;not null;index:idx_bonus_employee_date"`
	Amount      decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Category    string          `gorm:"type:varchar(60);not null"`
	Description string          `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Commission struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	EmployeeID  uuid.UUID       `gorm:"type:uuid;not null;index:idx_commission_employee_date"`
	Date        time.Time       `gorm:"type:date;not null;index:idx_commission_employee_date"`
	Amount      decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Description string          `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Deduction is a standing non-statutory instruction: it applies to every
// run while active. Exactly one of Amount and Percentage is set;
// percentages are evaluated against gross salary.
type Deduction struct {
	ID          uuid.UUID        `gorm:"type:uuid;primaryKey"`
	EmployeeID  uuid.UUID        `gorm:"type:uuid;not null;index"`
	Category    string           `gorm:"type:varchar(60);not null"`
	Amount      *decimal.Decimal `gorm:"type:numeric(14,2)"`
	Percentage  *decimal.Decimal `gorm:"type:numeric(5,2)"`
	Mandatory   bool             `gorm:"not null;default:false"`
	Description string           `gorm:"type:text"`
	IsActive    bool             `gorm:"not null;default:true;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (o OvertimeRecord) Input() salary.OvertimeInput {
	return salary.OvertimeInput{
		Date:       o.Date,
		Hours:      o.Hours,
		Multiplier: o.Multiplier,
		Approved:   o.Approved,
	}
}

func (b Bonus) Input() salary.EarningInput {
	return salary.EarningInput{Amount: b.Amount, Description: b.Description}
}

func (c Commission) Input() salary.EarningInput {
	return salary.EarningInput{Amount: c.Amount, Description: c.Description}
}

func (d Deduction) Input() salary.DeductionInput {
	return salary.DeductionInput{
		Category:    d.Category,
		Amount:      d.Amount,
		Percentage:  d.Percentage,
		Mandatory:   d.Mandatory,
		Description: d.Description,
	}
}
