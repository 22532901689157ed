package payrollrun

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Run lifecycle. Recalculation is allowed up to and including the
// calculated states; from approved onward the run is frozen.
const (
	StatusDraft                = "draft"
	StatusCalculated           = "calculated"
	StatusCalculatedWithErrors = "calculated_with_errors"
	StatusApproved             = "approved"
	StatusProcessed            = "processed"
	StatusCompleted            = "completed"
)

const (
	FrequencyMonthly  = "monthly"
	FrequencyBiweekly = "biweekly"
	FrequencyWeekly   = "weekly"
)

const (
	EntryStatusCalculated  = "calculated"
	EntryStatusNeedsReview = "needs_review"
	EntryStatusFailed      = "failed"
)

type PayrollRun struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	RunNumber   string    `gorm:"type:varchar(30);not null;uniqueIndex"`
	PeriodStart time.Time `gorm:"type:date;not null"`
	PeriodEnd   time.Time `gorm:"type:date;not null"`
	PayDate     time.Time `gorm:"type:date;not null"`
	Frequency   string    `gorm:"type:varchar(20);not null"`
	Status      string    `gorm:"type:varchar(30);not null;default:'draft';index"`

	EmployeeCount   int             `gorm:"not null;default:0"`
	FailedCount     int             `gorm:"not null;default:0"`
	TotalGross      decimal.Decimal `gorm:"type:numeric(16,2);not null;default:0"`
	TotalDeductions decimal.Decimal `gorm:"type:numeric(16,2);not null;default:0"`
	TotalNet        decimal.Decimal `gorm:"type:numeric(16,2);not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PayrollEntry is one employee's outcome within a run. The composite
// unique index keeps an employee from appearing twice in the same run.
// Breakdown holds the full calculation snapshot; the money columns are
// denormalized for listing and aggregation.
type PayrollEntry struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	RunID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_payroll_entry_run_employee"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_payroll_entry_run_employee"`
	Status     string    `gorm:"type:varchar(30);not null;index"`

	Breakdown       string          `gorm:"type:jsonb"`
	GrossSalary     decimal.Decimal `gorm:"type:numeric(16,2);not null;default:0"`
	TotalDeductions decimal.Decimal `gorm:"type:numeric(16,2);not null;default:0"`
	NetSalary       decimal.Decimal `gorm:"type:numeric(16,2);not null;default:0"`

	ErrorMessage string `gorm:"type:text"`

	// Corrections is an append-only audit trail. The original breakdown
	// is never rewritten; each correction carries its own delta.
	Corrections string `gorm:"type:jsonb;not null;default:'[]'"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Correction struct {
	Reason      string          `json:"reason"`
	Amount      decimal.Decimal `json:"amount"`
	CorrectedBy string          `json:"corrected_by,omitempty"`
	CorrectedAt time.Time       `json:"corrected_at"`
}
