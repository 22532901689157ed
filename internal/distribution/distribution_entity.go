package distribution

import (
	"time"

	"github.com/google/uuid"
)

const (
	MethodEmail  = "email"
	MethodPortal = "portal"
	MethodBoth   = "both"
)

// A batch is completed once every item carries a terminal outcome;
// partial means the summary was issued with items still unattempted.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusPartial    = "partial"
)

const (
	ItemStatusSent   = "sent"
	ItemStatusFailed = "failed"
)

// PayslipDistribution is one dispatch batch over a run's current
// payslips. Re-running distribution for the same run opens a new batch;
// old batches are history.
type PayslipDistribution struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	RunID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Method string    `gorm:"type:varchar(10);not null"`
	Status string    `gorm:"type:varchar(20);not null;default:'pending'"`

	Total  int `gorm:"not null;default:0"`
	Sent   int `gorm:"not null;default:0"`
	Failed int `gorm:"not null;default:0"`

	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type DistributionItem struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	DistributionID uuid.UUID `gorm:"type:uuid;not null;index"`
	PayslipID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Channel        string    `gorm:"type:varchar(10);not null"`
	Status         string    `gorm:"type:varchar(10);not null"`
	ErrorMessage   string    `gorm:"type:text"`
	CreatedAt      time.Time
}
