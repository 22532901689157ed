package payslip

import (
	"time"

	"github.com/google/uuid"
)

// Payslip delivery lifecycle. Transitions are forward-only; a stale or
// duplicated confirmation is absorbed as a no-op.
const (
	StatusGenerated  = "generated"
	StatusSent       = "sent"
	StatusViewed     = "viewed"
	StatusDownloaded = "downloaded"
)

const (
	EmailStatusPending   = "pending"
	EmailStatusSent      = "sent"
	EmailStatusDelivered = "delivered"
	EmailStatusFailed    = "failed"
)

var statusRank = map[string]int{
	StatusGenerated:  0,
	StatusSent:       1,
	StatusViewed:     2,
	StatusDownloaded: 3,
}

// delivered and failed share a rank: both are terminal outcomes of the
// same send attempt, and neither overwrites the other.
var emailStatusRank = map[string]int{
	EmailStatusPending:   0,
	EmailStatusSent:      1,
	EmailStatusDelivered: 2,
	EmailStatusFailed:    2,
}

type PayslipTemplate struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Code      string    `gorm:"type:varchar(40);not null;uniqueIndex"`
	Name      string    `gorm:"type:varchar(120);not null"`
	Version   int       `gorm:"not null;default:1"`
	IsActive  bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Payslip is the rendered document record for one payroll entry under
// one template. Regeneration supersedes the old row and issues a new
// version; the composite index keeps versions unique per entry and
// template.
type Payslip struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	PayslipNumber string    `gorm:"type:varchar(30);not null;uniqueIndex"`
	EntryID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_payslip_entry_template_version"`
	TemplateID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_payslip_entry_template_version"`
	Version       int       `gorm:"not null;default:1;uniqueIndex:uq_payslip_entry_template_version"`
	EmployeeID    uuid.UUID `gorm:"type:uuid;not null;index"`
	RunID         uuid.UUID `gorm:"type:uuid;not null;index"`

	Status      string `gorm:"type:varchar(20);not null;default:'generated'"`
	EmailStatus string `gorm:"type:varchar(20);not null;default:'pending'"`
	Superseded  bool   `gorm:"not null;default:false;index"`

	// Content is the frozen document payload: the breakdown and period
	// exactly as they stood at generation time.
	Content string `gorm:"type:jsonb"`

	GeneratedAt time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
