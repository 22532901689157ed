package distribution

import (
	"context"
	"encoding/json"
	"time"

	"go-payroll/internal/events"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/payslip"
	"go-payroll/internal/shared/contextutil"

	"github.com/google/uuid"
)

// Dispatcher delivers one payslip over one channel. Implementations
// must honor the context deadline; a slow collaborator costs the item,
// not the batch.
type Dispatcher interface {
	Channel() string
	Dispatch(ctx context.Context, distributionID string, slip payslip.PayslipResponse) error
}

// StatusAdvancer is the slice of the payslip service the portal
// dispatcher needs.
type StatusAdvancer interface {
	AdvanceStatus(ctx context.Context, id string, status string) (payslip.PayslipResponse, error)
}

// EmailDispatcher hands the payslip to the mail transport through the
// outbox. Delivery confirmations come back asynchronously on the
// delivery-updated topic.
type EmailDispatcher struct {
	outbox kafka.OutboxRepository
}

func NewEmailDispatcher(outbox kafka.OutboxRepository) *EmailDispatcher {
	return &EmailDispatcher{outbox: outbox}
}

func (d *EmailDispatcher) Channel() string { return MethodEmail }

func (d *EmailDispatcher) Dispatch(ctx context.Context, distributionID string, slip payslip.PayslipResponse) error {
	payload, err := json.Marshal(events.PayslipDispatchRequestedEvent{
		EventType:      "payslip.dispatch.requested",
		PayslipID:      slip.ID,
		PayslipNumber:  slip.PayslipNumber,
		DistributionID: distributionID,
		EmployeeID:     slip.EmployeeID,
		Channel:        MethodEmail,
		OccurredAt:     time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	return d.outbox.Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "payslip",
		AggregateID:   slip.ID,
		EventType:     "payslip.dispatch.requested",
		Topic:         events.PayslipDispatchRequestedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

// PortalDispatcher publishes to the employee portal, which is this
// system's own storage: publication is synchronous and the payslip
// moves to sent immediately.
type PortalDispatcher struct {
	payslips StatusAdvancer
}

func NewPortalDispatcher(payslips StatusAdvancer) *PortalDispatcher {
	return &PortalDispatcher{payslips: payslips}
}

func (d *PortalDispatcher) Channel() string { return MethodPortal }

func (d *PortalDispatcher) Dispatch(ctx context.Context, distributionID string, slip payslip.PayslipResponse) error {
	_, err := d.payslips.AdvanceStatus(ctx, slip.ID, payslip.StatusSent)
	return err
}
