package events

import "time"

const PayslipDeliveryUpdatedTopic = "hr.payslip.delivery.updated.v1"

// Delivery confirmations arrive from the mail transport and the employee
// portal. They may be duplicated or out of order; the payslip status
// machine absorbs both.
type PayslipDeliveryUpdatedEvent struct {
	EventType   string    `json:"event_type"`
	PayslipID   string    `json:"payslip_id"`
	Channel     string    `json:"channel"`
	Status      string    `json:"status"`
	EmailStatus string    `json:"email_status"`
	OccurredAt  time.Time `json:"occurred_at"`
}
