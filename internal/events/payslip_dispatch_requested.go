package events

import "time"

const PayslipDispatchRequestedTopic = "hr.payslip.dispatch.requested.v1"

// PayslipDispatchRequestedEvent asks the mail transport (an external
// collaborator) to deliver one payslip. The transport reports back on
// the delivery-updated topic.
type PayslipDispatchRequestedEvent struct {
	EventType      string    `json:"event_type"`
	PayslipID      string    `json:"payslip_id"`
	PayslipNumber  string    `json:"payslip_number"`
	DistributionID string    `json:"distribution_id"`
	EmployeeID     string    `json:"employee_id"`
	Channel        string    `json:"channel"`
	OccurredAt     time.Time `json:"occurred_at"`
}
