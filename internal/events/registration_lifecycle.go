package events

import "time"

const RegistrationLifecycleTopic = "registry.company.lifecycle.v1"

const (
	RegistrationSubmitted = "registration.submitted"
	RegistrationApproved  = "registration.approved"
	RegistrationRejected  = "registration.rejected"
)

type RegistrationLifecycleEvent struct {
	EventType          string    `json:"event_type"`
	RequestID          string    `json:"request_id,omitempty"`
	CompanyID          string    `json:"company_id"`
	RegistrationNumber string    `json:"registration_number"`
	Status             string    `json:"status"`
	OccurredAt         time.Time `json:"occurred_at"`
}

// EventTypeForStatus names the event emitted when a registration enters
// status.
func EventTypeForStatus(status string) string {
	switch status {
	case "approved":
		return RegistrationApproved
	case "rejected":
		return RegistrationRejected
	default:
		return RegistrationSubmitted
	}
}
