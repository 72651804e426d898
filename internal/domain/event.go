package domain

import "time"

const (
	EventCreated = "created"
	EventUpdated = "updated"
	EventDeleted = "deleted"
)

// TransactionEvent describes a completed write. Transaction is nil for deletions.
type TransactionEvent struct {
	Action      string       `json:"action"`
	ID          int64        `json:"id"`
	Transaction *Transaction `json:"transaction,omitempty"`
	OccurredAt  time.Time    `json:"occurredAt"`
}
