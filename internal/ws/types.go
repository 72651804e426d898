package ws

import "bank_transactions/internal/domain"

const (
	// server - client
	MsgReady       = "ready"
	MsgTransaction = "transaction"
)

// Message is the envelope for everything written to a feed client
type Message struct {
	Type  string                   `json:"type"`
	Event *domain.TransactionEvent `json:"event,omitempty"`
}
