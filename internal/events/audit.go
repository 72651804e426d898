package events

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"bank_transactions/internal/domain"
)

type AuditStore interface {
	Create(ctx context.Context, entry *domain.AuditEntry) error
}

// AuditPublisher records every event in the audit trail
type AuditPublisher struct {
	store AuditStore
}

func NewAuditPublisher(store AuditStore) *AuditPublisher {
	return &AuditPublisher{store: store}
}

func (p *AuditPublisher) Publish(ctx context.Context, event domain.TransactionEvent) error {
	entry := &domain.AuditEntry{
		TransactionID: event.ID,
		Action:        event.Action,
	}

	if event.Transaction != nil {
		details, err := snapshot(event.Transaction)
		if err != nil {
			return err
		}
		entry.Details = details
	}

	if err := p.store.Create(ctx, entry); err != nil {
		return fmt.Errorf("audit %s %d: %w", event.Action, event.ID, err)
	}
	return nil
}

// snapshot flattens tx into its JSON field names
func snapshot(tx *domain.Transaction) (map[string]interface{}, error) {
	raw, err := json.Marshal(tx)
	if err != nil {
		return nil, fmt.Errorf("encode audit snapshot: %w", err)
	}
	// numbers stay json.Number so amounts keep every digit
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var details map[string]interface{}
	if err := dec.Decode(&details); err != nil {
		return nil, fmt.Errorf("decode audit snapshot: %w", err)
	}
	return details, nil
}
