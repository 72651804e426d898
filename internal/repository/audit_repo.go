package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"bank_transactions/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AuditRepository handles transaction audit trail operations
type AuditRepository struct {
	db *pgxpool.Pool
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{db: db}
}

// Create inserts a new audit entry and fills in its id and recorded time
func (r *AuditRepository) Create(ctx context.Context, entry *domain.AuditEntry) error {
	detailsJSON, err := json.Marshal(entry.Details)
	if err != nil || entry.Details == nil {
		detailsJSON = []byte("{}")
	}

	err = r.db.QueryRow(ctx, `
		INSERT INTO transaction_audit (transaction_id, action, details)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, entry.TransactionID, entry.Action, detailsJSON).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// GetByTransactionID returns the newest entries for one transaction first
func (r *AuditRepository) GetByTransactionID(ctx context.Context, transactionID int64, limit int) ([]domain.AuditEntry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, transaction_id, action, details, created_at
		FROM transaction_audit
		WHERE transaction_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, transactionID, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()

	return scanAuditEntries(rows)
}

func scanAuditEntries(rows pgx.Rows) ([]domain.AuditEntry, error) {
	entries := []domain.AuditEntry{}
	for rows.Next() {
		var entry domain.AuditEntry
		var detailsJSON []byte
		if err := rows.Scan(&entry.ID, &entry.TransactionID, &entry.Action, &detailsJSON, &entry.CreatedAt); err != nil {
			return nil, err
		}
		dec := json.NewDecoder(bytes.NewReader(detailsJSON))
		dec.UseNumber()
		if err := dec.Decode(&entry.Details); err != nil {
			entry.Details = make(map[string]interface{})
		}
		entry.CreatedAt = entry.CreatedAt.UTC()
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
