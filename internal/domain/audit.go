package domain

import "time"

// AuditEntry is one recorded write against a transaction. Details holds the
// record as it looked after the write; it is empty for deletions.
type AuditEntry struct {
	ID            int64                  `db:"id" json:"id"`
	TransactionID int64                  `db:"transaction_id" json:"transactionId"`
	Action        string                 `db:"action" json:"action"`
	Details       map[string]interface{} `db:"details" json:"details"`
	CreatedAt     time.Time              `db:"created_at" json:"createdAt"`
}
