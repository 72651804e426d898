package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// amounts go over the wire as JSON numbers, digits exactly as stored
	decimal.MarshalJSONWithoutQuotes = true
}

type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "Deposit"
	TransactionTypeWithdrawal TransactionType = "Withdrawal"
	TransactionTypeTransfer   TransactionType = "Transfer"
)

// UnmarshalText accepts any letter case ("DEPOSIT", "deposit") and stores the canonical name.
// An empty value is kept empty so the validator can report a missing type.
func (t *TransactionType) UnmarshalText(text []byte) error {
	parsed, err := ParseTransactionType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func ParseTransactionType(s string) (TransactionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return "", nil
	case "deposit":
		return TransactionTypeDeposit, nil
	case "withdrawal":
		return TransactionTypeWithdrawal, nil
	case "transfer":
		return TransactionTypeTransfer, nil
	default:
		return "", fmt.Errorf("unknown transaction type %q", s)
	}
}

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "Pending"
	TransactionStatusCompleted TransactionStatus = "Completed"
	TransactionStatusFailed    TransactionStatus = "Failed"
)

func (s *TransactionStatus) UnmarshalText(text []byte) error {
	parsed, err := ParseTransactionStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func ParseTransactionStatus(s string) (TransactionStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return "", nil
	case "pending":
		return TransactionStatusPending, nil
	case "completed":
		return TransactionStatusCompleted, nil
	case "failed":
		return TransactionStatusFailed, nil
	default:
		return "", fmt.Errorf("unknown transaction status %q", s)
	}
}

// Transaction is a single recorded deposit, withdrawal or transfer.
// ID is assigned by the store; Timestamp is set by the service on creation.
type Transaction struct {
	ID            int64             `db:"id" json:"id"`
	Type          TransactionType   `db:"type" json:"type"`
	Status        TransactionStatus `db:"status" json:"status"`
	Amount        decimal.Decimal   `db:"amount" json:"amount"`
	SourceAccount string            `db:"source_account" json:"sourceAccount,omitempty"`
	TargetAccount string            `db:"target_account" json:"targetAccount,omitempty"`
	Timestamp     time.Time         `db:"timestamp" json:"timestamp"`
}

// TransactionFields are the client-controlled fields used on create and update.
type TransactionFields struct {
	Type          TransactionType   `json:"type"`
	Status        TransactionStatus `json:"status"`
	Amount        decimal.Decimal   `json:"amount"`
	SourceAccount string            `json:"sourceAccount"`
	TargetAccount string            `json:"targetAccount"`
}
