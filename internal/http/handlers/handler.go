package handlers

import (
	"context"
	"strconv"

	"bank_transactions/internal/domain"
)

// TransactionManager is what the HTTP layer needs from the transaction service
type TransactionManager interface {
	Create(ctx context.Context, fields domain.TransactionFields) (*domain.Transaction, error)
	GetPage(ctx context.Context, page, size int) (domain.Page, error)
	Get(ctx context.Context, id int64) (*domain.Transaction, error)
	Update(ctx context.Context, id int64, fields domain.TransactionFields) (*domain.Transaction, error)
	Delete(ctx context.Context, id int64) error
}

// AuditReader serves the audit trail; optional
type AuditReader interface {
	GetByTransactionID(ctx context.Context, transactionID int64, limit int) ([]domain.AuditEntry, error)
}

// HandlerConfig holds configuration for handler
type HandlerConfig struct {
	DefaultPageSize int
}

type Handler struct {
	Transactions    TransactionManager
	Audit           AuditReader
	defaultPageSize string
}

func NewHandler(transactions TransactionManager, cfg HandlerConfig) *Handler {
	size := cfg.DefaultPageSize
	if size <= 0 {
		size = 10
	}
	return &Handler{
		Transactions:    transactions,
		defaultPageSize: strconv.Itoa(size),
	}
}
