package service

import (
	"context"

	"bank_transactions/internal/domain"
)

// TransactionStore is the durable storage the service writes through.
// GetByID returns nil, nil when the id does not exist.
//
//go:generate mockgen -destination=mocks/mock_interface.go -package=mocks -source=interface.go
type TransactionStore interface {
	Create(ctx context.Context, tx *domain.Transaction) error
	GetByID(ctx context.Context, id int64) (*domain.Transaction, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	Update(ctx context.Context, tx *domain.Transaction) error
	DeleteByID(ctx context.Context, id int64) error
	FindPage(ctx context.Context, offset, limit int) ([]domain.Transaction, int64, error)
}

// EventPublisher receives an event after every successful write.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.TransactionEvent) error
}
