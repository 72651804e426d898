package service

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"bank_transactions/internal/cache"
	"bank_transactions/internal/domain"
	"bank_transactions/internal/logger"
)

// TransactionService validates, stamps and persists transactions, and keeps the
// page cache consistent with the store: every successful write clears all cached pages.
type TransactionService struct {
	store       TransactionStore
	pages       cache.PageCache
	publisher   EventPublisher
	log         *slog.Logger
	now         func() time.Time
	maxPageSize int

	clockMu   sync.Mutex
	lastStamp time.Time

	// failedClears counts clears that errored; clearedUpTo is the highest count a later
	// successful clear has covered. The cache is bypassed while they differ.
	failedClears atomic.Uint64
	clearedUpTo  atomic.Uint64
}

type Option func(*TransactionService)

func WithPublisher(p EventPublisher) Option {
	return func(s *TransactionService) { s.publisher = p }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *TransactionService) { s.log = l }
}

func WithClock(now func() time.Time) Option {
	return func(s *TransactionService) { s.now = now }
}

// WithMaxPageSize bounds the page size accepted by GetPage; 0 means unbounded
func WithMaxPageSize(n int) Option {
	return func(s *TransactionService) { s.maxPageSize = n }
}

func NewTransactionService(store TransactionStore, pages cache.PageCache, opts ...Option) *TransactionService {
	s := &TransactionService{
		store: store,
		pages: pages,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Get()
	}
	return s
}

// Create validates fields, stamps the current time and stores a new transaction.
// Status defaults to Pending when not supplied.
func (s *TransactionService) Create(ctx context.Context, fields domain.TransactionFields) (*domain.Transaction, error) {
	if err := ValidateTransaction(fields); err != nil {
		return nil, err
	}

	tx := &domain.Transaction{
		Type:          fields.Type,
		Status:        statusOrDefault(fields.Status),
		Amount:        fields.Amount,
		SourceAccount: fields.SourceAccount,
		TargetAccount: fields.TargetAccount,
		Timestamp:     s.stamp(),
	}

	if err := s.store.Create(ctx, tx); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	s.publish(ctx, domain.EventCreated, tx.ID, tx)
	return tx, nil
}

// GetPage serves a page from the cache, reading through to the store on a miss.
func (s *TransactionService) GetPage(ctx context.Context, page, size int) (domain.Page, error) {
	req := domain.PageRequest{Page: page, Size: size}
	if err := ValidatePageRequest(req, s.maxPageSize); err != nil {
		return domain.Page{}, err
	}

	if !s.pagesTrusted(ctx) {
		rows, total, err := s.store.FindPage(ctx, req.Offset(), req.Size)
		if err != nil {
			return domain.Page{}, err
		}
		return domain.NewPage(rows, req, total), nil
	}

	key := cache.Key{Page: page, Size: size}
	if cached, ok := s.pages.Get(ctx, key); ok {
		return cached, nil
	}

	// read before the store so a clear in between makes this Put stale
	gen := s.pages.Generation(ctx)

	rows, total, err := s.store.FindPage(ctx, req.Offset(), req.Size)
	if err != nil {
		return domain.Page{}, err
	}

	result := domain.NewPage(rows, req, total)
	s.pages.Put(ctx, key, result, gen)
	return result, nil
}

// Get looks up a single transaction. Not cached.
func (s *TransactionService) Get(ctx context.Context, id int64) (*domain.Transaction, error) {
	tx, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, &domain.NotFoundError{ID: id}
	}
	return tx, nil
}

// Update replaces type, amount, accounts and status of an existing transaction.
// ID and timestamp are preserved.
func (s *TransactionService) Update(ctx context.Context, id int64, fields domain.TransactionFields) (*domain.Transaction, error) {
	if err := ValidateTransaction(fields); err != nil {
		return nil, err
	}

	tx, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, &domain.NotFoundError{ID: id}
	}

	tx.Type = fields.Type
	tx.Amount = fields.Amount
	tx.SourceAccount = fields.SourceAccount
	tx.TargetAccount = fields.TargetAccount
	tx.Status = statusOrDefault(fields.Status)

	if err := s.store.Update(ctx, tx); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	s.publish(ctx, domain.EventUpdated, tx.ID, tx)
	return tx, nil
}

func (s *TransactionService) Delete(ctx context.Context, id int64) error {
	exists, err := s.store.ExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return &domain.NotFoundError{ID: id}
	}

	if err := s.store.DeleteByID(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx)
	s.publish(ctx, domain.EventDeleted, id, nil)
	return nil
}

// stamp never goes backwards, even if the wall clock does
func (s *TransactionService) stamp() time.Time {
	now := s.now().UTC().Truncate(time.Microsecond)

	s.clockMu.Lock()
	defer s.clockMu.Unlock()
	if now.Before(s.lastStamp) {
		now = s.lastStamp
	}
	s.lastStamp = now
	return now
}

func (s *TransactionService) invalidate(ctx context.Context) {
	pending := s.failedClears.Load()
	if err := s.pages.Clear(ctx); err != nil {
		s.failedClears.Add(1)
		s.log.Error("failed to clear page cache, bypassing it until a clear succeeds", "error", err)
		return
	}
	s.markCleared(pending)
}

// pagesTrusted reports whether cached pages may be served. After a failed clear it
// clears again; until that works every read goes to the store.
func (s *TransactionService) pagesTrusted(ctx context.Context) bool {
	pending := s.failedClears.Load()
	if s.clearedUpTo.Load() >= pending {
		return true
	}

	if err := s.pages.Clear(ctx); err != nil {
		s.log.Warn("page cache still not cleared, reading from store", "error", err)
		return false
	}
	s.markCleared(pending)
	return true
}

func (s *TransactionService) markCleared(upTo uint64) {
	for {
		cur := s.clearedUpTo.Load()
		if cur >= upTo || s.clearedUpTo.CompareAndSwap(cur, upTo) {
			return
		}
	}
}

func (s *TransactionService) publish(ctx context.Context, action string, id int64, tx *domain.Transaction) {
	if s.publisher == nil {
		return
	}

	event := domain.TransactionEvent{Action: action, ID: id, OccurredAt: s.now().UTC()}
	if tx != nil {
		snapshot := *tx
		event.Transaction = &snapshot
	}

	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.Warn("failed to publish transaction event", "action", action, "id", id, "error", err)
	}
}

func statusOrDefault(s domain.TransactionStatus) domain.TransactionStatus {
	if s == "" {
		return domain.TransactionStatusPending
	}
	return s
}
