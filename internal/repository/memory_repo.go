package repository

import (
	"context"
	"sort"
	"sync"

	"bank_transactions/internal/domain"
)

// MemoryTransactionRepository keeps transactions in process memory.
// Used with STORAGE_DRIVER=memory and in tests.
type MemoryTransactionRepository struct {
	mu   sync.RWMutex
	seq  int64
	rows map[int64]domain.Transaction
}

func NewMemoryTransactionRepository() *MemoryTransactionRepository {
	return &MemoryTransactionRepository{rows: make(map[int64]domain.Transaction)}
}

func (r *MemoryTransactionRepository) Create(_ context.Context, tx *domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	tx.ID = r.seq
	r.rows[tx.ID] = *tx
	return nil
}

func (r *MemoryTransactionRepository) GetByID(_ context.Context, id int64) (*domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tx, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	return &tx, nil
}

func (r *MemoryTransactionRepository) ExistsByID(_ context.Context, id int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.rows[id]
	return ok, nil
}

func (r *MemoryTransactionRepository) Update(_ context.Context, tx *domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.rows[tx.ID]
	if !ok {
		return &domain.NotFoundError{ID: tx.ID}
	}
	tx.Timestamp = existing.Timestamp
	r.rows[tx.ID] = *tx
	return nil
}

func (r *MemoryTransactionRepository) DeleteByID(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.rows, id)
	return nil
}

func (r *MemoryTransactionRepository) FindPage(_ context.Context, offset, limit int) ([]domain.Transaction, int64, error) {
	r.mu.RLock()
	ids := make([]int64, 0, len(r.rows))
	for id := range r.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	total := int64(len(ids))
	var result []domain.Transaction
	if offset >= 0 && offset < len(ids) && limit > 0 {
		end := len(ids)
		if limit < end-offset {
			end = offset + limit
		}
		for _, id := range ids[offset:end] {
			result = append(result, r.rows[id])
		}
	}
	r.mu.RUnlock()

	return result, total, nil
}
