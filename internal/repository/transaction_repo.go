package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bank_transactions/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const transactionColumns = `id, type, status, amount::text, COALESCE(source_account, ''), COALESCE(target_account, ''), timestamp`

type TransactionRepository struct {
	db *pgxpool.Pool
}

func NewTransactionRepository(db *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Create inserts tx and fills in the generated id and the stored amount
func (r *TransactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	row := r.db.QueryRow(ctx,
		`INSERT INTO transactions (type, status, amount, source_account, target_account, timestamp)
		 VALUES ($1, $2, $3::numeric, NULLIF($4, ''), NULLIF($5, ''), $6)
		 RETURNING `+transactionColumns,
		string(tx.Type), string(tx.Status), tx.Amount.String(), tx.SourceAccount, tx.TargetAccount, tx.Timestamp,
	)

	stored, err := scanTransaction(row)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	*tx = *stored
	return nil
}

// GetByID returns nil, nil when the row does not exist
func (r *TransactionRepository) GetByID(ctx context.Context, id int64) (*domain.Transaction, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+transactionColumns+`
		 FROM transactions
		 WHERE id = $1`,
		id,
	)

	tx, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transaction %d: %w", id, err)
	}
	return tx, nil
}

func (r *TransactionRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM transactions WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check transaction %d: %w", id, err)
	}
	return exists, nil
}

// Update overwrites the mutable columns of tx.ID; id and timestamp are left alone
func (r *TransactionRepository) Update(ctx context.Context, tx *domain.Transaction) error {
	row := r.db.QueryRow(ctx,
		`UPDATE transactions
		 SET type = $2, status = $3, amount = $4::numeric,
		     source_account = NULLIF($5, ''), target_account = NULLIF($6, '')
		 WHERE id = $1
		 RETURNING `+transactionColumns,
		tx.ID, string(tx.Type), string(tx.Status), tx.Amount.String(), tx.SourceAccount, tx.TargetAccount,
	)

	stored, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &domain.NotFoundError{ID: tx.ID}
		}
		return fmt.Errorf("update transaction %d: %w", tx.ID, err)
	}
	*tx = *stored
	return nil
}

func (r *TransactionRepository) DeleteByID(ctx context.Context, id int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete transaction %d: %w", id, err)
	}
	return nil
}

// FindPage returns up to limit rows after offset, ordered by id, plus the total row count
func (r *TransactionRepository) FindPage(ctx context.Context, offset, limit int) ([]domain.Transaction, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+transactionColumns+`
		 FROM transactions
		 ORDER BY id
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	result, err := scanTransactions(rows)
	if err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		tx        domain.Transaction
		txType    string
		status    string
		amount    string
		timestamp time.Time
	)

	if err := row.Scan(&tx.ID, &txType, &status, &amount, &tx.SourceAccount, &tx.TargetAccount, &timestamp); err != nil {
		return nil, err
	}

	dec, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("parse amount %q: %w", amount, err)
	}

	tx.Type = domain.TransactionType(txType)
	tx.Status = domain.TransactionStatus(status)
	tx.Amount = dec
	tx.Timestamp = timestamp.UTC()
	return &tx, nil
}

func scanTransactions(rows pgx.Rows) ([]domain.Transaction, error) {
	var result []domain.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		result = append(result, *tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return result, nil
}
