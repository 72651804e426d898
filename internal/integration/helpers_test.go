package integration

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	bankdb "bank_transactions/internal/db"

	"github.com/jackc/pgx/v5/pgxpool"
)

// connect returns a pool on DATABASE_URL with migrations applied and the table emptied
func connect(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	db, err := bankdb.Connect(context.Background(), dsn, bankdb.PoolOptions{MaxConns: 4, PingTimeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(db.Close)

	applyMigrations(t, db)
	if _, err := db.Exec(context.Background(), `TRUNCATE transactions, transaction_audit RESTART IDENTITY`); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	return db
}

func applyMigrations(t *testing.T, db *pgxpool.Pool) {
	t.Helper()
	migDir := filepath.Join("..", "migrations")
	files, err := filepath.Glob(filepath.Join(migDir, "*.sql"))
	if err != nil {
		t.Fatalf("read migrations: %v", err)
	}
	sort.Strings(files)
	for _, f := range files {
		b, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read file: %v", err)
		}
		if _, err := db.Exec(context.Background(), string(b)); err != nil {
			t.Fatalf("apply migration %s: %v", filepath.Base(f), err)
		}
	}
}
