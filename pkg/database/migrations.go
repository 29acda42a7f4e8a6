package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgconn"
)

// Execer is satisfied by *pgxpool.Pool and pgxmock pools.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Migrate runs all schema statements in order. Safe to call repeatedly.
func Migrate(ctx context.Context, db Execer) error {
	slog.Info("running database migrations", "statements", len(migrations))

	for _, stmt := range migrations {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w\nstatement: %s", err, stmt)
		}
	}

	slog.Info("database migrations complete")
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		business_name TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS invoices (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		invoice_number TEXT NOT NULL DEFAULT '',
		invoice_date DATE,
		due_date DATE,
		bill_from JSONB NOT NULL DEFAULT '{}'::jsonb,
		bill_to JSONB NOT NULL DEFAULT '{}'::jsonb,
		items JSONB NOT NULL DEFAULT '[]'::jsonb,
		notes TEXT NOT NULL DEFAULT '',
		payment_terms TEXT NOT NULL DEFAULT '',
		subtotal DOUBLE PRECISION NOT NULL DEFAULT 0,
		tax_total DOUBLE PRECISION NOT NULL DEFAULT 0,
		total DOUBLE PRECISION NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'Unpaid' CHECK (status IN ('Unpaid', 'Pending', 'Paid')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_invoices_user_created ON invoices (user_id, created_at DESC)`,

	// overdue report scans unpaid invoices by due date
	`CREATE INDEX IF NOT EXISTS idx_invoices_due_unpaid ON invoices (due_date) WHERE status <> 'Paid'`,
}
