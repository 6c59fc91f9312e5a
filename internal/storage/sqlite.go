// Package storage archives fetched accounts and operations in a local SQLite
// database so CLI runs can build up an offline ledger history.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ryabkov-dev/tinkoff-mobile-go/tinkoff"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS accounts (
	id              TEXT PRIMARY KEY,
	external_number TEXT NOT NULL,
	account_group   TEXT NOT NULL,
	name            TEXT NOT NULL,
	currency        TEXT NOT NULL,
	balance         REAL NOT NULL,
	updated_at      TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS operations (
	id                TEXT PRIMARY KEY,
	account_id        TEXT NOT NULL,
	type              TEXT NOT NULL,
	description       TEXT NOT NULL,
	amount            REAL NOT NULL,
	amount_currency   TEXT NOT NULL,
	account_amount    REAL NOT NULL,
	account_currency  TEXT NOT NULL,
	operation_time    TIMESTAMP NOT NULL,
	spending_category TEXT NOT NULL,
	mcc               INTEGER NOT NULL,
	category          TEXT NOT NULL,
	subcategory       TEXT,
	merchant          TEXT,
	op_group          TEXT NOT NULL,
	subgroup          TEXT
);

CREATE INDEX IF NOT EXISTS idx_operations_account_time
	ON operations(account_id, operation_time);
`

// Store is a SQLite-backed archive.
type Store struct {
	db     *sql.DB
	dbPath string
}

// NewStore opens (creating if needed) the archive database at dbPath.
func NewStore(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("dbPath cannot be empty")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Store{db: db, dbPath: dbPath}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveAccounts upserts the given accounts, refreshing balances for accounts
// already archived.
func (s *Store) SaveAccounts(ctx context.Context, accounts []tinkoff.Account) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO accounts (id, external_number, account_group, name, currency, balance, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			external_number = excluded.external_number,
			account_group = excluded.account_group,
			name = excluded.name,
			currency = excluded.currency,
			balance = excluded.balance,
			updated_at = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, account := range accounts {
		_, err := stmt.ExecContext(ctx,
			account.ID,
			account.ExternalNumber,
			account.Group,
			account.Name,
			string(account.MoneyAmount.Currency),
			account.MoneyAmount.Value,
		)
		if err != nil {
			return fmt.Errorf("failed to save account %s: %w", account.ID, err)
		}
	}

	return tx.Commit()
}

// SaveOperations archives the given operations, skipping ones already stored.
// Returns how many rows were newly inserted.
func (s *Store) SaveOperations(ctx context.Context, operations []tinkoff.Operation) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO operations (
			id, account_id, type, description,
			amount, amount_currency, account_amount, account_currency,
			operation_time, spending_category, mcc, category,
			subcategory, merchant, op_group, subgroup
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	inserted := 0
	for _, op := range operations {
		res, err := stmt.ExecContext(ctx,
			op.ID,
			op.Account,
			string(op.Type),
			op.Description,
			op.Amount.Value,
			string(op.Amount.Currency),
			op.AccountAmount.Value,
			string(op.AccountAmount.Currency),
			op.Time,
			op.SpendingCategory,
			op.MCC,
			op.Category,
			op.Subcategory,
			op.Merchant,
			string(op.Group),
			op.Subgroup,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to save operation %s: %w", op.ID, err)
		}

		rows, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("failed to count affected rows: %w", err)
		}
		inserted += int(rows)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return inserted, nil
}

// CountOperations reports how many operations are archived for an account.
func (s *Store) CountOperations(ctx context.Context, accountID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM operations WHERE account_id = ?", accountID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count operations: %w", err)
	}
	return count, nil
}
