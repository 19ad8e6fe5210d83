package token

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"social-go/internal/database"
	"social-go/internal/database/migrations"
	"social-go/internal/social"
)

// SQLiteToken keeps balances in its own SQLite database. Every Send is one
// transaction, and each movement is recorded in the transfers table.
type SQLiteToken struct {
	db       *sql.DB
	treasury social.Address
	clock    social.Clock
}

// NewSQLiteToken opens (and migrates) the token database at path.
// path can be a file path or ":memory:".
func NewSQLiteToken(path string, treasury social.Address, clock social.Clock) (*SQLiteToken, error) {
	db, err := database.OpenConnection(path)
	if err != nil {
		return nil, err
	}

	if err := migrations.Up(db, migrations.Token); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating token database: %w", err)
	}

	return &SQLiteToken{db: db, treasury: treasury, clock: clock}, nil
}

// Transfer pays amount from the treasury to the given account.
func (t *SQLiteToken) Transfer(ctx context.Context, to social.Address, amount uint64) error {
	return t.Send(ctx, t.treasury, to, amount)
}

// Send moves amount between two accounts.
func (t *SQLiteToken) Send(ctx context.Context, from, to social.Address, amount uint64) error {
	if amount == 0 {
		return ErrZeroAmount
	}

	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	balance, err := balanceOf(ctx, tx, from)
	if err != nil {
		return err
	}
	if balance < amount {
		return fmt.Errorf("sending %d from %s: %w", amount, from, ErrInsufficientFunds)
	}

	now := t.clock.Now()
	if err := debit(ctx, tx, from, amount, now); err != nil {
		return fmt.Errorf("debiting %s: %w", from, err)
	}
	if err := credit(ctx, tx, to, amount, now); err != nil {
		return fmt.Errorf("crediting %s: %w", to, err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO transfers (sender, recipient, amount, created_at) VALUES (?, ?, ?, ?)`,
		string(from), string(to), int64(amount), now)
	if err != nil {
		return fmt.Errorf("recording transfer: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transfer: %w", err)
	}
	return nil
}

// BalanceOf returns the balance held by account. Unknown accounts hold zero.
func (t *SQLiteToken) BalanceOf(ctx context.Context, account social.Address) (uint64, error) {
	return balanceOf(ctx, t.db, account)
}

// Mint creates amount new tokens in account.
func (t *SQLiteToken) Mint(ctx context.Context, account social.Address, amount uint64) error {
	if amount == 0 {
		return ErrZeroAmount
	}
	if err := credit(ctx, t.db, account, amount, t.clock.Now()); err != nil {
		return fmt.Errorf("minting to %s: %w", account, err)
	}
	return nil
}

// fundIfEmpty mints supply into the treasury of a database that has never
// held a balance.
func (t *SQLiteToken) fundIfEmpty(ctx context.Context, supply uint64) error {
	if supply == 0 {
		return nil
	}
	var n int64
	if err := t.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM balances`).Scan(&n); err != nil {
		return fmt.Errorf("counting balances: %w", err)
	}
	if n > 0 {
		return nil
	}
	return t.Mint(ctx, t.treasury, supply)
}

func (t *SQLiteToken) Treasury() social.Address { return t.treasury }

// Close closes the database connection.
func (t *SQLiteToken) Close() error {
	return t.db.Close()
}

func balanceOf(ctx context.Context, q database.DBTX, account social.Address) (uint64, error) {
	var balance int64
	err := q.QueryRowContext(ctx, `SELECT balance FROM balances WHERE account = ?`, string(account)).Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("reading balance of %s: %w", account, err)
	}
	return uint64(balance), nil
}

// credit adds amount to account's balance, creating the row if needed.
// A sum past MaxBalance matches no row; SQLite would otherwise store a REAL.
func credit(ctx context.Context, q database.DBTX, account social.Address, amount uint64, at time.Time) error {
	if amount > MaxBalance {
		return ErrBalanceOverflow
	}
	res, err := q.ExecContext(ctx, `
		INSERT INTO balances (account, balance, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (account) DO UPDATE SET balance = balance + excluded.balance, updated_at = excluded.updated_at
		WHERE balances.balance <= ? - excluded.balance`,
		string(account), int64(amount), at, int64(MaxBalance))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n != 1 {
		return ErrBalanceOverflow
	}
	return nil
}

// debit takes amount from an existing balance. The balance CHECK constraint
// refuses overdrafts.
func debit(ctx context.Context, q database.DBTX, account social.Address, amount uint64, at time.Time) error {
	res, err := q.ExecContext(ctx,
		`UPDATE balances SET balance = balance - ?, updated_at = ? WHERE account = ?`,
		int64(amount), at, string(account))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n != 1 {
		return ErrInsufficientFunds
	}
	return nil
}

var _ Backend = (*SQLiteToken)(nil)
