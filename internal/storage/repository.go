package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"fintrack/internal/core"

	_ "modernc.org/sqlite"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already registered")
	ErrForbidden      = errors.New("forbidden")
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CreateUser persists a new user. The email is stored lowercase; a
// case-insensitive collision yields ErrDuplicateEmail.
func (r *SQLiteRepository) CreateUser(ctx context.Context, fullName, email, passwordHash, profileImageURL string) (core.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if _, err := r.GetUserByEmail(ctx, email); err == nil {
		return core.User{}, ErrDuplicateEmail
	} else if !errors.Is(err, ErrNotFound) {
		return core.User{}, fmt.Errorf("check existing email: %w", err)
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (full_name, email, password_hash, profile_image_url) VALUES (?, ?, ?, ?)`,
		fullName, email, passwordHash, profileImageURL,
	)
	if err != nil {
		// The unique index still guards against a concurrent insert
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return core.User{}, ErrDuplicateEmail
		}
		return core.User{}, fmt.Errorf("insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.User{}, fmt.Errorf("last insert id: %w", err)
	}

	user, err := r.GetUserByID(ctx, id)
	if err != nil {
		return core.User{}, fmt.Errorf("reload created user: %w", err)
	}

	slog.InfoContext(ctx, "User created", "user_id", user.ID, "email", user.Email)
	return user, nil
}

func (r *SQLiteRepository) GetUserByEmail(ctx context.Context, email string) (core.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, full_name, email, password_hash, profile_image_url, created_at, updated_at
		 FROM users WHERE email = ? COLLATE NOCASE`,
		strings.TrimSpace(email),
	)
	return scanUser(row)
}

func (r *SQLiteRepository) GetUserByID(ctx context.Context, id int64) (core.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, full_name, email, password_hash, profile_image_url, created_at, updated_at
		 FROM users WHERE id = ?`,
		id,
	)
	return scanUser(row)
}

// CreateTransaction persists a validated transaction and returns it with the
// store-assigned id and timestamps.
func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (user_id, kind, label, icon, amount_cents, tx_date) VALUES (?, ?, ?, ?, ?, ?)`,
		t.UserID, string(t.Kind), t.Label, t.Icon, t.Amount.Cents, t.Date.Time,
	)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("last insert id: %w", err)
	}

	created, err := r.GetTransaction(ctx, id)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("reload created transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"transaction_id", created.ID,
		"user_id", created.UserID,
		"kind", created.Kind,
		"amount_cents", created.Amount.Cents)
	return created, nil
}

// ListTransactions returns one user's transactions of a kind, newest first.
// Ties on the same date fall back to insertion order.
func (r *SQLiteRepository) ListTransactions(ctx context.Context, userID int64, kind core.Kind) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, kind, label, icon, amount_cents, tx_date, created_at, updated_at
		 FROM transactions WHERE user_id = ? AND kind = ?
		 ORDER BY tx_date DESC, id DESC`,
		userID, string(kind),
	)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	txs := []core.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, kind, label, icon, amount_cents, tx_date, created_at, updated_at
		 FROM transactions WHERE id = ?`,
		id,
	)
	return scanTransaction(row)
}

// DeleteTransaction removes a transaction after verifying it exists and is
// owned by the requesting user. The ownership check runs before the delete;
// a missing row is ErrNotFound, a foreign row is ErrForbidden.
func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id, requestingUserID int64) error {
	t, err := r.GetTransaction(ctx, id)
	if err != nil {
		return err
	}
	if t.UserID != requestingUserID {
		slog.WarnContext(ctx, "Transaction delete rejected: owner mismatch",
			"transaction_id", id,
			"owner_id", t.UserID,
			"requesting_user_id", requestingUserID)
		return ErrForbidden
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction deleted", "transaction_id", id, "user_id", requestingUserID)
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (core.User, error) {
	var u core.User
	err := row.Scan(&u.ID, &u.FullName, &u.Email, &u.PasswordHash, &u.ProfileImageURL, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, ErrNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("scan user: %w", err)
	}
	return u, nil
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var t core.Transaction
	var kind string
	err := row.Scan(&t.ID, &t.UserID, &kind, &t.Label, &t.Icon, &t.Amount.Cents, &t.Date.Time, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("scan transaction: %w", err)
	}
	t.Kind = core.Kind(kind)
	return t, nil
}
