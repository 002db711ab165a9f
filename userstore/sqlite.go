package userstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"github.com/caretrack/authcore"
)

const (
	dirPerm  = 0750
	filePerm = 0600

	connectTimeout = 5 * time.Second
)

var (
	// ErrUsernameTaken is returned by Create when the username already has
	// an account.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrUnavailable wraps database failures.
	ErrUnavailable = errors.New("user storage unavailable")
)

const userSchema = `
CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	user_name     TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	role          TEXT NOT NULL,
	created_at    INTEGER NOT NULL,
	last_login    INTEGER
);
`

// Config configures the account database.
type Config struct {
	// Path is the filesystem path to the database file. The parent
	// directory is created if absent.
	Path string

	// WALMode enables write-ahead logging.
	WALMode bool

	// BusyTimeout is the maximum time in seconds to wait for the write
	// lock.
	BusyTimeout int
}

// SQLiteStore holds user accounts and implements [authcore.UserProvider].
// Accounts and sessions may share a database file or use separate ones; the
// schemas do not overlap.
type SQLiteStore struct {
	db *sql.DB
}

// Open opens (and creates if needed) the account database, applies the
// schema, and verifies connectivity.
func Open(cfg Config) (*SQLiteStore, error) {
	if cfg.Path == "" {
		return nil, errors.New("user database path required")
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Path), dirPerm); err != nil {
		return nil, fmt.Errorf("creating user database directory: %w", err)
	}

	connStr := fmt.Sprintf("file:%s?_busy_timeout=%d&_foreign_keys=on",
		cfg.Path, cfg.BusyTimeout*1000)
	if cfg.WALMode {
		connStr += "&_journal_mode=WAL&_synchronous=NORMAL"
	}

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening user database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("verifying user database: %w", err)
	}

	if _, err := db.ExecContext(ctx, userSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("applying user schema: %w", err)
	}

	_ = os.Chmod(cfg.Path, filePerm)

	return &SQLiteStore{db: db}, nil
}

// Create inserts a new account and returns its generated id. The password
// hash is stored as given; hashing is the caller's job (password.Hasher).
func (s *SQLiteStore) Create(ctx context.Context, username, passwordHash, role string) (string, error) {
	if username == "" {
		return "", errors.New("username required")
	}
	if passwordHash == "" {
		return "", errors.New("password hash required")
	}

	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, user_name, password_hash, role, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		id, username, passwordHash, role, time.Now().Unix(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return "", ErrUsernameTaken
		}
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return id, nil
}

// FindUserByUsername looks up an account for login.
func (s *SQLiteStore) FindUserByUsername(ctx context.Context, username string) (*authcore.UserRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_name, password_hash, role FROM users WHERE user_name = ?`,
		username)

	var rec authcore.UserRecord
	if err := row.Scan(&rec.UserID, &rec.Username, &rec.PasswordHash, &rec.Role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, authcore.ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return &rec, nil
}

// TouchLastLogin records a successful login timestamp. Unknown ids are a
// no-op.
func (s *SQLiteStore) TouchLastLogin(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE users SET last_login = ? WHERE id = ?`,
		time.Now().Unix(), userID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// UpdatePasswordHash replaces an account's stored hash, used for transparent
// parameter upgrades after a successful login.
func (s *SQLiteStore) UpdatePasswordHash(ctx context.Context, userID, passwordHash string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ? WHERE id = ?`,
		passwordHash, userID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}
