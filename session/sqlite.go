package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

const (
	sqliteDirPerm  = 0750
	sqliteFilePerm = 0600

	sqliteConnectTimeout = 5 * time.Second
)

const sessionSchema = `
CREATE TABLE IF NOT EXISTS sessions (
	session_id  TEXT PRIMARY KEY,
	user_id     TEXT NOT NULL,
	role        TEXT NOT NULL,
	created_at  INTEGER NOT NULL,
	ttl_seconds INTEGER NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);
`

// SQLiteConfig configures the file-backed store. The path is supplied by the
// embedding application; it is not owned by this package.
type SQLiteConfig struct {
	// Path is the filesystem path to the database file. The parent
	// directory is created if absent.
	Path string

	// WALMode enables write-ahead logging so the sweeper's reads do not
	// block foreground writes.
	WALMode bool

	// BusyTimeout is the maximum time in seconds to wait for the write
	// lock before a call fails with ErrStorageUnavailable.
	BusyTimeout int
}

// SQLiteStore is the durable Store used when sessions must survive process
// restarts and be visible to every actor sharing one storage file.
//
// The UNIQUE index on user_id plus INSERT OR REPLACE makes a superseding
// login atomic at the storage layer: when two logins for the same user race,
// the last put wins and at most one row survives.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (and creates if needed) the session database, applies the
// schema, and verifies connectivity.
func OpenSQLite(cfg SQLiteConfig) (*SQLiteStore, error) {
	if cfg.Path == "" {
		return nil, errors.New("session database path required")
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Path), sqliteDirPerm); err != nil {
		return nil, fmt.Errorf("creating session database directory: %w", err)
	}

	connStr := fmt.Sprintf("file:%s?_busy_timeout=%d&_foreign_keys=on",
		cfg.Path, cfg.BusyTimeout*1000)
	if cfg.WALMode {
		connStr += "&_journal_mode=WAL&_synchronous=NORMAL"
	}

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening session database: %w", err)
	}

	// SQLite supports one writer; keep the pool at a single connection so
	// every call serializes through it.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), sqliteConnectTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("verifying session database: %w", err)
	}

	if _, err := db.ExecContext(ctx, sessionSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("applying session schema: %w", err)
	}

	_ = os.Chmod(cfg.Path, sqliteFilePerm)

	return &SQLiteStore{db: db}, nil
}

// Put inserts the record, replacing any row that conflicts on session_id or
// user_id. The replace-on-user conflict is what enforces last-put-wins for
// concurrent logins by the same account.
func (s *SQLiteStore) Put(ctx context.Context, sess *Session) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO sessions (session_id, user_id, role, created_at, ttl_seconds)
		 VALUES (?, ?, ?, ?, ?)`,
		sess.ID, sess.UserID, sess.Role,
		sess.CreatedAt.Unix(), int64(sess.TTL/time.Second),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}

// GetByID fetches a record by token without filtering on expiry.
func (s *SQLiteStore) GetByID(ctx context.Context, sessionID string) (*Session, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT session_id, user_id, role, created_at, ttl_seconds
		 FROM sessions WHERE session_id = ?`, sessionID)

	sess, err := scanSession(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return sess, nil
}

// GetByUser fetches the single record owned by a user. If the table ever
// holds more than one row for the user the unique index has been bypassed;
// that state is logged and reported as ErrDataIntegrity rather than picking
// a winner silently.
func (s *SQLiteStore) GetByUser(ctx context.Context, userID string) (*Session, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT session_id, user_id, role, created_at, ttl_seconds
		 FROM sessions WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	defer rows.Close()

	var found []*Session
	for rows.Next() {
		sess, scanErr := scanSession(rows.Scan)
		if scanErr != nil {
			return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, scanErr)
		}
		found = append(found, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	switch len(found) {
	case 0:
		return nil, ErrNotFound
	case 1:
		return found[0], nil
	default:
		log.Printf("authcore: %d session rows for user %s, expected at most one", len(found), userID)
		return nil, ErrDataIntegrity
	}
}

// Delete removes the record. Absent ids are not an error.
func (s *SQLiteStore) Delete(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM sessions WHERE session_id = ?", sessionID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}

// DeleteExpired removes every record whose lifetime has elapsed at now.
func (s *SQLiteStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM sessions WHERE created_at + ttl_seconds <= ?", now.Unix())
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	count, _ := result.RowsAffected()
	return count, nil
}

// Ping verifies the database file is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func scanSession(scan func(dest ...any) error) (*Session, error) {
	var (
		sess       Session
		createdAt  int64
		ttlSeconds int64
	)

	if err := scan(&sess.ID, &sess.UserID, &sess.Role, &createdAt, &ttlSeconds); err != nil {
		return nil, err
	}

	sess.CreatedAt = time.Unix(createdAt, 0)
	sess.TTL = time.Duration(ttlSeconds) * time.Second
	return &sess, nil
}
