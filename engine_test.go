package authcore

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/caretrack/authcore/password"
	"github.com/caretrack/authcore/session"
)

// testClock is a controllable engine clock. Times are whole seconds because
// the SQLite store persists unix seconds.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Unix(1_700_000_000, 0)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// memUserProvider is an in-memory UserProvider for engine tests.
type memUserProvider struct {
	mu      sync.Mutex
	users   map[string]UserRecord // by username
	touched map[string]int        // TouchLastLogin calls by user id
	rehash  map[string]string     // UpdatePasswordHash values by user id
}

func newMemUserProvider() *memUserProvider {
	return &memUserProvider{
		users:   make(map[string]UserRecord),
		touched: make(map[string]int),
		rehash:  make(map[string]string),
	}
}

func (p *memUserProvider) add(rec UserRecord) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.users[rec.Username] = rec
}

func (p *memUserProvider) FindUserByUsername(_ context.Context, username string) (*UserRecord, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	rec, ok := p.users[username]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &rec, nil
}

func (p *memUserProvider) TouchLastLogin(_ context.Context, userID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.touched[userID]++
	return nil
}

func (p *memUserProvider) UpdatePasswordHash(_ context.Context, userID, hash string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rehash[userID] = hash
	for name, rec := range p.users {
		if rec.UserID == userID {
			rec.PasswordHash = hash
			p.users[name] = rec
		}
	}
	return nil
}

func (p *memUserProvider) touchCount(userID string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.touched[userID]
}

// fastTestConfig returns the default configuration with the background
// sweep disabled and Argon2 parameters reduced so tests stay fast.
func fastTestConfig() Config {
	cfg := defaultConfig()
	cfg.Session.DisableSweep = true
	cfg.Password = PasswordConfig{
		Memory:      8 * 1024,
		Time:        1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	}
	return cfg
}

func newTestEngine(t *testing.T, mutate ...func(*Config)) (*Engine, *memUserProvider, *testClock) {
	t.Helper()

	store, err := session.OpenSQLite(session.SQLiteConfig{
		Path:        filepath.Join(t.TempDir(), "sessions.db"),
		WALMode:     true,
		BusyTimeout: 5,
	})
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	cfg := fastTestConfig()
	for _, m := range mutate {
		m(&cfg)
	}

	provider := newMemUserProvider()
	engine, err := New().
		WithConfig(cfg).
		WithStore(store).
		WithUserProvider(provider).
		WithMetricsEnabled(true).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	clock := newTestClock()
	engine.now = clock.Now

	return engine, provider, clock
}

func hashWithParams(t *testing.T, cfg PasswordConfig, passwd string) string {
	t.Helper()

	h, err := password.NewHasher(password.Params{
		MemoryKB:    cfg.Memory,
		Time:        cfg.Time,
		Parallelism: cfg.Parallelism,
		SaltLength:  cfg.SaltLength,
		KeyLength:   cfg.KeyLength,
	})
	if err != nil {
		t.Fatalf("NewHasher failed: %v", err)
	}
	hash, err := h.Hash(passwd)
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	return hash
}

// seedUser hashes the password with the engine's own hasher and registers
// the account.
func seedUser(t *testing.T, e *Engine, p *memUserProvider, userID, username, passwd, role string) {
	t.Helper()

	hash, err := e.hasher.Hash(passwd)
	if err != nil {
		t.Fatalf("seeding %s: %v", username, err)
	}
	p.add(UserRecord{UserID: userID, Username: username, PasswordHash: hash, Role: role})
}
