package authcore

import (
	"errors"
	"time"
)

const (
	// DefaultSessionTTL is the lifetime of a session from creation;
	// access does not extend it.
	DefaultSessionTTL = time.Hour

	// DefaultSweepInterval is the cadence of the background expiry sweep.
	DefaultSweepInterval = 30 * time.Second

	minSweepInterval = 30 * time.Second
	maxSweepInterval = time.Minute
)

// Config carries every tunable of the engine. Instances are cloned on Build
// and treated as immutable afterwards.
type Config struct {
	Session  SessionConfig
	Password PasswordConfig
	Audit    AuditConfig
	Metrics  MetricsConfig
}

// SessionConfig controls session lifetime and the expiry sweep.
type SessionConfig struct {
	// TTL is the absolute session lifetime. Sessions never slide.
	TTL time.Duration

	// SweepInterval is how often the background sweep deletes expired
	// records. It is clamped to [30s, 60s]; zero selects the default.
	// The sweep is a storage-hygiene mechanism only: expiry is enforced
	// on every Validate regardless of sweep timing.
	SweepInterval time.Duration

	// DisableSweep turns the background sweep off entirely. Expired
	// records then accumulate until deleted lazily on access or by an
	// explicit Sweep call.
	DisableSweep bool
}

// PasswordConfig carries the Argon2id parameters, in the same units as
// password.Params.
type PasswordConfig struct {
	Memory      uint32 // in KB
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32

	// UpgradeOnLogin re-hashes a password transparently after a
	// successful login when the stored hash used weaker parameters.
	// Requires the UserProvider to implement PasswordUpdater.
	UpgradeOnLogin bool
}

// AuditConfig controls the async audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int

	// DropIfFull makes Emit non-blocking: events beyond the buffer are
	// counted and discarded instead of applying backpressure.
	DropIfFull bool
}

// MetricsConfig controls the in-process metrics counters.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

func defaultConfig() Config {
	return Config{
		Session: SessionConfig{
			TTL:           DefaultSessionTTL,
			SweepInterval: DefaultSweepInterval,
		},
		Password: PasswordConfig{
			Memory:      64 * 1024,
			Time:        3,
			Parallelism: 4,
			SaltLength:  16,
			KeyLength:   32,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: false,
		},
	}
}

// Validate checks the configuration for values the engine cannot run with.
// Out-of-range sweep intervals are clamped, not rejected.
func (c *Config) Validate() error {
	if c.Session.TTL <= 0 {
		return errors.New("session TTL must be positive")
	}
	if c.Session.SweepInterval < 0 {
		return errors.New("sweep interval must not be negative")
	}
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("audit buffer size must be positive when audit is enabled")
	}
	return nil
}

// effectiveSweepInterval applies the default and the [30s, 60s] clamp.
func (c *Config) effectiveSweepInterval() time.Duration {
	iv := c.Session.SweepInterval
	if iv == 0 {
		iv = DefaultSweepInterval
	}
	if iv < minSweepInterval {
		iv = minSweepInterval
	}
	if iv > maxSweepInterval {
		iv = maxSweepInterval
	}
	return iv
}

func cloneConfig(cfg Config) Config {
	// All fields are value types; a shallow copy is a deep copy.
	return cfg
}
