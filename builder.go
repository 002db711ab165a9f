package authcore

import (
	"errors"
	"time"

	"github.com/caretrack/authcore/password"
	"github.com/caretrack/authcore/session"
)

// Builder assembles an Engine. A Builder is single-use: Build returns an
// error on reuse.
type Builder struct {
	config       Config
	store        session.Store
	userProvider UserProvider
	auditSink    AuditSink

	built bool
}

// New returns a Builder preloaded with the default configuration.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the entire configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithStore sets the session store. Required.
func (b *Builder) WithStore(store session.Store) *Builder {
	b.store = store
	return b
}

// WithUserProvider sets the account lookup used by Login. Engines without
// one can still issue sessions via CreateSession.
func (b *Builder) WithUserProvider(up UserProvider) *Builder {
	b.userProvider = up
	return b
}

// WithAuditSink sets the destination for audit events and enables auditing.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	b.config.Audit.Enabled = sink != nil
	return b
}

// WithMetricsEnabled toggles the in-process metrics counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles the validation latency histogram.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration, wires the engine, and starts the
// background expiry sweep unless it is disabled.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if b.store == nil {
		return nil, errors.New("session store required")
	}

	hasher, err := password.NewHasher(password.Params{
		MemoryKB:    cfg.Password.Memory,
		Time:        cfg.Password.Time,
		Parallelism: cfg.Password.Parallelism,
		SaltLength:  cfg.Password.SaltLength,
		KeyLength:   cfg.Password.KeyLength,
	})
	if err != nil {
		return nil, err
	}

	engine := &Engine{
		config:       cfg,
		store:        b.store,
		userProvider: b.userProvider,
		audit:        newAuditDispatcher(cfg.Audit, b.auditSink),
		metrics:      NewMetrics(cfg.Metrics),
		hasher:       hasher,
		now:          time.Now,
	}

	if !cfg.Session.DisableSweep {
		engine.startSweep(cfg.effectiveSweepInterval())
	}

	b.built = true

	return engine, nil
}
