package authcore

import (
	"sync"
	"time"

	"github.com/caretrack/authcore/password"
	"github.com/caretrack/authcore/session"
)

// Engine is the session lifecycle manager and authorization gateway.
// Construct it with a Builder; the zero value is not usable. All methods
// are safe for concurrent use.
type Engine struct {
	config       Config
	store        session.Store
	userProvider UserProvider
	audit        *auditDispatcher
	metrics      *Metrics
	hasher       *password.Hasher

	// now is the engine clock. Tests substitute it to pin expiry
	// boundaries; production engines use time.Now.
	now func() time.Time

	sweepStop chan struct{}
	sweepWG   sync.WaitGroup
	closeOnce sync.Once
}

// Close stops the background sweep and flushes the audit dispatcher. It
// does not close the session store or the user provider; their lifecycles
// belong to the caller.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	e.closeOnce.Do(func() {
		if e.sweepStop != nil {
			close(e.sweepStop)
			e.sweepWG.Wait()
		}
		if e.audit != nil {
			e.audit.Close()
		}
	})
}

// MetricsSnapshot returns a point-in-time copy of all engine metrics.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

// AuditDropped reports how many audit events were discarded because the
// dispatcher buffer was full.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) metricAdd(id MetricID, n uint64) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Add(id, n)
}
