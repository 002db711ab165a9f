package authcore

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// auditDispatcher keeps sink latency off the request path: Emit enqueues and
// a single goroutine delivers in order. Load shedding is event-aware. With
// DropIfFull set, routine lifecycle events (logins, logouts, sweeps) are
// dropped when the buffer is full, but denials and integrity hits are the
// records an operator reads after an incident, so those always wait for a
// slot.
type auditDispatcher struct {
	cfg     AuditConfig
	sink    AuditSink
	queue   chan AuditEvent
	quit    chan struct{}
	done    chan struct{}
	dropped atomic.Uint64
	closing atomic.Bool
	stop    sync.Once
}

// sheddable reports whether an event may be dropped under buffer pressure.
// Security-negative outcomes never are.
func sheddable(eventType string) bool {
	switch eventType {
	case auditEventLoginFailure, auditEventAuthorizeDenied, auditEventUnknownRole:
		return false
	}
	return true
}

func newAuditDispatcher(cfg AuditConfig, sink AuditSink) *auditDispatcher {
	if !cfg.Enabled {
		return nil
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 1
	}
	if sink == nil {
		sink = NoOpSink{}
	}

	d := &auditDispatcher{
		cfg:   cfg,
		sink:  sink,
		queue: make(chan AuditEvent, cfg.BufferSize),
		quit:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	go d.run()

	return d
}

func (d *auditDispatcher) run() {
	defer close(d.done)

	for {
		select {
		case event := <-d.queue:
			d.deliver(event)
		case <-d.quit:
			// Hand queued events to the sink before stopping.
			for {
				select {
				case event := <-d.queue:
					d.deliver(event)
				default:
					return
				}
			}
		}
	}
}

func (d *auditDispatcher) deliver(event AuditEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	d.sink.Emit(context.Background(), event)
}

func (d *auditDispatcher) Emit(ctx context.Context, event AuditEvent) {
	if d == nil || d.closing.Load() {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if d.cfg.DropIfFull && sheddable(event.EventType) {
		select {
		case d.queue <- event:
		case <-d.quit:
		default:
			d.dropped.Add(1)
		}
		return
	}

	select {
	case d.queue <- event:
	case <-ctx.Done():
	case <-d.quit:
	}
}

// Close flushes queued events and waits for the delivery goroutine to exit.
func (d *auditDispatcher) Close() {
	if d == nil {
		return
	}
	d.stop.Do(func() {
		d.closing.Store(true)
		close(d.quit)
		<-d.done
	})
}

func (d *auditDispatcher) Dropped() uint64 {
	if d == nil {
		return 0
	}
	return d.dropped.Load()
}
