package authcore

import (
	"context"
	"log"
	"time"
)

const sweepTimeout = 25 * time.Second

// Sweep deletes every session whose lifetime has elapsed and returns the
// number removed. The background sweep calls this on its interval; callers
// may also invoke it directly, for instance before a backup.
func (e *Engine) Sweep(ctx context.Context) (int64, error) {
	if e == nil || e.store == nil {
		return 0, ErrEngineNotReady
	}

	deleted, err := e.store.DeleteExpired(ctx, e.now())
	if err != nil {
		e.emitAudit(ctx, auditEventSweepFailed, false, "", "", mapStoreErr(err), nil)
		return deleted, mapStoreErr(err)
	}

	e.metricInc(MetricSweepRuns)
	e.metricAdd(MetricSweepDeleted, uint64(deleted))
	if deleted > 0 {
		e.emitAudit(ctx, auditEventSweepCompleted, true, "", "", nil, nil)
	}

	return deleted, nil
}

// startSweep launches the background expiry sweep. A failed pass is logged
// and retried on the next tick; the loop only stops at Close.
func (e *Engine) startSweep(interval time.Duration) {
	e.sweepStop = make(chan struct{})
	e.sweepWG.Add(1)

	go func() {
		defer e.sweepWG.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
				if _, err := e.Sweep(ctx); err != nil {
					log.Print("authcore: expiry sweep failed, will retry next interval")
				}
				cancel()
			case <-e.sweepStop:
				return
			}
		}
	}()
}
