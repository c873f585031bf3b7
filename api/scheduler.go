/*
scheduler.go - Plan history retention scheduler

PURPOSE:
  Periodically prunes plan runs older than the retention window so the
  history table does not grow without bound.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Prunes immediately on start, then on every tick
  - Errors are logged; the next tick retries

USAGE:
  scheduler := NewRetentionScheduler(store, 30*24*time.Hour)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - store/sqlstore/sqlstore.go: PruneRuns
*/
package api

import (
	"context"
	"log"
	"sync"
	"time"
)

// RunPruner deletes runs created before a cutoff. *sqlstore.Store satisfies it.
type RunPruner interface {
	PruneRuns(ctx context.Context, before time.Time) (int64, error)
}

// RetentionScheduler prunes old plan runs on a ticker.
type RetentionScheduler struct {
	Store         RunPruner
	KeepFor       time.Duration
	CheckInterval time.Duration
	Enabled       bool

	now    func() time.Time
	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewRetentionScheduler creates a scheduler that keeps runs for keepFor.
func NewRetentionScheduler(store RunPruner, keepFor time.Duration) *RetentionScheduler {
	return &RetentionScheduler{
		Store:         store,
		KeepFor:       keepFor,
		CheckInterval: 1 * time.Hour,
		Enabled:       true,
		now:           time.Now,
	}
}

// Start begins the scheduler.
func (rs *RetentionScheduler) Start() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if !rs.Enabled {
		log.Println("[Scheduler] Disabled, not starting")
		return
	}
	if rs.ticker != nil {
		return
	}

	rs.ticker = time.NewTicker(rs.CheckInterval)
	rs.stop = make(chan struct{})
	rs.wg.Add(1)

	go rs.run(rs.ticker, rs.stop)

	log.Printf("[Scheduler] Started: keep runs for %v, check every %v", rs.KeepFor, rs.CheckInterval)
}

// Stop stops the scheduler and waits for an in-flight prune to finish.
func (rs *RetentionScheduler) Stop() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.ticker != nil {
		rs.ticker.Stop()
		close(rs.stop)
		rs.wg.Wait()
		rs.ticker = nil
		log.Println("[Scheduler] Stopped")
	}
}

func (rs *RetentionScheduler) run(ticker *time.Ticker, stop <-chan struct{}) {
	defer rs.wg.Done()

	// Run immediately on start
	rs.RunNow()

	for {
		select {
		case <-ticker.C:
			rs.RunNow()
		case <-stop:
			return
		}
	}
}

// RunNow prunes once and returns the number of runs removed.
func (rs *RetentionScheduler) RunNow() int64 {
	cutoff := rs.now().Add(-rs.KeepFor)

	n, err := rs.Store.PruneRuns(context.Background(), cutoff)
	if err != nil {
		log.Printf("[Scheduler] Error pruning runs before %s: %v", cutoff.Format(time.RFC3339), err)
		return 0
	}
	if n > 0 {
		log.Printf("[Scheduler] Pruned %d runs created before %s", n, cutoff.Format(time.RFC3339))
	}
	return n
}
