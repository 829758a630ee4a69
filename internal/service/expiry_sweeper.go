package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

const sweepRunTimeout = 30 * time.Second

// NotifiedExpirer moves notified waitlist entries whose response window
// elapsed into the expired state. Implemented by the waitlist engine.
type NotifiedExpirer interface {
	ExpireNotified(ctx context.Context) (int, error)
}

// ExpirySweeper periodically expires notified waitlist entries whose
// response window has elapsed. No external event guarantees the
// notified -> expired transition fires, so it needs a scheduled sweep.
// The sweep is idempotent: entries already terminal are skipped by the
// compare-and-set in the engine, so overlapping or repeated runs are safe.
type ExpirySweeper struct {
	log      *logrus.Logger
	expirer  NotifiedExpirer
	interval time.Duration

	// Graceful shutdown
	stopChan chan struct{}
	wg       sync.WaitGroup
	stopped  atomic.Bool
}

// NewExpirySweeper creates the sweeper and starts its background loop.
// Call Stop() during graceful shutdown.
func NewExpirySweeper(log *logrus.Logger, expirer NotifiedExpirer, interval time.Duration) *ExpirySweeper {
	s := &ExpirySweeper{
		log:      log,
		expirer:  expirer,
		interval: interval,
		stopChan: make(chan struct{}),
	}

	s.wg.Add(1)
	go s.loop()

	return s
}

// Stop gracefully shuts down the sweeper.
// Safe to call multiple times.
func (s *ExpirySweeper) Stop() {
	if s.stopped.CompareAndSwap(false, true) {
		close(s.stopChan)
		s.wg.Wait()
		s.log.Info("ExpirySweeper stopped")
	}
}

func (s *ExpirySweeper) loop() {
	defer s.wg.Done()

	// Run once at startup so entries that expired while the process was
	// down are caught immediately.
	s.RunOnce(context.Background())

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			s.log.Debug("Expiry sweep goroutine stopping")
			return
		case <-ticker.C:
			s.RunOnce(context.Background())
		}
	}
}

// RunOnce performs a single sweep with a bounded timeout.
func (s *ExpirySweeper) RunOnce(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, sweepRunTimeout)
	defer cancel()

	start := time.Now()
	expired, err := s.expirer.ExpireNotified(runCtx)
	if err != nil {
		s.log.Warnf("Expiry sweep failed: %+v", err)
		return
	}

	if expired > 0 {
		s.log.Infof("Expiry sweep complete: %d entries expired in %v", expired, time.Since(start))
	} else {
		s.log.Debugf("Expiry sweep complete: nothing to expire (%v)", time.Since(start))
	}
}
