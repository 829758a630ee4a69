package service

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

type countingExpirer struct {
	calls atomic.Int32
	err   error
}

func (c *countingExpirer) ExpireNotified(ctx context.Context) (int, error) {
	c.calls.Add(1)
	if c.err != nil {
		return 0, c.err
	}
	return 1, nil
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestSweeperRunsAtStartup(t *testing.T) {
	expirer := &countingExpirer{}
	sweeper := NewExpirySweeper(quietLogger(), expirer, time.Hour)
	defer sweeper.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for expirer.calls.Load() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("startup sweep never ran")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestSweeperPeriodicRuns(t *testing.T) {
	expirer := &countingExpirer{}
	sweeper := NewExpirySweeper(quietLogger(), expirer, 20*time.Millisecond)
	defer sweeper.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for expirer.calls.Load() < 3 {
		if time.Now().After(deadline) {
			t.Fatalf("expected at least 3 sweeps, got %d", expirer.calls.Load())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestSweeperStopIsIdempotent(t *testing.T) {
	sweeper := NewExpirySweeper(quietLogger(), &countingExpirer{}, time.Hour)
	sweeper.Stop()
	sweeper.Stop()
}

func TestSweeperSurvivesExpirerError(t *testing.T) {
	expirer := &countingExpirer{err: errors.New("storage down")}
	sweeper := NewExpirySweeper(quietLogger(), expirer, 20*time.Millisecond)
	defer sweeper.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for expirer.calls.Load() < 2 {
		if time.Now().After(deadline) {
			t.Fatal("sweeper stopped retrying after an error")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
