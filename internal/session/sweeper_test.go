package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

func TestSweeperEvictsIdleSessions(t *testing.T) {
	store := NewStore()
	store.GetOrCreate("idle")

	sweeper := NewSweeper(store, 10*time.Millisecond, 20*time.Millisecond, nopLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sweeper.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		return !store.IsKnown("idle")
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancellation")
	}
}

func TestSweeperStopsOnCancel(t *testing.T) {
	store := NewStore()
	sweeper := NewSweeper(store, time.Hour, 10*time.Millisecond, nopLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		sweeper.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}

func TestSweeperKeepsActiveSessions(t *testing.T) {
	store := NewStore()
	store.GetOrCreate("active")

	sweeper := NewSweeper(store, 200*time.Millisecond, 20*time.Millisecond, nopLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sweeper.Run(ctx)

	// Keep touching the session past several sweep intervals.
	for i := 0; i < 5; i++ {
		time.Sleep(30 * time.Millisecond)
		store.Touch("active")
	}

	assert.True(t, store.IsKnown("active"))
}
