package session

import (
	"context"
	"time"

	"ai-support-chat-be/internal/pkg/logger"
)

// Sweeper periodically evicts idle sessions from a Store. It is owned
// by the process supervisor: started after the store exists, stopped
// via context cancellation before teardown.
type Sweeper struct {
	store    *Store
	ttl      time.Duration
	interval time.Duration
	logger   logger.ILogger
}

func NewSweeper(store *Store, ttl, interval time.Duration, log logger.ILogger) *Sweeper {
	return &Sweeper{
		store:    store,
		ttl:      ttl,
		interval: interval,
		logger:   log,
	}
}

// Run blocks until ctx is canceled, sweeping once per interval. A
// cancellation between sweeps returns immediately; a cancellation
// during a sweep lets the current pass finish (passes are short and
// never leave the store locked).
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("SESSION_SWEEPER", "Sweeper started", map[string]interface{}{
		"ttl":      s.ttl.String(),
		"interval": s.interval.String(),
	})

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("SESSION_SWEEPER", "Sweeper stopped", nil)
			return
		case <-ticker.C:
			removed := s.store.EvictExpired(s.ttl)
			if removed > 0 {
				s.logger.Info("SESSION_SWEEPER", "Evicted idle sessions", map[string]interface{}{
					"removed":   removed,
					"remaining": s.store.Len(),
				})
			}
		}
	}
}
