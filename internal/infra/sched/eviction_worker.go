package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"mood-aware-chat/internal/infra/metrics"
	"mood-aware-chat/internal/session"
)

// EvictionWorker periodically sweeps idle session buffers.
type EvictionWorker struct {
	interval time.Duration
	sessions *session.Manager
	log      *zerolog.Logger
}

func NewEvictionWorker(interval time.Duration, sessions *session.Manager, logger *zerolog.Logger) *EvictionWorker {
	compLog := logger.With().Str("component", "EvictionWorker").Logger()
	return &EvictionWorker{
		interval: interval,
		sessions: sessions,
		log:      &compLog,
	}
}

func (w *EvictionWorker) Run(ctx context.Context) error {
	w.log.Info().Msg("Starting eviction worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping eviction worker")
			return ctx.Err()
		case <-ticker.C:
			n := w.sessions.EvictExpired(time.Now())
			if n > 0 {
				metrics.AddSessionsEvicted(n)
				w.log.Info().Int("count", n).Int("live", w.sessions.Len()).Msg("sessions evicted")
			}
		}
	}
}
