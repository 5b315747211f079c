package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/lockdownctf/bankapi/internal/bank/store"
)

// CleanupService periodically deletes sessions that have crossed the validity
// window. Deletion is physical housekeeping only; logical expiry in the
// session manager makes a session unusable the instant it ages out, whether
// or not this job has run yet.
type CleanupService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration
	TTL      time.Duration
	Timeout  time.Duration

	// Internal channels for lifecycle management
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewCleanupService creates a cleanup service. A non-positive interval
// defaults to one minute, a non-positive ttl to the session TTL.
func NewCleanupService(st store.Store, logger *slog.Logger, interval, ttl time.Duration) *CleanupService {
	if interval <= 0 {
		interval = time.Minute
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}

	return &CleanupService{
		Store:    st,
		Logger:   logger,
		Interval: interval,
		TTL:      ttl,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background worker. Non-blocking; call after the store is
// ready. Call Stop() to shut the worker down.
func (s *CleanupService) Start() {
	go s.run()
	s.Logger.Info("session cleanup started",
		"interval", s.Interval,
		"session_ttl", s.TTL,
	)
}

// Stop gracefully shuts down the background worker.
// Blocks until the worker has finished any in-progress run.
func (s *CleanupService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("session cleanup stopped")
}

// run aligns the first pass to the top of the next minute, then repeats every
// interval.
func (s *CleanupService) run() {
	defer close(s.doneCh)

	now := time.Now()
	first := time.NewTimer(now.Truncate(time.Minute).Add(time.Minute).Sub(now))
	defer first.Stop()

	select {
	case <-first.C:
	case <-s.stopCh:
		return
	}

	s.cleanup()

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopCh:
			return
		}
	}
}

// cleanup runs one pass and logs the outcome. Failures never escape: a bad
// run is a no-op, not fatal to the scheduler.
func (s *CleanupService) cleanup() {
	deleted, err := s.RunOnce(context.Background())
	if err != nil {
		s.Logger.Error("session cleanup failed", "error", err)
		return
	}
	s.Logger.Info("session cleanup completed", "deleted", deleted)
}

// RunOnce deletes all sessions older than TTL in a single transaction and
// reports how many rows went away. Idempotent: a second pass with no newly
// expired sessions deletes zero rows. On error the transaction rolls back
// and no sessions are touched.
func (s *CleanupService) RunOnce(ctx context.Context) (int64, error) {
	opCtx, cancel := storeCtx(ctx, s.Timeout)
	defer cancel()

	cutoff := time.Now().Add(-s.TTL)

	var deleted int64
	err := s.Store.WithTx(opCtx, func(tx store.Tx) error {
		var err error
		deleted, err = tx.Sessions().DeleteSessionsBefore(opCtx, cutoff)
		return err
	})
	if err != nil {
		return 0, mapStoreErr(err)
	}
	return deleted, nil
}
