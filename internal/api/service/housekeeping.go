package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/kikundi/chama/internal/api/store"
)

// HousekeepingService periodically removes refresh tokens that can no
// longer be exchanged so the refresh_tokens table does not grow unbounded.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration

	// Retention keeps revoked and expired tokens around for a while after
	// they stop being usable, which helps when auditing a session.
	Retention time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a new housekeeping service with the given interval.
// If interval is 0 or negative, defaults to 1 hour.
func NewHousekeepingService(store store.Store, logger *slog.Logger, interval, retention time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}
	if retention < 0 {
		retention = 0
	}

	return &HousekeepingService{
		Store:     store,
		Logger:    logger,
		Interval:  interval,
		Retention: retention,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Start begins the background worker. Call Stop to shut it down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop blocks until any in-progress cleanup has finished.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Run cleanup immediately on startup
	s.Cleanup(context.Background())

	for {
		select {
		case <-ticker.C:
			s.Cleanup(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// Cleanup deletes stale refresh tokens once and reports how many went.
func (s *HousekeepingService) Cleanup(ctx context.Context) int64 {
	cutoff := time.Now().Add(-s.Retention)

	n, err := s.Store.RefreshTokens().DeleteStaleRefreshTokens(ctx, cutoff)
	if err != nil {
		s.Logger.Error("failed to delete stale refresh tokens", "error", err)
		return 0
	}

	s.Logger.Info("housekeeping cleanup completed", "refresh_tokens_deleted", n)
	return n
}
