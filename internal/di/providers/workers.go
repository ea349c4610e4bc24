package providers

import (
	"context"
	"time"

	"github.com/samber/do/v2"

	"github.com/kaizenhub/kaizenhub-server/internal/config"
	"github.com/kaizenhub/kaizenhub-server/internal/logger"
	"github.com/kaizenhub/kaizenhub-server/internal/ratelimit"
	"github.com/kaizenhub/kaizenhub-server/internal/recalc"
	"github.com/kaizenhub/kaizenhub-server/internal/service"
)

// sessionCleanupInterval controls how often expired sessions are purged.
const sessionCleanupInterval = time.Hour

// RecalcQueueHandle wraps the background recalculation queue with shutdown capability.
type RecalcQueueHandle struct {
	*recalc.Queue
}

// Shutdown implements do.Shutdownable. It drains in-flight recalculations
// before returning so aggregates are not left mid-update.
func (h *RecalcQueueHandle) Shutdown() error {
	h.Queue.Shutdown()
	return nil
}

// ProvideRecalcQueue provides the background savings recalculation queue.
func ProvideRecalcQueue(i do.Injector) (*RecalcQueueHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	scoring := do.MustInvoke[*service.ScoringService](i)
	log := do.MustInvoke[*logger.Logger](i)

	queue := recalc.NewQueue(scoring, cfg.Recalc.Workers, cfg.Recalc.QueueSize, log.Logger)

	log.Info("Recalculation queue started",
		"workers", cfg.Recalc.Workers,
		"queue_size", cfg.Recalc.QueueSize,
	)

	return &RecalcQueueHandle{Queue: queue}, nil
}

// LoginLimiterHandle wraps the per-client login rate limiter with shutdown capability.
type LoginLimiterHandle struct {
	*ratelimit.KeyedRateLimiter
}

// Shutdown implements do.Shutdownable.
func (h *LoginLimiterHandle) Shutdown() error {
	h.Stop()
	return nil
}

// ProvideLoginLimiter provides the rate limiter guarding the login endpoint.
func ProvideLoginLimiter(i do.Injector) (*LoginLimiterHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)

	limiter := ratelimit.New(cfg.RateLimit.LoginRPS, cfg.RateLimit.LoginBurst)

	return &LoginLimiterHandle{KeyedRateLimiter: limiter}, nil
}

// SessionCleanupJob periodically removes expired refresh sessions.
type SessionCleanupJob struct {
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (j *SessionCleanupJob) Shutdown() error {
	j.cancel()
	return nil
}

// ProvideSessionCleanupJob starts the background session cleanup worker.
func ProvideSessionCleanupJob(i do.Injector) (*SessionCleanupJob, error) {
	sessions := do.MustInvoke[*service.SessionService](i)
	log := do.MustInvoke[*logger.Logger](i)

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		cleanup := func() {
			removed, err := sessions.CleanupExpiredSessions(ctx)
			if err != nil {
				log.Error("Session cleanup failed", "error", err)
				return
			}
			if removed > 0 {
				log.Info("Expired sessions removed", "count", removed)
			}
		}

		cleanup()

		ticker := time.NewTicker(sessionCleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				cleanup()
			}
		}
	}()

	log.Info("Session cleanup job started", "interval", sessionCleanupInterval)

	return &SessionCleanupJob{cancel: cancel}, nil
}
