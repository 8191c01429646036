package providers

import (
	"context"
	"time"

	"github.com/samber/do/v2"

	"github.com/daveroberts0321/taleblock/internal/config"
	"github.com/daveroberts0321/taleblock/internal/logger"
	"github.com/daveroberts0321/taleblock/internal/service"
)

// SessionSweepJob runs the periodic expired-session sweep.
type SessionSweepJob struct {
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (j *SessionSweepJob) Shutdown() error {
	j.cancel()
	return nil
}

// ProvideSessionSweepJob provides the periodic session sweep job.
// The sweep only removes sessions whose expiry has already passed, so it is
// safe to run while logins and validations are in flight.
func ProvideSessionSweepJob(i do.Injector) (*SessionSweepJob, error) {
	sessions := do.MustInvoke[*service.SessionService](i)
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	interval := cfg.Auth.SweepInterval
	if interval <= 0 {
		interval = time.Hour
	}

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		// Initial sweep on startup.
		if _, err := sessions.SweepExpired(ctx); err != nil {
			log.Warn("Initial session sweep failed", "error", err)
		}

		for {
			select {
			case <-ticker.C:
				if _, err := sessions.SweepExpired(ctx); err != nil {
					log.Warn("Session sweep failed", "error", err)
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	log.Info("Session sweep job started", "interval", interval)

	return &SessionSweepJob{cancel: cancel}, nil
}
