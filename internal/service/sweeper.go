package service

import (
	"context"
	"time"

	"bookworm/internal/logger"
)

// SweeperService periodically purges expired session rows so the
// sessions table does not grow without bound.
type SweeperService struct {
	sessions Sessions
	log      *logger.Logger
}

func NewSweeperService(sessions Sessions, log *logger.Logger) *SweeperService {
	return &SweeperService{sessions: sessions, log: log}
}

var _ Sweeper = (*SweeperService)(nil)

// Run loops until ctx is cancelled, purging once per tick.
func (s *SweeperService) Run(ctx context.Context, tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := s.sessions.PurgeExpired(ctx)
			if err != nil {
				if s.log != nil {
					s.log.Errorw("session_purge_failed", "err", err)
				}
				continue
			}
			if n > 0 && s.log != nil {
				s.log.Infow("sessions_purged", "count", n)
			}
		}
	}
}
