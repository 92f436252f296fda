package usecases

import (
	"context"
	"fmt"
	"time"

	"calmora/internal/domain/listening"
	"calmora/internal/shared/logger"
)

const sweepBatchSize = 500

// DefaultAbandonThreshold is how long a session may stay open without an end
// call before the sweep force-closes it.
const DefaultAbandonThreshold = 24 * time.Hour

// SweepSessionsUseCase force-closes abandoned listening sessions so history
// and statistics are not inflated by clients that died mid-playback. It runs
// as a scheduled batch job.
type SweepSessionsUseCase struct {
	sessionRepo listening.SessionRepository
	threshold   time.Duration
	logger      logger.Interface
}

func NewSweepSessionsUseCase(
	sessionRepo listening.SessionRepository,
	threshold time.Duration,
	logger logger.Interface,
) *SweepSessionsUseCase {
	if threshold <= 0 {
		threshold = DefaultAbandonThreshold
	}
	return &SweepSessionsUseCase{
		sessionRepo: sessionRepo,
		threshold:   threshold,
		logger:      logger,
	}
}

// Execute closes every open session older than the threshold. It returns the
// number of sessions closed and keeps going past per-session failures.
func (uc *SweepSessionsUseCase) Execute(ctx context.Context) (int, error) {
	now := time.Now().UTC()
	cutoff := now.Add(-uc.threshold)

	closed := 0
	for {
		sessions, err := uc.sessionRepo.ListAbandoned(ctx, cutoff, sweepBatchSize)
		if err != nil {
			return closed, fmt.Errorf("failed to list abandoned sessions: %w", err)
		}
		if len(sessions) == 0 {
			break
		}

		progressed := false
		for _, session := range sessions {
			if err := session.ForceClose(now); err != nil {
				uc.logger.Errorw("failed to force-close session", "error", err, "sid", session.SID())
				continue
			}
			if err := uc.sessionRepo.Update(ctx, session); err != nil {
				uc.logger.Errorw("failed to persist closed session", "error", err, "sid", session.SID())
				continue
			}
			closed++
			progressed = true
		}
		// every session in the batch failed; stop instead of spinning on the
		// same rows
		if !progressed {
			break
		}
		if len(sessions) < sweepBatchSize {
			break
		}
	}

	if closed > 0 {
		uc.logger.Infow("abandoned sessions closed", "count", closed)
	}
	return closed, nil
}
