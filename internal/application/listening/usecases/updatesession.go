package usecases

import (
	"context"
	"fmt"

	"calmora/internal/application/listening/dto"
	"calmora/internal/domain/listening"
	"calmora/internal/shared/logger"
)

type UpdatePositionCommand struct {
	UserID          uint
	SessionSID      string
	PositionSeconds int
}

type EndSessionCommand struct {
	UserID     uint
	SessionSID string
	Completed  bool
}

// UpdateSessionUseCase handles progress heartbeats and session close. Both
// operations are owner-scoped; a SID belonging to another user reads as
// not-found.
type UpdateSessionUseCase struct {
	sessionRepo listening.SessionRepository
	logger      logger.Interface
}

func NewUpdateSessionUseCase(sessionRepo listening.SessionRepository, logger logger.Interface) *UpdateSessionUseCase {
	return &UpdateSessionUseCase{sessionRepo: sessionRepo, logger: logger}
}

func (uc *UpdateSessionUseCase) UpdatePosition(ctx context.Context, cmd UpdatePositionCommand) (*dto.SessionDTO, error) {
	session, err := uc.ownedSession(ctx, cmd.UserID, cmd.SessionSID)
	if err != nil {
		return nil, err
	}
	if !session.IsOpen() {
		return nil, listening.ErrSessionEnded
	}
	if err := session.UpdatePosition(cmd.PositionSeconds); err != nil {
		return nil, fmt.Errorf("invalid position: %w", err)
	}
	if err := uc.sessionRepo.Update(ctx, session); err != nil {
		uc.logger.Errorw("failed to update session", "error", err, "sid", cmd.SessionSID)
		return nil, fmt.Errorf("failed to update session: %w", err)
	}
	return dto.ToSessionDTO(session, "", ""), nil
}

func (uc *UpdateSessionUseCase) End(ctx context.Context, cmd EndSessionCommand) (*dto.SessionDTO, error) {
	session, err := uc.ownedSession(ctx, cmd.UserID, cmd.SessionSID)
	if err != nil {
		return nil, err
	}
	if !session.IsOpen() {
		return nil, listening.ErrSessionEnded
	}
	if err := session.End(cmd.Completed); err != nil {
		return nil, fmt.Errorf("failed to end session: %w", err)
	}
	if err := uc.sessionRepo.Update(ctx, session); err != nil {
		uc.logger.Errorw("failed to update session", "error", err, "sid", cmd.SessionSID)
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	uc.logger.Infow("listening session ended",
		"sid", session.SID(), "duration_seconds", session.DurationSeconds(), "completed", session.IsCompleted())
	return dto.ToSessionDTO(session, "", ""), nil
}

func (uc *UpdateSessionUseCase) ownedSession(ctx context.Context, userID uint, sid string) (*listening.Session, error) {
	session, err := uc.sessionRepo.GetBySID(ctx, sid)
	if err != nil {
		uc.logger.Errorw("failed to get session", "error", err, "sid", sid)
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil || session.UserID() != userID {
		return nil, listening.ErrSessionNotFound
	}
	return session, nil
}
