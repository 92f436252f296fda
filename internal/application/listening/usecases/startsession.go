package usecases

import (
	"context"
	"fmt"
	"time"

	"calmora/internal/application/listening/dto"
	"calmora/internal/domain/catalog"
	"calmora/internal/domain/listening"
	"calmora/internal/domain/subscription"
	"calmora/internal/shared/errors"
	"calmora/internal/shared/logger"
)

type StartSessionCommand struct {
	UserID     uint
	TrackSID   string
	ProgramSID string
	DeviceInfo map[string]string
}

// StartSessionUseCase opens a listening session. Access is checked against
// the entitlement snapshot the same way the stream URL endpoint does, so a
// client cannot log plays for content it cannot stream.
type StartSessionUseCase struct {
	sessionRepo  listening.SessionRepository
	trackRepo    catalog.TrackRepository
	programRepo  catalog.ProgramRepository
	snapshotRepo subscription.SnapshotRepository
	logger       logger.Interface
}

func NewStartSessionUseCase(
	sessionRepo listening.SessionRepository,
	trackRepo catalog.TrackRepository,
	programRepo catalog.ProgramRepository,
	snapshotRepo subscription.SnapshotRepository,
	logger logger.Interface,
) *StartSessionUseCase {
	return &StartSessionUseCase{
		sessionRepo:  sessionRepo,
		trackRepo:    trackRepo,
		programRepo:  programRepo,
		snapshotRepo: snapshotRepo,
		logger:       logger,
	}
}

func (uc *StartSessionUseCase) Execute(ctx context.Context, cmd StartSessionCommand) (*dto.SessionDTO, error) {
	track, err := uc.trackRepo.GetBySID(ctx, cmd.TrackSID)
	if err != nil {
		uc.logger.Errorw("failed to get track", "error", err, "sid", cmd.TrackSID)
		return nil, fmt.Errorf("failed to get track: %w", err)
	}
	if track == nil || !track.IsActive() {
		return nil, catalog.ErrTrackNotFound
	}

	snap, err := uc.snapshotRepo.GetByUserID(ctx, cmd.UserID)
	if err != nil {
		uc.logger.Errorw("failed to get entitlement snapshot", "error", err, "user_id", cmd.UserID)
		return nil, fmt.Errorf("failed to get entitlement snapshot: %w", err)
	}
	if !subscription.HasAccess(snap, track.ContentTier(), time.Now().UTC()) {
		return nil, errors.NewForbiddenError("subscription required for this track")
	}

	var programID *uint
	programSID := ""
	if cmd.ProgramSID != "" {
		program, err := uc.programRepo.GetBySID(ctx, cmd.ProgramSID)
		if err != nil {
			uc.logger.Errorw("failed to get program", "error", err, "sid", cmd.ProgramSID)
			return nil, fmt.Errorf("failed to get program: %w", err)
		}
		if program == nil {
			return nil, catalog.ErrProgramNotFound
		}
		if !program.ContainsTrack(track.ID()) {
			return nil, listening.ErrTrackNotInProgram
		}
		pid := program.ID()
		programID = &pid
		programSID = program.SID()
	}

	session, err := listening.NewSession(cmd.UserID, track.ID(), programID, cmd.DeviceInfo)
	if err != nil {
		return nil, fmt.Errorf("invalid session: %w", err)
	}
	if err := uc.sessionRepo.Create(ctx, session); err != nil {
		uc.logger.Errorw("failed to create session", "error", err, "user_id", cmd.UserID)
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	uc.logger.Infow("listening session started",
		"sid", session.SID(), "user_id", cmd.UserID, "track", track.SID())
	return dto.ToSessionDTO(session, track.SID(), programSID), nil
}
