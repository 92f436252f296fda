package usecases

import (
	"context"
	"fmt"

	"calmora/internal/application/listening/dto"
	"calmora/internal/domain/catalog"
	"calmora/internal/domain/listening"
	"calmora/internal/domain/notification"
	"calmora/internal/shared/logger"
)

type MarkTrackCompleteCommand struct {
	UserID     uint
	ProgramSID string
	TrackSID   string
}

// MarkTrackCompleteUseCase records a completed track inside an enrolled
// program. Completing the last remaining track fires the program-finished
// notification exactly once; repeating the call afterwards is a no-op.
type MarkTrackCompleteUseCase struct {
	enrollmentRepo listening.EnrollmentRepository
	programRepo    catalog.ProgramRepository
	trackRepo      catalog.TrackRepository
	logger         logger.Interface
	notifier       Notifier
}

func NewMarkTrackCompleteUseCase(
	enrollmentRepo listening.EnrollmentRepository,
	programRepo catalog.ProgramRepository,
	trackRepo catalog.TrackRepository,
	logger logger.Interface,
) *MarkTrackCompleteUseCase {
	return &MarkTrackCompleteUseCase{
		enrollmentRepo: enrollmentRepo,
		programRepo:    programRepo,
		trackRepo:      trackRepo,
		logger:         logger,
	}
}

// SetNotifier wires the optional achievement notifier.
func (uc *MarkTrackCompleteUseCase) SetNotifier(n Notifier) {
	uc.notifier = n
}

func (uc *MarkTrackCompleteUseCase) Execute(ctx context.Context, cmd MarkTrackCompleteCommand) (*dto.EnrollmentDTO, error) {
	program, err := uc.programRepo.GetBySID(ctx, cmd.ProgramSID)
	if err != nil {
		uc.logger.Errorw("failed to get program", "error", err, "sid", cmd.ProgramSID)
		return nil, fmt.Errorf("failed to get program: %w", err)
	}
	if program == nil {
		return nil, catalog.ErrProgramNotFound
	}

	track, err := uc.trackRepo.GetBySID(ctx, cmd.TrackSID)
	if err != nil {
		uc.logger.Errorw("failed to get track", "error", err, "sid", cmd.TrackSID)
		return nil, fmt.Errorf("failed to get track: %w", err)
	}
	if track == nil {
		return nil, catalog.ErrTrackNotFound
	}
	if !program.ContainsTrack(track.ID()) {
		return nil, listening.ErrTrackNotInProgram
	}

	enrollment, err := uc.enrollmentRepo.GetByUserAndProgram(ctx, cmd.UserID, program.ID())
	if err != nil {
		uc.logger.Errorw("failed to get enrollment", "error", err, "user_id", cmd.UserID)
		return nil, fmt.Errorf("failed to get enrollment: %w", err)
	}
	if enrollment == nil {
		return nil, listening.ErrNotEnrolled
	}

	justCompleted, err := enrollment.MarkTrackComplete(track.ID(), program.TotalTracks())
	if err != nil {
		return nil, fmt.Errorf("failed to mark track complete: %w", err)
	}
	if err := uc.enrollmentRepo.Update(ctx, enrollment); err != nil {
		uc.logger.Errorw("failed to update enrollment", "error", err, "user_id", cmd.UserID)
		return nil, fmt.Errorf("failed to update enrollment: %w", err)
	}

	if justCompleted {
		uc.logger.Infow("program completed", "user_id", cmd.UserID, "program", program.SID())
		if uc.notifier != nil {
			if err := uc.notifier.Notify(ctx, cmd.UserID, notification.TypeAchievement,
				"Program completed",
				fmt.Sprintf("You finished %s. Well done!", program.Title()),
				map[string]string{"program_sid": program.SID()},
			); err != nil {
				uc.logger.Errorw("failed to send completion notification", "error", err, "user_id", cmd.UserID)
			}
		}
	}
	return dto.ToEnrollmentDTO(enrollment, program.SID(), program.TotalTracks()), nil
}
