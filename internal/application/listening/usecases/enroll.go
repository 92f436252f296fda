package usecases

import (
	"context"
	"errors"
	"fmt"

	"calmora/internal/application/listening/dto"
	"calmora/internal/domain/catalog"
	"calmora/internal/domain/listening"
	"calmora/internal/shared/logger"
)

type EnrollCommand struct {
	UserID     uint
	ProgramSID string
}

// EnrollResult carries the created or existing enrollment. Created is false
// when the user was already enrolled, which the handler reports as a
// non-error repeat request.
type EnrollResult struct {
	Enrollment *dto.EnrollmentDTO
	Created    bool
}

// EnrollUseCase enrolls a user into a curated program and lists their
// enrollments. Re-enrolling returns the existing enrollment without
// resetting progress.
type EnrollUseCase struct {
	enrollmentRepo listening.EnrollmentRepository
	programRepo    catalog.ProgramRepository
	logger         logger.Interface
}

func NewEnrollUseCase(
	enrollmentRepo listening.EnrollmentRepository,
	programRepo catalog.ProgramRepository,
	logger logger.Interface,
) *EnrollUseCase {
	return &EnrollUseCase{
		enrollmentRepo: enrollmentRepo,
		programRepo:    programRepo,
		logger:         logger,
	}
}

func (uc *EnrollUseCase) Execute(ctx context.Context, cmd EnrollCommand) (*EnrollResult, error) {
	program, err := uc.programRepo.GetBySID(ctx, cmd.ProgramSID)
	if err != nil {
		uc.logger.Errorw("failed to get program", "error", err, "sid", cmd.ProgramSID)
		return nil, fmt.Errorf("failed to get program: %w", err)
	}
	if program == nil || !program.IsActive() {
		return nil, catalog.ErrProgramNotFound
	}

	existing, err := uc.enrollmentRepo.GetByUserAndProgram(ctx, cmd.UserID, program.ID())
	if err != nil {
		uc.logger.Errorw("failed to check enrollment", "error", err, "user_id", cmd.UserID)
		return nil, fmt.Errorf("failed to check enrollment: %w", err)
	}
	if existing != nil {
		return &EnrollResult{
			Enrollment: dto.ToEnrollmentDTO(existing, program.SID(), program.TotalTracks()),
			Created:    false,
		}, nil
	}

	enrollment, err := listening.NewEnrollment(cmd.UserID, program.ID())
	if err != nil {
		return nil, fmt.Errorf("invalid enrollment: %w", err)
	}
	if err := uc.enrollmentRepo.Create(ctx, enrollment); err != nil {
		if errors.Is(err, listening.ErrAlreadyEnrolled) {
			// Lost the race to a concurrent enroll; hand back the winner's row.
			winner, getErr := uc.enrollmentRepo.GetByUserAndProgram(ctx, cmd.UserID, program.ID())
			if getErr != nil || winner == nil {
				return nil, fmt.Errorf("failed to load enrollment: %w", getErr)
			}
			return &EnrollResult{
				Enrollment: dto.ToEnrollmentDTO(winner, program.SID(), program.TotalTracks()),
				Created:    false,
			}, nil
		}
		uc.logger.Errorw("failed to create enrollment", "error", err, "user_id", cmd.UserID)
		return nil, fmt.Errorf("failed to create enrollment: %w", err)
	}

	uc.logger.Infow("user enrolled in program", "user_id", cmd.UserID, "program", program.SID())
	return &EnrollResult{
		Enrollment: dto.ToEnrollmentDTO(enrollment, program.SID(), program.TotalTracks()),
		Created:    true,
	}, nil
}

func (uc *EnrollUseCase) List(ctx context.Context, userID uint, offset, limit int) ([]*dto.EnrollmentDTO, int64, error) {
	enrollments, total, err := uc.enrollmentRepo.ListByUserID(ctx, userID, offset, limit)
	if err != nil {
		uc.logger.Errorw("failed to list enrollments", "error", err, "user_id", userID)
		return nil, 0, fmt.Errorf("failed to list enrollments: %w", err)
	}

	dtos := make([]*dto.EnrollmentDTO, 0, len(enrollments))
	for _, e := range enrollments {
		program, err := uc.programRepo.GetByID(ctx, e.ProgramID())
		if err != nil {
			return nil, 0, fmt.Errorf("failed to load program: %w", err)
		}
		programSID := ""
		totalTracks := 0
		if program != nil {
			programSID = program.SID()
			totalTracks = program.TotalTracks()
		}
		dtos = append(dtos, dto.ToEnrollmentDTO(e, programSID, totalTracks))
	}
	return dtos, total, nil
}
