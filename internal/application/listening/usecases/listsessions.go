package usecases

import (
	"context"
	"fmt"

	"calmora/internal/application/listening/dto"
	"calmora/internal/domain/catalog"
	"calmora/internal/domain/listening"
	"calmora/internal/shared/logger"
)

type ListSessionsResult struct {
	Sessions []*dto.SessionDTO
	Total    int64
}

// ListSessionsUseCase pages a user's listening history, newest first.
type ListSessionsUseCase struct {
	sessionRepo listening.SessionRepository
	trackRepo   catalog.TrackRepository
	logger      logger.Interface
}

func NewListSessionsUseCase(
	sessionRepo listening.SessionRepository,
	trackRepo catalog.TrackRepository,
	logger logger.Interface,
) *ListSessionsUseCase {
	return &ListSessionsUseCase{
		sessionRepo: sessionRepo,
		trackRepo:   trackRepo,
		logger:      logger,
	}
}

func (uc *ListSessionsUseCase) Execute(ctx context.Context, userID uint, offset, limit int) (*ListSessionsResult, error) {
	sessions, total, err := uc.sessionRepo.ListByUserID(ctx, userID, offset, limit)
	if err != nil {
		uc.logger.Errorw("failed to list sessions", "error", err, "user_id", userID)
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	trackIDs := make([]uint, 0, len(sessions))
	seen := make(map[uint]bool, len(sessions))
	for _, s := range sessions {
		if !seen[s.TrackID()] {
			seen[s.TrackID()] = true
			trackIDs = append(trackIDs, s.TrackID())
		}
	}
	sidByID := map[uint]string{}
	if len(trackIDs) > 0 {
		tracks, err := uc.trackRepo.GetByIDs(ctx, trackIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to load session tracks: %w", err)
		}
		for _, t := range tracks {
			sidByID[t.ID()] = t.SID()
		}
	}

	dtos := make([]*dto.SessionDTO, 0, len(sessions))
	for _, s := range sessions {
		dtos = append(dtos, dto.ToSessionDTO(s, sidByID[s.TrackID()], ""))
	}
	return &ListSessionsResult{Sessions: dtos, Total: total}, nil
}
