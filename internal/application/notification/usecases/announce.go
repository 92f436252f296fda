package usecases

import (
	"context"
	"fmt"

	"calmora/internal/domain/notification"
	"calmora/internal/domain/user"
	"calmora/internal/shared/logger"
)

type AnnounceCommand struct {
	Title string
	Body  string
	Data  map[string]string
}

const announceBatchSize = 500

// AnnounceUseCase broadcasts an announcement to every user as individual
// notification rows. It pages through the user table so memory stays flat
// regardless of user count; push delivery is skipped on broadcasts.
type AnnounceUseCase struct {
	notificationRepo notification.Repository
	userRepo         user.Repository
	logger           logger.Interface
}

func NewAnnounceUseCase(
	notificationRepo notification.Repository,
	userRepo user.Repository,
	logger logger.Interface,
) *AnnounceUseCase {
	return &AnnounceUseCase{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		logger:           logger,
	}
}

func (uc *AnnounceUseCase) Execute(ctx context.Context, cmd AnnounceCommand) (int, error) {
	created := 0
	offset := 0
	for {
		if ctx.Err() != nil {
			return created, ctx.Err()
		}

		users, _, err := uc.userRepo.List(ctx, offset, announceBatchSize)
		if err != nil {
			return created, fmt.Errorf("failed to list users: %w", err)
		}
		if len(users) == 0 {
			break
		}

		batch := make([]*notification.Notification, 0, len(users))
		for _, u := range users {
			n, err := notification.New(u.ID(), notification.TypeAnnouncement, cmd.Title, cmd.Body, cmd.Data)
			if err != nil {
				return created, fmt.Errorf("invalid announcement: %w", err)
			}
			batch = append(batch, n)
		}
		if err := uc.notificationRepo.CreateBatch(ctx, batch); err != nil {
			uc.logger.Errorw("failed to persist announcement batch", "error", err, "offset", offset)
			return created, fmt.Errorf("failed to persist announcement batch: %w", err)
		}

		created += len(batch)
		offset += len(users)
		if len(users) < announceBatchSize {
			break
		}
	}

	uc.logger.Infow("announcement broadcast", "title", cmd.Title, "recipients", created)
	return created, nil
}
