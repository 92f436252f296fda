package usecases

import (
	"context"
	"fmt"

	"calmora/internal/domain/notification"
	"calmora/internal/shared/logger"
)

// MarkReadUseCase marks notifications read. Marking an already-read
// notification is a no-op that preserves the original read timestamp.
type MarkReadUseCase struct {
	notificationRepo notification.Repository
	logger           logger.Interface
}

func NewMarkReadUseCase(notificationRepo notification.Repository, logger logger.Interface) *MarkReadUseCase {
	return &MarkReadUseCase{notificationRepo: notificationRepo, logger: logger}
}

// MarkOne marks a single notification read. Ownership is enforced here: a SID
// belonging to another user reads as not-found.
func (uc *MarkReadUseCase) MarkOne(ctx context.Context, userID uint, sid string) error {
	n, err := uc.notificationRepo.GetBySID(ctx, sid)
	if err != nil {
		uc.logger.Errorw("failed to get notification", "error", err, "sid", sid)
		return fmt.Errorf("failed to get notification: %w", err)
	}
	if n == nil || n.UserID() != userID {
		return notification.ErrNotificationNotFound
	}
	if n.IsRead() {
		return nil
	}

	n.MarkRead()
	if err := uc.notificationRepo.Update(ctx, n); err != nil {
		uc.logger.Errorw("failed to update notification", "error", err, "sid", sid)
		return fmt.Errorf("failed to update notification: %w", err)
	}
	return nil
}

// MarkAll marks every unread notification for the user read in one statement.
func (uc *MarkReadUseCase) MarkAll(ctx context.Context, userID uint) error {
	if err := uc.notificationRepo.MarkAllRead(ctx, userID); err != nil {
		uc.logger.Errorw("failed to mark all notifications read", "error", err, "user_id", userID)
		return fmt.Errorf("failed to mark all notifications read: %w", err)
	}
	return nil
}
