package usecases

import (
	"context"
	"fmt"

	"calmora/internal/application/notification/dto"
	"calmora/internal/domain/notification"
	"calmora/internal/shared/logger"
)

// ListNotificationsUseCase returns a user's notifications newest first, with
// the unread count for the badge.
type ListNotificationsUseCase struct {
	notificationRepo notification.Repository
	logger           logger.Interface
}

func NewListNotificationsUseCase(notificationRepo notification.Repository, logger logger.Interface) *ListNotificationsUseCase {
	return &ListNotificationsUseCase{notificationRepo: notificationRepo, logger: logger}
}

type ListNotificationsResult struct {
	Notifications []*dto.NotificationDTO
	Total         int64
	UnreadCount   int64
}

func (uc *ListNotificationsUseCase) Execute(ctx context.Context, userID uint, unreadOnly bool, offset, limit int) (*ListNotificationsResult, error) {
	ns, total, err := uc.notificationRepo.ListByUserID(ctx, userID, unreadOnly, offset, limit)
	if err != nil {
		uc.logger.Errorw("failed to list notifications", "error", err, "user_id", userID)
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	unread, err := uc.notificationRepo.CountUnread(ctx, userID)
	if err != nil {
		uc.logger.Errorw("failed to count unread notifications", "error", err, "user_id", userID)
		return nil, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	return &ListNotificationsResult{
		Notifications: dto.ToNotificationDTOList(ns),
		Total:         total,
		UnreadCount:   unread,
	}, nil
}
