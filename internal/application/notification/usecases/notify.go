package usecases

import (
	"context"
	"fmt"

	"calmora/internal/domain/notification"
	"calmora/internal/domain/user"
	"calmora/internal/infrastructure/push"
	"calmora/internal/shared/goroutine"
	"calmora/internal/shared/logger"
)

// PushSender fans one payload out to a set of device tokens.
type PushSender interface {
	Send(ctx context.Context, messages []push.Message) []push.Result
}

// NotifyUseCase persists an in-app notification and fans it out to the user's
// registered devices when push is enabled. Dead device registrations reported
// by the push provider are pruned on the spot.
type NotifyUseCase struct {
	notificationRepo notification.Repository
	userRepo         user.Repository
	pushSender       PushSender
	logger           logger.Interface
	launch           func(log logger.Interface, name string, fn func())
}

func NewNotifyUseCase(
	notificationRepo notification.Repository,
	userRepo user.Repository,
	pushSender PushSender,
	logger logger.Interface,
) *NotifyUseCase {
	return &NotifyUseCase{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		pushSender:       pushSender,
		logger:           logger,
		launch:           goroutine.SafeGo,
	}
}

// Notify implements the lifecycle notifier consumed by other modules.
func (uc *NotifyUseCase) Notify(ctx context.Context, userID uint, kind notification.Type, title, body string, data map[string]string) error {
	n, err := notification.New(userID, kind, title, body, data)
	if err != nil {
		return fmt.Errorf("invalid notification: %w", err)
	}
	if err := uc.notificationRepo.Create(ctx, n); err != nil {
		uc.logger.Errorw("failed to persist notification", "error", err, "user_id", userID)
		return fmt.Errorf("failed to persist notification: %w", err)
	}

	// Push delivery is fire-and-forget: the in-app row is already durable
	// and the caller must not block on the push provider. The detached
	// context keeps delivery alive after the request returns.
	pushCtx := context.WithoutCancel(ctx)
	uc.launch(uc.logger, "push-delivery", func() {
		uc.pushToDevices(pushCtx, userID, title, body, data)
	})
	return nil
}

func (uc *NotifyUseCase) pushToDevices(ctx context.Context, userID uint, title, body string, data map[string]string) {
	if uc.pushSender == nil {
		return
	}
	u, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil || u == nil {
		if err != nil {
			uc.logger.Warnw("failed to load user for push", "error", err, "user_id", userID)
		}
		return
	}
	if !u.NotifyPrefs().PushEnabled || len(u.DeviceTokens()) == 0 {
		return
	}

	messages := make([]push.Message, 0, len(u.DeviceTokens()))
	for _, dt := range u.DeviceTokens() {
		messages = append(messages, push.Message{
			Token: dt.Token,
			Title: title,
			Body:  body,
			Data:  data,
		})
	}

	pruned := false
	for _, result := range uc.pushSender.Send(ctx, messages) {
		if result.TokenInvalid {
			u.RemoveDeviceToken(result.Token)
			pruned = true
			continue
		}
		if result.Err != nil {
			uc.logger.Warnw("push delivery failed",
				"error", result.Err, "user_id", userID)
		}
	}
	if pruned {
		if err := uc.userRepo.Update(ctx, u); err != nil {
			uc.logger.Warnw("failed to prune device tokens", "error", err, "user_id", userID)
		}
	}
}
