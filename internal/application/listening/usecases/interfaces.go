package usecases

import (
	"context"

	"calmora/internal/domain/notification"
)

// Notifier delivers in-app notifications. Optional on use cases; a nil
// notifier simply skips delivery.
type Notifier interface {
	Notify(ctx context.Context, userID uint, kind notification.Type, title, body string, data map[string]string) error
}
