package usecases

import (
	"context"

	"calmora/internal/domain/notification"
	"calmora/internal/infrastructure/payment"
)

// PaymentGateway charges users through the external payment provider.
type PaymentGateway interface {
	Charge(ctx context.Context, req payment.ChargeRequest) (*payment.ChargeResult, error)
}

// Notifier delivers in-app notifications for subscription lifecycle events.
// Delivery failures must not fail the subscription operation; implementations
// log and move on.
type Notifier interface {
	Notify(ctx context.Context, userID uint, kind notification.Type, title, body string, data map[string]string) error
}
