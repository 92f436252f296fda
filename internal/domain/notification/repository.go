package notification

import "context"

type Repository interface {
	Create(ctx context.Context, notification *Notification) error
	CreateBatch(ctx context.Context, notifications []*Notification) error
	GetByID(ctx context.Context, id uint) (*Notification, error)
	GetBySID(ctx context.Context, sid string) (*Notification, error)
	ListByUserID(ctx context.Context, userID uint, unreadOnly bool, offset, limit int) ([]*Notification, int64, error)
	CountUnread(ctx context.Context, userID uint) (int64, error)
	Update(ctx context.Context, notification *Notification) error
	MarkAllRead(ctx context.Context, userID uint) error
}
