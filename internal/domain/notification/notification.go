package notification

import (
	"fmt"
	"strings"
	"time"

	"calmora/internal/shared/id"
)

// Type classifies a notification for client-side routing.
type Type string

const (
	TypeAchievement        Type = "achievement"
	TypeSubscriptionExpiry Type = "subscription_expiry"
	TypeRenewalReminder    Type = "renewal_reminder"
	TypeAnnouncement       Type = "announcement"
	TypeSystem             Type = "system"
)

func (t Type) IsValid() bool {
	switch t {
	case TypeAchievement, TypeSubscriptionExpiry, TypeRenewalReminder, TypeAnnouncement, TypeSystem:
		return true
	}
	return false
}

// Notification is one in-app message for one user. Broadcasts fan out to a
// row per recipient so read state stays per-user.
type Notification struct {
	id        uint
	sid       string
	userID    uint
	kind      Type
	title     string
	body      string
	data      map[string]string
	read      bool
	readAt    *time.Time
	createdAt time.Time
}

func New(userID uint, kind Type, title, body string, data map[string]string) (*Notification, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if !kind.IsValid() {
		return nil, fmt.Errorf("invalid notification type: %s", kind)
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}
	if data == nil {
		data = map[string]string{}
	}
	return &Notification{
		sid:       id.MustGenerateWithPrefix(id.PrefixNotification, id.DefaultLength),
		userID:    userID,
		kind:      kind,
		title:     title,
		body:      body,
		data:      data,
		createdAt: time.Now().UTC(),
	}, nil
}

type ReconstructParams struct {
	ID        uint
	SID       string
	UserID    uint
	Kind      Type
	Title     string
	Body      string
	Data      map[string]string
	Read      bool
	ReadAt    *time.Time
	CreatedAt time.Time
}

func Reconstruct(p ReconstructParams) (*Notification, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("notification ID cannot be zero")
	}
	data := p.Data
	if data == nil {
		data = map[string]string{}
	}
	return &Notification{
		id:        p.ID,
		sid:       p.SID,
		userID:    p.UserID,
		kind:      p.Kind,
		title:     p.Title,
		body:      p.Body,
		data:      data,
		read:      p.Read,
		readAt:    p.ReadAt,
		createdAt: p.CreatedAt,
	}, nil
}

func (n *Notification) ID() uint                { return n.id }
func (n *Notification) SID() string             { return n.sid }
func (n *Notification) UserID() uint            { return n.userID }
func (n *Notification) Kind() Type              { return n.kind }
func (n *Notification) Title() string           { return n.title }
func (n *Notification) Body() string            { return n.body }
func (n *Notification) Data() map[string]string { return n.data }
func (n *Notification) IsRead() bool            { return n.read }
func (n *Notification) ReadAt() *time.Time      { return n.readAt }
func (n *Notification) CreatedAt() time.Time    { return n.createdAt }

func (n *Notification) SetID(newID uint) error {
	if n.id != 0 {
		return fmt.Errorf("notification ID is already set")
	}
	if newID == 0 {
		return fmt.Errorf("notification ID cannot be zero")
	}
	n.id = newID
	return nil
}

// MarkRead is idempotent; readAt keeps the first read time.
func (n *Notification) MarkRead() {
	if n.read {
		return
	}
	n.read = true
	now := time.Now().UTC()
	n.readAt = &now
}
