package user

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"calmora/internal/shared/authorization"
	"calmora/internal/shared/id"
)

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phonePattern = regexp.MustCompile(`^\+[1-9]\d{6,14}$`)
)

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizePhone strips spaces and dashes from an E.164 phone number.
func NormalizePhone(phone string) string {
	return strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(phone))
}

// NotificationPreferences controls which channels a user receives.
type NotificationPreferences struct {
	EmailEnabled bool `json:"email_enabled"`
	PushEnabled  bool `json:"push_enabled"`
	SMSEnabled   bool `json:"sms_enabled"`
}

// DefaultNotificationPreferences enables every channel.
func DefaultNotificationPreferences() NotificationPreferences {
	return NotificationPreferences{EmailEnabled: true, PushEnabled: true, SMSEnabled: true}
}

// DeviceToken is a push registration for one device.
type DeviceToken struct {
	Token        string    `json:"token"`
	Platform     string    `json:"platform"`
	RegisteredAt time.Time `json:"registered_at"`
}

// User is the account aggregate. Identity is an email or a phone number
// (at least one required); authentication is password or Google OAuth.
type User struct {
	id            uint
	sid           string
	email         *string
	phone         *string
	name          string
	passwordHash  *string
	googleID      *string
	role          authorization.UserRole
	verified      bool
	bannedUntil   *time.Time
	banReason     *string
	notifyPrefs   NotificationPreferences
	deviceTokens  []DeviceToken
	deletedAt     *time.Time
	version       int
	createdAt     time.Time
	updatedAt     time.Time
}

// NewUser creates an account with at least one identity channel.
func NewUser(email, phone *string, name string) (*User, error) {
	if email == nil && phone == nil {
		return nil, fmt.Errorf("email or phone is required")
	}
	if email != nil {
		norm := NormalizeEmail(*email)
		if !emailPattern.MatchString(norm) {
			return nil, fmt.Errorf("invalid email format")
		}
		email = &norm
	}
	if phone != nil {
		norm := NormalizePhone(*phone)
		if !phonePattern.MatchString(norm) {
			return nil, fmt.Errorf("invalid phone format, expected E.164")
		}
		phone = &norm
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}

	now := time.Now().UTC()
	return &User{
		sid:         id.MustGenerateWithPrefix(id.PrefixUser, id.DefaultLength),
		email:       email,
		phone:       phone,
		name:        name,
		role:        authorization.RoleUser,
		notifyPrefs: DefaultNotificationPreferences(),
		version:     1,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

type ReconstructParams struct {
	ID           uint
	SID          string
	Email        *string
	Phone        *string
	Name         string
	PasswordHash *string
	GoogleID     *string
	Role         authorization.UserRole
	Verified     bool
	BannedUntil  *time.Time
	BanReason    *string
	NotifyPrefs  NotificationPreferences
	DeviceTokens []DeviceToken
	DeletedAt    *time.Time
	Version      int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func Reconstruct(p ReconstructParams) (*User, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("user ID cannot be zero")
	}
	if p.Email == nil && p.Phone == nil {
		return nil, fmt.Errorf("email or phone is required")
	}
	return &User{
		id:           p.ID,
		sid:          p.SID,
		email:        p.Email,
		phone:        p.Phone,
		name:         p.Name,
		passwordHash: p.PasswordHash,
		googleID:     p.GoogleID,
		role:         p.Role,
		verified:     p.Verified,
		bannedUntil:  p.BannedUntil,
		banReason:    p.BanReason,
		notifyPrefs:  p.NotifyPrefs,
		deviceTokens: p.DeviceTokens,
		deletedAt:    p.DeletedAt,
		version:      p.Version,
		createdAt:    p.CreatedAt,
		updatedAt:    p.UpdatedAt,
	}, nil
}

func (u *User) ID() uint                              { return u.id }
func (u *User) SID() string                           { return u.sid }
func (u *User) Email() *string                        { return u.email }
func (u *User) Phone() *string                        { return u.phone }
func (u *User) Name() string                          { return u.name }
func (u *User) PasswordHash() *string                 { return u.passwordHash }
func (u *User) GoogleID() *string                     { return u.googleID }
func (u *User) Role() authorization.UserRole          { return u.role }
func (u *User) IsVerified() bool                      { return u.verified }
func (u *User) BannedUntil() *time.Time               { return u.bannedUntil }
func (u *User) BanReason() *string                    { return u.banReason }
func (u *User) NotifyPrefs() NotificationPreferences  { return u.notifyPrefs }
func (u *User) DeviceTokens() []DeviceToken           { return u.deviceTokens }
func (u *User) DeletedAt() *time.Time                 { return u.deletedAt }
func (u *User) Version() int                          { return u.version }
func (u *User) CreatedAt() time.Time                  { return u.createdAt }
func (u *User) UpdatedAt() time.Time                  { return u.updatedAt }

func (u *User) SetID(newID uint) error {
	if u.id != 0 {
		return fmt.Errorf("user ID is already set")
	}
	if newID == 0 {
		return fmt.Errorf("user ID cannot be zero")
	}
	u.id = newID
	return nil
}

func (u *User) SetPasswordHash(hash string) error {
	if hash == "" {
		return fmt.Errorf("password hash cannot be empty")
	}
	u.passwordHash = &hash
	u.touch()
	return nil
}

// LinkGoogleAccount attaches a Google identity. OAuth identities arrive
// verified by the provider.
func (u *User) LinkGoogleAccount(googleID string) error {
	if googleID == "" {
		return fmt.Errorf("google ID cannot be empty")
	}
	u.googleID = &googleID
	u.verified = true
	u.touch()
	return nil
}

func (u *User) MarkVerified() {
	if u.verified {
		return
	}
	u.verified = true
	u.touch()
}

func (u *User) UpdateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("name is required")
	}
	u.name = name
	u.touch()
	return nil
}

func (u *User) SetRole(role authorization.UserRole) {
	u.role = role
	u.touch()
}

// Ban blocks the account until the given time. A nil until is permanent.
func (u *User) Ban(until *time.Time, reason string) error {
	if until != nil && !until.After(time.Now().UTC()) {
		return fmt.Errorf("ban expiry must be in the future")
	}
	u.bannedUntil = until
	if until == nil {
		far := time.Date(9999, 1, 1, 0, 0, 0, 0, time.UTC)
		u.bannedUntil = &far
	}
	if reason != "" {
		u.banReason = &reason
	}
	u.touch()
	return nil
}

func (u *User) Unban() {
	u.bannedUntil = nil
	u.banReason = nil
	u.touch()
}

// IsBannedAt reports whether the ban is still in effect; expired bans lift
// automatically without a write.
func (u *User) IsBannedAt(t time.Time) bool {
	return u.bannedUntil != nil && t.Before(*u.bannedUntil)
}

func (u *User) UpdateNotifyPrefs(prefs NotificationPreferences) {
	u.notifyPrefs = prefs
	u.touch()
}

// RegisterDeviceToken adds or refreshes a push token.
func (u *User) RegisterDeviceToken(token, platform string) error {
	if token = strings.TrimSpace(token); token == "" {
		return fmt.Errorf("device token cannot be empty")
	}
	switch platform {
	case "ios", "android", "web":
	default:
		return fmt.Errorf("unsupported platform: %s", platform)
	}
	for i, dt := range u.deviceTokens {
		if dt.Token == token {
			u.deviceTokens[i].Platform = platform
			u.deviceTokens[i].RegisteredAt = time.Now().UTC()
			u.touch()
			return nil
		}
	}
	u.deviceTokens = append(u.deviceTokens, DeviceToken{
		Token:        token,
		Platform:     platform,
		RegisteredAt: time.Now().UTC(),
	})
	u.touch()
	return nil
}

func (u *User) RemoveDeviceToken(token string) {
	kept := u.deviceTokens[:0]
	for _, dt := range u.deviceTokens {
		if dt.Token != token {
			kept = append(kept, dt)
		}
	}
	u.deviceTokens = kept
	u.touch()
}

// SoftDelete marks the account deleted; identity columns stay for audit but
// the account no longer authenticates.
func (u *User) SoftDelete() error {
	if u.deletedAt != nil {
		return fmt.Errorf("user is already deleted")
	}
	now := time.Now().UTC()
	u.deletedAt = &now
	u.deviceTokens = nil
	u.touch()
	return nil
}

func (u *User) IsDeleted() bool {
	return u.deletedAt != nil
}

// CanAuthenticateAt reports whether login is allowed right now.
func (u *User) CanAuthenticateAt(t time.Time) error {
	if u.IsDeleted() {
		return ErrUserNotFound
	}
	if !u.verified {
		return ErrUserNotVerified
	}
	if u.IsBannedAt(t) {
		return ErrUserBanned
	}
	return nil
}

func (u *User) touch() {
	u.updatedAt = time.Now().UTC()
	u.version++
}
