// Package dto defines presentation-layer data structures for users and auth.
package dto

import (
	"time"

	"calmora/internal/domain/user"
)

// UserDTO is the public representation of a user profile.
type UserDTO struct {
	SID         string                  `json:"sid"`
	Email       *string                 `json:"email,omitempty"`
	Phone       *string                 `json:"phone,omitempty"`
	Name        string                  `json:"name"`
	Role        string                  `json:"role"`
	Verified    bool                    `json:"verified"`
	BannedUntil *time.Time              `json:"banned_until,omitempty"`
	BanReason   *string                 `json:"ban_reason,omitempty"`
	NotifyPrefs NotificationPrefsDTO    `json:"notify_prefs"`
	CreatedAt   time.Time               `json:"created_at"`
}

// NotificationPrefsDTO mirrors the user's delivery channel switches.
type NotificationPrefsDTO struct {
	EmailEnabled bool `json:"email_enabled"`
	PushEnabled  bool `json:"push_enabled"`
	SMSEnabled   bool `json:"sms_enabled"`
}

// TokenPairDTO carries an issued token pair to the client.
type TokenPairDTO struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// AuthResultDTO is the login/verification response.
type AuthResultDTO struct {
	User   *UserDTO      `json:"user"`
	Tokens *TokenPairDTO `json:"tokens"`
}

// ToUserDTO converts a User aggregate to its public representation.
func ToUserDTO(u *user.User) *UserDTO {
	if u == nil {
		return nil
	}
	prefs := u.NotifyPrefs()
	return &UserDTO{
		SID:         u.SID(),
		Email:       u.Email(),
		Phone:       u.Phone(),
		Name:        u.Name(),
		Role:        u.Role().String(),
		Verified:    u.IsVerified(),
		BannedUntil: u.BannedUntil(),
		BanReason:   u.BanReason(),
		NotifyPrefs: NotificationPrefsDTO{
			EmailEnabled: prefs.EmailEnabled,
			PushEnabled:  prefs.PushEnabled,
			SMSEnabled:   prefs.SMSEnabled,
		},
		CreatedAt: u.CreatedAt(),
	}
}

// ToUserDTOList converts users to DTOs, skipping nil entries.
func ToUserDTOList(users []*user.User) []*UserDTO {
	dtos := make([]*UserDTO, 0, len(users))
	for _, u := range users {
		if u != nil {
			dtos = append(dtos, ToUserDTO(u))
		}
	}
	return dtos
}
