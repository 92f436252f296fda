package mappers

import (
	"encoding/json"
	"fmt"
	"time"

	"calmora/internal/domain/user"
	"calmora/internal/infrastructure/persistence/models"
	"calmora/internal/shared/authorization"
)

type UserMapper struct{}

func NewUserMapper() *UserMapper { return &UserMapper{} }

func (m *UserMapper) ToEntity(model *models.UserModel) (*user.User, error) {
	if model == nil {
		return nil, nil
	}

	prefs := user.DefaultNotificationPreferences()
	if model.NotifyPrefs != nil {
		if err := json.Unmarshal(model.NotifyPrefs, &prefs); err != nil {
			return nil, fmt.Errorf("failed to unmarshal notification preferences: %w", err)
		}
	}

	var tokens []user.DeviceToken
	if model.DeviceTokens != nil {
		if err := json.Unmarshal(model.DeviceTokens, &tokens); err != nil {
			return nil, fmt.Errorf("failed to unmarshal device tokens: %w", err)
		}
	}

	var deletedAt *time.Time
	if model.DeletedAt.Valid {
		t := model.DeletedAt.Time
		deletedAt = &t
	}

	return user.Reconstruct(user.ReconstructParams{
		ID:           model.ID,
		SID:          model.SID,
		Email:        model.Email,
		Phone:        model.Phone,
		Name:         model.Name,
		PasswordHash: model.PasswordHash,
		GoogleID:     model.GoogleID,
		Role:         authorization.ParseUserRole(model.Role),
		Verified:     model.Verified,
		BannedUntil:  model.BannedUntil,
		BanReason:    model.BanReason,
		NotifyPrefs:  prefs,
		DeviceTokens: tokens,
		DeletedAt:    deletedAt,
		Version:      model.Version,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	})
}

func (m *UserMapper) ToModel(entity *user.User) (*models.UserModel, error) {
	if entity == nil {
		return nil, nil
	}

	prefs, err := json.Marshal(entity.NotifyPrefs())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal notification preferences: %w", err)
	}
	tokens, err := json.Marshal(entity.DeviceTokens())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal device tokens: %w", err)
	}

	model := &models.UserModel{
		ID:           entity.ID(),
		SID:          entity.SID(),
		Email:        entity.Email(),
		Phone:        entity.Phone(),
		Name:         entity.Name(),
		PasswordHash: entity.PasswordHash(),
		GoogleID:     entity.GoogleID(),
		Role:         string(entity.Role()),
		Verified:     entity.IsVerified(),
		BannedUntil:  entity.BannedUntil(),
		BanReason:    entity.BanReason(),
		NotifyPrefs:  prefs,
		DeviceTokens: tokens,
		Version:      entity.Version(),
		CreatedAt:    entity.CreatedAt(),
		UpdatedAt:    entity.UpdatedAt(),
	}
	if entity.DeletedAt() != nil {
		model.DeletedAt.Time = *entity.DeletedAt()
		model.DeletedAt.Valid = true
	}
	return model, nil
}

func (m *UserMapper) ToEntities(ms []*models.UserModel) ([]*user.User, error) {
	out := make([]*user.User, 0, len(ms))
	for _, model := range ms {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, err
		}
		out = append(out, entity)
	}
	return out, nil
}
