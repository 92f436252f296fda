package mappers

import (
	"encoding/json"
	"fmt"

	"calmora/internal/domain/notification"
	"calmora/internal/infrastructure/persistence/models"
)

type NotificationMapper struct{}

func NewNotificationMapper() *NotificationMapper { return &NotificationMapper{} }

func (m *NotificationMapper) ToEntity(model *models.NotificationModel) (*notification.Notification, error) {
	if model == nil {
		return nil, nil
	}
	var data map[string]string
	if model.Data != nil {
		if err := json.Unmarshal(model.Data, &data); err != nil {
			return nil, fmt.Errorf("failed to unmarshal notification data: %w", err)
		}
	}
	return notification.Reconstruct(notification.ReconstructParams{
		ID:        model.ID,
		SID:       model.SID,
		UserID:    model.UserID,
		Kind:      notification.Type(model.Type),
		Title:     model.Title,
		Body:      model.Body,
		Data:      data,
		Read:      model.Read,
		ReadAt:    model.ReadAt,
		CreatedAt: model.CreatedAt,
	})
}

func (m *NotificationMapper) ToModel(entity *notification.Notification) (*models.NotificationModel, error) {
	if entity == nil {
		return nil, nil
	}
	data, err := json.Marshal(entity.Data())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal notification data: %w", err)
	}
	return &models.NotificationModel{
		ID:        entity.ID(),
		SID:       entity.SID(),
		UserID:    entity.UserID(),
		Type:      string(entity.Kind()),
		Title:     entity.Title(),
		Body:      entity.Body(),
		Data:      data,
		Read:      entity.IsRead(),
		ReadAt:    entity.ReadAt(),
		CreatedAt: entity.CreatedAt(),
	}, nil
}

func (m *NotificationMapper) ToEntities(ms []*models.NotificationModel) ([]*notification.Notification, error) {
	out := make([]*notification.Notification, 0, len(ms))
	for _, model := range ms {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, err
		}
		out = append(out, entity)
	}
	return out, nil
}
