// Package dto defines presentation-layer data structures for notifications.
package dto

import (
	"time"

	"calmora/internal/domain/notification"
)

// NotificationDTO is the public representation of one in-app notification.
type NotificationDTO struct {
	SID       string            `json:"sid"`
	Type      string            `json:"type"`
	Title     string            `json:"title"`
	Body      string            `json:"body"`
	Data      map[string]string `json:"data,omitempty"`
	Read      bool              `json:"read"`
	ReadAt    *time.Time        `json:"read_at,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// ToNotificationDTO converts a Notification to its public representation.
func ToNotificationDTO(n *notification.Notification) *NotificationDTO {
	if n == nil {
		return nil
	}
	return &NotificationDTO{
		SID:       n.SID(),
		Type:      string(n.Kind()),
		Title:     n.Title(),
		Body:      n.Body(),
		Data:      n.Data(),
		Read:      n.IsRead(),
		ReadAt:    n.ReadAt(),
		CreatedAt: n.CreatedAt(),
	}
}

// ToNotificationDTOList converts notifications to DTOs, skipping nil entries.
func ToNotificationDTOList(ns []*notification.Notification) []*NotificationDTO {
	dtos := make([]*NotificationDTO, 0, len(ns))
	for _, n := range ns {
		if n != nil {
			dtos = append(dtos, ToNotificationDTO(n))
		}
	}
	return dtos
}
