package mappers

import (
	"encoding/json"
	"fmt"

	"calmora/internal/domain/listening"
	"calmora/internal/infrastructure/persistence/models"
)

type SessionMapper struct{}

func NewSessionMapper() *SessionMapper { return &SessionMapper{} }

func (m *SessionMapper) ToEntity(model *models.ListeningSessionModel) (*listening.Session, error) {
	if model == nil {
		return nil, nil
	}
	var deviceInfo map[string]string
	if model.DeviceInfo != nil {
		if err := json.Unmarshal(model.DeviceInfo, &deviceInfo); err != nil {
			return nil, fmt.Errorf("failed to unmarshal device info: %w", err)
		}
	}
	return listening.ReconstructSession(listening.SessionReconstructParams{
		ID:              model.ID,
		SID:             model.SID,
		UserID:          model.UserID,
		TrackID:         model.TrackID,
		ProgramID:       model.ProgramID,
		StartTime:       model.StartTime,
		EndTime:         model.EndTime,
		DurationSeconds: model.DurationSeconds,
		Completed:       model.Completed,
		LastPosition:    model.LastPosition,
		DeviceInfo:      deviceInfo,
		Version:         model.Version,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	})
}

func (m *SessionMapper) ToModel(entity *listening.Session) (*models.ListeningSessionModel, error) {
	if entity == nil {
		return nil, nil
	}
	deviceInfo, err := json.Marshal(entity.DeviceInfo())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal device info: %w", err)
	}
	return &models.ListeningSessionModel{
		ID:              entity.ID(),
		SID:             entity.SID(),
		UserID:          entity.UserID(),
		TrackID:         entity.TrackID(),
		ProgramID:       entity.ProgramID(),
		StartTime:       entity.StartTime(),
		EndTime:         entity.EndTime(),
		DurationSeconds: entity.DurationSeconds(),
		Completed:       entity.IsCompleted(),
		LastPosition:    entity.LastPosition(),
		DeviceInfo:      deviceInfo,
		Version:         entity.Version(),
		CreatedAt:       entity.CreatedAt(),
		UpdatedAt:       entity.UpdatedAt(),
	}, nil
}

func (m *SessionMapper) ToEntities(ms []*models.ListeningSessionModel) ([]*listening.Session, error) {
	out := make([]*listening.Session, 0, len(ms))
	for _, model := range ms {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, err
		}
		out = append(out, entity)
	}
	return out, nil
}

type EnrollmentMapper struct{}

func NewEnrollmentMapper() *EnrollmentMapper { return &EnrollmentMapper{} }

func (m *EnrollmentMapper) ToEntity(model *models.EnrollmentModel) (*listening.Enrollment, error) {
	if model == nil {
		return nil, nil
	}
	var completed []uint
	if model.CompletedTrackIDs != nil {
		if err := json.Unmarshal(model.CompletedTrackIDs, &completed); err != nil {
			return nil, fmt.Errorf("failed to unmarshal completed track IDs: %w", err)
		}
	}
	return listening.ReconstructEnrollment(listening.EnrollmentReconstructParams{
		ID:                model.ID,
		UserID:            model.UserID,
		ProgramID:         model.ProgramID,
		CompletedTrackIDs: completed,
		Progress:          model.Progress,
		IsCompleted:       model.IsCompleted,
		EnrolledAt:        model.EnrolledAt,
		CompletedAt:       model.CompletedAt,
		LastAccessedAt:    model.LastAccessedAt,
		Version:           model.Version,
		CreatedAt:         model.CreatedAt,
		UpdatedAt:         model.UpdatedAt,
	})
}

func (m *EnrollmentMapper) ToModel(entity *listening.Enrollment) (*models.EnrollmentModel, error) {
	if entity == nil {
		return nil, nil
	}
	completed, err := json.Marshal(entity.CompletedTrackIDs())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal completed track IDs: %w", err)
	}
	return &models.EnrollmentModel{
		ID:                entity.ID(),
		UserID:            entity.UserID(),
		ProgramID:         entity.ProgramID(),
		CompletedTrackIDs: completed,
		Progress:          entity.Progress(),
		IsCompleted:       entity.IsCompleted(),
		EnrolledAt:        entity.EnrolledAt(),
		CompletedAt:       entity.CompletedAt(),
		LastAccessedAt:    entity.LastAccessedAt(),
		Version:           entity.Version(),
		CreatedAt:         entity.CreatedAt(),
		UpdatedAt:         entity.UpdatedAt(),
	}, nil
}

func (m *EnrollmentMapper) ToEntities(ms []*models.EnrollmentModel) ([]*listening.Enrollment, error) {
	out := make([]*listening.Enrollment, 0, len(ms))
	for _, model := range ms {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, err
		}
		out = append(out, entity)
	}
	return out, nil
}
