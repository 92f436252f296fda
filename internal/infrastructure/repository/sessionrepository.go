package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"calmora/internal/domain/listening"
	"calmora/internal/infrastructure/persistence/mappers"
	"calmora/internal/infrastructure/persistence/models"
	"calmora/internal/shared/constants"
	"calmora/internal/shared/logger"
)

type SessionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mappers.SessionMapper
	logger logger.Interface
}

func NewSessionRepository(db *gorm.DB, log logger.Interface) listening.SessionRepository {
	return &SessionRepositoryImpl{
		db:     db,
		mapper: mappers.NewSessionMapper(),
		logger: log,
	}
}

func (r *SessionRepositoryImpl) Create(ctx context.Context, session *listening.Session) error {
	model, err := r.mapper.ToModel(session)
	if err != nil {
		return fmt.Errorf("failed to convert session to model: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create listening session", "error", err, "user_id", session.UserID())
		return fmt.Errorf("failed to create listening session: %w", err)
	}

	if session.ID() == 0 && model.ID > 0 {
		if err := session.SetID(model.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *SessionRepositoryImpl) Update(ctx context.Context, session *listening.Session) error {
	model, err := r.mapper.ToModel(session)
	if err != nil {
		return fmt.Errorf("failed to convert session to model: %w", err)
	}

	result := r.db.WithContext(ctx).Model(&models.ListeningSessionModel{}).
		Where("id = ?", model.ID).
		Select("*").Omit("id", "created_at").
		Updates(model)
	if result.Error != nil {
		r.logger.Errorw("failed to update listening session", "error", result.Error, "session_id", model.ID)
		return fmt.Errorf("failed to update listening session: %w", result.Error)
	}
	return nil
}

func (r *SessionRepositoryImpl) GetByID(ctx context.Context, id uint) (*listening.Session, error) {
	var model models.ListeningSessionModel
	err := r.db.WithContext(ctx).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session by ID: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *SessionRepositoryImpl) GetBySID(ctx context.Context, sid string) (*listening.Session, error) {
	var model models.ListeningSessionModel
	err := r.db.WithContext(ctx).Where("sid = ?", sid).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session by SID: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *SessionRepositoryImpl) ListByUserID(ctx context.Context, userID uint, offset, limit int) ([]*listening.Session, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.ListeningSessionModel{}).
		Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count sessions: %w", err)
	}

	var ms []*models.ListeningSessionModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("start_time DESC").
		Offset(offset).Limit(limit).
		Find(&ms).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list sessions: %w", err)
	}

	entities, err := r.mapper.ToEntities(ms)
	if err != nil {
		return nil, 0, err
	}
	return entities, total, nil
}

func (r *SessionRepositoryImpl) ListAbandoned(ctx context.Context, cutoff time.Time, limit int) ([]*listening.Session, error) {
	var ms []*models.ListeningSessionModel
	err := r.db.WithContext(ctx).
		Where("end_time IS NULL AND start_time < ?", cutoff).
		Order("start_time ASC").
		Limit(limit).
		Find(&ms).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list abandoned sessions: %w", err)
	}
	return r.mapper.ToEntities(ms)
}

// TotalListeningSeconds sums a user's ended sessions. A nil from or to
// leaves that side of the range unbounded.
func (r *SessionRepositoryImpl) TotalListeningSeconds(ctx context.Context, userID uint, from, to *time.Time) (int64, error) {
	var total int64
	q := r.db.WithContext(ctx).Model(&models.ListeningSessionModel{}).
		Where("user_id = ? AND end_time IS NOT NULL", userID)
	if from != nil {
		q = q.Where("start_time >= ?", *from)
	}
	if to != nil {
		q = q.Where("start_time < ?", *to)
	}
	err := q.Select("COALESCE(SUM(duration_seconds), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum listening time: %w", err)
	}
	return total, nil
}

// StatsByPeriod buckets ended sessions by day, week, month or year. Bucket
// keys are produced in SQL so the grouping happens in the database.
func (r *SessionRepositoryImpl) StatsByPeriod(ctx context.Context, userID uint, granularity string, from, to time.Time) ([]listening.PeriodStat, error) {
	var bucketExpr string
	switch granularity {
	case "day":
		bucketExpr = "DATE_FORMAT(start_time, '%Y-%m-%d')"
	case "week":
		bucketExpr = "DATE_FORMAT(start_time, '%x-W%v')"
	case "month":
		bucketExpr = "DATE_FORMAT(start_time, '%Y-%m')"
	case "year":
		bucketExpr = "DATE_FORMAT(start_time, '%Y')"
	default:
		return nil, fmt.Errorf("unsupported granularity: %s", granularity)
	}

	var stats []listening.PeriodStat
	err := r.db.WithContext(ctx).Model(&models.ListeningSessionModel{}).
		Select(bucketExpr+" AS period, "+
			"COALESCE(SUM(duration_seconds), 0) AS total_seconds, "+
			"COUNT(*) AS session_count, "+
			"SUM(CASE WHEN completed THEN 1 ELSE 0 END) AS completed_count, "+
			"COUNT(DISTINCT track_id) AS distinct_tracks").
		Where("user_id = ? AND end_time IS NOT NULL AND start_time >= ? AND start_time < ?", userID, from, to).
		Group("period").
		Order("period ASC").
		Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate listening stats: %w", err)
	}
	return stats, nil
}

// PopularTracks ranks tracks by play count. The secondary order on track_id
// keeps the ranking deterministic when counts tie.
func (r *SessionRepositoryImpl) PopularTracks(ctx context.Context, from, to time.Time, limit int) ([]listening.TrackPlayCount, error) {
	var rows []listening.TrackPlayCount
	err := r.db.WithContext(ctx).Model(&models.ListeningSessionModel{}).
		Select("track_id, COUNT(*) AS play_count, COALESCE(SUM(duration_seconds), 0) AS total_seconds").
		Where("start_time >= ? AND start_time < ?", from, to).
		Group("track_id").
		Order("play_count DESC, track_id ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to rank popular tracks: %w", err)
	}
	return rows, nil
}

// CategoryStats sums a user's listening per category, most sessions first.
func (r *SessionRepositoryImpl) CategoryStats(ctx context.Context, userID uint, from, to time.Time) ([]listening.CategoryListenStat, error) {
	var rows []listening.CategoryListenStat
	err := r.db.WithContext(ctx).Model(&models.ListeningSessionModel{}).
		Select("t.category_id AS category_id, "+
			"COALESCE(SUM("+constants.TableListeningSessions+".duration_seconds), 0) AS total_seconds, "+
			"COUNT(*) AS session_count").
		Joins("JOIN "+constants.TableTracks+" t ON t.id = "+constants.TableListeningSessions+".track_id").
		Where(constants.TableListeningSessions+".user_id = ? AND "+
			constants.TableListeningSessions+".end_time IS NOT NULL AND "+
			constants.TableListeningSessions+".start_time >= ? AND "+
			constants.TableListeningSessions+".start_time < ?", userID, from, to).
		Group("t.category_id").
		Order("session_count DESC, category_id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate category stats: %w", err)
	}
	return rows, nil
}

func (r *SessionRepositoryImpl) Aggregate(ctx context.Context, userID uint, from, to time.Time) (listening.SessionAggregate, error) {
	var agg listening.SessionAggregate
	err := r.db.WithContext(ctx).Model(&models.ListeningSessionModel{}).
		Select("COUNT(*) AS session_count, "+
			"COALESCE(SUM(CASE WHEN completed THEN 1 ELSE 0 END), 0) AS completed_count, "+
			"COALESCE(SUM(duration_seconds), 0) AS total_seconds").
		Where("user_id = ? AND end_time IS NOT NULL AND start_time >= ? AND start_time < ?", userID, from, to).
		Scan(&agg).Error
	if err != nil {
		return listening.SessionAggregate{}, fmt.Errorf("failed to aggregate sessions: %w", err)
	}
	return agg, nil
}

func (r *SessionRepositoryImpl) SessionsByHour(ctx context.Context, userID uint, from, to time.Time) ([]listening.HourBucket, error) {
	var rows []listening.HourBucket
	err := r.db.WithContext(ctx).Model(&models.ListeningSessionModel{}).
		Select("HOUR(start_time) AS hour, COUNT(*) AS session_count").
		Where("user_id = ? AND start_time >= ? AND start_time < ?", userID, from, to).
		Group("hour").
		Order("hour ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate sessions by hour: %w", err)
	}
	return rows, nil
}
