package usecases

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"calmora/internal/application/listening/dto"
	"calmora/internal/domain/catalog"
	"calmora/internal/domain/listening"
	"calmora/internal/shared/logger"
)

var validGranularities = map[string]bool{
	"day":   true,
	"week":  true,
	"month": true,
	"year":  true,
}

type StatsQuery struct {
	UserID      uint
	Granularity string
	From        time.Time
	To          time.Time
}

type UserStatsResult struct {
	TotalSeconds int64                `json:"total_seconds"`
	TotalMinutes int64                `json:"total_minutes"`
	Periods      []*dto.PeriodStatDTO `json:"periods"`
	ByHour       []*dto.HourBucketDTO `json:"by_hour,omitempty"`
}

// StatsUseCase aggregates listening history: per-user totals and period
// buckets, plus platform-wide popular tracks for the admin dashboard.
type StatsUseCase struct {
	sessionRepo  listening.SessionRepository
	trackRepo    catalog.TrackRepository
	categoryRepo catalog.CategoryRepository
	logger       logger.Interface
}

func NewStatsUseCase(
	sessionRepo listening.SessionRepository,
	trackRepo catalog.TrackRepository,
	categoryRepo catalog.CategoryRepository,
	logger logger.Interface,
) *StatsUseCase {
	return &StatsUseCase{
		sessionRepo:  sessionRepo,
		trackRepo:    trackRepo,
		categoryRepo: categoryRepo,
		logger:       logger,
	}
}

func (uc *StatsUseCase) UserStats(ctx context.Context, q StatsQuery) (*UserStatsResult, error) {
	granularity := q.Granularity
	if granularity == "" {
		granularity = "day"
	}
	if !validGranularities[granularity] {
		return nil, fmt.Errorf("invalid granularity: %s", q.Granularity)
	}
	if !q.To.After(q.From) {
		return nil, fmt.Errorf("invalid stats range")
	}

	total, err := uc.sessionRepo.TotalListeningSeconds(ctx, q.UserID, &q.From, &q.To)
	if err != nil {
		uc.logger.Errorw("failed to get total listening time", "error", err, "user_id", q.UserID)
		return nil, fmt.Errorf("failed to get total listening time: %w", err)
	}

	periods, err := uc.sessionRepo.StatsByPeriod(ctx, q.UserID, granularity, q.From, q.To)
	if err != nil {
		uc.logger.Errorw("failed to get period stats", "error", err, "user_id", q.UserID)
		return nil, fmt.Errorf("failed to get period stats: %w", err)
	}

	buckets, err := uc.sessionRepo.SessionsByHour(ctx, q.UserID, q.From, q.To)
	if err != nil {
		uc.logger.Errorw("failed to get hourly stats", "error", err, "user_id", q.UserID)
		return nil, fmt.Errorf("failed to get hourly stats: %w", err)
	}
	byHour := make([]*dto.HourBucketDTO, 0, len(buckets))
	for _, b := range buckets {
		byHour = append(byHour, &dto.HourBucketDTO{Hour: b.Hour, SessionCount: b.SessionCount})
	}

	return &UserStatsResult{
		TotalSeconds: total,
		TotalMinutes: int64(math.Round(float64(total) / 60)),
		Periods:      dto.ToPeriodStatDTOList(periods),
		ByHour:       byHour,
	}, nil
}

// PopularTracks returns the most played tracks in [from, to), resolving
// titles for tracks that still exist.
func (uc *StatsUseCase) PopularTracks(ctx context.Context, from, to time.Time, limit int) ([]*dto.PopularTrackDTO, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	counts, err := uc.sessionRepo.PopularTracks(ctx, from, to, limit)
	if err != nil {
		uc.logger.Errorw("failed to get popular tracks", "error", err)
		return nil, fmt.Errorf("failed to get popular tracks: %w", err)
	}

	trackIDs := make([]uint, 0, len(counts))
	for _, c := range counts {
		trackIDs = append(trackIDs, c.TrackID)
	}
	trackByID := map[uint]*catalog.Track{}
	if len(trackIDs) > 0 {
		tracks, err := uc.trackRepo.GetByIDs(ctx, trackIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to load tracks: %w", err)
		}
		for _, t := range tracks {
			trackByID[t.ID()] = t
		}
	}

	dtos := make([]*dto.PopularTrackDTO, 0, len(counts))
	for _, c := range counts {
		out := &dto.PopularTrackDTO{PlayCount: c.PlayCount, TotalSeconds: c.TotalSeconds}
		if t, ok := trackByID[c.TrackID]; ok {
			out.TrackSID = t.SID()
			out.Title = t.Title()
		}
		dtos = append(dtos, out)
	}
	return dtos, nil
}

// Patterns profiles a user's listening habits over [from, to): the five
// categories with the most sessions, the three busiest hours of day, average
// session length and the completion percentage. A user with no ended
// sessions gets zeros and empty lists, never an error.
func (uc *StatsUseCase) Patterns(ctx context.Context, userID uint, from, to time.Time) (*dto.ListeningPatternsDTO, error) {
	if !to.After(from) {
		return nil, fmt.Errorf("invalid stats range")
	}

	agg, err := uc.sessionRepo.Aggregate(ctx, userID, from, to)
	if err != nil {
		uc.logger.Errorw("failed to aggregate sessions", "error", err, "user_id", userID)
		return nil, fmt.Errorf("failed to aggregate sessions: %w", err)
	}

	catStats, err := uc.sessionRepo.CategoryStats(ctx, userID, from, to)
	if err != nil {
		uc.logger.Errorw("failed to get category stats", "error", err, "user_id", userID)
		return nil, fmt.Errorf("failed to get category stats: %w", err)
	}
	if len(catStats) > 5 {
		catStats = catStats[:5]
	}
	topCategories := make([]*dto.CategoryPatternDTO, 0, len(catStats))
	for _, cs := range catStats {
		entry := &dto.CategoryPatternDTO{TotalSeconds: cs.TotalSeconds, SessionCount: cs.SessionCount}
		category, err := uc.categoryRepo.GetByID(ctx, cs.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("failed to load category: %w", err)
		}
		if category != nil {
			entry.CategorySID = category.SID()
			entry.Name = category.Name()
		}
		topCategories = append(topCategories, entry)
	}

	buckets, err := uc.sessionRepo.SessionsByHour(ctx, userID, from, to)
	if err != nil {
		uc.logger.Errorw("failed to get hourly stats", "error", err, "user_id", userID)
		return nil, fmt.Errorf("failed to get hourly stats: %w", err)
	}
	sort.SliceStable(buckets, func(i, j int) bool {
		if buckets[i].SessionCount != buckets[j].SessionCount {
			return buckets[i].SessionCount > buckets[j].SessionCount
		}
		return buckets[i].Hour < buckets[j].Hour
	})
	if len(buckets) > 3 {
		buckets = buckets[:3]
	}
	peakHours := make([]int, 0, len(buckets))
	for _, b := range buckets {
		peakHours = append(peakHours, b.Hour)
	}

	result := &dto.ListeningPatternsDTO{
		TopCategories: topCategories,
		PeakHours:     peakHours,
	}
	if agg.SessionCount > 0 {
		result.AvgSessionMinutes = float64(agg.TotalSeconds) / float64(agg.SessionCount) / 60
		result.CompletionRate = math.Round(float64(agg.CompletedCount) / float64(agg.SessionCount) * 100)
	}
	return result, nil
}
