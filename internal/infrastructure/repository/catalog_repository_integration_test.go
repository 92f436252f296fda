package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"calmora/internal/infrastructure/persistence/models"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.TrackModel{})
	require.NoError(t, err)

	return db
}

func seedSearchTrack(t *testing.T, db *gorm.DB, sid, title, description string, active bool) {
	err := db.Create(&models.TrackModel{
		SID:             sid,
		CategoryID:      1,
		Title:           title,
		Description:     description,
		AudioKey:        "audio/" + sid + ".mp3",
		DurationSeconds: 600,
		ContentTier:     "free",
		Active:          active,
		Version:         1,
	}).Error
	require.NoError(t, err)
}

func TestTrackRepository_Search(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewTrackRepository(db, newTestLogger())
	ctx := context.Background()

	seedSearchTrack(t, db, "trk-rain", "rainfall at dusk", "gentle rain sounds", true)
	seedSearchTrack(t, db, "trk-ocean", "Ocean Waves", "steady surf for deep rest", true)
	seedSearchTrack(t, db, "trk-hidden", "Rainforest Canopy", "retired recording", false)

	t.Run("matches regardless of query casing", func(t *testing.T) {
		tracks, total, err := repo.Search(ctx, "RAIN", 0, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, tracks, 1)
		assert.Equal(t, "trk-rain", tracks[0].SID())
	})

	t.Run("matches descriptions too", func(t *testing.T) {
		tracks, total, err := repo.Search(ctx, "Surf", 0, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, tracks, 1)
		assert.Equal(t, "trk-ocean", tracks[0].SID())
	})

	t.Run("inactive tracks stay hidden", func(t *testing.T) {
		tracks, total, err := repo.Search(ctx, "canopy", 0, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(0), total)
		assert.Empty(t, tracks)
	})
}
