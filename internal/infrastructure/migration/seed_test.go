package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"calmora/internal/infrastructure/persistence/models"
)

func setupSeedDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.PackageModel{}, &models.CategoryModel{})
	require.NoError(t, err)

	return db
}

func TestManager_Seed(t *testing.T) {
	db := setupSeedDB(t)
	m := NewManager("test")

	require.NoError(t, m.Seed(db))

	var pkgs []models.PackageModel
	require.NoError(t, db.Order("display_order").Find(&pkgs).Error)
	require.Len(t, pkgs, 3)
	assert.Equal(t, "basic", pkgs[0].PackageType)
	assert.Equal(t, "standard", pkgs[1].PackageType)
	assert.Equal(t, "premium", pkgs[2].PackageType)
	for _, p := range pkgs {
		assert.True(t, p.Active)
		assert.NotEmpty(t, p.SID)
		assert.NotEmpty(t, p.Features)
	}
	assert.Equal(t, 20, pkgs[2].DiscountPercentage)
	assert.Equal(t, "year", pkgs[2].PeriodUnit)

	var cats []models.CategoryModel
	require.NoError(t, db.Order("display_order").Find(&cats).Error)
	require.Len(t, cats, 5)
	assert.Equal(t, "Sleep", cats[0].Name)
	assert.True(t, cats[0].Active)
	assert.NotEmpty(t, cats[0].SID)
}

func TestManager_Seed_SkipsNonEmptyTables(t *testing.T) {
	db := setupSeedDB(t)
	m := NewManager("test")

	require.NoError(t, m.Seed(db))

	// an admin renames a package after the first seed run
	require.NoError(t, db.Model(&models.PackageModel{}).
		Where("package_type = ?", "basic").
		Update("name", "Starter").Error)

	require.NoError(t, m.Seed(db))

	var pkgCount, catCount int64
	require.NoError(t, db.Model(&models.PackageModel{}).Count(&pkgCount).Error)
	require.NoError(t, db.Model(&models.CategoryModel{}).Count(&catCount).Error)
	assert.Equal(t, int64(3), pkgCount)
	assert.Equal(t, int64(5), catCount)

	var renamed models.PackageModel
	require.NoError(t, db.Where("package_type = ?", "basic").First(&renamed).Error)
	assert.Equal(t, "Starter", renamed.Name)
}
