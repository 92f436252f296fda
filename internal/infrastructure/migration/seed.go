package migration

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"calmora/internal/domain/catalog"
	"calmora/internal/domain/subscription"
	"calmora/internal/infrastructure/persistence/mappers"
	"calmora/internal/infrastructure/persistence/models"
)

//go:embed seeds/*.yaml
var seedFiles embed.FS

type packageSeed struct {
	Name               string   `yaml:"name"`
	Type               string   `yaml:"type"`
	Price              uint64   `yaml:"price"`
	Currency           string   `yaml:"currency"`
	PeriodUnit         string   `yaml:"period_unit"`
	PeriodCount        int      `yaml:"period_count"`
	DiscountPercentage int      `yaml:"discount_percentage"`
	DisplayOrder       int      `yaml:"display_order"`
	Features           []string `yaml:"features"`
}

type categorySeed struct {
	Name         string `yaml:"name"`
	Description  string `yaml:"description"`
	DisplayOrder int    `yaml:"display_order"`
}

type seedData struct {
	Packages   []packageSeed  `yaml:"packages"`
	Categories []categorySeed `yaml:"categories"`
}

// Seed inserts the baseline packages and categories from the embedded YAML
// files. Each table is seeded only when it is empty, so re-running after
// admins have edited the data is a no-op.
func (m *Manager) Seed(db *gorm.DB) error {
	data, err := loadSeedData()
	if err != nil {
		return err
	}

	if err := m.seedPackages(db, data.Packages); err != nil {
		return err
	}
	return m.seedCategories(db, data.Categories)
}

func loadSeedData() (*seedData, error) {
	var data seedData
	for _, name := range []string{"seeds/packages.yaml", "seeds/categories.yaml"} {
		raw, err := seedFiles.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read seed file %s: %w", name, err)
		}
		if err := yaml.Unmarshal(raw, &data); err != nil {
			return nil, fmt.Errorf("failed to parse seed file %s: %w", name, err)
		}
	}
	return &data, nil
}

func (m *Manager) seedPackages(db *gorm.DB, seeds []packageSeed) error {
	var count int64
	if err := db.Model(&models.PackageModel{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count packages: %w", err)
	}
	if count > 0 {
		m.logger.Info("packages table not empty, skipping seed", "existing", count)
		return nil
	}

	mapper := mappers.NewPackageMapper()
	for _, s := range seeds {
		pkg, err := subscription.NewPackage(s.Name, subscription.PackageType(s.Type),
			s.Price, s.Currency, subscription.PeriodUnit(s.PeriodUnit), s.PeriodCount)
		if err != nil {
			return fmt.Errorf("invalid package seed %q: %w", s.Name, err)
		}
		if s.DiscountPercentage > 0 {
			if err := pkg.SetDiscountPercentage(s.DiscountPercentage); err != nil {
				return fmt.Errorf("invalid package seed %q: %w", s.Name, err)
			}
		}
		pkg.SetDisplayOrder(s.DisplayOrder)
		if len(s.Features) > 0 {
			pkg.UpdateFeatures(s.Features)
		}

		model, err := mapper.ToModel(pkg)
		if err != nil {
			return fmt.Errorf("failed to map package seed %q: %w", s.Name, err)
		}
		if err := db.Create(model).Error; err != nil {
			return fmt.Errorf("failed to insert package %q: %w", s.Name, err)
		}
	}
	m.logger.Info("seeded packages", "count", len(seeds))
	return nil
}

func (m *Manager) seedCategories(db *gorm.DB, seeds []categorySeed) error {
	var count int64
	if err := db.Model(&models.CategoryModel{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count categories: %w", err)
	}
	if count > 0 {
		m.logger.Info("categories table not empty, skipping seed", "existing", count)
		return nil
	}

	mapper := mappers.NewCategoryMapper()
	for _, s := range seeds {
		category, err := catalog.NewCategory(s.Name, s.Description)
		if err != nil {
			return fmt.Errorf("invalid category seed %q: %w", s.Name, err)
		}
		category.SetDisplayOrder(s.DisplayOrder)

		model, err := mapper.ToModel(category)
		if err != nil {
			return fmt.Errorf("failed to map category seed %q: %w", s.Name, err)
		}
		if err := db.Create(model).Error; err != nil {
			return fmt.Errorf("failed to insert category %q: %w", s.Name, err)
		}
	}
	m.logger.Info("seeded categories", "count", len(seeds))
	return nil
}
