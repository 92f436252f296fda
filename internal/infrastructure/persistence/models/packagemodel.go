package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"calmora/internal/shared/constants"
)

// PackageModel persists subscription packages. PackageType carries a unique
// index so at most one package exists per tier.
type PackageModel struct {
	ID                 uint   `gorm:"primarykey"`
	SID                string `gorm:"uniqueIndex;not null;size:50"`
	Name               string `gorm:"not null;size:100"`
	PackageType        string `gorm:"uniqueIndex;not null;size:20"`
	Price              uint64 `gorm:"not null;comment:minor currency units"`
	Currency           string `gorm:"not null;size:3"`
	PeriodUnit         string `gorm:"not null;size:10"`
	PeriodCount        int    `gorm:"not null"`
	DurationDays       int    `gorm:"not null"`
	DiscountPercentage int    `gorm:"not null;default:0"`
	Features           datatypes.JSON
	Active             bool `gorm:"not null;index"`
	DisplayOrder       int  `gorm:"not null;default:0"`
	Version            int  `gorm:"not null;default:1"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (PackageModel) TableName() string {
	return constants.TablePackages
}

func (p *PackageModel) BeforeCreate(tx *gorm.DB) error {
	if p.Version == 0 {
		p.Version = 1
	}
	return nil
}
