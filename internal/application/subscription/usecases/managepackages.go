package usecases

import (
	"context"
	"fmt"

	"calmora/internal/application/subscription/dto"
	"calmora/internal/domain/subscription"
	"calmora/internal/shared/logger"
)

type CreatePackageCommand struct {
	Name               string
	Type               string
	Price              uint64
	Currency           string
	PeriodUnit         string
	PeriodCount        int
	DiscountPercentage int
	Features           []string
	DisplayOrder       int
}

type UpdatePackageCommand struct {
	SID                string
	Name               *string
	Price              *uint64
	Currency           *string
	DiscountPercentage *int
	Features           []string
	DisplayOrder       *int
	Active             *bool
}

// ManagePackagesUseCase covers the admin package operations. One package per
// type; the unique index on package_type is the backstop for races.
type ManagePackagesUseCase struct {
	packageRepo subscription.PackageRepository
	logger      logger.Interface
}

func NewManagePackagesUseCase(packageRepo subscription.PackageRepository, logger logger.Interface) *ManagePackagesUseCase {
	return &ManagePackagesUseCase{packageRepo: packageRepo, logger: logger}
}

func (uc *ManagePackagesUseCase) Create(ctx context.Context, cmd CreatePackageCommand) (*dto.PackageDTO, error) {
	packageType := subscription.PackageType(cmd.Type)
	existing, err := uc.packageRepo.GetByType(ctx, packageType)
	if err != nil {
		uc.logger.Errorw("failed to check package type", "error", err, "type", cmd.Type)
		return nil, fmt.Errorf("failed to check package type: %w", err)
	}
	if existing != nil {
		return nil, subscription.ErrPackageTypeExists
	}

	pkg, err := subscription.NewPackage(cmd.Name, packageType, cmd.Price, cmd.Currency,
		subscription.PeriodUnit(cmd.PeriodUnit), cmd.PeriodCount)
	if err != nil {
		return nil, fmt.Errorf("invalid package: %w", err)
	}
	if cmd.DiscountPercentage > 0 {
		if err := pkg.SetDiscountPercentage(cmd.DiscountPercentage); err != nil {
			return nil, fmt.Errorf("invalid discount percentage: %w", err)
		}
	}
	if len(cmd.Features) > 0 {
		pkg.UpdateFeatures(cmd.Features)
	}
	pkg.SetDisplayOrder(cmd.DisplayOrder)

	if err := uc.packageRepo.Create(ctx, pkg); err != nil {
		uc.logger.Errorw("failed to create package", "error", err, "name", cmd.Name)
		return nil, fmt.Errorf("failed to create package: %w", err)
	}

	uc.logger.Infow("package created", "sid", pkg.SID(), "type", pkg.Type(), "price", pkg.Price())
	return dto.ToPackageDTO(pkg), nil
}

func (uc *ManagePackagesUseCase) Update(ctx context.Context, cmd UpdatePackageCommand) (*dto.PackageDTO, error) {
	pkg, err := uc.packageRepo.GetBySID(ctx, cmd.SID)
	if err != nil {
		uc.logger.Errorw("failed to get package", "error", err, "sid", cmd.SID)
		return nil, fmt.Errorf("failed to get package: %w", err)
	}
	if pkg == nil {
		return nil, subscription.ErrPackageNotFound
	}

	if cmd.Name != nil {
		if err := pkg.UpdateName(*cmd.Name); err != nil {
			return nil, fmt.Errorf("invalid name: %w", err)
		}
	}
	if cmd.Price != nil {
		currency := pkg.Currency()
		if cmd.Currency != nil {
			currency = *cmd.Currency
		}
		if err := pkg.UpdatePrice(*cmd.Price, currency); err != nil {
			return nil, fmt.Errorf("invalid price: %w", err)
		}
	}
	if cmd.DiscountPercentage != nil {
		if err := pkg.SetDiscountPercentage(*cmd.DiscountPercentage); err != nil {
			return nil, fmt.Errorf("invalid discount percentage: %w", err)
		}
	}
	if cmd.Features != nil {
		pkg.UpdateFeatures(cmd.Features)
	}
	if cmd.DisplayOrder != nil {
		pkg.SetDisplayOrder(*cmd.DisplayOrder)
	}
	if cmd.Active != nil {
		if *cmd.Active {
			pkg.Activate()
		} else {
			pkg.Deactivate()
		}
	}

	if err := uc.packageRepo.Update(ctx, pkg); err != nil {
		uc.logger.Errorw("failed to update package", "error", err, "sid", cmd.SID)
		return nil, fmt.Errorf("failed to update package: %w", err)
	}

	uc.logger.Infow("package updated", "sid", pkg.SID())
	return dto.ToPackageDTO(pkg), nil
}
