package usecases

import (
	"context"
	"fmt"

	"calmora/internal/application/subscription/dto"
	"calmora/internal/domain/subscription"
	"calmora/internal/shared/logger"
)

// ListPackagesUseCase returns packages for the public pricing page, ordered by
// display order. IncludeInactive is an admin-only flag.
type ListPackagesUseCase struct {
	packageRepo subscription.PackageRepository
	logger      logger.Interface
}

func NewListPackagesUseCase(packageRepo subscription.PackageRepository, logger logger.Interface) *ListPackagesUseCase {
	return &ListPackagesUseCase{packageRepo: packageRepo, logger: logger}
}

func (uc *ListPackagesUseCase) Execute(ctx context.Context, includeInactive bool) ([]*dto.PackageDTO, error) {
	var (
		pkgs []*subscription.Package
		err  error
	)
	if includeInactive {
		pkgs, err = uc.packageRepo.ListAll(ctx)
	} else {
		pkgs, err = uc.packageRepo.ListActive(ctx)
	}
	if err != nil {
		uc.logger.Errorw("failed to list packages", "error", err)
		return nil, fmt.Errorf("failed to list packages: %w", err)
	}
	return dto.ToPackageDTOList(pkgs), nil
}
