package usecases

import (
	"context"
	"fmt"

	"calmora/internal/domain/user"
	"calmora/internal/shared/logger"
)

type RegisterDeviceTokenCommand struct {
	UserID   uint
	Token    string
	Platform string
}

// DeviceTokenUseCase maintains the user's push registration tokens.
type DeviceTokenUseCase struct {
	userRepo user.Repository
	logger   logger.Interface
}

func NewDeviceTokenUseCase(userRepo user.Repository, logger logger.Interface) *DeviceTokenUseCase {
	return &DeviceTokenUseCase{userRepo: userRepo, logger: logger}
}

func (uc *DeviceTokenUseCase) Register(ctx context.Context, cmd RegisterDeviceTokenCommand) error {
	u, err := uc.userRepo.GetByID(ctx, cmd.UserID)
	if err != nil {
		uc.logger.Errorw("failed to get user", "error", err, "user_id", cmd.UserID)
		return fmt.Errorf("failed to get user: %w", err)
	}
	if u == nil {
		return user.ErrUserNotFound
	}

	if err := u.RegisterDeviceToken(cmd.Token, cmd.Platform); err != nil {
		return err
	}
	if err := uc.userRepo.Update(ctx, u); err != nil {
		uc.logger.Errorw("failed to update user", "error", err, "user_id", cmd.UserID)
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

func (uc *DeviceTokenUseCase) Remove(ctx context.Context, userID uint, token string) error {
	u, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		uc.logger.Errorw("failed to get user", "error", err, "user_id", userID)
		return fmt.Errorf("failed to get user: %w", err)
	}
	if u == nil {
		return user.ErrUserNotFound
	}

	u.RemoveDeviceToken(token)
	if err := uc.userRepo.Update(ctx, u); err != nil {
		uc.logger.Errorw("failed to update user", "error", err, "user_id", userID)
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}
