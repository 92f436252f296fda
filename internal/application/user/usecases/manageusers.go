package usecases

import (
	"context"
	"fmt"
	"time"

	"calmora/internal/application/user/dto"
	"calmora/internal/domain/user"
	"calmora/internal/shared/logger"
)

type BanUserCommand struct {
	UserSID string
	Until   *time.Time // nil means permanent
	Reason  string
}

// ManageUsersUseCase covers the admin user operations.
type ManageUsersUseCase struct {
	userRepo user.Repository
	logger   logger.Interface
}

func NewManageUsersUseCase(userRepo user.Repository, logger logger.Interface) *ManageUsersUseCase {
	return &ManageUsersUseCase{userRepo: userRepo, logger: logger}
}

func (uc *ManageUsersUseCase) List(ctx context.Context, offset, limit int) ([]*dto.UserDTO, int64, error) {
	users, total, err := uc.userRepo.List(ctx, offset, limit)
	if err != nil {
		uc.logger.Errorw("failed to list users", "error", err)
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return dto.ToUserDTOList(users), total, nil
}

func (uc *ManageUsersUseCase) Get(ctx context.Context, sid string) (*dto.UserDTO, error) {
	u, err := uc.userRepo.GetBySID(ctx, sid)
	if err != nil {
		uc.logger.Errorw("failed to get user", "error", err, "user_sid", sid)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if u == nil {
		return nil, user.ErrUserNotFound
	}
	return dto.ToUserDTO(u), nil
}

func (uc *ManageUsersUseCase) Ban(ctx context.Context, cmd BanUserCommand) (*dto.UserDTO, error) {
	u, err := uc.userRepo.GetBySID(ctx, cmd.UserSID)
	if err != nil {
		uc.logger.Errorw("failed to get user", "error", err, "user_sid", cmd.UserSID)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if u == nil {
		return nil, user.ErrUserNotFound
	}

	if err := u.Ban(cmd.Until, cmd.Reason); err != nil {
		return nil, fmt.Errorf("failed to ban user: %w", err)
	}
	if err := uc.userRepo.Update(ctx, u); err != nil {
		uc.logger.Errorw("failed to update user", "error", err, "user_sid", cmd.UserSID)
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	uc.logger.Infow("user banned", "user_sid", cmd.UserSID, "until", cmd.Until, "reason", cmd.Reason)
	return dto.ToUserDTO(u), nil
}

func (uc *ManageUsersUseCase) Unban(ctx context.Context, sid string) (*dto.UserDTO, error) {
	u, err := uc.userRepo.GetBySID(ctx, sid)
	if err != nil {
		uc.logger.Errorw("failed to get user", "error", err, "user_sid", sid)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if u == nil {
		return nil, user.ErrUserNotFound
	}

	u.Unban()
	if err := uc.userRepo.Update(ctx, u); err != nil {
		uc.logger.Errorw("failed to update user", "error", err, "user_sid", sid)
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	uc.logger.Infow("user unbanned", "user_sid", sid)
	return dto.ToUserDTO(u), nil
}
