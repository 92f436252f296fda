package usecases

import (
	"context"
	"fmt"

	"calmora/internal/application/user/dto"
	"calmora/internal/domain/user"
	"calmora/internal/shared/logger"
)

type UpdateProfileCommand struct {
	UserID      uint
	Name        *string
	NotifyPrefs *dto.NotificationPrefsDTO
}

type ChangePasswordCommand struct {
	UserID      uint
	OldPassword string
	NewPassword string
}

// ProfileUseCase covers the signed-in user's profile operations.
type ProfileUseCase struct {
	userRepo user.Repository
	hasher   PasswordHasher
	logger   logger.Interface
}

func NewProfileUseCase(userRepo user.Repository, hasher PasswordHasher, logger logger.Interface) *ProfileUseCase {
	return &ProfileUseCase{userRepo: userRepo, hasher: hasher, logger: logger}
}

func (uc *ProfileUseCase) Get(ctx context.Context, userID uint) (*dto.UserDTO, error) {
	u, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		uc.logger.Errorw("failed to get user", "error", err, "user_id", userID)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if u == nil {
		return nil, user.ErrUserNotFound
	}
	return dto.ToUserDTO(u), nil
}

func (uc *ProfileUseCase) Update(ctx context.Context, cmd UpdateProfileCommand) (*dto.UserDTO, error) {
	u, err := uc.userRepo.GetByID(ctx, cmd.UserID)
	if err != nil {
		uc.logger.Errorw("failed to get user", "error", err, "user_id", cmd.UserID)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if u == nil {
		return nil, user.ErrUserNotFound
	}

	if cmd.Name != nil {
		if err := u.UpdateName(*cmd.Name); err != nil {
			return nil, fmt.Errorf("invalid name: %w", err)
		}
	}
	if cmd.NotifyPrefs != nil {
		u.UpdateNotifyPrefs(user.NotificationPreferences{
			EmailEnabled: cmd.NotifyPrefs.EmailEnabled,
			PushEnabled:  cmd.NotifyPrefs.PushEnabled,
			SMSEnabled:   cmd.NotifyPrefs.SMSEnabled,
		})
	}

	if err := uc.userRepo.Update(ctx, u); err != nil {
		uc.logger.Errorw("failed to update user", "error", err, "user_id", cmd.UserID)
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return dto.ToUserDTO(u), nil
}

func (uc *ProfileUseCase) ChangePassword(ctx context.Context, cmd ChangePasswordCommand) error {
	u, err := uc.userRepo.GetByID(ctx, cmd.UserID)
	if err != nil {
		uc.logger.Errorw("failed to get user", "error", err, "user_id", cmd.UserID)
		return fmt.Errorf("failed to get user: %w", err)
	}
	if u == nil {
		return user.ErrUserNotFound
	}

	if u.PasswordHash() != nil {
		if err := uc.hasher.Verify(cmd.OldPassword, *u.PasswordHash()); err != nil {
			return user.ErrInvalidPassword
		}
	}

	hash, err := uc.hasher.Hash(cmd.NewPassword)
	if err != nil {
		uc.logger.Errorw("failed to hash password", "error", err)
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := u.SetPasswordHash(hash); err != nil {
		return err
	}
	if err := uc.userRepo.Update(ctx, u); err != nil {
		uc.logger.Errorw("failed to update user", "error", err, "user_id", cmd.UserID)
		return fmt.Errorf("failed to update user: %w", err)
	}

	uc.logger.Infow("password changed", "user_sid", u.SID())
	return nil
}

// Delete soft-deletes the account. The row is retained with identity columns
// intact so the unique indexes keep the identity from being reused.
func (uc *ProfileUseCase) Delete(ctx context.Context, userID uint) error {
	u, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		uc.logger.Errorw("failed to get user", "error", err, "user_id", userID)
		return fmt.Errorf("failed to get user: %w", err)
	}
	if u == nil {
		return user.ErrUserNotFound
	}
	if err := u.SoftDelete(); err != nil {
		return err
	}
	if err := uc.userRepo.Delete(ctx, userID); err != nil {
		uc.logger.Errorw("failed to delete user", "error", err, "user_id", userID)
		return fmt.Errorf("failed to delete user: %w", err)
	}
	uc.logger.Infow("user deleted", "user_sid", u.SID())
	return nil
}
