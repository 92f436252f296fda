package usecases

import (
	"context"
	"fmt"
	"time"

	"calmora/internal/application/user/dto"
	"calmora/internal/domain/user"
	"calmora/internal/shared/logger"
)

type GoogleLoginCommand struct {
	Code string
}

// GoogleLoginUseCase signs a user in with a Google authorization code. An
// account is matched by Google ID first, then by verified email (linking the
// Google identity), and created fresh otherwise. Google-verified emails skip
// the OTP step entirely.
type GoogleLoginUseCase struct {
	userRepo user.Repository
	oauth    GoogleOAuth
	tokens   TokenIssuer
	logger   logger.Interface
}

func NewGoogleLoginUseCase(
	userRepo user.Repository,
	oauth GoogleOAuth,
	tokens TokenIssuer,
	logger logger.Interface,
) *GoogleLoginUseCase {
	return &GoogleLoginUseCase{
		userRepo: userRepo,
		oauth:    oauth,
		tokens:   tokens,
		logger:   logger,
	}
}

func (uc *GoogleLoginUseCase) Execute(ctx context.Context, cmd GoogleLoginCommand) (*dto.AuthResultDTO, error) {
	accessToken, err := uc.oauth.ExchangeCode(ctx, cmd.Code)
	if err != nil {
		uc.logger.Warnw("failed to exchange oauth code", "error", err)
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}
	info, err := uc.oauth.GetUserInfo(ctx, accessToken)
	if err != nil {
		uc.logger.Warnw("failed to get google user info", "error", err)
		return nil, fmt.Errorf("failed to get user info: %w", err)
	}

	u, err := uc.findOrCreate(ctx, info.ProviderID, info.Email, info.Name, info.EmailVerified)
	if err != nil {
		return nil, err
	}

	if err := u.CanAuthenticateAt(time.Now().UTC()); err != nil {
		uc.logger.Warnw("google login rejected", "error", err, "user_sid", u.SID())
		return nil, err
	}

	pair, err := uc.tokens.Generate(u.SID(), u.Role())
	if err != nil {
		uc.logger.Errorw("failed to generate tokens", "error", err, "user_sid", u.SID())
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	uc.logger.Infow("google login", "user_sid", u.SID())
	return &dto.AuthResultDTO{
		User: dto.ToUserDTO(u),
		Tokens: &dto.TokenPairDTO{
			AccessToken:  pair.AccessToken,
			RefreshToken: pair.RefreshToken,
			TokenType:    "Bearer",
			ExpiresIn:    pair.ExpiresIn,
		},
	}, nil
}

func (uc *GoogleLoginUseCase) findOrCreate(ctx context.Context, googleID, email, name string, emailVerified bool) (*user.User, error) {
	u, err := uc.userRepo.GetByGoogleID(ctx, googleID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up google account: %w", err)
	}
	if u != nil {
		return u, nil
	}

	if email != "" && emailVerified {
		normalized := user.NormalizeEmail(email)
		u, err = uc.userRepo.GetByEmail(ctx, normalized)
		if err != nil {
			return nil, fmt.Errorf("failed to look up email: %w", err)
		}
		if u != nil {
			if err := u.LinkGoogleAccount(googleID); err != nil {
				return nil, fmt.Errorf("failed to link google account: %w", err)
			}
			if err := uc.userRepo.Update(ctx, u); err != nil {
				return nil, fmt.Errorf("failed to save linked account: %w", err)
			}
			return u, nil
		}
	}

	if email == "" || !emailVerified {
		return nil, fmt.Errorf("google account has no verified email")
	}

	normalized := user.NormalizeEmail(email)
	newUser, err := user.NewUser(&normalized, nil, name)
	if err != nil {
		return nil, fmt.Errorf("invalid user: %w", err)
	}
	if err := newUser.LinkGoogleAccount(googleID); err != nil {
		return nil, err
	}
	if err := uc.userRepo.Create(ctx, newUser); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	uc.logger.Infow("user created via google", "user_sid", newUser.SID())
	return newUser, nil
}
