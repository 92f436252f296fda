package http

import (
	"fmt"

	"calmora/internal/infrastructure/auth"
	"calmora/internal/infrastructure/cache"
	"calmora/internal/infrastructure/email"
	"calmora/internal/infrastructure/payment"
	"calmora/internal/infrastructure/push"
	"calmora/internal/infrastructure/sms"
	"calmora/internal/infrastructure/storage"
	"calmora/internal/shared/services/markdown"
)

// services groups the infrastructure clients shared across use cases.
type services struct {
	jwt      *auth.JWTService
	hasher   *auth.BcryptPasswordHasher
	oauth    *auth.GoogleOAuthClient
	otpStore *cache.OTPStore
	tokens   *cache.TokenBlacklist

	email   *email.SMTPEmailService
	sms     *sms.Client
	push    *push.Client
	gateway *payment.Gateway

	store    storage.Store
	signer   *storage.URLSigner
	markdown markdown.Service
}

func (c *Container) initServices() error {
	store, err := storage.New(&c.cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to init storage: %w", err)
	}

	// Signed media URLs point at wherever the blobs are actually served from.
	signBase := c.cfg.Storage.LocalBaseURL
	if c.cfg.Storage.Backend == "remote" {
		signBase = c.cfg.Storage.RemoteBaseURL
	}

	c.svcs = &services{
		jwt: auth.NewJWTService(
			c.cfg.Auth.JWT.Secret,
			c.cfg.Auth.JWT.AccessExpMinutes,
			c.cfg.Auth.JWT.RefreshExpDays,
		),
		hasher: auth.NewBcryptPasswordHasher(c.cfg.Auth.Password.BcryptCost),
		oauth: auth.NewGoogleOAuthClient(auth.GoogleOAuthConfig{
			ClientID:     c.cfg.OAuth.Google.ClientID,
			ClientSecret: c.cfg.OAuth.Google.ClientSecret,
			RedirectURL:  c.cfg.OAuth.Google.RedirectURL,
		}),
		otpStore: cache.NewOTPStore(
			c.redis,
			c.cfg.Auth.OTP.Length,
			c.cfg.Auth.OTP.ExpiresMinutes,
			c.cfg.Auth.OTP.MaxAttempts,
		),
		tokens: cache.NewTokenBlacklist(c.redis),

		email: email.NewSMTPEmailService(email.SMTPConfig{
			Host:        c.cfg.Email.SMTPHost,
			Port:        c.cfg.Email.SMTPPort,
			Username:    c.cfg.Email.SMTPUser,
			Password:    c.cfg.Email.SMTPPass,
			FromAddress: c.cfg.Email.FromAddress,
			FromName:    c.cfg.Email.FromName,
		}),
		sms: sms.NewClient(sms.Config{
			APIURL: c.cfg.SMS.APIURL,
			APIKey: c.cfg.SMS.APIKey,
			Sender: c.cfg.SMS.Sender,
		}),
		push: push.NewClient(push.Config{
			Endpoint:    c.cfg.Push.FCMEndpoint,
			AccessToken: c.cfg.Push.AccessToken,
		}),
		gateway: payment.NewGateway(payment.Config{
			GatewayURL:    c.cfg.Payment.GatewayURL,
			APIKey:        c.cfg.Payment.APIKey,
			WebhookSecret: c.cfg.Payment.WebhookSecret,
		}),

		store: store,
		signer: storage.NewURLSigner(
			signBase,
			c.cfg.Storage.SignSecret,
			c.cfg.Storage.SignTTLMin,
		),
		markdown: markdown.NewService(),
	}
	return nil
}
