package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	listeningUC "calmora/internal/application/listening/usecases"
	notificationUC "calmora/internal/application/notification/usecases"
	subscriptionUC "calmora/internal/application/subscription/usecases"
	"calmora/internal/domain/user"
	"calmora/internal/infrastructure/config"
	"calmora/internal/infrastructure/database"
	"calmora/internal/infrastructure/payment"
	"calmora/internal/infrastructure/push"
	"calmora/internal/infrastructure/repository"
	"calmora/internal/infrastructure/scheduler"
	"calmora/internal/shared/biztime"
	"calmora/internal/shared/logger"
)

// The worker runs the scheduled maintenance jobs standalone: subscription
// expiry and auto-renewal, abandoned session sweeps and renewal reminders.
// Deployments run either this binary or the in-server scheduler, not both.
func main() {
	env := "development"
	if len(os.Args) > 1 {
		env = os.Args[1]
	}
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, err := config.Load(env)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(&cfg.Logger, env != "production"); err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger()
	log.Infow("starting maintenance worker", "environment", env)

	if err := biztime.Init(cfg.Worker.BusinessTimezone); err != nil {
		log.Errorw("failed to initialize business timezone", "error", err)
		os.Exit(1)
	}

	if err := database.Init(&cfg.Database); err != nil {
		log.Errorw("failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	db := database.Get()

	userRepo := repository.NewUserRepository(db, log)
	sessionRepo := repository.NewSessionRepository(db, log)
	subscriptionRepo := repository.NewSubscriptionRepository(db, log)
	packageRepo := repository.NewPackageRepository(db, log)
	paymentRepo := repository.NewPaymentRepository(db, log)
	snapshotRepo := repository.NewSnapshotRepository(db, log)
	notificationRepo := repository.NewNotificationRepository(db, log)

	pushClient := push.NewClient(push.Config{
		Endpoint:    cfg.Push.FCMEndpoint,
		AccessToken: cfg.Push.AccessToken,
	})
	gateway := payment.NewGateway(payment.Config{
		GatewayURL:    cfg.Payment.GatewayURL,
		APIKey:        cfg.Payment.APIKey,
		WebhookSecret: cfg.Payment.WebhookSecret,
	})

	notify := notificationUC.NewNotifyUseCase(notificationRepo, userRepo, pushClient, log)
	lookahead := time.Duration(cfg.Worker.RenewalLookaheadDays) * 24 * time.Hour

	expire := subscriptionUC.NewExpireSubscriptionsUseCase(subscriptionRepo, packageRepo, snapshotRepo, log)
	expire.SetNotifier(notify)

	autoRenew := subscriptionUC.NewAutoRenewSubscriptionsUseCase(
		subscriptionRepo, packageRepo, paymentRepo, snapshotRepo,
		&sidResolver{repo: userRepo}, gateway, lookahead, log,
	)
	autoRenew.SetNotifier(notify)

	reminders := subscriptionUC.NewRenewalRemindersUseCase(subscriptionRepo, packageRepo, notify, lookahead, log)

	sweep := listeningUC.NewSweepSessionsUseCase(
		sessionRepo,
		time.Duration(cfg.Worker.SessionAbandonHours)*time.Hour,
		log,
	)

	mgr, err := scheduler.NewManager(log)
	if err != nil {
		log.Errorw("failed to create scheduler", "error", err)
		os.Exit(1)
	}
	if err := mgr.RegisterSubscriptionJobs(expire, autoRenew, time.Duration(cfg.Worker.ExpirySweepIntervalMin)*time.Minute); err != nil {
		log.Errorw("failed to register subscription jobs", "error", err)
		os.Exit(1)
	}
	if err := mgr.RegisterSessionSweepJobs(sweep, time.Duration(cfg.Worker.SessionSweepIntervalMin)*time.Minute); err != nil {
		log.Errorw("failed to register session sweep job", "error", err)
		os.Exit(1)
	}
	if err := mgr.RegisterReminderJobs(reminders); err != nil {
		log.Errorw("failed to register reminder job", "error", err)
		os.Exit(1)
	}

	mgr.Start()
	log.Infow("maintenance worker started", "job_count", len(mgr.Jobs()))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	log.Infow("received signal, shutting down", "signal", sig)
	if err := mgr.Stop(); err != nil {
		log.Errorw("scheduler stopped with error", "error", err)
	}
	log.Infow("maintenance worker stopped")
}

type sidResolver struct {
	repo user.Repository
}

func (r *sidResolver) ResolveUserSID(ctx context.Context, userID uint) (string, error) {
	u, err := r.repo.GetByID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to get user: %w", err)
	}
	if u == nil {
		return "", user.ErrUserNotFound
	}
	return u.SID(), nil
}
