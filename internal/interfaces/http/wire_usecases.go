package http

import (
	"context"
	"fmt"
	"time"

	catalogUC "calmora/internal/application/catalog/usecases"
	listeningUC "calmora/internal/application/listening/usecases"
	notificationUC "calmora/internal/application/notification/usecases"
	subscriptionUC "calmora/internal/application/subscription/usecases"
	userUC "calmora/internal/application/user/usecases"
	"calmora/internal/domain/user"
)

// useCases groups every application use case the handlers and scheduler
// depend on.
type useCases struct {
	register     *userUC.RegisterUseCase
	verify       *userUC.VerifyAccountUseCase
	resendCode   *userUC.ResendCodeUseCase
	login        *userUC.LoginUseCase
	googleLogin  *userUC.GoogleLoginUseCase
	refreshToken *userUC.RefreshTokenUseCase
	logout       *userUC.LogoutUseCase
	profile      *userUC.ProfileUseCase
	deviceTokens *userUC.DeviceTokenUseCase
	manageUsers  *userUC.ManageUsersUseCase

	browseCatalog    *catalogUC.BrowseCatalogUseCase
	browsePrograms   *catalogUC.BrowseProgramsUseCase
	streamURL        *catalogUC.StreamURLUseCase
	favorites        *catalogUC.FavoritesUseCase
	customPrograms   *catalogUC.CustomProgramsUseCase
	manageCategories *catalogUC.ManageCategoriesUseCase
	manageTracks     *catalogUC.ManageTracksUseCase
	managePrograms   *catalogUC.ManageProgramsUseCase
	uploadMedia      *catalogUC.UploadMediaUseCase

	startSession  *listeningUC.StartSessionUseCase
	updateSession *listeningUC.UpdateSessionUseCase
	listSessions  *listeningUC.ListSessionsUseCase
	enroll        *listeningUC.EnrollUseCase
	markComplete  *listeningUC.MarkTrackCompleteUseCase
	stats         *listeningUC.StatsUseCase
	sweepSessions *listeningUC.SweepSessionsUseCase

	listPackages   *subscriptionUC.ListPackagesUseCase
	subscribe      *subscriptionUC.SubscribeUseCase
	cancel         *subscriptionUC.CancelSubscriptionUseCase
	renew          *subscriptionUC.RenewSubscriptionUseCase
	changePackage  *subscriptionUC.ChangePackageUseCase
	getStatus      *subscriptionUC.GetSubscriptionUseCase
	validateCoupon *subscriptionUC.ValidateCouponUseCase
	listPayments   *subscriptionUC.ListPaymentsUseCase
	managePackages *subscriptionUC.ManagePackagesUseCase
	manageCoupons  *subscriptionUC.ManageCouponsUseCase
	expire         *subscriptionUC.ExpireSubscriptionsUseCase
	autoRenew      *subscriptionUC.AutoRenewSubscriptionsUseCase
	reminders      *subscriptionUC.RenewalRemindersUseCase

	notify            *notificationUC.NotifyUseCase
	listNotifications *notificationUC.ListNotificationsUseCase
	markRead          *notificationUC.MarkReadUseCase
	announce          *notificationUC.AnnounceUseCase
}

// userSIDResolver exposes the id-to-sid lookup the renewal job needs without
// handing it the whole user repository.
type userSIDResolver struct {
	repo user.Repository
}

func (r *userSIDResolver) ResolveUserSID(ctx context.Context, userID uint) (string, error) {
	u, err := r.repo.GetByID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to get user: %w", err)
	}
	if u == nil {
		return "", user.ErrUserNotFound
	}
	return u.SID(), nil
}

func (c *Container) initUseCases() {
	repos, svcs := c.repos, c.svcs

	notify := notificationUC.NewNotifyUseCase(repos.notification, repos.user, svcs.push, c.log)

	ucs := &useCases{
		register: userUC.NewRegisterUseCase(
			repos.user, svcs.hasher, svcs.otpStore, svcs.email, svcs.sms,
			c.cfg.Auth.OTP.ExpiresMinutes, c.log,
		),
		verify:     userUC.NewVerifyAccountUseCase(repos.user, svcs.otpStore, svcs.jwt, c.log),
		resendCode: userUC.NewResendCodeUseCase(
			repos.user, svcs.otpStore, svcs.email, svcs.sms,
			c.cfg.Auth.OTP.ExpiresMinutes, c.log,
		),
		login:        userUC.NewLoginUseCase(repos.user, svcs.hasher, svcs.jwt, c.log),
		googleLogin:  userUC.NewGoogleLoginUseCase(repos.user, svcs.oauth, svcs.jwt, c.log),
		refreshToken: userUC.NewRefreshTokenUseCase(repos.user, svcs.jwt, svcs.tokens, c.log),
		logout:       userUC.NewLogoutUseCase(svcs.jwt, svcs.tokens, c.log),
		profile:      userUC.NewProfileUseCase(repos.user, svcs.hasher, c.log),
		deviceTokens: userUC.NewDeviceTokenUseCase(repos.user, c.log),
		manageUsers:  userUC.NewManageUsersUseCase(repos.user, c.log),

		browseCatalog: catalogUC.NewBrowseCatalogUseCase(
			repos.category, repos.track, repos.favorite, repos.snapshot, svcs.markdown, c.log,
		),
		browsePrograms: catalogUC.NewBrowseProgramsUseCase(
			repos.program, repos.track, repos.category, repos.snapshot, c.log,
		),
		streamURL:        catalogUC.NewStreamURLUseCase(repos.track, repos.snapshot, svcs.signer, c.log),
		favorites:        catalogUC.NewFavoritesUseCase(repos.favorite, repos.track, c.log),
		customPrograms:   catalogUC.NewCustomProgramsUseCase(repos.customProgram, repos.track, c.log),
		manageCategories: catalogUC.NewManageCategoriesUseCase(repos.category, c.log),
		manageTracks:     catalogUC.NewManageTracksUseCase(repos.track, repos.category, c.log),
		managePrograms:   catalogUC.NewManageProgramsUseCase(repos.program, repos.category, repos.track, c.log),
		uploadMedia:      catalogUC.NewUploadMediaUseCase(svcs.store, svcs.signer, c.log),

		startSession: listeningUC.NewStartSessionUseCase(
			repos.session, repos.track, repos.program, repos.snapshot, c.log,
		),
		updateSession: listeningUC.NewUpdateSessionUseCase(repos.session, c.log),
		listSessions:  listeningUC.NewListSessionsUseCase(repos.session, repos.track, c.log),
		enroll:        listeningUC.NewEnrollUseCase(repos.enrollment, repos.program, c.log),
		markComplete: listeningUC.NewMarkTrackCompleteUseCase(
			repos.enrollment, repos.program, repos.track, c.log,
		),
		stats: listeningUC.NewStatsUseCase(repos.session, repos.track, repos.category, c.log),
		sweepSessions: listeningUC.NewSweepSessionsUseCase(
			repos.session,
			time.Duration(c.cfg.Worker.SessionAbandonHours)*time.Hour,
			c.log,
		),

		listPackages: subscriptionUC.NewListPackagesUseCase(repos.pkg, c.log),
		subscribe: subscriptionUC.NewSubscribeUseCase(
			repos.subscription, repos.pkg, repos.coupon, repos.payment, repos.snapshot,
			svcs.gateway, c.log,
		),
		cancel: subscriptionUC.NewCancelSubscriptionUseCase(repos.subscription, repos.pkg, c.log),
		renew: subscriptionUC.NewRenewSubscriptionUseCase(
			repos.subscription, repos.pkg, repos.payment, repos.snapshot, svcs.gateway, c.log,
		),
		changePackage: subscriptionUC.NewChangePackageUseCase(
			repos.subscription, repos.pkg, repos.payment, repos.snapshot, svcs.gateway, c.log,
		),
		getStatus:      subscriptionUC.NewGetSubscriptionUseCase(repos.subscription, repos.pkg, repos.snapshot, c.log),
		validateCoupon: subscriptionUC.NewValidateCouponUseCase(repos.coupon, repos.pkg, c.log),
		listPayments:   subscriptionUC.NewListPaymentsUseCase(repos.payment, c.log),
		managePackages: subscriptionUC.NewManagePackagesUseCase(repos.pkg, c.log),
		manageCoupons:  subscriptionUC.NewManageCouponsUseCase(repos.coupon, repos.pkg, c.log),
		expire: subscriptionUC.NewExpireSubscriptionsUseCase(
			repos.subscription, repos.pkg, repos.snapshot, c.log,
		),
		autoRenew: subscriptionUC.NewAutoRenewSubscriptionsUseCase(
			repos.subscription, repos.pkg, repos.payment, repos.snapshot,
			&userSIDResolver{repo: repos.user}, svcs.gateway,
			time.Duration(c.cfg.Worker.RenewalLookaheadDays)*24*time.Hour,
			c.log,
		),
		reminders: subscriptionUC.NewRenewalRemindersUseCase(
			repos.subscription, repos.pkg, notify,
			time.Duration(c.cfg.Worker.RenewalLookaheadDays)*24*time.Hour,
			c.log,
		),

		notify:            notify,
		listNotifications: notificationUC.NewListNotificationsUseCase(repos.notification, c.log),
		markRead:          notificationUC.NewMarkReadUseCase(repos.notification, c.log),
		announce:          notificationUC.NewAnnounceUseCase(repos.notification, repos.user, c.log),
	}

	// Lifecycle events produce in-app notifications; delivery failures never
	// fail the operation itself.
	ucs.subscribe.SetNotifier(notify)
	ucs.expire.SetNotifier(notify)
	ucs.autoRenew.SetNotifier(notify)
	ucs.markComplete.SetNotifier(notify)

	c.ucs = ucs
}
