package http

import (
	"time"

	"calmora/internal/interfaces/http/handlers"
	"calmora/internal/interfaces/http/handlers/admin"
	"calmora/internal/interfaces/http/middleware"
)

// handlerSet groups every HTTP handler the router mounts.
type handlerSet struct {
	auth         *handlers.AuthHandler
	profile      *handlers.ProfileHandler
	catalog      *handlers.CatalogHandler
	program      *handlers.ProgramHandler
	session      *handlers.SessionHandler
	subscription *handlers.SubscriptionHandler
	notification *handlers.NotificationHandler

	adminCatalog   *admin.CatalogHandler
	adminPackage   *admin.PackageHandler
	adminUser      *admin.UserHandler
	adminAnalytics *admin.AnalyticsHandler
}

func (c *Container) initHandlers() {
	ucs := c.ucs

	c.hdlrs = &handlerSet{
		auth: handlers.NewAuthHandler(
			ucs.register, ucs.verify, ucs.resendCode, ucs.login,
			ucs.googleLogin, ucs.refreshToken, ucs.logout, c.log,
		),
		profile: handlers.NewProfileHandler(ucs.profile, ucs.deviceTokens, c.log),
		catalog: handlers.NewCatalogHandler(ucs.browseCatalog, ucs.streamURL, ucs.favorites, c.log),
		program: handlers.NewProgramHandler(
			ucs.browsePrograms, ucs.customPrograms, ucs.enroll, ucs.markComplete, c.log,
		),
		session: handlers.NewSessionHandler(
			ucs.startSession, ucs.updateSession, ucs.listSessions, ucs.stats, c.log,
		),
		subscription: handlers.NewSubscriptionHandler(
			ucs.listPackages, ucs.subscribe, ucs.cancel, ucs.renew, ucs.changePackage,
			ucs.getStatus, ucs.validateCoupon, ucs.listPayments, c.log,
		),
		notification: handlers.NewNotificationHandler(ucs.listNotifications, ucs.markRead, c.log),

		adminCatalog: admin.NewCatalogHandler(
			ucs.manageCategories, ucs.manageTracks, ucs.managePrograms, ucs.uploadMedia, c.log,
		),
		adminPackage:   admin.NewPackageHandler(ucs.managePackages, ucs.manageCoupons, ucs.listPackages, c.log),
		adminUser:      admin.NewUserHandler(ucs.manageUsers, c.log),
		adminAnalytics: admin.NewAnalyticsHandler(ucs.stats, ucs.announce, c.log),
	}
}

func (c *Container) initMiddleware() {
	c.authMiddleware = middleware.NewAuthMiddleware(c.svcs.jwt, c.svcs.tokens, c.repos.user, c.log)
	c.rateLimiter = middleware.NewRateLimiter(c.redis, 30, time.Minute)
}
