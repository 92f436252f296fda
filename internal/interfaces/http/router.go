package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"calmora/internal/interfaces/http/middleware"
	"calmora/internal/shared/authorization"
	"calmora/internal/shared/utils"
)

// SetupRoutes mounts every route group on the engine. Catalog browsing runs
// with optional auth so anonymous clients see the free tier; everything under
// the authenticated groups requires a valid access token.
func (c *Container) SetupRoutes() {
	c.engine.Use(middleware.RequestID())
	c.engine.Use(middleware.RequestLogger(c.log))
	c.engine.Use(middleware.Recovery())
	c.engine.Use(middleware.CORS(c.cfg.Server.CORSAllowedOrigins))

	c.engine.GET("/health", func(ctx *gin.Context) {
		utils.SuccessResponse(ctx, http.StatusOK, "ok", nil)
	})

	v1 := c.engine.Group("/api/v1")

	auth := v1.Group("/auth")
	{
		auth.POST("/register", c.rateLimiter.Limit(), c.hdlrs.auth.Register)
		auth.POST("/verify", c.rateLimiter.Limit(), c.hdlrs.auth.Verify)
		auth.POST("/resend-code", c.rateLimiter.Limit(), c.hdlrs.auth.ResendCode)
		auth.POST("/login", c.rateLimiter.Limit(), c.hdlrs.auth.Login)
		auth.POST("/google", c.rateLimiter.Limit(), c.hdlrs.auth.GoogleLogin)
		auth.POST("/refresh", c.hdlrs.auth.Refresh)
		auth.POST("/logout", c.authMiddleware.RequireAuth(), c.hdlrs.auth.Logout)
	}

	catalog := v1.Group("/catalog")
	catalog.Use(c.authMiddleware.OptionalAuth())
	{
		catalog.GET("/categories", c.hdlrs.catalog.ListCategories)
		catalog.GET("/tracks", c.hdlrs.catalog.ListTracks)
		catalog.GET("/tracks/search", c.hdlrs.catalog.SearchTracks)
		catalog.GET("/tracks/:sid", c.hdlrs.catalog.GetTrack)
		catalog.GET("/programs", c.hdlrs.program.ListPrograms)
		catalog.GET("/programs/:sid", c.hdlrs.program.GetProgram)
	}

	authed := v1.Group("")
	authed.Use(c.authMiddleware.RequireAuth())
	{
		authed.GET("/catalog/tracks/:sid/stream", c.hdlrs.catalog.GetStreamURL)

		authed.GET("/favorites", c.hdlrs.catalog.ListFavorites)
		authed.POST("/favorites/:sid", c.hdlrs.catalog.AddFavorite)
		authed.DELETE("/favorites/:sid", c.hdlrs.catalog.RemoveFavorite)

		authed.GET("/me", c.hdlrs.profile.Get)
		authed.PATCH("/me", c.hdlrs.profile.Update)
		authed.PUT("/me/password", c.hdlrs.profile.ChangePassword)
		authed.DELETE("/me", c.hdlrs.profile.Delete)
		authed.POST("/me/device-tokens", c.hdlrs.profile.RegisterDeviceToken)
		authed.DELETE("/me/device-tokens/:token", c.hdlrs.profile.RemoveDeviceToken)

		authed.POST("/programs/:sid/enroll", c.hdlrs.program.Enroll)
		authed.GET("/enrollments", c.hdlrs.program.ListEnrollments)
		authed.POST("/programs/:sid/complete-track", c.hdlrs.program.MarkTrackComplete)

		authed.GET("/custom-programs", c.hdlrs.program.ListCustomPrograms)
		authed.POST("/custom-programs", c.hdlrs.program.CreateCustomProgram)
		authed.PATCH("/custom-programs/:sid", c.hdlrs.program.UpdateCustomProgram)
		authed.DELETE("/custom-programs/:sid", c.hdlrs.program.DeleteCustomProgram)

		authed.POST("/sessions", c.hdlrs.session.Start)
		authed.PATCH("/sessions/:sid/position", c.hdlrs.session.UpdatePosition)
		authed.POST("/sessions/:sid/end", c.hdlrs.session.End)
		authed.GET("/sessions", c.hdlrs.session.List)
		authed.GET("/stats", c.hdlrs.session.Stats)
		authed.GET("/stats/patterns", c.hdlrs.session.Patterns)

		authed.GET("/packages", c.hdlrs.subscription.ListPackages)
		authed.GET("/subscription", c.hdlrs.subscription.Status)
		authed.POST("/subscription", c.hdlrs.subscription.Subscribe)
		authed.DELETE("/subscription", c.hdlrs.subscription.Cancel)
		authed.POST("/subscription/renew", c.hdlrs.subscription.Renew)
		authed.PUT("/subscription/package", c.hdlrs.subscription.ChangePackage)
		authed.POST("/coupons/validate", c.hdlrs.subscription.ValidateCoupon)
		authed.GET("/payments", c.hdlrs.subscription.ListPayments)

		authed.GET("/notifications", c.hdlrs.notification.List)
		authed.POST("/notifications/:sid/read", c.hdlrs.notification.MarkRead)
		authed.POST("/notifications/read-all", c.hdlrs.notification.MarkAllRead)
	}

	adminGroup := v1.Group("/admin")
	adminGroup.Use(c.authMiddleware.RequireAuth(), authorization.RequireAdmin())
	{
		catalogAdmin := adminGroup.Group("", authorization.RequireCapability(authorization.CapManageCatalog))
		{
			catalogAdmin.POST("/categories", c.hdlrs.adminCatalog.CreateCategory)
			catalogAdmin.PATCH("/categories/:sid", c.hdlrs.adminCatalog.UpdateCategory)
			catalogAdmin.POST("/tracks", c.hdlrs.adminCatalog.CreateTrack)
			catalogAdmin.PATCH("/tracks/:sid", c.hdlrs.adminCatalog.UpdateTrack)
			catalogAdmin.POST("/programs", c.hdlrs.adminCatalog.CreateProgram)
			catalogAdmin.PATCH("/programs/:sid", c.hdlrs.adminCatalog.UpdateProgram)
			catalogAdmin.POST("/media/:kind", c.hdlrs.adminCatalog.UploadMedia)
			catalogAdmin.DELETE("/media/:kind/:name", c.hdlrs.adminCatalog.DeleteMedia)
		}

		packageAdmin := adminGroup.Group("", authorization.RequireCapability(authorization.CapManagePackages))
		{
			packageAdmin.GET("/packages", c.hdlrs.adminPackage.ListPackages)
			packageAdmin.POST("/packages", c.hdlrs.adminPackage.CreatePackage)
			packageAdmin.PATCH("/packages/:sid", c.hdlrs.adminPackage.UpdatePackage)
		}

		couponAdmin := adminGroup.Group("", authorization.RequireCapability(authorization.CapManageCoupons))
		{
			couponAdmin.GET("/coupons", c.hdlrs.adminPackage.ListCoupons)
			couponAdmin.POST("/coupons", c.hdlrs.adminPackage.CreateCoupon)
			couponAdmin.POST("/coupons/:sid/deactivate", c.hdlrs.adminPackage.DeactivateCoupon)
		}

		userAdmin := adminGroup.Group("", authorization.RequireCapability(authorization.CapManageUsers))
		{
			userAdmin.GET("/users", c.hdlrs.adminUser.List)
			userAdmin.GET("/users/:sid", c.hdlrs.adminUser.Get)
			userAdmin.POST("/users/:sid/ban", c.hdlrs.adminUser.Ban)
			userAdmin.POST("/users/:sid/unban", c.hdlrs.adminUser.Unban)
		}

		adminGroup.GET("/analytics/popular-tracks",
			authorization.RequireCapability(authorization.CapViewAdminAnalytics),
			c.hdlrs.adminAnalytics.PopularTracks)
		adminGroup.POST("/announcements",
			authorization.RequireCapability(authorization.CapSendAnnouncements),
			c.hdlrs.adminAnalytics.Announce)
	}
}
