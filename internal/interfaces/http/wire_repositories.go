package http

import (
	"calmora/internal/domain/catalog"
	"calmora/internal/domain/listening"
	"calmora/internal/domain/notification"
	"calmora/internal/domain/subscription"
	"calmora/internal/domain/user"
	"calmora/internal/infrastructure/repository"
)

// repositories groups every persistence interface the use cases depend on.
type repositories struct {
	user user.Repository

	category      catalog.CategoryRepository
	track         catalog.TrackRepository
	program       catalog.ProgramRepository
	customProgram catalog.CustomProgramRepository
	favorite      catalog.FavoriteRepository

	session    listening.SessionRepository
	enrollment listening.EnrollmentRepository

	subscription subscription.SubscriptionRepository
	pkg          subscription.PackageRepository
	coupon       subscription.CouponRepository
	payment      subscription.PaymentRepository
	snapshot     subscription.SnapshotRepository

	notification notification.Repository
}

func (c *Container) initRepositories() {
	c.repos = &repositories{
		user: repository.NewUserRepository(c.db, c.log),

		category:      repository.NewCategoryRepository(c.db, c.log),
		track:         repository.NewTrackRepository(c.db, c.log),
		program:       repository.NewProgramRepository(c.db, c.log),
		customProgram: repository.NewCustomProgramRepository(c.db, c.log),
		favorite:      repository.NewFavoriteRepository(c.db, c.log),

		session:    repository.NewSessionRepository(c.db, c.log),
		enrollment: repository.NewEnrollmentRepository(c.db, c.log),

		subscription: repository.NewSubscriptionRepository(c.db, c.log),
		pkg:          repository.NewPackageRepository(c.db, c.log),
		coupon:       repository.NewCouponRepository(c.db, c.log),
		payment:      repository.NewPaymentRepository(c.db, c.log),
		snapshot:     repository.NewSnapshotRepository(c.db, c.log),

		notification: repository.NewNotificationRepository(c.db, c.log),
	}
}
