// Package handlers contains the Gin HTTP handlers for the public API. Each
// handler binds the request, delegates to a use case and writes the shared
// response envelope.
package handlers

import (
	stderrors "errors"

	"github.com/gin-gonic/gin"

	"calmora/internal/domain/catalog"
	"calmora/internal/domain/listening"
	"calmora/internal/domain/notification"
	"calmora/internal/domain/subscription"
	"calmora/internal/domain/user"
	"calmora/internal/shared/constants"
	"calmora/internal/shared/errors"
	"calmora/internal/shared/utils"
)

// domainStatus maps domain sentinel errors to client-facing AppErrors. Errors
// without a mapping fall through as opaque 500s.
var domainStatus = map[error]func(string, ...string) *errors.AppError{
	user.ErrUserNotFound:     errors.NewNotFoundError,
	user.ErrUserExists:       errors.NewConflictError,
	user.ErrUserNotVerified:  errors.NewForbiddenError,
	user.ErrUserBanned:       errors.NewForbiddenError,
	user.ErrInvalidPassword:  errors.NewUnauthorizedError,
	user.ErrNoPasswordSet:    errors.NewBadRequestError,

	subscription.ErrSubscriptionNotFound: errors.NewNotFoundError,
	subscription.ErrNoActiveSubscription: errors.NewNotFoundError,
	subscription.ErrPackageNotFound:      errors.NewNotFoundError,
	subscription.ErrPackageInactive:      errors.NewBadRequestError,
	subscription.ErrPackageTypeExists:    errors.NewConflictError,
	subscription.ErrCouponNotFound:       errors.NewNotFoundError,
	subscription.ErrCouponNotValid:       errors.NewBadRequestError,
	subscription.ErrCouponNotApplicable:  errors.NewBadRequestError,

	catalog.ErrCategoryNotFound:      errors.NewNotFoundError,
	catalog.ErrTrackNotFound:         errors.NewNotFoundError,
	catalog.ErrProgramNotFound:       errors.NewNotFoundError,
	catalog.ErrCustomProgramNotFound: errors.NewNotFoundError,
	catalog.ErrDuplicateTrack:        errors.NewBadRequestError,

	listening.ErrSessionNotFound:   errors.NewNotFoundError,
	listening.ErrSessionEnded:      errors.NewConflictError,
	listening.ErrNotEnrolled:       errors.NewBadRequestError,
	listening.ErrTrackNotInProgram: errors.NewBadRequestError,

	notification.ErrNotificationNotFound: errors.NewNotFoundError,
}

// RespondError writes err through the shared envelope, translating known
// domain sentinels into their HTTP classification first.
func RespondError(c *gin.Context, err error) {
	for sentinel, build := range domainStatus {
		if stderrors.Is(err, sentinel) {
			utils.ErrorResponseWithError(c, build(sentinel.Error()))
			return
		}
	}
	utils.ErrorResponseWithError(c, err)
}

// CurrentUserID returns the authenticated user's internal ID, or 0 for
// anonymous requests under OptionalAuth.
func CurrentUserID(c *gin.Context) uint {
	if v, ok := c.Get(constants.ContextKeyUserID); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

// CurrentUserSID returns the authenticated user's public SID.
func CurrentUserSID(c *gin.Context) string {
	return c.GetString(constants.ContextKeyUserSID)
}
