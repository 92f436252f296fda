// Package constants defines shared constant values used across layers.
package constants

// Pagination limits.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Gin context keys set by middleware.
const (
	ContextKeyUserID   = "user_id"
	ContextKeyUserRole = "user_role"
	ContextKeyUserSID  = "user_sid"
)

// Database table names.
const (
	TableUsers             = "users"
	TablePackages          = "packages"
	TableCoupons           = "coupons"
	TableSubscriptions     = "subscriptions"
	TableCategories        = "categories"
	TableTracks            = "tracks"
	TablePrograms          = "programs"
	TableCustomPrograms    = "custom_programs"
	TableEnrollments       = "user_programs"
	TableListeningSessions = "listening_sessions"
	TableNotifications     = "notifications"
	TableFavorites         = "favorites"
	TablePayments          = "payments"

	TableEntitlementSnapshots = "entitlement_snapshots"
)

// Redis key prefixes. Redis is used strictly as a TTL key-value store.
const (
	RedisPrefixOTP            = "otp:"
	RedisPrefixTokenBlacklist = "token:blacklist:"
)
