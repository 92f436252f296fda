package user

import "errors"

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrUserExists       = errors.New("user already exists")
	ErrUserNotVerified  = errors.New("account is not verified")
	ErrUserBanned       = errors.New("account is banned")
	ErrInvalidPassword  = errors.New("invalid credentials")
	ErrNoPasswordSet    = errors.New("account has no password, use OAuth sign-in")
)
