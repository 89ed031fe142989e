package apperrors

import (
	"errors"
)

var (
	ErrUserAlreadyExists  = errors.New("user with email or username already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid user credentials")

	ErrAvatarRequired     = errors.New("avatar file is required")
	ErrAvatarUploadFailed = errors.New("avatar upload failed")

	ErrRefreshTokenMissing  = errors.New("refresh token is missing")
	ErrRefreshTokenInvalid  = errors.New("refresh token is invalid")
	ErrRefreshTokenMismatch = errors.New("refresh token is expired or already used")
)
