package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/ramavtar-nagar/videotube/internal/models"
)

type CreateUserParams struct {
	FullName       string
	Email          string
	Username       string
	HashedPassword string
	AvatarURL      string
	CoverImageURL  string
}

// User repository interface
type UserRepo interface {
	// Create user
	// If user with the same email or username exists already
	// has to return apperrors.ErrUserAlreadyExists
	CreateUser(ctx context.Context, params CreateUserParams) (models.User, error)

	// Get user by id
	// If user not found must return apperrors.ErrUserNotFound
	GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error)

	// Get user matching email or username (either may be empty)
	// If user not found must return apperrors.ErrUserNotFound
	GetUserByEmailOrUsername(ctx context.Context, email string, username string) (models.User, error)

	// Set or clear (nil) the stored refresh token
	// Touches only the refresh_token column, the rest of the row is left as is
	UpdateRefreshToken(ctx context.Context, userID uuid.UUID, token *string) error
}
