package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID             uuid.UUID
	CreatedAt      time.Time
	FullName       string
	Email          string
	Username       string
	HashedPassword string
	AvatarURL      string
	CoverImageURL  string

	// Currently active refresh token, nil if user logged out
	RefreshToken *string
}

// Public view of the user safe to return to clients.
// Password hash and refresh token are not present at all, so they can't
// leak through serialization.
type PublicUser struct {
	ID            uuid.UUID `json:"id"`
	CreatedAt     time.Time `json:"createdAt"`
	FullName      string    `json:"fullName"`
	Email         string    `json:"email"`
	Username      string    `json:"username"`
	AvatarURL     string    `json:"avatar"`
	CoverImageURL string    `json:"coverImage"`
}

func (u User) Public() PublicUser {
	return PublicUser{
		ID:            u.ID,
		CreatedAt:     u.CreatedAt,
		FullName:      u.FullName,
		Email:         u.Email,
		Username:      u.Username,
		AvatarURL:     u.AvatarURL,
		CoverImageURL: u.CoverImageURL,
	}
}
