package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ramavtar-nagar/videotube/internal/apperrors"
	"github.com/ramavtar-nagar/videotube/internal/models"
	"github.com/ramavtar-nagar/videotube/internal/repository"
)

type UserRepo struct {
	DB DBTX
}

const createUser = `-- name: CreateUser
INSERT INTO users (id, full_name, email, username, password_hash, avatar_url, cover_image_url)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, created_at, full_name, email, username, password_hash, avatar_url, cover_image_url, refresh_token
`

func (r *UserRepo) CreateUser(ctx context.Context, arg repository.CreateUserParams) (models.User, error) {
	rows, _ := r.DB.Query(ctx, createUser,
		uuid.New(), arg.FullName, arg.Email, arg.Username, arg.HashedPassword, arg.AvatarURL, arg.CoverImageURL)
	user, err := pgx.CollectOneRow(rows, rowToUser)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return user, apperrors.ErrUserAlreadyExists
		}

		return user, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

const getUserByID = `-- name: GetUserByID
SELECT id, created_at, full_name, email, username, password_hash, avatar_url, cover_image_url, refresh_token
FROM users
WHERE id = $1
`

func (r *UserRepo) GetUserByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	rows, _ := r.DB.Query(ctx, getUserByID, id)
	user, err := pgx.CollectOneRow(rows, rowToUser)

	switch {
	case err == nil:
		return user, nil
	case errors.Is(err, pgx.ErrNoRows):
		return user, apperrors.ErrUserNotFound
	default:
		return user, fmt.Errorf("db error: %w", err)
	}
}

const getUserByEmailOrUsername = `-- name: GetUserByEmailOrUsername
SELECT id, created_at, full_name, email, username, password_hash, avatar_url, cover_image_url, refresh_token
FROM users
WHERE (email = $1 AND $1 <> '') OR (username = $2 AND $2 <> '')
`

func (r *UserRepo) GetUserByEmailOrUsername(ctx context.Context, email string, username string) (models.User, error) {
	rows, _ := r.DB.Query(ctx, getUserByEmailOrUsername, email, username)
	user, err := pgx.CollectOneRow(rows, rowToUser)

	switch {
	case err == nil:
		return user, nil
	case errors.Is(err, pgx.ErrNoRows):
		return user, apperrors.ErrUserNotFound
	default:
		return user, fmt.Errorf("db error: %w", err)
	}
}

const updateRefreshToken = `-- name: UpdateRefreshToken
UPDATE users
SET refresh_token = $2
WHERE id = $1
RETURNING id
`

func (r *UserRepo) UpdateRefreshToken(ctx context.Context, id uuid.UUID, token *string) error {
	rows, _ := r.DB.Query(ctx, updateRefreshToken, id, token)
	_, err := pgx.CollectOneRow(rows, pgx.RowTo[uuid.UUID])

	switch {
	case err == nil:
		return nil
	case errors.Is(err, pgx.ErrNoRows):
		return apperrors.ErrUserNotFound
	default:
		return fmt.Errorf("db error: %w", err)
	}
}

func rowToUser(row pgx.CollectableRow) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.CreatedAt, &u.FullName, &u.Email, &u.Username,
		&u.HashedPassword, &u.AvatarURL, &u.CoverImageURL, &u.RefreshToken)
	return u, err
}
