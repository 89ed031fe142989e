package user

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/ramavtar-nagar/videotube/internal/apperrors"
	"github.com/ramavtar-nagar/videotube/internal/models"
	"github.com/ramavtar-nagar/videotube/internal/repository"
	"github.com/ramavtar-nagar/videotube/internal/service/auth"
)

// External media store the avatar and cover image are uploaded to
type MediaStore interface {
	// Upload the object and return its durable URL
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error)

	// Delete the object stored under key
	Delete(ctx context.Context, key string) error
}

// FileUpload is a single file received from the client
type FileUpload struct {
	Name        string
	Size        int64
	ContentType string
	Content     io.Reader
}

type RegisterInput struct {
	FullName string
	Email    string
	Username string
	Password string

	// Avatar is required, cover image optional
	Avatar     *FileUpload
	CoverImage *FileUpload
}

type UserService struct {
	hasher   auth.PasswordHasher
	userRepo repository.UserRepo
	media    MediaStore
}

func NewService(hasher auth.PasswordHasher, userRepo repository.UserRepo, media MediaStore) *UserService {
	if hasher == nil {
		hasher = auth.DefaultHasher
	}

	return &UserService{
		hasher:   hasher,
		userRepo: userRepo,
		media:    media,
	}
}

// Register creates a user: checks uniqueness before any upload happens,
// uploads avatar (required) then cover image (optional) sequentially,
// stores the username lowercased and re-fetches the created record
func (s *UserService) Register(ctx context.Context, in RegisterInput) (models.User, error) {
	var user models.User

	username := strings.ToLower(strings.TrimSpace(in.Username))
	email := strings.TrimSpace(in.Email)

	// Uniqueness check runs first so a taken name never triggers uploads
	_, err := s.userRepo.GetUserByEmailOrUsername(ctx, email, username)
	switch {
	case err == nil:
		return user, apperrors.ErrUserAlreadyExists
	case errors.Is(err, apperrors.ErrUserNotFound):
		// ok, proceed
	default:
		return user, fmt.Errorf("error while checking user existence. Err: %w", err)
	}

	if in.Avatar == nil {
		return user, apperrors.ErrAvatarRequired
	}

	avatarKey, avatarURL, err := s.upload(ctx, "avatars", in.Avatar)
	if err != nil {
		return user, fmt.Errorf("%w: %w", apperrors.ErrAvatarUploadFailed, err)
	}

	// Objects uploaded so far, removed best-effort if registration fails
	uploaded := []string{avatarKey}
	discardUploads := func() {
		for _, key := range uploaded {
			_ = s.media.Delete(ctx, key)
		}
	}

	coverImageURL := ""
	if in.CoverImage != nil {
		var coverKey string
		coverKey, coverImageURL, err = s.upload(ctx, "covers", in.CoverImage)
		if err != nil {
			discardUploads()
			return user, fmt.Errorf("error while uploading cover image. Err: %w", err)
		}
		uploaded = append(uploaded, coverKey)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		discardUploads()
		return user, fmt.Errorf("can't use this as password, Err: %w", err)
	}

	created, err := s.userRepo.CreateUser(ctx, repository.CreateUserParams{
		FullName:       strings.TrimSpace(in.FullName),
		Email:          email,
		Username:       username,
		HashedPassword: hash,
		AvatarURL:      avatarURL,
		CoverImageURL:  coverImageURL,
	})
	if err != nil {
		discardUploads()
		return user, err
	}

	// Re-fetch so the caller gets exactly what the db holds
	user, err = s.userRepo.GetUserByID(ctx, created.ID)
	if err != nil {
		return user, fmt.Errorf("error while fetching created user. Err: %w", err)
	}

	return user, nil
}

// GetUserByID returns the user or apperrors.ErrUserNotFound
func (s *UserService) GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error) {
	return s.userRepo.GetUserByID(ctx, userID)
}

func (s *UserService) upload(ctx context.Context, prefix string, f *FileUpload) (string, string, error) {
	key := fmt.Sprintf("%s/%s%s", prefix, uuid.NewString(), path.Ext(f.Name))
	url, err := s.media.Upload(ctx, key, f.Content, f.Size, f.ContentType)
	return key, url, err
}
