package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ramavtar-nagar/videotube/internal/apperrors"
	"github.com/ramavtar-nagar/videotube/internal/models"
	"github.com/ramavtar-nagar/videotube/internal/repository"
	"github.com/ramavtar-nagar/videotube/internal/service/auth/tokenmanager"
)

const (
	defaultAccessCookieName  = "accessToken"
	defaultRefreshCookieName = "refreshToken"
	defaultAccessAuthScheme  = "Bearer"
)

// Interface to create or compare user password hashes
type PasswordHasher interface {
	// Generate Hash from password
	Hash(password string) (string, error)

	// Compare known hashedPassword and user provided password
	// Must be protected against timing attacks
	Compare(hashedPassword string, password string) error
}

type Config struct {
	// Hasher used to compare passwords on login
	// BcryptHasher is used if not set
	Hasher PasswordHasher

	// Cookie names for the token pair
	// Defaults are used if not set
	AccessCookieName  string
	RefreshCookieName string
}

// Auth service: login, logout and refresh of the token pair
type AuthService struct {
	token  *tokenmanager.TokenManager
	hasher PasswordHasher

	accessCookieName  string
	refreshCookieName string

	userRepo repository.UserRepo
}

func NewService(cfg Config, tm *tokenmanager.TokenManager, userRepo repository.UserRepo) (*AuthService, error) {
	hasher := cfg.Hasher
	if hasher == nil {
		hasher = DefaultHasher
	}

	setDefaultString := func(field *string, def string) {
		if *field == "" {
			*field = def
		}
	}
	setDefaultString(&cfg.AccessCookieName, defaultAccessCookieName)
	setDefaultString(&cfg.RefreshCookieName, defaultRefreshCookieName)

	return &AuthService{
		token:             tm,
		hasher:            hasher,
		accessCookieName:  cfg.AccessCookieName,
		refreshCookieName: cfg.RefreshCookieName,
		userRepo:          userRepo,
	}, nil
}

// Login user by email or username (at least one required) and password
// Returns the user and a fresh token pair, the refresh token is persisted
// on the user record superseding any previously issued one
func (s *AuthService) Login(ctx context.Context, email string, username string, password string) (models.User, models.TokenPair, error) {
	var pair models.TokenPair

	user, err := s.userRepo.GetUserByEmailOrUsername(ctx, email, username)
	if err != nil {
		return user, pair, err
	}

	err = s.hasher.Compare(user.HashedPassword, password)
	if err != nil {
		return user, pair, apperrors.ErrInvalidCredentials
	}

	pair, err = s.token.IssuePair(ctx, user.ID)
	if err != nil {
		return user, pair, fmt.Errorf("token could not generated, sorry. %w", err)
	}

	return user, pair, nil
}

// Logout clears the stored refresh token so any outstanding one is dead
func (s *AuthService) Logout(ctx context.Context, user models.User) error {
	err := s.userRepo.UpdateRefreshToken(ctx, user.ID, nil)
	if err != nil {
		return fmt.Errorf("error while clearing refresh token. Err: %w", err)
	}

	return nil
}

// RefreshPair validates the presented refresh token, requires it to equal
// the one stored on the user (single active token, detects reuse of a
// rotated-out value) and issues a new pair, overwriting the stored token
func (s *AuthService) RefreshPair(ctx context.Context, refresh string) (models.TokenPair, error) {
	var pair models.TokenPair

	if refresh == "" {
		return pair, apperrors.ErrRefreshTokenMissing
	}

	userID, err := s.token.ParseRefresh(refresh)
	if err != nil {
		return pair, err
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return pair, apperrors.ErrRefreshTokenInvalid
		}
		return pair, fmt.Errorf("error while loading user. Err: %w", err)
	}

	if user.RefreshToken == nil || *user.RefreshToken != refresh {
		return pair, apperrors.ErrRefreshTokenMismatch
	}

	pair, err = s.token.IssuePair(ctx, user.ID)
	if err != nil {
		return pair, fmt.Errorf("token could not generated, sorry. %w", err)
	}

	return pair, nil
}

// GetUserFromRequest authenticates the request by its access token,
// taken from the Authorization header or the access cookie
func (s *AuthService) GetUserFromRequest(ctx context.Context, r *http.Request) (models.User, error) {
	var user models.User

	access := ""
	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, defaultAccessAuthScheme+" ") {
		access = strings.TrimPrefix(header, defaultAccessAuthScheme+" ")
	} else if cookie, err := r.Cookie(s.accessCookieName); err == nil {
		access = cookie.Value
	}
	if access == "" {
		return user, apperrors.ErrInvalidCredentials
	}

	userID, err := s.token.ParseAccess(access)
	if err != nil {
		return user, apperrors.ErrInvalidCredentials
	}

	return s.userRepo.GetUserByID(ctx, userID)
}

// SetTokenPairToResponse sets both tokens as HttpOnly secure cookies
func (s *AuthService) SetTokenPairToResponse(w http.ResponseWriter, pair models.TokenPair) {
	http.SetCookie(w, s.tokenCookie(s.accessCookieName, pair.Access.Value, s.token.AccessTTL()))
	http.SetCookie(w, s.tokenCookie(s.refreshCookieName, pair.Refresh.Value, s.token.RefreshTTL()))
}

// ClearTokenPairFromResponse expires both auth cookies
func (s *AuthService) ClearTokenPairFromResponse(w http.ResponseWriter) {
	http.SetCookie(w, s.expiredCookie(s.accessCookieName))
	http.SetCookie(w, s.expiredCookie(s.refreshCookieName))
}

// SetTokenPairToRequest attaches the pair to an outgoing request
// Useful in tests and clients
func (s *AuthService) SetTokenPairToRequest(r *http.Request, pair models.TokenPair) {
	r.Header.Set("Authorization", defaultAccessAuthScheme+" "+pair.Access.Value)
	r.AddCookie(&http.Cookie{Name: s.accessCookieName, Value: pair.Access.Value})
	r.AddCookie(&http.Cookie{Name: s.refreshCookieName, Value: pair.Refresh.Value})
}

// GetRefreshString reads the refresh token from the request:
// cookie first, then the 'refreshToken' json body field
func (s *AuthService) GetRefreshString(r *http.Request) (string, error) {
	if cookie, err := r.Cookie(s.refreshCookieName); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	var body struct {
		RefreshToken string `json:"refreshToken"`
	}
	if r.Body != nil {
		// Decode error means there is just no usable body, treat as missing
		_ = json.NewDecoder(r.Body).Decode(&body)
	}
	if body.RefreshToken != "" {
		return body.RefreshToken, nil
	}

	return "", apperrors.ErrRefreshTokenMissing
}

func (s *AuthService) tokenCookie(name string, value string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	}
}

func (s *AuthService) expiredCookie(name string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	}
}
