package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/ramavtar-nagar/videotube/internal/apperrors"
	"github.com/ramavtar-nagar/videotube/internal/handlers/render"
	"github.com/ramavtar-nagar/videotube/internal/handlers/userctx"
	"github.com/ramavtar-nagar/videotube/internal/models"
	"github.com/ramavtar-nagar/videotube/internal/service/user"
)

// Limit buffered in memory while parsing the multipart register form
const maxMultipartMemory = 32 << 20

// Auth service the handlers depend on
type AuthService interface {
	// Login user by email or username (at least one of them) and password
	// Has to return apperrors.ErrUserNotFound if user not found and
	// apperrors.ErrInvalidCredentials on password mismatch
	Login(ctx context.Context, email string, username string, password string) (models.User, models.TokenPair, error)

	// Logout clears the stored refresh token of the user
	Logout(ctx context.Context, user models.User) error

	// RefreshPair rotates tokens using a refresh token
	// Invalid, mismatched or missing tokens surface as apperrors sentinels
	RefreshPair(ctx context.Context, refresh string) (models.TokenPair, error)

	// Read refresh token from request (cookie or body)
	GetRefreshString(r *http.Request) (string, error)

	// Set or clear auth cookies on the response
	SetTokenPairToResponse(w http.ResponseWriter, pair models.TokenPair)
	ClearTokenPairFromResponse(w http.ResponseWriter)
}

// Registration service
type UserService interface {
	Register(ctx context.Context, in user.RegisterInput) (models.User, error)
}

type AuthHandler struct {
	authService AuthService
	userService UserService
}

func NewAuth(auth AuthService, users UserService) *AuthHandler {
	return &AuthHandler{authService: auth, userService: users}
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	type RegisterRequest struct {
		FullName string `json:"fullName" validate:"required"`
		Email    string `json:"email" validate:"required"`
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		render.DecodeError(w, err)
		return
	}

	// Whitespace only values count as missing
	data := RegisterRequest{
		FullName: strings.TrimSpace(r.FormValue("fullName")),
		Email:    strings.TrimSpace(r.FormValue("email")),
		Username: strings.TrimSpace(r.FormValue("username")),
		Password: strings.TrimSpace(r.FormValue("password")),
	}
	if err := render.Validate(w, data); err != nil {
		return
	}

	// A missing avatar is reported by the service after the uniqueness
	// check, so a taken name still answers with a conflict
	avatar, closeAvatar, err := formFile(r, "avatar")
	switch {
	case err == nil:
		defer closeAvatar()
	case errors.Is(err, http.ErrMissingFile):
	default:
		render.DecodeError(w, err)
		return
	}

	coverImage, closeCover, err := formFile(r, "coverImage")
	switch {
	case err == nil:
		defer closeCover()
	case errors.Is(err, http.ErrMissingFile):
		// cover image is optional
	default:
		render.DecodeError(w, err)
		return
	}

	created, err := h.userService.Register(r.Context(), user.RegisterInput{
		FullName:   data.FullName,
		Email:      data.Email,
		Username:   data.Username,
		Password:   data.Password,
		Avatar:     avatar,
		CoverImage: coverImage,
	})
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrUserAlreadyExists):
			render.ServiceError(w, "User with email or username already exists", http.StatusConflict)
		case errors.Is(err, apperrors.ErrAvatarRequired):
			render.ServiceError(w, "Avatar file is required", http.StatusBadRequest)
		case errors.Is(err, apperrors.ErrAvatarUploadFailed):
			render.ServiceError(w, "Avatar upload failed", http.StatusBadRequest)
		default:
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	render.JSONWithStatus(w, created.Public(), "User registered successfully", http.StatusCreated)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	type LoginRequest struct {
		Email    string `json:"email"`
		Username string `json:"username"`
		Password string `json:"password" validate:"required"`
	}
	type LoginSuccessResponse struct {
		User         models.PublicUser `json:"user"`
		AccessToken  string            `json:"accessToken"`
		RefreshToken string            `json:"refreshToken"`
	}

	data, err := render.BindAndValidate[LoginRequest](w, r)
	if err != nil {
		// Consider to log errors here
		return
	}

	// Either identifier is enough, reject only when both are absent
	if data.Email == "" && data.Username == "" {
		render.ServiceError(w, "Username or email is required", http.StatusBadRequest)
		return
	}

	loggedIn, pair, err := h.authService.Login(r.Context(), data.Email, data.Username, data.Password)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrUserNotFound):
			render.ServiceError(w, "User does not exist", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrInvalidCredentials):
			render.ServiceError(w, "Invalid user credentials", http.StatusUnauthorized)
		default:
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	h.authService.SetTokenPairToResponse(w, pair)
	render.JSON(w, LoginSuccessResponse{
		User:         loggedIn.Public(),
		AccessToken:  pair.Access.Value,
		RefreshToken: pair.Refresh.Value,
	}, "User logged in successfully")
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	// Auth middleware guarantees the user is present
	current, ok := userctx.FromContext(r.Context())
	if !ok {
		render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.authService.Logout(r.Context(), current); err != nil {
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.authService.ClearTokenPairFromResponse(w)
	render.JSON(w, struct{}{}, "User logged out successfully")
}

func (h *AuthHandler) refresh(w http.ResponseWriter, r *http.Request) {
	type RefreshSuccessResponse struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}

	refresh, err := h.authService.GetRefreshString(r)
	if err != nil {
		render.ServiceError(w, "Refresh token is required", http.StatusUnauthorized)
		return
	}

	pair, err := h.authService.RefreshPair(r.Context(), refresh)
	if err != nil {
		// Consider to log errors here
		switch {
		case errors.Is(err, apperrors.ErrRefreshTokenMismatch):
			render.ServiceError(w, "Refresh token is expired or used", http.StatusUnauthorized)
		default:
			render.ServiceError(w, "Invalid refresh token", http.StatusUnauthorized)
		}
		return
	}

	h.authService.SetTokenPairToResponse(w, pair)
	render.JSON(w, RefreshSuccessResponse{
		AccessToken:  pair.Access.Value,
		RefreshToken: pair.Refresh.Value,
	}, "Access token refreshed")
}

// formFile picks the first uploaded file for the field
func formFile(r *http.Request, field string) (*user.FileUpload, func(), error) {
	if r.MultipartForm == nil {
		return nil, nil, http.ErrMissingFile
	}

	headers := r.MultipartForm.File[field]
	if len(headers) == 0 {
		return nil, nil, http.ErrMissingFile
	}

	header := headers[0]
	f, err := header.Open()
	if err != nil {
		return nil, nil, err
	}

	return &user.FileUpload{
		Name:        header.Filename,
		Size:        header.Size,
		ContentType: header.Header.Get("Content-Type"),
		Content:     f,
	}, func() { _ = f.Close() }, nil
}
