package middleware

import (
	"context"
	"net/http"

	"github.com/ramavtar-nagar/videotube/internal/handlers/render"
	"github.com/ramavtar-nagar/videotube/internal/handlers/userctx"
	"github.com/ramavtar-nagar/videotube/internal/models"
)

// RequestAuthenticator resolves the request's access token into a user
type RequestAuthenticator interface {
	GetUserFromRequest(ctx context.Context, r *http.Request) (models.User, error)
}

func AuthMiddleware(as RequestAuthenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := as.GetUserFromRequest(r.Context(), r)
			if err != nil {
				render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			ctx := userctx.New(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
