package handlers

import (
	"net/http"

	"github.com/ramavtar-nagar/videotube/internal/handlers/middleware"
	"github.com/ramavtar-nagar/videotube/internal/logger"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

func NewRouter(
	authService AuthService,
	userService UserService,
	requestAuth middleware.RequestAuthenticator,
	logger logger.Logger,
) http.Handler {
	authMiddleware := middleware.AuthMiddleware(requestAuth)
	withAuth := func(h http.Handler) http.Handler {
		return authMiddleware(h)
	}

	h := NewAuth(authService, userService)

	apiusers := http.NewServeMux()
	apiusers.HandleFunc("POST /register", h.register)
	apiusers.HandleFunc("POST /login", h.login)
	apiusers.HandleFunc("POST /refresh-token", h.refresh)
	apiusers.Handle("POST /logout", withAuth(http.HandlerFunc(h.logout)))
	apiusers.Handle("GET /me", withAuth(handleCurrentUser()))

	root := http.NewServeMux()
	root.Handle("/api/v1/users/", http.StripPrefix("/api/v1/users", apiusers))

	return chain(root,
		middleware.LoggerMiddleware(logger),
	)
}
