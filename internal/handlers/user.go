package handlers

import (
	"net/http"

	"github.com/ramavtar-nagar/videotube/internal/handlers/render"
	"github.com/ramavtar-nagar/videotube/internal/handlers/userctx"
)

func handleCurrentUser() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		current, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		render.JSON(w, current.Public(), "Current user fetched successfully")
	})
}
