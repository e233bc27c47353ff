package user

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/saulo-duarte/scent-quiz/internal/auth"
)

// Routes expects the caller to mount it behind auth.AuthMiddleware.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/me", h.GetUser)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireRole(auth.RoleAdmin))
		r.Get("/", h.ListUsers)
		r.Delete("/{id}", h.DeleteUser)
	})
	return r
}
