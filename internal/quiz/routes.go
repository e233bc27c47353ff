package quiz

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/saulo-duarte/scent-quiz/internal/auth"
)

func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/", h.ListQuestions)
	r.Get("/{id}", h.GetQuestion)
	r.Get("/{id}/options", h.ListOptions)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireRole(auth.RoleAdmin))
		r.Post("/", h.CreateQuestion)
		r.Delete("/{id}", h.RemoveQuestion)
	})
	return r
}
