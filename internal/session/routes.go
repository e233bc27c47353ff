package session

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Post("/", h.StartSession)
	r.Get("/", h.ListSessions)
	r.Get("/{id}", h.GetSession)
	r.Put("/{id}/answers/{index}", h.RecordAnswer)
	r.Post("/{id}/advance", h.Advance)
	r.Post("/{id}/retreat", h.Retreat)
	r.Post("/{id}/submit", h.Submit)
	r.Get("/{id}/responses", h.ListResponses)
	r.Get("/{id}/formula", h.GetFormula)
	return r
}
