package catalog

import (
	"net/http"

	"github.com/saulo-duarte/scent-quiz/internal/apperr"
	"github.com/saulo-duarte/scent-quiz/internal/config"
)

type Handler struct {
	service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := h.service.ListNotes(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		http.Error(w, apperr.Message(err), apperr.HTTPStatus(err))
		return
	}
	config.JSON(w, http.StatusOK, notes)
}
