package suggestion

import (
	"net/http"

	"github.com/saulo-duarte/scent-quiz/internal/apperr"
	"github.com/saulo-duarte/scent-quiz/internal/config"
)

type Handler struct {
	service SuggestionService
}

func NewHandler(s SuggestionService) *Handler {
	return &Handler{service: s}
}

func (h *Handler) ListSuggestions(w http.ResponseWriter, r *http.Request) {
	out, err := h.service.ListSuggestions(r.Context(), r.URL.Query().Get("mood"))
	if err != nil {
		http.Error(w, apperr.Message(err), apperr.HTTPStatus(err))
		return
	}
	config.JSON(w, http.StatusOK, out)
}
