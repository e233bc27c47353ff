package analytics

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/saulo-duarte/scent-quiz/internal/apperr"
	"github.com/saulo-duarte/scent-quiz/internal/auth"
	"github.com/saulo-duarte/scent-quiz/internal/config"
)

type Handler struct {
	service AnalyticsService
}

func NewHandler(s AnalyticsService) *Handler {
	return &Handler{service: s}
}

func (h *Handler) ListAnalytics(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.GetUserClaimsFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var owner *uuid.UUID
	if claims.Role != auth.RoleAdmin {
		id, err := uuid.Parse(claims.UserID)
		if err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		owner = &id
	}

	views, err := h.service.ListAnalytics(r.Context(), owner)
	if err != nil {
		http.Error(w, apperr.Message(err), apperr.HTTPStatus(err))
		return
	}
	config.JSON(w, http.StatusOK, views)
}
