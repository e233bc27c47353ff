package user

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/saulo-duarte/scent-quiz/internal/apperr"
	"github.com/saulo-duarte/scent-quiz/internal/auth"
	"github.com/saulo-duarte/scent-quiz/internal/config"
)

type Handler struct {
	service  UserService
	tokenTTL int
}

func NewHandler(s UserService, tokenTTLSeconds int) *Handler {
	return &Handler{service: s, tokenTTL: tokenTTLSeconds}
}

func (h *Handler) Enter(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	var dto EntryDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		log.WithError(err).Warn("Invalid request body for user entry")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.service.Enter(r.Context(), dto)
	if err != nil {
		http.Error(w, apperr.Message(err), apperr.HTTPStatus(err))
		return
	}

	auth.SetTokenCookie(w, resp.Token, h.tokenTTL)

	status := http.StatusOK
	if resp.Created {
		status = http.StatusCreated
	}
	config.JSON(w, status, resp)
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	u, err := h.service.GetUser(r.Context(), id)
	if err != nil {
		http.Error(w, apperr.Message(err), apperr.HTTPStatus(err))
		return
	}
	config.JSON(w, http.StatusOK, u)
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		http.Error(w, apperr.Message(err), apperr.HTTPStatus(err))
		return
	}
	config.JSON(w, http.StatusOK, users)
}

// DeleteUser removes the user; ?keep_user=true only clears their quiz data.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	actorID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	targetID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	keepUser := false
	if v := r.URL.Query().Get("keep_user"); v != "" {
		if keepUser, err = strconv.ParseBool(v); err != nil {
			http.Error(w, "invalid keep_user value", http.StatusBadRequest)
			return
		}
	}

	report, err := h.service.DeleteUser(r.Context(), actorID, targetID, keepUser)
	if err != nil {
		http.Error(w, apperr.Message(err), apperr.HTTPStatus(err))
		return
	}
	config.JSON(w, http.StatusOK, report)
}
