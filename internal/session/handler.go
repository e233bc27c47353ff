package session

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/saulo-duarte/scent-quiz/internal/apperr"
	"github.com/saulo-duarte/scent-quiz/internal/auth"
	"github.com/saulo-duarte/scent-quiz/internal/config"
	"github.com/saulo-duarte/scent-quiz/internal/formula"
)

type Handler struct {
	service  SessionService
	formulas formula.FormulaService
}

func NewHandler(s SessionService, formulas formula.FormulaService) *Handler {
	return &Handler{service: s, formulas: formulas}
}

func writeError(w http.ResponseWriter, err error) {
	var incomplete *IncompleteError
	if errors.As(err, &incomplete) {
		config.JSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":   err.Error(),
			"missing": incomplete.Missing,
		})
		return
	}
	http.Error(w, apperr.Message(err), apperr.HTTPStatus(err))
}

func sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid session id", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

// decodeSelection accepts an empty body as "no selection given".
func decodeSelection(r *http.Request) (*SelectionDTO, error) {
	var dto SelectionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return &dto, nil
}

func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Start(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	config.JSON(w, http.StatusCreated, view)
}

func (h *Handler) ListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	config.JSON(w, http.StatusOK, sessions)
}

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	view, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	config.JSON(w, http.StatusOK, view)
}

func (h *Handler) RecordAnswer(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		http.Error(w, "invalid question index", http.StatusBadRequest)
		return
	}

	dto, err := decodeSelection(r)
	if err != nil {
		log.WithError(err).Warn("Invalid request body for answer")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	var options []uuid.UUID
	if dto.Options != nil {
		options = *dto.Options
	}

	view, err := h.service.RecordAnswer(r.Context(), id, index, options)
	if err != nil {
		writeError(w, err)
		return
	}
	config.JSON(w, http.StatusOK, view)
}

func (h *Handler) move(dir Direction) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := config.WithContext(r.Context())
		id, ok := sessionID(w, r)
		if !ok {
			return
		}

		dto, err := decodeSelection(r)
		if err != nil {
			log.WithError(err).Warn("Invalid request body for navigation")
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		view, err := h.service.Move(r.Context(), id, dir, dto.Options)
		if err != nil {
			writeError(w, err)
			return
		}
		config.JSON(w, http.StatusOK, view)
	}
}

func (h *Handler) Advance(w http.ResponseWriter, r *http.Request) {
	h.move(Forward)(w, r)
}

func (h *Handler) Retreat(w http.ResponseWriter, r *http.Request) {
	h.move(Backward)(w, r)
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	result, err := h.service.Submit(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	config.JSON(w, http.StatusOK, result)
}

func (h *Handler) ListResponses(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	details, err := h.service.Responses(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	config.JSON(w, http.StatusOK, details)
}

func (h *Handler) GetFormula(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	claims, err := auth.GetUserClaimsFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	var owner *uuid.UUID
	if claims.Role != auth.RoleAdmin {
		uid, err := uuid.Parse(claims.UserID)
		if err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		owner = &uid
	}

	view, err := h.formulas.GetForSession(r.Context(), id, owner)
	if err != nil {
		writeError(w, err)
		return
	}
	config.JSON(w, http.StatusOK, view)
}
