package auth

import (
	"net/http"

	"github.com/saulo-duarte/scent-quiz/internal/config"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	SetTokenCookie(w, "", -1)

	config.JSON(w, http.StatusOK, map[string]string{
		"message": "logout successful",
	})
}
