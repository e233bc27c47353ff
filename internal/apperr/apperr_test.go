package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/saulo-duarte/scent-quiz/internal/apperr"
	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	errIncomplete := fmt.Errorf("%w: quiz incomplete", apperr.ErrValidation)

	cases := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"validation", errIncomplete, http.StatusBadRequest},
		{"wrapped twice", fmt.Errorf("submit: %w", errIncomplete), http.StatusBadRequest},
		{"not found", apperr.ErrNotFound, http.StatusNotFound},
		{"unauthorized", apperr.ErrUnauthorized, http.StatusUnauthorized},
		{"conflict", fmt.Errorf("%w: email taken", apperr.ErrConflict), http.StatusConflict},
		{"integrity", fmt.Errorf("%w: empty category", apperr.ErrDataIntegrity), http.StatusUnprocessableEntity},
		{"persistence", fmt.Errorf("%w: boom", apperr.ErrPersistence), http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, apperr.HTTPStatus(tc.err))
		})
	}
}

func TestMessageHidesInternalErrors(t *testing.T) {
	assert.Equal(t, "internal server error", apperr.Message(errors.New("dial tcp: refused")))
	assert.Equal(t, "validation error: bad age", apperr.Message(fmt.Errorf("%w: bad age", apperr.ErrValidation)))
}
