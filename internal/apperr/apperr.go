package apperr

import (
	"errors"
	"net/http"
)

var (
	// ErrValidation marks bad user input.
	ErrValidation = errors.New("validation error")
	// ErrPersistence marks storage failures: connection, constraint or query errors.
	ErrPersistence = errors.New("persistence error")
	// ErrDataIntegrity marks broken reference data, like an empty note category.
	ErrDataIntegrity = errors.New("data integrity error")
	ErrNotFound      = errors.New("not found")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrConflict      = errors.New("conflict")
)

// HTTPStatus maps an error to the status code handlers should answer with.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrDataIntegrity):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Message returns a client-safe message: the error text for input and
// lookup failures, a generic one for everything else.
func Message(err error) string {
	switch HTTPStatus(err) {
	case http.StatusInternalServerError:
		return "internal server error"
	default:
		return err.Error()
	}
}
