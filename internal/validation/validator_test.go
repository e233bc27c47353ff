package validation_test

import (
	"errors"
	"testing"

	"github.com/saulo-duarte/scent-quiz/internal/apperr"
	"github.com/saulo-duarte/scent-quiz/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	Name  string `validate:"required"`
	Email string `validate:"required,simple_email"`
	Age   int    `validate:"min=13,max=100"`
}

func TestStruct(t *testing.T) {
	v := validation.New()

	require.NoError(t, v.Struct(entry{Name: "Alice", Email: "alice.tan@example.com", Age: 28}))

	err := v.Struct(entry{Email: "not-an-email", Age: 12})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrValidation))
	assert.Contains(t, err.Error(), "Name is required")
	assert.Contains(t, err.Error(), "Email must be a valid email address")
	assert.Contains(t, err.Error(), "Age must be at least 13")
}

func TestSimpleEmail(t *testing.T) {
	v := validation.New()

	for _, email := range []string{"bob@example.com", "a.b-c@mail.example.org"} {
		assert.NoError(t, v.Struct(entry{Name: "x", Email: email, Age: 20}), email)
	}
	for _, email := range []string{"bob", "bob@", "@example.com", "bob@example", "bob smith@example.com"} {
		assert.Error(t, v.Struct(entry{Name: "x", Email: email, Age: 20}), email)
	}
}
