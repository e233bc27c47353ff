package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func TestMustRegister(t *testing.T) {
	v := validator.New()

	assert.NotPanics(t, func() { mustRegister(v, "simple_email", validateSimpleEmail) })
	assert.Panics(t, func() { mustRegister(v, "", validateSimpleEmail) })
	assert.Panics(t, func() { mustRegister(v, "nil_func", nil) })
}
