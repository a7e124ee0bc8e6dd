package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Email  string `validate:"required,email"`
	Guests int    `validate:"gte=1"`
}

func TestValidate(t *testing.T) {
	assert.Nil(t, Validate(sample{Email: "a@b.vn", Guests: 2}))

	fields := Validate(sample{Email: "nope", Guests: 0})
	assert.Equal(t, "email", fields["Email"])
	assert.Equal(t, "gte", fields["Guests"])
}

func TestFields_NonValidationError(t *testing.T) {
	assert.Nil(t, Fields(errors.New("EOF")))
}
