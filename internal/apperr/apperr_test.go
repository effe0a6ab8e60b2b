package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMatchesKindAndItself(t *testing.T) {
	errDup := New(ErrConflict, "already following")
	wrapped := fmt.Errorf("follow: %w", errDup)

	assert.True(t, errors.Is(wrapped, errDup))
	assert.True(t, errors.Is(wrapped, ErrConflict))
	assert.False(t, errors.Is(wrapped, ErrNotFound))
	assert.Equal(t, "already following", errDup.Error())
}

func TestKind(t *testing.T) {
	assert.Equal(t, ErrForbidden, Kind(Forbidden("no")))
	assert.Equal(t, ErrNotFound, Kind(fmt.Errorf("x: %w", NotFound("gone"))))
	assert.Equal(t, ErrInvalidInput, Kind(Invalid("bad")))
	assert.Nil(t, Kind(errors.New("disk on fire")))
}
