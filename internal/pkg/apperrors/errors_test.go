package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCustomErrorUnwrapsToSentinel(t *testing.T) {
	err := NewRecordNotFoundError("Club Request with Id: 7 not found!")

	assert.True(t, errors.Is(err, ErrRecordNotFound))
	assert.Equal(t, "Club Request with Id: 7 not found!", err.Error())

	wrapped := fmt.Errorf("withdraw: %w", err)
	assert.True(t, errors.Is(wrapped, ErrRecordNotFound))
	assert.Equal(t, "Club Request with Id: 7 not found!", MessageOf(wrapped))
}

func TestMessageOfPlainError(t *testing.T) {
	err := fmt.Errorf("%w: clubId is required", ErrValidationFailed)
	assert.Equal(t, "validation failed: clubId is required", MessageOf(err))
}

func TestIsMatchesAnyOfList(t *testing.T) {
	err := NewInvalidRequestError("Invalid field: foo")

	assert.True(t, Is(err, ErrUserNotFound, ErrClubNotFound, ErrInvalidRequest))
	assert.False(t, Is(err, ErrUserNotFound, ErrClubNotFound))
}

func TestCustomErrorFallbacks(t *testing.T) {
	assert.Equal(t, "club not found", (&CustomError{Err: ErrClubNotFound}).Error())
	assert.Equal(t, "unknown error", (&CustomError{}).Error())

	ce := NewCustomError(ErrClubCapacityExceeded, "full").WithCode("CLUB_002").WithDetails(map[string]interface{}{"clubId": 3})
	assert.Equal(t, "CLUB_002", ce.Code)
	assert.Equal(t, 3, ce.Details["clubId"])
}
