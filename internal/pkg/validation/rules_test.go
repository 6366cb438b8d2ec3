package validation

import (
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("ada.lovelace+clubs@uni.edu"))
	assert.True(t, IsValidEmail("x@localhost"))
	assert.False(t, IsValidEmail("no-at-sign"))
	assert.False(t, IsValidEmail("a b@uni.edu"))
}

func TestIsValidPhone(t *testing.T) {
	assert.True(t, IsValidPhone("5551234567"))
	assert.False(t, IsValidPhone("555-123-4567"))
	assert.False(t, IsValidPhone("123"))
}

func TestRegisterTags(t *testing.T) {
	v := validator.New()
	require.NoError(t, Register(v))

	type form struct {
		Email string  `validate:"required,clubemail"`
		Phone *string `validate:"omitempty,phone"`
	}

	assert.NoError(t, v.Struct(form{Email: "a@b.c"}))

	bad := "12"
	err := v.Struct(form{Email: "a@b.c", Phone: &bad})
	require.Error(t, err)
	assert.Equal(t, "phone", err.(validator.ValidationErrors)[0].Tag())

	assert.Error(t, v.Struct(form{Email: "nope"}))
}

func TestValidatePatchValue(t *testing.T) {
	assert.NoError(t, ValidatePatchValue(UserPatchRules, "firstName", strings.Repeat("x", 50)))
	assert.NoError(t, ValidatePatchValue(UserPatchRules, "birthday", "2001-12-10"))
	assert.NoError(t, ValidatePatchValue(UserPatchRules, "nickname", strings.Repeat("x", 500)))

	err := ValidatePatchValue(UserPatchRules, "firstName", strings.Repeat("x", 51))
	require.Error(t, err)
	assert.Equal(t, "firstName: must be at most 50 characters", err.Error())

	assert.EqualError(t, ValidatePatchValue(UserPatchRules, "zipcode", strings.Repeat("9", 11)),
		"zipcode: must be at most 10 characters")
	assert.EqualError(t, ValidatePatchValue(UserPatchRules, "phone", "555-1234"), "phone: must be 10 digits")
	assert.EqualError(t, ValidatePatchValue(UserPatchRules, "birthday", "yesterday"),
		"birthday: must be in YYYY-MM-DD format")

	assert.NoError(t, ValidatePatchValue(ClubPatchRules, "description", strings.Repeat("d", 500)))
	assert.EqualError(t, ValidatePatchValue(ClubPatchRules, "clubName", strings.Repeat("c", 101)),
		"clubName: must be at most 100 characters")
}
