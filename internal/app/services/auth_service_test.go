package services

import (
	"context"
	"testing"
	"time"

	"github.com/elevate/clubhub/internal/app/models"
	"github.com/elevate/clubhub/internal/app/models/dto"
	"github.com/elevate/clubhub/internal/pkg/apperrors"
	pkgauth "github.com/elevate/clubhub/internal/pkg/auth"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(db *fakeDB) (*AuthService, *pkgauth.JWTService) {
	jwtService := pkgauth.NewJWTService(pkgauth.JWTConfig{
		SecretKey:      "test-secret-key-with-enough-length",
		AccessTokenExp: 10 * time.Hour,
		TokenIssuer:    "clubhub-test",
	})
	return NewAuthService(db.stores().Users, jwtService, zerolog.Nop()), jwtService
}

func TestSignupAndLogin(t *testing.T) {
	db := newFakeDB()
	svc, jwtService := newAuthService(db)
	ctx := context.Background()

	user, err := svc.Signup(ctx, &dto.SignupRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@school.edu",
		Password:  "analytical",
		Phone:     strPtr("5551234567"),
		City:      strPtr("  "),
		Birthday:  strPtr("2001-12-10"),
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, string(models.RoleStudent), user.Role)
	assert.Nil(t, user.City)
	require.NotNil(t, user.Birthday)
	assert.Equal(t, "2001-12-10", *user.Birthday)

	stored := db.user(user.ID)
	assert.NotEqual(t, "analytical", stored.Password)

	resp, err := svc.Login(ctx, &dto.LoginRequest{Email: "ada@school.edu", Password: "analytical"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", resp.Token.TokenType)
	assert.Equal(t, int64(36000), resp.Token.ExpiresIn)

	claims, err := jwtService.ValidateAndExtractClaims(resp.Token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, models.RoleStudent, claims.Role)
}

func TestSignupNeverGrantsElevatedRole(t *testing.T) {
	db := newFakeDB()
	svc, _ := newAuthService(db)

	for _, role := range []string{"SUPER_ADMIN", "CLUB_ADMIN"} {
		user, err := svc.Signup(context.Background(), &dto.SignupRequest{
			FirstName: "Eve", LastName: "X", Email: role + "@school.edu", Password: "secret1", Role: strPtr(role),
		}, nil)
		require.NoError(t, err)
		assert.Equal(t, string(models.RoleStudent), user.Role)
	}
}

func TestSignupValidation(t *testing.T) {
	db := newFakeDB()
	svc, _ := newAuthService(db)
	ctx := context.Background()
	db.addUser(models.User{Email: "taken@school.edu"})

	_, err := svc.Signup(ctx, &dto.SignupRequest{FirstName: "A", LastName: "B", Email: "TAKEN@school.edu", Password: "secret1"}, nil)
	assert.ErrorIs(t, err, apperrors.ErrUserAlreadyExists)

	_, err = svc.Signup(ctx, &dto.SignupRequest{FirstName: "A", LastName: "B", Email: "not-an-email", Password: "secret1"}, nil)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = svc.Signup(ctx, &dto.SignupRequest{FirstName: "A", LastName: "B", Email: "a@school.edu", Password: "secret1", Birthday: strPtr("10/12/2001")}, nil)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = svc.Signup(ctx, &dto.SignupRequest{FirstName: "A", LastName: "B", Email: "a@school.edu", Password: "secret1", Phone: strPtr("12")}, nil)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestLoginFailures(t *testing.T) {
	db := newFakeDB()
	svc, _ := newAuthService(db)
	ctx := context.Background()
	hash, err := pkgauth.HashPassword("right-password")
	require.NoError(t, err)
	db.addUser(models.User{Email: "sam@school.edu", Password: hash})

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "bad email", Password: "x"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "nobody@school.edu", Password: "x"})
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "sam@school.edu", Password: "wrong-password"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}
