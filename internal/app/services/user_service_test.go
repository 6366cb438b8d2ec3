package services

import (
	"context"
	"strings"
	"testing"

	"github.com/elevate/clubhub/internal/app/models"
	"github.com/elevate/clubhub/internal/app/models/dto"
	"github.com/elevate/clubhub/internal/pkg/apperrors"
	pkgauth "github.com/elevate/clubhub/internal/pkg/auth"
	"github.com/elevate/clubhub/internal/pkg/helpers"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newUserService(db *fakeDB) (UserService, *mockCache) {
	c := &mockCache{}
	c.On("Delete", mock.Anything, mock.Anything).Return(nil).Maybe()
	return NewUserService(db.stores(), &fakeTransactor{db: db}, c, zerolog.Nop()), c
}

func TestUserLookups(t *testing.T) {
	db := newFakeDB()
	svc, _ := newUserService(db)
	ctx := context.Background()
	ada := db.addUser(models.User{FirstName: "Ada", LastName: "Lovelace", Email: "ada@school.edu", Password: "hash"})
	db.addUser(models.User{FirstName: "Alan", LastName: "Turing", Email: "alan@school.edu"})
	db.addUser(models.User{FirstName: "Grace", LastName: "Hopper", Email: "grace@school.edu"})

	all, err := svc.GetAllUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	byEmail, err := svc.GetUserByEmail(ctx, "ADA@school.edu")
	require.NoError(t, err)
	assert.Equal(t, ada.ID, byEmail.ID)

	_, err = svc.GetUserByEmail(ctx, "ghost@school.edu")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	found, err := svc.SearchUsers(ctx, "a")
	require.NoError(t, err)
	assert.Len(t, found, 2)

	found, err = svc.SearchUsers(ctx, "hop")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Grace", found[0].FirstName)

	_, err = svc.SearchUsers(ctx, "  ")
	assert.ErrorIs(t, err, apperrors.ErrInvalidRequest)
}

func TestGetProfileOnlyForSelf(t *testing.T) {
	db := newFakeDB()
	svc, _ := newUserService(db)
	ctx := context.Background()
	me := db.addUser(models.User{Email: "me@school.edu"})
	other := db.addUser(models.User{Email: "other@school.edu"})

	_, err := svc.GetProfile(ctx, actorOf(me), me.ID)
	assert.NoError(t, err)
	_, err = svc.GetProfile(ctx, actorOf(me), other.ID)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorizedAction)
	_, err = svc.GetProfile(ctx, superAdmin, other.ID)
	assert.NoError(t, err)
}

func TestUpdateProfileKeepsCredentials(t *testing.T) {
	db := newFakeDB()
	svc, _ := newUserService(db)
	me := db.addUser(models.User{FirstName: "Old", Email: "me@school.edu", Password: "hash", ProfilePhoto: []byte("photo")})

	resp, err := svc.UpdateProfile(context.Background(), actorOf(me), me.ID, &dto.UpdateProfileRequest{
		FirstName: "New", LastName: "Name", City: strPtr("Austin"),
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "New", resp.FirstName)
	assert.NotNil(t, resp.ProfilePhoto)

	stored := db.user(me.ID)
	assert.Equal(t, "hash", stored.Password)
	assert.Equal(t, "me@school.edu", stored.Email)
	assert.Equal(t, "Austin", *stored.City)
}

func TestAdminUpdateUser(t *testing.T) {
	db := newFakeDB()
	svc, _ := newUserService(db)
	ctx := context.Background()
	u := db.addUser(models.User{Email: "u@school.edu", Password: "old"})
	db.addUser(models.User{Email: "taken@school.edu"})

	resp, err := svc.AdminUpdateUser(ctx, u.ID, &dto.AdminUpdateUserRequest{
		UpdateProfileRequest: dto.UpdateProfileRequest{FirstName: "U", LastName: "V"},
		Email:                "renamed@school.edu",
		Password:             strPtr("brand-new"),
		Role:                 "club_admin",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "renamed@school.edu", resp.Email)
	assert.Equal(t, string(models.RoleClubAdmin), resp.Role)
	assert.True(t, pkgauth.CheckPassword(db.user(u.ID).Password, "brand-new"))

	_, err = svc.AdminUpdateUser(ctx, u.ID, &dto.AdminUpdateUserRequest{
		UpdateProfileRequest: dto.UpdateProfileRequest{FirstName: "U", LastName: "V"},
		Email:                "taken@school.edu",
		Role:                 "STUDENT",
	}, nil)
	assert.ErrorIs(t, err, apperrors.ErrUserAlreadyExists)
}

func TestPatchProfile(t *testing.T) {
	db := newFakeDB()
	svc, _ := newUserService(db)
	ctx := context.Background()
	me := db.addUser(models.User{FirstName: "Sam", LastName: "Lee", Email: "me@school.edu"})

	resp, err := svc.PatchProfile(ctx, actorOf(me), me.ID, helpers.PatchValues{
		"bio": "Chess fan", "lastName": "", "birthday": "2002-02-02", "phone": "5550001111",
	}, []byte("pic"))
	require.NoError(t, err)
	assert.Equal(t, "Lee", resp.LastName)
	assert.Equal(t, "Chess fan", *resp.Bio)
	assert.Equal(t, "2002-02-02", *resp.Birthday)
	assert.NotNil(t, resp.ProfilePhoto)

	_, err = svc.PatchProfile(ctx, actorOf(me), me.ID, helpers.PatchValues{"email": "x@school.edu"}, nil)
	require.ErrorIs(t, err, apperrors.ErrInvalidRequest)
	assert.Equal(t, "Invalid field: email", apperrors.MessageOf(err))

	_, err = svc.PatchProfile(ctx, actorOf(me), me.ID, helpers.PatchValues{"birthday": "yesterday"}, nil)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestPatchProfileEnforcesFieldLengths(t *testing.T) {
	db := newFakeDB()
	svc, _ := newUserService(db)
	ctx := context.Background()
	me := db.addUser(models.User{FirstName: "Sam", LastName: "Lee", Email: "me@school.edu"})

	_, err := svc.PatchProfile(ctx, actorOf(me), me.ID, helpers.PatchValues{
		"firstName": strings.Repeat("x", 200),
	}, nil)
	require.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Equal(t, "firstName: must be at most 50 characters", apperrors.MessageOf(err))

	_, err = svc.PatchProfile(ctx, actorOf(me), me.ID, helpers.PatchValues{
		"city": "Ankara", "zipcode": strings.Repeat("9", 40),
	}, nil)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	stored := db.user(me.ID)
	assert.Equal(t, "Sam", stored.FirstName)
	assert.Nil(t, stored.City)
	assert.Nil(t, stored.Zipcode)

	resp, err := svc.PatchProfile(ctx, actorOf(me), me.ID, helpers.PatchValues{
		"firstName": strings.Repeat("x", 50), "zipcode": "0123456789",
	}, nil)
	require.NoError(t, err)
	assert.Len(t, resp.FirstName, 50)
}

func TestUpdateProfilePhoto(t *testing.T) {
	db := newFakeDB()
	svc, _ := newUserService(db)
	ctx := context.Background()
	me := db.addUser(models.User{Email: "me@school.edu"})

	_, err := svc.UpdateProfilePhoto(ctx, actorOf(me), me.ID, nil)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	resp, err := svc.UpdateProfilePhoto(ctx, actorOf(me), me.ID, []byte("\x89PNG\r\n\x1a\n"))
	require.NoError(t, err)
	require.NotNil(t, resp.ProfilePhoto)
	assert.Contains(t, *resp.ProfilePhoto, "data:image/png;base64,")
}

func TestDeleteUserFreesSeats(t *testing.T) {
	db := newFakeDB()
	svc, c := newUserService(db)
	ctx := context.Background()
	u := db.addUser(models.User{Email: "u@school.edu"})
	chess := db.addClub(models.Club{ClubName: "Chess", TotalSlots: 3})
	goClub := db.addClub(models.Club{ClubName: "Go", TotalSlots: 3})
	db.addMember(u.ID, chess.ID)
	db.addMember(u.ID, goClub.ID)

	require.NoError(t, svc.DeleteUser(ctx, u.ID))

	for _, id := range []int64{chess.ID, goClub.ID} {
		club := db.club(id)
		assert.Zero(t, club.NoOfMembers)
		assert.Equal(t, club.TotalSlots, club.AvailableSlots)
	}
	c.AssertCalled(t, "Delete", mock.Anything, mock.Anything)

	assert.ErrorIs(t, svc.DeleteUser(ctx, u.ID), apperrors.ErrUserNotFound)
}
