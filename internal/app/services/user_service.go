package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/elevate/clubhub/internal/app/auth"
	"github.com/elevate/clubhub/internal/app/models"
	"github.com/elevate/clubhub/internal/app/models/dto"
	"github.com/elevate/clubhub/internal/pkg/apperrors"
	pkgauth "github.com/elevate/clubhub/internal/pkg/auth"
	"github.com/elevate/clubhub/internal/pkg/cache"
	"github.com/elevate/clubhub/internal/pkg/helpers"
	"github.com/elevate/clubhub/internal/pkg/validation"
	"github.com/rs/zerolog"
)

// DefaultSearchLimit caps user search results
const DefaultSearchLimit = 20

// UserService defines the interface for user operations
type UserService interface {
	GetAllUsers(ctx context.Context) ([]*dto.UserResponse, error)
	GetUserByID(ctx context.Context, id int64) (*dto.UserResponse, error)
	GetUserByEmail(ctx context.Context, email string) (*dto.UserResponse, error)
	SearchUsers(ctx context.Context, query string) ([]*dto.UserResponse, error)
	GetProfile(ctx context.Context, actor auth.Actor, id int64) (*dto.UserResponse, error)
	UpdateProfile(ctx context.Context, actor auth.Actor, id int64, req *dto.UpdateProfileRequest, photo []byte) (*dto.UserResponse, error)
	AdminUpdateUser(ctx context.Context, id int64, req *dto.AdminUpdateUserRequest, photo []byte) (*dto.UserResponse, error)
	PatchProfile(ctx context.Context, actor auth.Actor, id int64, values helpers.PatchValues, photo []byte) (*dto.UserResponse, error)
	UpdateProfilePhoto(ctx context.Context, actor auth.Actor, id int64, photo []byte) (*dto.UserResponse, error)
	DeleteUser(ctx context.Context, id int64) error
}

// userServiceImpl implements UserService
type userServiceImpl struct {
	stores Stores
	tx     Transactor
	cache  cache.Cache
	logger zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(stores Stores, tx Transactor, cache cache.Cache, logger zerolog.Logger) UserService {
	return &userServiceImpl{
		stores: stores,
		tx:     tx,
		cache:  cache,
		logger: logger,
	}
}

func (s *userServiceImpl) GetAllUsers(ctx context.Context) ([]*dto.UserResponse, error) {
	users, err := s.stores.Users.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return dto.FromUsers(users), nil
}

func (s *userServiceImpl) GetUserByID(ctx context.Context, id int64) (*dto.UserResponse, error) {
	user, err := s.stores.Users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.FromUser(user), nil
}

func (s *userServiceImpl) GetUserByEmail(ctx context.Context, email string) (*dto.UserResponse, error) {
	email = strings.TrimSpace(email)
	if !validation.IsValidEmail(email) {
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, "Invalid email format")
	}
	user, err := s.stores.Users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return dto.FromUser(user), nil
}

// SearchUsers matches the start of email, first name or last name, ignoring case
func (s *userServiceImpl) SearchUsers(ctx context.Context, query string) ([]*dto.UserResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperrors.NewInvalidRequestError("Search query cannot be empty")
	}
	users, err := s.stores.Users.Search(ctx, query, DefaultSearchLimit)
	if err != nil {
		return nil, err
	}
	return dto.FromUsers(users), nil
}

// GetProfile returns the caller's own profile
func (s *userServiceImpl) GetProfile(ctx context.Context, actor auth.Actor, id int64) (*dto.UserResponse, error) {
	if err := auth.ValidateSelf(actor, id); err != nil {
		return nil, err
	}
	return s.GetUserByID(ctx, id)
}

// UpdateProfile replaces the profile fields; email, password and role are untouched.
// A nil photo keeps the current one.
func (s *userServiceImpl) UpdateProfile(ctx context.Context, actor auth.Actor, id int64, req *dto.UpdateProfileRequest, photo []byte) (*dto.UserResponse, error) {
	if err := auth.ValidateSelf(actor, id); err != nil {
		return nil, err
	}
	user, err := s.stores.Users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyProfile(user, *req); err != nil {
		return nil, err
	}
	if photo != nil {
		user.ProfilePhoto = photo
	}
	if err := s.stores.Users.Update(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("userId", id).Msg("Profile updated")
	return dto.FromUser(user), nil
}

// AdminUpdateUser is the full update available to super admins
func (s *userServiceImpl) AdminUpdateUser(ctx context.Context, id int64, req *dto.AdminUpdateUserRequest, photo []byte) (*dto.UserResponse, error) {
	user, err := s.stores.Users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyProfile(user, req.UpdateProfileRequest); err != nil {
		return nil, err
	}

	email := strings.TrimSpace(req.Email)
	if !validation.IsValidEmail(email) {
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, "Invalid email format")
	}
	role := models.RoleType(strings.ToUpper(req.Role))
	if !role.IsValid() {
		return nil, apperrors.NewInvalidRequestError("Invalid role: " + req.Role)
	}
	user.Email = email
	user.Role = role

	if req.Password != nil && *req.Password != "" {
		hashed, err := pkgauth.HashPassword(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("error hashing password: %w", err)
		}
		user.Password = hashed
	}
	if photo != nil {
		user.ProfilePhoto = photo
	}

	if err := s.stores.Users.Update(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("userId", id).Str("role", string(role)).Msg("User updated by admin")
	return dto.FromUser(user), nil
}

// PatchProfile applies a key/value patch to profile fields. Blank values are skipped and
// unknown keys are rejected before anything is written.
func (s *userServiceImpl) PatchProfile(ctx context.Context, actor auth.Actor, id int64, values helpers.PatchValues, photo []byte) (*dto.UserResponse, error) {
	if err := auth.ValidateSelf(actor, id); err != nil {
		return nil, err
	}
	user, err := s.stores.Users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	for _, key := range values.Keys() {
		v, ok := values.NonBlank(key)
		switch key {
		case "firstName", "lastName", "phone", "bio", "apartment", "street", "city", "state", "zipcode", "country", "birthday":
		default:
			return nil, apperrors.NewInvalidRequestError("Invalid field: " + key)
		}
		if !ok {
			continue
		}
		if err := validation.ValidatePatchValue(validation.UserPatchRules, key, v); err != nil {
			return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, err.Error())
		}

		switch key {
		case "firstName":
			user.FirstName = v
		case "lastName":
			user.LastName = v
		case "phone":
			user.Phone = strPtr(v)
		case "bio":
			user.Bio = strPtr(v)
		case "apartment":
			user.Apartment = strPtr(v)
		case "street":
			user.Street = strPtr(v)
		case "city":
			user.City = strPtr(v)
		case "state":
			user.State = strPtr(v)
		case "zipcode":
			user.Zipcode = strPtr(v)
		case "country":
			user.Country = strPtr(v)
		case "birthday":
			birthday, err := helpers.ParseDate(&v)
			if err != nil {
				return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, "Birthday must be in YYYY-MM-DD format")
			}
			user.Birthday = birthday
		}
	}
	if photo != nil {
		user.ProfilePhoto = photo
	}

	if err := s.stores.Users.Update(ctx, user); err != nil {
		return nil, err
	}
	return dto.FromUser(user), nil
}

func (s *userServiceImpl) UpdateProfilePhoto(ctx context.Context, actor auth.Actor, id int64, photo []byte) (*dto.UserResponse, error) {
	if err := auth.ValidateSelf(actor, id); err != nil {
		return nil, err
	}
	if photo == nil {
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, "profilePhoto is required")
	}
	if err := s.stores.Users.UpdateProfilePhoto(ctx, id, photo); err != nil {
		return nil, err
	}
	return s.GetUserByID(ctx, id)
}

// DeleteUser frees the user's seats in every club they joined and removes the user in
// the same transaction
func (s *userServiceImpl) DeleteUser(ctx context.Context, id int64) error {
	var clubIDs []int64
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context, tx Stores) error {
		if _, err := tx.Users.FindByIDForUpdate(ctx, id); err != nil {
			return err
		}
		ids, err := tx.Memberships.ListClubIDsByUser(ctx, id)
		if err != nil {
			return err
		}
		if err := tx.Clubs.DecrementMembers(ctx, ids); err != nil {
			return err
		}
		clubIDs = ids
		return tx.Users.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	clubs := make([]*models.Club, 0, len(clubIDs))
	for _, clubID := range clubIDs {
		if club, err := s.stores.Clubs.FindByID(ctx, clubID); err == nil {
			clubs = append(clubs, club)
		}
	}
	invalidateClubs(ctx, s.cache, s.logger, clubs...)

	s.logger.Info().Int64("userId", id).Int("clubs", len(clubIDs)).Msg("User deleted")
	return nil
}
