package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/elevate/clubhub/internal/app/auth"
	"github.com/elevate/clubhub/internal/app/models"
	"github.com/elevate/clubhub/internal/app/models/dto"
	"github.com/elevate/clubhub/internal/pkg/apperrors"
	"github.com/elevate/clubhub/internal/pkg/cache"
	"github.com/elevate/clubhub/internal/pkg/events"
	"github.com/elevate/clubhub/internal/pkg/helpers"
	"github.com/elevate/clubhub/internal/pkg/validation"
	"github.com/rs/zerolog"
)

// DefaultTotalSlots is the capacity of a club created without one
const DefaultTotalSlots = 20

// ClubService defines club operations
type ClubService interface {
	GetAllClubs(ctx context.Context) ([]*dto.ClubResponse, error)
	GetClubByID(ctx context.Context, id int64) (*dto.ClubResponse, error)
	GetClubByName(ctx context.Context, name string) (*dto.ClubResponse, error)
	CreateClub(ctx context.Context, req *dto.CreateClubRequest, image, background []byte) (*dto.ClubResponse, error)
	UpdateClub(ctx context.Context, id int64, req *dto.UpdateClubRequest, image, background []byte) (*dto.ClubResponse, error)
	PatchClub(ctx context.Context, actor auth.Actor, id int64, values helpers.PatchValues, image, background []byte) (*dto.ClubResponse, error)
	UpdateClubImage(ctx context.Context, actor auth.Actor, id int64, image []byte) (*dto.ClubResponse, error)
	UpdateClubBackgroundImage(ctx context.Context, actor auth.Actor, id int64, image []byte) (*dto.ClubResponse, error)
	DeleteClub(ctx context.Context, id int64) error
}

type clubServiceImpl struct {
	stores       Stores
	tx           Transactor
	authz        *auth.AuthorizationService
	cache        cache.Cache
	events       events.Publisher
	memberLimit  int
	defaultSlots int
	logger       zerolog.Logger
}

// ClubServiceConfig holds the club limits
type ClubServiceConfig struct {
	MemberLimit       int
	DefaultTotalSlots int
}

// NewClubService creates a new ClubService
func NewClubService(
	stores Stores,
	tx Transactor,
	cache cache.Cache,
	publisher events.Publisher,
	cfg ClubServiceConfig,
	logger zerolog.Logger,
) ClubService {
	if cfg.MemberLimit <= 0 {
		cfg.MemberLimit = DefaultMemberLimit
	}
	if cfg.DefaultTotalSlots <= 0 {
		cfg.DefaultTotalSlots = DefaultTotalSlots
	}
	return &clubServiceImpl{
		stores:       stores,
		tx:           tx,
		authz:        auth.NewAuthorizationService(stores.Clubs),
		cache:        cache,
		events:       publisher,
		memberLimit:  cfg.MemberLimit,
		defaultSlots: cfg.DefaultTotalSlots,
		logger:       logger,
	}
}

// cached reads key from the cache, falling back to load and storing its result
func cached[T any](ctx context.Context, s *clubServiceImpl, key string, load func() (T, error)) (T, error) {
	var v T
	if s.cache != nil {
		err := s.cache.Get(ctx, key, &v)
		if err == nil {
			return v, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			s.logger.Warn().Err(err).Str("key", key).Msg("Cache read failed")
		}
	}

	v, err := load()
	if err != nil {
		return v, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, v); err != nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("Cache write failed")
		}
	}
	return v, nil
}

func (s *clubServiceImpl) GetAllClubs(ctx context.Context) ([]*dto.ClubResponse, error) {
	return cached(ctx, s, cache.KeyAllClubs, func() ([]*dto.ClubResponse, error) {
		clubs, err := s.stores.Clubs.FindAll(ctx)
		if err != nil {
			return nil, err
		}
		return dto.FromClubs(clubs), nil
	})
}

func (s *clubServiceImpl) GetClubByID(ctx context.Context, id int64) (*dto.ClubResponse, error) {
	return cached(ctx, s, cache.ClubKey(id), func() (*dto.ClubResponse, error) {
		club, err := s.stores.Clubs.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return dto.FromClub(club), nil
	})
}

func (s *clubServiceImpl) GetClubByName(ctx context.Context, name string) (*dto.ClubResponse, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewInvalidRequestError("clubName is required")
	}
	return cached(ctx, s, cache.ClubNameKey(name), func() (*dto.ClubResponse, error) {
		club, err := s.stores.Clubs.FindByName(ctx, name)
		if err != nil {
			return nil, err
		}
		return dto.FromClub(club), nil
	})
}

// CreateClub inserts the club and, when adminId is given, assigns its admin in the same
// transaction
func (s *clubServiceImpl) CreateClub(ctx context.Context, req *dto.CreateClubRequest, image, background []byte) (*dto.ClubResponse, error) {
	totalSlots := s.defaultSlots
	if req.TotalSlots != nil {
		totalSlots = *req.TotalSlots
	}
	if totalSlots <= 0 {
		return nil, apperrors.NewInvalidRequestError("Total slots must be greater than zero")
	}

	club := &models.Club{
		ClubName:            strings.TrimSpace(req.ClubName),
		Description:         strings.TrimSpace(req.Description),
		TotalSlots:          totalSlots,
		ClubImage:           image,
		ClubBackgroundImage: background,
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context, tx Stores) error {
		if _, err := tx.Clubs.Create(ctx, club); err != nil {
			return err
		}
		if req.AdminID != nil {
			return s.assignClubAdmin(ctx, tx, club, *req.AdminID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterAdminChange(ctx, club, req.AdminID)
	invalidateClubs(ctx, s.cache, s.logger, club)
	s.logger.Info().Int64("clubId", club.ID).Str("clubName", club.ClubName).Msg("Club created")
	return dto.FromClub(club), nil
}

// UpdateClub replaces name, description, capacity and optionally the admin. Nil images
// keep the stored ones.
func (s *clubServiceImpl) UpdateClub(ctx context.Context, id int64, req *dto.UpdateClubRequest, image, background []byte) (*dto.ClubResponse, error) {
	var club, before *models.Club

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context, tx Stores) error {
		var err error
		club, err = tx.Clubs.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		prev := *club
		before = &prev

		club.ClubName = strings.TrimSpace(req.ClubName)
		club.Description = strings.TrimSpace(req.Description)
		club.TotalSlots = req.TotalSlots
		return s.saveClub(ctx, tx, club, before, req.AdminID, image, background)
	})
	if err != nil {
		return nil, err
	}

	s.afterAdminChange(ctx, club, changedAdmin(before, req.AdminID))
	invalidateClubs(ctx, s.cache, s.logger, before, club)
	s.logger.Info().Int64("clubId", id).Msg("Club updated")
	return dto.FromClub(club), nil
}

// PatchClub applies a key/value patch. availableSlots is derived, so a value for it is
// accepted only when it matches totalSlots - noOfMembers after the other keys are applied.
func (s *clubServiceImpl) PatchClub(ctx context.Context, actor auth.Actor, id int64, values helpers.PatchValues, image, background []byte) (*dto.ClubResponse, error) {
	if _, err := s.authz.ValidateClubManager(ctx, actor, id); err != nil {
		return nil, err
	}

	var club, before *models.Club
	var adminID *int64

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context, tx Stores) error {
		var err error
		club, err = tx.Clubs.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		prev := *club
		before = &prev

		var availableSlots *int
		for _, key := range values.Keys() {
			v, ok := values.NonBlank(key)
			switch key {
			case "clubName", "description", "totalSlots", "availableSlots", "adminId":
			default:
				return apperrors.NewInvalidRequestError("Invalid field: " + key)
			}
			if !ok {
				continue
			}
			if err := validation.ValidatePatchValue(validation.ClubPatchRules, key, v); err != nil {
				return apperrors.NewCustomError(apperrors.ErrValidationFailed, err.Error())
			}

			switch key {
			case "clubName":
				club.ClubName = v
			case "description":
				club.Description = v
			case "totalSlots":
				n, err := strconv.Atoi(v)
				if err != nil || n <= 0 {
					return apperrors.NewInvalidRequestError("totalSlots must be a positive integer")
				}
				club.TotalSlots = n
			case "availableSlots":
				n, err := strconv.Atoi(v)
				if err != nil {
					return apperrors.NewInvalidRequestError("availableSlots must be an integer")
				}
				availableSlots = &n
			case "adminId":
				if !actor.IsSuperAdmin() {
					return apperrors.NewUnauthorizedActionError("Only a super admin can change the club admin")
				}
				n, err := strconv.ParseInt(v, 10, 64)
				if err != nil || n <= 0 {
					return apperrors.NewInvalidRequestError("adminId must be a positive integer")
				}
				adminID = &n
			}
		}

		if club.TotalSlots < club.NoOfMembers {
			return apperrors.NewInvalidRequestError("Total slots cannot be less than the current number of members")
		}
		if availableSlots != nil && *availableSlots != club.TotalSlots-club.NoOfMembers {
			return apperrors.NewInvalidRequestError(fmt.Sprintf(
				"availableSlots must equal totalSlots - noOfMembers (%d)", club.TotalSlots-club.NoOfMembers))
		}

		return s.saveClub(ctx, tx, club, before, adminID, image, background)
	})
	if err != nil {
		return nil, err
	}

	s.afterAdminChange(ctx, club, changedAdmin(before, adminID))
	invalidateClubs(ctx, s.cache, s.logger, before, club)
	return dto.FromClub(club), nil
}

// saveClub persists the edited club inside tx, then switches admin when adminID differs
// from the current one
func (s *clubServiceImpl) saveClub(ctx context.Context, tx Stores, club, before *models.Club, adminID *int64, image, background []byte) error {
	if err := tx.Clubs.Update(ctx, club); err != nil {
		return err
	}
	club.AvailableSlots = club.TotalSlots - club.NoOfMembers

	if image != nil {
		if err := tx.Clubs.UpdateImage(ctx, club.ID, image); err != nil {
			return err
		}
		club.ClubImage = image
	}
	if background != nil {
		if err := tx.Clubs.UpdateBackgroundImage(ctx, club.ID, background); err != nil {
			return err
		}
		club.ClubBackgroundImage = background
	}

	if changedAdmin(before, adminID) == nil {
		return nil
	}
	if err := s.assignClubAdmin(ctx, tx, club, *adminID); err != nil {
		return err
	}
	if before.ClubAdminID != nil {
		return demoteIfIdle(ctx, tx, *before.ClubAdminID, club.ID)
	}
	return nil
}

func changedAdmin(before *models.Club, adminID *int64) *int64 {
	if adminID == nil || before == nil {
		return adminID
	}
	if before.ClubAdminID != nil && *before.ClubAdminID == *adminID {
		return nil
	}
	return adminID
}

// assignClubAdmin makes the user the club's admin. The user must be a plain student with
// room for one more club, must not already be a member and the club needs a free slot.
// The admin joins the club as a member.
func (s *clubServiceImpl) assignClubAdmin(ctx context.Context, tx Stores, club *models.Club, adminID int64) error {
	user, err := tx.Users.FindByIDForUpdate(ctx, adminID)
	if err != nil {
		return err
	}
	if user.Role != models.RoleStudent {
		return apperrors.NewInvalidRequestError(
			fmt.Sprintf("User with Id: %d is already a %s", user.ID, user.Role))
	}
	if user.JoinedClubs >= s.memberLimit {
		return apperrors.NewCustomError(apperrors.ErrClubLimitExceeded,
			fmt.Sprintf("User with Id: %d has already joined %d clubs", user.ID, s.memberLimit))
	}
	member, err := tx.Memberships.Exists(ctx, user.ID, club.ID)
	if err != nil {
		return err
	}
	if member {
		return apperrors.NewInvalidRequestError("User is already a member of this club")
	}
	if !club.HasFreeSlot() {
		return apperrors.NewCustomError(apperrors.ErrClubCapacityExceeded,
			fmt.Sprintf("Club with Id: %d has no available slots", club.ID))
	}

	if err := tx.Users.UpdateRole(ctx, user.ID, models.RoleClubAdmin); err != nil {
		return err
	}
	club.ClubAdminID = &user.ID
	if err := tx.Clubs.Update(ctx, club); err != nil {
		return err
	}
	if err := tx.Memberships.Create(ctx, &models.UserClub{UserID: user.ID, ClubID: club.ID}); err != nil {
		return err
	}
	if err := tx.Users.IncrementJoinedClubs(ctx, user.ID, s.memberLimit); err != nil {
		return err
	}
	if err := tx.Clubs.IncrementMembers(ctx, club.ID); err != nil {
		return err
	}
	club.NoOfMembers++
	club.AvailableSlots = club.TotalSlots - club.NoOfMembers
	return nil
}

// demoteIfIdle returns a club admin to STUDENT once they administer no club besides clubID
func demoteIfIdle(ctx context.Context, tx Stores, userID, clubID int64) error {
	n, err := tx.Clubs.CountAdministeredBy(ctx, userID, clubID)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	user, err := tx.Users.FindByIDForUpdate(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil
		}
		return err
	}
	if user.Role != models.RoleClubAdmin {
		return nil
	}
	return tx.Users.UpdateRole(ctx, userID, models.RoleStudent)
}

func (s *clubServiceImpl) afterAdminChange(ctx context.Context, club *models.Club, adminID *int64) {
	if adminID == nil {
		return
	}
	s.logger.Info().Int64("clubId", club.ID).Int64("adminId", *adminID).Msg("Club admin assigned")
	publish(ctx, s.events, s.logger, events.NewEvent(events.ClubAdminAssigned, club.ID, map[string]int64{
		"clubId":  club.ID,
		"adminId": *adminID,
	}))
}

// UpdateClubImage sets the club image; nil clears it
func (s *clubServiceImpl) UpdateClubImage(ctx context.Context, actor auth.Actor, id int64, image []byte) (*dto.ClubResponse, error) {
	club, err := s.authz.ValidateClubManager(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := s.stores.Clubs.UpdateImage(ctx, id, image); err != nil {
		return nil, err
	}
	club.ClubImage = image
	invalidateClubs(ctx, s.cache, s.logger, club)
	return dto.FromClub(club), nil
}

// UpdateClubBackgroundImage sets the background image; nil clears it
func (s *clubServiceImpl) UpdateClubBackgroundImage(ctx context.Context, actor auth.Actor, id int64, image []byte) (*dto.ClubResponse, error) {
	club, err := s.authz.ValidateClubManager(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := s.stores.Clubs.UpdateBackgroundImage(ctx, id, image); err != nil {
		return nil, err
	}
	club.ClubBackgroundImage = image
	invalidateClubs(ctx, s.cache, s.logger, club)
	return dto.FromClub(club), nil
}

// DeleteClub releases every member's seat, demotes an admin left without a club and
// removes the club, all in one transaction
func (s *clubServiceImpl) DeleteClub(ctx context.Context, id int64) error {
	var club *models.Club
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context, tx Stores) error {
		var err error
		club, err = tx.Clubs.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		members, err := tx.Memberships.ListUserIDsByClub(ctx, id)
		if err != nil {
			return err
		}
		if err := tx.Users.DecrementJoinedClubs(ctx, members); err != nil {
			return err
		}
		if club.ClubAdminID != nil {
			if err := demoteIfIdle(ctx, tx, *club.ClubAdminID, id); err != nil {
				return err
			}
		}
		return tx.Clubs.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	invalidateClubs(ctx, s.cache, s.logger, club)
	s.logger.Info().Int64("clubId", id).Msg("Club deleted")
	return nil
}
