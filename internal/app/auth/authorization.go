package auth

import (
	"context"
	"fmt"

	"github.com/elevate/clubhub/internal/app/models"
	"github.com/elevate/clubhub/internal/pkg/apperrors"
)

// Actor is the authenticated caller of a service operation
type Actor struct {
	UserID int64
	Email  string
	Role   models.RoleType
}

// IsSuperAdmin reports whether the actor has system-wide authority
func (a Actor) IsSuperAdmin() bool {
	return a.Role == models.RoleSuperAdmin
}

// ClubFinder loads a club by ID
type ClubFinder interface {
	FindByID(ctx context.Context, id int64) (*models.Club, error)
}

// AuthorizationService answers club-scoped permission questions
type AuthorizationService struct {
	clubs ClubFinder
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(clubs ClubFinder) *AuthorizationService {
	return &AuthorizationService{clubs: clubs}
}

// CanManage reports whether the actor may administer the club: super admins always,
// club admins only for the club they administer
func CanManage(actor Actor, club *models.Club) bool {
	if actor.IsSuperAdmin() {
		return true
	}
	return actor.Role == models.RoleClubAdmin &&
		club.ClubAdminID != nil && *club.ClubAdminID == actor.UserID
}

// ValidateClubManager loads the club and fails with UnauthorizedAction when the actor
// cannot manage it
func (s *AuthorizationService) ValidateClubManager(ctx context.Context, actor Actor, clubID int64) (*models.Club, error) {
	club, err := s.clubs.FindByID(ctx, clubID)
	if err != nil {
		return nil, err
	}
	if !CanManage(actor, club) {
		return nil, apperrors.NewUnauthorizedActionError(
			fmt.Sprintf("User %d is not allowed to manage club %d", actor.UserID, clubID))
	}
	return club, nil
}

// ValidateSelf fails with UnauthorizedAction unless the actor is userID or a super admin
func ValidateSelf(actor Actor, userID int64) error {
	if actor.IsSuperAdmin() || actor.UserID == userID {
		return nil
	}
	return apperrors.NewUnauthorizedActionError(
		fmt.Sprintf("User %d cannot act on behalf of user %d", actor.UserID, userID))
}
