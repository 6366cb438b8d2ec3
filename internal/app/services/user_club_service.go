package services

import (
	"context"

	"github.com/elevate/clubhub/internal/app/models/dto"
	"github.com/rs/zerolog"
)

// UserClubService answers membership questions
type UserClubService interface {
	GetUserClubs(ctx context.Context, userID int64) ([]*dto.ClubResponse, error)
	GetClubMembers(ctx context.Context, clubID int64) ([]*dto.UserResponse, error)
}

type userClubServiceImpl struct {
	stores Stores
	logger zerolog.Logger
}

// NewUserClubService creates a new UserClubService
func NewUserClubService(stores Stores, logger zerolog.Logger) UserClubService {
	return &userClubServiceImpl{stores: stores, logger: logger}
}

// GetUserClubs lists the clubs a user has joined
func (s *userClubServiceImpl) GetUserClubs(ctx context.Context, userID int64) ([]*dto.ClubResponse, error) {
	if _, err := s.stores.Users.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	clubs, err := s.stores.Memberships.ListClubsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return dto.FromClubs(clubs), nil
}

// GetClubMembers lists the members of a club
func (s *userClubServiceImpl) GetClubMembers(ctx context.Context, clubID int64) ([]*dto.UserResponse, error) {
	if _, err := s.stores.Clubs.FindByID(ctx, clubID); err != nil {
		return nil, err
	}
	users, err := s.stores.Memberships.ListMembersByClub(ctx, clubID)
	if err != nil {
		return nil, err
	}
	return dto.FromUsers(users), nil
}
