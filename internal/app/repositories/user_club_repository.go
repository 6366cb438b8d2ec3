package repositories

import (
	"context"
	"fmt"

	"github.com/elevate/clubhub/internal/app/models"
	"github.com/elevate/clubhub/internal/pkg/apperrors"
	"github.com/elevate/clubhub/internal/pkg/dberrors"
	"github.com/elevate/clubhub/internal/pkg/logger"
)

const userClubsUniqueConstraint = "user_clubs_user_club_key"

// UserClubRepository handles approved memberships
type UserClubRepository struct {
	db DBTX
}

// NewUserClubRepository creates a new UserClubRepository
func NewUserClubRepository(db DBTX) *UserClubRepository {
	return &UserClubRepository{db: db}
}

// Create inserts a membership row
func (r *UserClubRepository) Create(ctx context.Context, uc *models.UserClub) error {
	sql, args, err := psql.Insert("user_clubs").
		Columns("user_id", "club_id", "comment").
		Values(uc.UserID, uc.ClubID, uc.Comment).
		Suffix("RETURNING id, joined_date").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&uc.ID, &uc.JoinedDate); err != nil {
		if dberrors.IsDuplicateConstraintError(err, userClubsUniqueConstraint) {
			return apperrors.ErrRequestAlreadyExists
		}
		logger.Error().Err(err).Int64("userId", uc.UserID).Int64("clubId", uc.ClubID).Msg("Error creating membership")
		return fmt.Errorf("error creating membership: %w", err)
	}
	return nil
}

// Exists reports whether the user is a member of the club
func (r *UserClubRepository) Exists(ctx context.Context, userID, clubID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM user_clubs WHERE user_id = $1 AND club_id = $2)`, userID, clubID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking membership: %w", err)
	}
	return exists, nil
}

// ListClubsByUser returns the clubs the user has joined
func (r *UserClubRepository) ListClubsByUser(ctx context.Context, userID int64) ([]*models.Club, error) {
	sql, args, err := psql.Select(clubColumns...).
		From("user_clubs uc").
		Join("clubs c ON c.id = uc.club_id").
		Where("uc.user_id = ?", userID).
		OrderBy("uc.joined_date").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	clubs := []*models.Club{}
	for rows.Next() {
		c, err := scanClub(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		clubs = append(clubs, c)
	}
	return clubs, rows.Err()
}

// ListMembersByClub returns the members of the club
func (r *UserClubRepository) ListMembersByClub(ctx context.Context, clubID int64) ([]*models.User, error) {
	sql, args, err := psql.Select(userColumns...).
		From("user_clubs uc").
		Join("users u ON u.id = uc.user_id").
		Where("uc.club_id = ?", clubID).
		OrderBy("uc.joined_date").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	users := []*models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// ListClubIDsByUser returns the IDs of the clubs the user belongs to
func (r *UserClubRepository) ListClubIDsByUser(ctx context.Context, userID int64) ([]int64, error) {
	return r.listIDs(ctx, `SELECT club_id FROM user_clubs WHERE user_id = $1`, userID)
}

// ListUserIDsByClub returns the IDs of the club's members
func (r *UserClubRepository) ListUserIDsByClub(ctx context.Context, clubID int64) ([]int64, error) {
	return r.listIDs(ctx, `SELECT user_id FROM user_clubs WHERE club_id = $1`, clubID)
}

func (r *UserClubRepository) listIDs(ctx context.Context, query string, arg int64) ([]int64, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
