package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/elevate/clubhub/internal/app/models"
	"github.com/elevate/clubhub/internal/pkg/apperrors"
	"github.com/elevate/clubhub/internal/pkg/dberrors"
	"github.com/elevate/clubhub/internal/pkg/logger"
	"github.com/jackc/pgx/v5"
)

const (
	clubsNameConstraint  = "clubs_club_name_key"
	clubsSlotsConstraint = "clubs_members_within_slots"
)

var clubColumns = []string{
	"c.id", "c.club_name", "c.description", "c.total_slots", "c.no_of_members", "c.available_slots",
	"c.club_admin_id", "c.club_image", "c.club_background_image", "c.created_at", "c.updated_at",
}

// ClubRepository handles database operations for clubs
type ClubRepository struct {
	db DBTX
}

// NewClubRepository creates a new ClubRepository
func NewClubRepository(db DBTX) *ClubRepository {
	return &ClubRepository{db: db}
}

func scanClub(row pgx.Row) (*models.Club, error) {
	var c models.Club
	err := row.Scan(
		&c.ID, &c.ClubName, &c.Description, &c.TotalSlots, &c.NoOfMembers, &c.AvailableSlots,
		&c.ClubAdminID, &c.ClubImage, &c.ClubBackgroundImage, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ClubRepository) queryOne(ctx context.Context, qb squirrel.SelectBuilder) (*models.Club, error) {
	sql, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	club, err := scanClub(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrClubNotFound
		}
		logger.Error().Err(err).Msg("Error scanning club")
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	return club, nil
}

// Create inserts a club and fills the generated columns back into it
func (r *ClubRepository) Create(ctx context.Context, club *models.Club) (int64, error) {
	sql, args, err := psql.Insert("clubs").
		Columns("club_name", "description", "total_slots", "club_admin_id", "club_image", "club_background_image").
		Values(club.ClubName, club.Description, club.TotalSlots, club.ClubAdminID, club.ClubImage, club.ClubBackgroundImage).
		Suffix("RETURNING id, no_of_members, available_slots, created_at, updated_at").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building SQL: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).
		Scan(&club.ID, &club.NoOfMembers, &club.AvailableSlots, &club.CreatedAt, &club.UpdatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, clubsNameConstraint) {
			return 0, apperrors.ErrClubAlreadyExists
		}
		logger.Error().Err(err).Str("clubName", club.ClubName).Msg("Error creating club")
		return 0, fmt.Errorf("error creating club: %w", err)
	}
	return club.ID, nil
}

// FindByID retrieves a club by ID
func (r *ClubRepository) FindByID(ctx context.Context, id int64) (*models.Club, error) {
	return r.queryOne(ctx, psql.Select(clubColumns...).From("clubs c").Where(squirrel.Eq{"c.id": id}))
}

// FindByIDForUpdate retrieves a club by ID and locks the row until the transaction ends
func (r *ClubRepository) FindByIDForUpdate(ctx context.Context, id int64) (*models.Club, error) {
	return r.queryOne(ctx, psql.Select(clubColumns...).From("clubs c").Where(squirrel.Eq{"c.id": id}).Suffix("FOR UPDATE"))
}

// FindByName retrieves a club by its exact name
func (r *ClubRepository) FindByName(ctx context.Context, name string) (*models.Club, error) {
	return r.queryOne(ctx, psql.Select(clubColumns...).From("clubs c").Where(squirrel.Eq{"c.club_name": name}))
}

// FindAll retrieves every club ordered by name
func (r *ClubRepository) FindAll(ctx context.Context) ([]*models.Club, error) {
	sql, args, err := psql.Select(clubColumns...).From("clubs c").OrderBy("c.club_name").ToSql()
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

// Update writes name, description, total slots and admin. Counters are never written here.
func (r *ClubRepository) Update(ctx context.Context, club *models.Club) error {
	sql, args, err := psql.Update("clubs").
		Set("club_name", club.ClubName).
		Set("description", club.Description).
		Set("total_slots", club.TotalSlots).
		Set("club_admin_id", club.ClubAdminID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": club.ID}).
		Suffix("RETURNING no_of_members, available_slots, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&club.NoOfMembers, &club.AvailableSlots, &club.UpdatedAt)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return apperrors.ErrClubNotFound
		case dberrors.IsDuplicateConstraintError(err, clubsNameConstraint):
			return apperrors.ErrClubAlreadyExists
		case dberrors.IsCheckViolation(err, ""):
			return apperrors.NewInvalidRequestError("Total slots cannot be less than the current number of members")
		case dberrors.IsStringTooLong(err):
			return apperrors.NewCustomError(apperrors.ErrValidationFailed, "Club name or description exceeds its maximum length")
		}
		logger.Error().Err(err).Int64("clubId", club.ID).Msg("Error updating club")
		return fmt.Errorf("error updating club: %w", err)
	}
	return nil
}

func (r *ClubRepository) setBytes(ctx context.Context, column string, id int64, data []byte) error {
	sql, args, err := psql.Update("clubs").
		Set(column, data).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}
	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating %s: %w", column, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrClubNotFound
	}
	return nil
}

// UpdateImage replaces the club image; nil clears it
func (r *ClubRepository) UpdateImage(ctx context.Context, id int64, image []byte) error {
	return r.setBytes(ctx, "club_image", id, image)
}

// UpdateBackgroundImage replaces the club background image; nil clears it
func (r *ClubRepository) UpdateBackgroundImage(ctx context.Context, id int64, image []byte) error {
	return r.setBytes(ctx, "club_background_image", id, image)
}

// IncrementMembers adds one member only while a slot is free
func (r *ClubRepository) IncrementMembers(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE clubs SET no_of_members = no_of_members + 1, updated_at = NOW()
		 WHERE id = $1 AND no_of_members < total_slots`, id)
	if err != nil {
		if dberrors.IsCheckViolation(err, clubsSlotsConstraint) {
			return apperrors.ErrClubCapacityExceeded
		}
		return fmt.Errorf("error incrementing members: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrClubCapacityExceeded
	}
	return nil
}

// DecrementMembers removes one member from every listed club, never below zero
func (r *ClubRepository) DecrementMembers(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	sql, args, err := psql.Update("clubs").
		Set("no_of_members", squirrel.Expr("GREATEST(no_of_members - 1, 0)")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}
	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error decrementing members: %w", err)
	}
	return nil
}

// Delete removes a club; requests, memberships, announcements and Q&A cascade
func (r *ClubRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM clubs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting club: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrClubNotFound
	}
	return nil
}

// CountAdministeredBy counts clubs whose admin is userID, excluding excludeClubID
func (r *ClubRepository) CountAdministeredBy(ctx context.Context, userID, excludeClubID int64) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM clubs WHERE club_admin_id = $1 AND id <> $2`, userID, excludeClubID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("error counting administered clubs: %w", err)
	}
	return n, nil
}

// ReconcileMemberCounts rewrites no_of_members from user_clubs and returns the corrected row count
func (r *ClubRepository) ReconcileMemberCounts(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE clubs c
		SET no_of_members = LEAST(m.cnt, c.total_slots), updated_at = NOW()
		FROM (
			SELECT c2.id, COUNT(uc.id) AS cnt
			FROM clubs c2
			LEFT JOIN user_clubs uc ON uc.club_id = c2.id
			GROUP BY c2.id
		) m
		WHERE c.id = m.id AND c.no_of_members <> LEAST(m.cnt, c.total_slots)`)
	if err != nil {
		return 0, fmt.Errorf("error reconciling member counts: %w", err)
	}
	return tag.RowsAffected(), nil
}
