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

const clubRequestsPendingIndex = "club_requests_one_pending"

var clubRequestColumns = []string{
	"r.id", "r.user_id", "r.club_id", "r.user_comment", "r.approver_comment", "r.status",
	"r.created_at", "r.updated_at",
}

// ClubRequestRepository handles database operations for club requests
type ClubRequestRepository struct {
	db DBTX
}

// NewClubRequestRepository creates a new ClubRequestRepository
func NewClubRequestRepository(db DBTX) *ClubRequestRepository {
	return &ClubRequestRepository{db: db}
}

func requestScanTargets(r *models.ClubRequest) []any {
	return []any{&r.ID, &r.UserID, &r.ClubID, &r.UserComment, &r.ApproverComment, &r.Status, &r.CreatedAt, &r.UpdatedAt}
}

func notFoundRequest(id int64) error {
	return apperrors.NewRecordNotFoundError(fmt.Sprintf("Club Request with Id: %d not found!", id))
}

// Create inserts a pending request
func (r *ClubRequestRepository) Create(ctx context.Context, req *models.ClubRequest) (int64, error) {
	if req.Status == "" {
		req.Status = models.RequestPending
	}

	sql, args, err := psql.Insert("club_requests").
		Columns("user_id", "club_id", "user_comment", "status").
		Values(req.UserID, req.ClubID, req.UserComment, req.Status).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building SQL: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt); err != nil {
		if dberrors.IsDuplicateConstraintError(err, clubRequestsPendingIndex) {
			return 0, apperrors.ErrRequestAlreadyExists
		}
		logger.Error().Err(err).Int64("userId", req.UserID).Int64("clubId", req.ClubID).Msg("Error creating club request")
		return 0, fmt.Errorf("error creating club request: %w", err)
	}
	return req.ID, nil
}

func (r *ClubRequestRepository) findOne(ctx context.Context, id int64, lock bool) (*models.ClubRequest, error) {
	qb := psql.Select(clubRequestColumns...).From("club_requests r").Where(squirrel.Eq{"r.id": id})
	if lock {
		qb = qb.Suffix("FOR UPDATE")
	}
	sql, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	var req models.ClubRequest
	if err := r.db.QueryRow(ctx, sql, args...).Scan(requestScanTargets(&req)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFoundRequest(id)
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	return &req, nil
}

// FindByID retrieves a request by ID
func (r *ClubRequestRepository) FindByID(ctx context.Context, id int64) (*models.ClubRequest, error) {
	return r.findOne(ctx, id, false)
}

// FindByIDForUpdate retrieves a request by ID and locks the row until the transaction ends
func (r *ClubRequestRepository) FindByIDForUpdate(ctx context.Context, id int64) (*models.ClubRequest, error) {
	return r.findOne(ctx, id, true)
}

// ExistsPending reports whether the user already has a pending request for the club
func (r *ClubRequestRepository) ExistsPending(ctx context.Context, userID, clubID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM club_requests WHERE user_id = $1 AND club_id = $2 AND status = 'PENDING')`,
		userID, clubID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking pending request: %w", err)
	}
	return exists, nil
}

// ListByClub returns the club's requests with the requesting user attached. A nil status
// returns every request except withdrawn ones.
func (r *ClubRequestRepository) ListByClub(ctx context.Context, clubID int64, status *models.RequestStatus) ([]*models.ClubRequest, error) {
	cols := append(append([]string{}, clubRequestColumns...), "u.id", "u.first_name", "u.last_name", "u.email", "u.role")
	qb := psql.Select(cols...).
		From("club_requests r").
		Join("users u ON u.id = r.user_id").
		Where(squirrel.Eq{"r.club_id": clubID}).
		OrderBy("r.created_at DESC")
	if status != nil {
		qb = qb.Where(squirrel.Eq{"r.status": *status})
	} else {
		qb = qb.Where(squirrel.NotEq{"r.status": models.RequestWithdrawn})
	}

	sql, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	requests := []*models.ClubRequest{}
	for rows.Next() {
		var req models.ClubRequest
		var u models.User
		targets := append(requestScanTargets(&req), &u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Role)
		if err := rows.Scan(targets...); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		req.User = &u
		requests = append(requests, &req)
	}
	return requests, rows.Err()
}

// ListByUser returns the user's requests with the club attached. A nil status returns all.
func (r *ClubRequestRepository) ListByUser(ctx context.Context, userID int64, status *models.RequestStatus) ([]*models.ClubRequest, error) {
	cols := append(append([]string{}, clubRequestColumns...), "c.id", "c.club_name", "c.description", "c.total_slots", "c.no_of_members", "c.available_slots", "c.club_admin_id")
	qb := psql.Select(cols...).
		From("club_requests r").
		Join("clubs c ON c.id = r.club_id").
		Where(squirrel.Eq{"r.user_id": userID}).
		OrderBy("r.created_at DESC")
	if status != nil {
		qb = qb.Where(squirrel.Eq{"r.status": *status})
	}

	sql, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	requests := []*models.ClubRequest{}
	for rows.Next() {
		var req models.ClubRequest
		var c models.Club
		targets := append(requestScanTargets(&req), &c.ID, &c.ClubName, &c.Description, &c.TotalSlots, &c.NoOfMembers, &c.AvailableSlots, &c.ClubAdminID)
		if err := rows.Scan(targets...); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		req.Club = &c
		requests = append(requests, &req)
	}
	return requests, rows.Err()
}

// UpdateStatus persists status and approver comment
func (r *ClubRequestRepository) UpdateStatus(ctx context.Context, req *models.ClubRequest) error {
	sql, args, err := psql.Update("club_requests").
		Set("status", req.Status).
		Set("approver_comment", req.ApproverComment).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": req.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&req.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return notFoundRequest(req.ID)
		}
		return fmt.Errorf("error updating club request: %w", err)
	}
	return nil
}

// UpdateUserComment replaces the requester's comment
func (r *ClubRequestRepository) UpdateUserComment(ctx context.Context, id int64, comment *string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE club_requests SET user_comment = $1, updated_at = NOW() WHERE id = $2`, comment, id)
	if err != nil {
		return fmt.Errorf("error updating user comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return notFoundRequest(id)
	}
	return nil
}
