package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/elevate/clubhub/internal/app/models"
	"github.com/elevate/clubhub/internal/pkg/apperrors"
	"github.com/elevate/clubhub/internal/pkg/logger"
)

// AnnouncementRepository handles announcements and their per-user seen state
type AnnouncementRepository struct {
	db DBTX
}

// NewAnnouncementRepository creates a new AnnouncementRepository
func NewAnnouncementRepository(db DBTX) *AnnouncementRepository {
	return &AnnouncementRepository{db: db}
}

// AnnouncementFilter narrows a user's announcement listing
type AnnouncementFilter struct {
	UserID     int64
	ClubID     int64
	Type       *models.AnnouncementType
	UnseenOnly bool
	Offset     int
	Limit      int
}

// Recipient is one user_announcements row to create
type Recipient struct {
	UserID int64
	IsSeen bool
}

// Create inserts an announcement
func (r *AnnouncementRepository) Create(ctx context.Context, a *models.Announcement) (int64, error) {
	sql, args, err := psql.Insert("announcements").
		Columns("posted_by", "club_id", "title", "content", "type", "image").
		Values(a.PostedBy, a.ClubID, a.Title, a.Content, a.Type, a.Image).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building SQL: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt); err != nil {
		logger.Error().Err(err).Int64("clubId", a.ClubID).Msg("Error creating announcement")
		return 0, fmt.Errorf("error creating announcement: %w", err)
	}
	return a.ID, nil
}

// AddRecipients inserts one seen-state row per recipient in a single statement
func (r *AnnouncementRepository) AddRecipients(ctx context.Context, announcementID int64, recipients []Recipient) error {
	if len(recipients) == 0 {
		return nil
	}

	now := time.Now().UTC()
	qb := psql.Insert("user_announcements").Columns("user_id", "announcement_id", "is_seen", "seen_at")
	for _, rc := range recipients {
		var seenAt *time.Time
		if rc.IsSeen {
			seenAt = &now
		}
		qb = qb.Values(rc.UserID, announcementID, rc.IsSeen, seenAt)
	}
	sql, args, err := qb.Suffix("ON CONFLICT (user_id, announcement_id) DO NOTHING").ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error adding recipients: %w", err)
	}
	return nil
}

// ListForUser returns one page of the user's announcements in a club, unseen first, and the
// total number of matching rows
func (r *AnnouncementRepository) ListForUser(ctx context.Context, f AnnouncementFilter) ([]*models.AnnouncementView, int64, error) {
	where := squirrel.And{
		squirrel.Eq{"ua.user_id": f.UserID},
		squirrel.Eq{"a.club_id": f.ClubID},
	}
	if f.Type != nil {
		where = append(where, squirrel.Eq{"a.type": *f.Type})
	}
	if f.UnseenOnly {
		where = append(where, squirrel.Eq{"ua.is_seen": false})
	}

	countSQL, countArgs, err := psql.Select("COUNT(*)").
		From("user_announcements ua").
		Join("announcements a ON a.id = ua.announcement_id").
		Where(where).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}
	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting announcements: %w", err)
	}

	sql, args, err := psql.Select(
		"a.id", "COALESCE(a.posted_by, 0)", "a.club_id", "a.title", "a.content", "a.type", "a.image",
		"a.created_at", "a.updated_at", "COALESCE(p.first_name, '')", "COALESCE(p.last_name, '')",
		"ua.is_seen", "ua.seen_at").
		From("user_announcements ua").
		Join("announcements a ON a.id = ua.announcement_id").
		LeftJoin("users p ON p.id = a.posted_by").
		Where(where).
		OrderBy("ua.is_seen ASC", "a.created_at DESC", "a.id DESC").
		Offset(uint64(f.Offset)).
		Limit(uint64(f.Limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	views := []*models.AnnouncementView{}
	for rows.Next() {
		var v models.AnnouncementView
		if err := rows.Scan(
			&v.ID, &v.PostedBy, &v.ClubID, &v.Title, &v.Content, &v.Type, &v.Image,
			&v.CreatedAt, &v.UpdatedAt, &v.PosterFirstName, &v.PosterLastName,
			&v.IsSeen, &v.SeenAt,
		); err != nil {
			return nil, 0, fmt.Errorf("error scanning row: %w", err)
		}
		views = append(views, &v)
	}
	return views, total, rows.Err()
}

// MarkSeen flags the announcement as seen by the user
func (r *AnnouncementRepository) MarkSeen(ctx context.Context, userID, announcementID int64) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE user_announcements SET is_seen = TRUE, seen_at = COALESCE(seen_at, NOW())
		 WHERE user_id = $1 AND announcement_id = $2`, userID, announcementID)
	if err != nil {
		return fmt.Errorf("error marking announcement seen: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewRecordNotFoundError(
			fmt.Sprintf("Announcement %d not found for user %d", announcementID, userID))
	}
	return nil
}
