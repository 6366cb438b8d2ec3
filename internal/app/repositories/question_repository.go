package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/elevate/clubhub/internal/app/models"
	"github.com/elevate/clubhub/internal/pkg/apperrors"
	"github.com/elevate/clubhub/internal/pkg/logger"
	"github.com/jackc/pgx/v5"
)

// QuestionRepository handles club questions
type QuestionRepository struct {
	db DBTX
}

// NewQuestionRepository creates a new QuestionRepository
func NewQuestionRepository(db DBTX) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// Create inserts a question
func (r *QuestionRepository) Create(ctx context.Context, q *models.Question) (int64, error) {
	sql, args, err := psql.Insert("questions").
		Columns("title", "question", "club_id", "user_id").
		Values(q.Title, q.Question, q.ClubID, q.UserID).
		Suffix("RETURNING id, upvote_count, created_at").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building SQL: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&q.ID, &q.UpvoteCount, &q.CreatedAt); err != nil {
		logger.Error().Err(err).Int64("clubId", q.ClubID).Msg("Error creating question")
		return 0, fmt.Errorf("error creating question: %w", err)
	}
	return q.ID, nil
}

// FindByID retrieves a question by ID
func (r *QuestionRepository) FindByID(ctx context.Context, id int64) (*models.Question, error) {
	var q models.Question
	err := r.db.QueryRow(ctx,
		`SELECT id, title, question, upvote_count, club_id, user_id, created_at FROM questions WHERE id = $1`, id).
		Scan(&q.ID, &q.Title, &q.Question, &q.UpvoteCount, &q.ClubID, &q.UserID, &q.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrQuestionNotFound
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	return &q, nil
}

// ListByClub returns the club's questions, most upvoted first, with author details
func (r *QuestionRepository) ListByClub(ctx context.Context, clubID int64) ([]*models.Question, error) {
	sql, args, err := psql.Select(
		"q.id", "q.title", "q.question", "q.upvote_count", "q.club_id", "q.user_id", "q.created_at",
		"u.first_name", "u.last_name", "u.role").
		From("questions q").
		Join("users u ON u.id = q.user_id").
		Where("q.club_id = ?", clubID).
		OrderBy("q.upvote_count DESC", "q.created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	questions := []*models.Question{}
	for rows.Next() {
		var q models.Question
		if err := rows.Scan(&q.ID, &q.Title, &q.Question, &q.UpvoteCount, &q.ClubID, &q.UserID, &q.CreatedAt,
			&q.AuthorFirstName, &q.AuthorLastName, &q.AuthorRole); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		questions = append(questions, &q)
	}
	return questions, rows.Err()
}

// Upvote increments the question's upvote count and returns the new value
func (r *QuestionRepository) Upvote(ctx context.Context, id int64) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`UPDATE questions SET upvote_count = upvote_count + 1 WHERE id = $1 RETURNING upvote_count`, id).Scan(&count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.ErrQuestionNotFound
		}
		return 0, fmt.Errorf("error upvoting question: %w", err)
	}
	return count, nil
}
