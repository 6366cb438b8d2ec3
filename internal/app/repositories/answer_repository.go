package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/elevate/clubhub/internal/app/models"
	"github.com/elevate/clubhub/internal/pkg/logger"
)

// AnswerRepository handles answers to club questions
type AnswerRepository struct {
	db DBTX
}

// NewAnswerRepository creates a new AnswerRepository
func NewAnswerRepository(db DBTX) *AnswerRepository {
	return &AnswerRepository{db: db}
}

// Create inserts an answer
func (r *AnswerRepository) Create(ctx context.Context, a *models.Answer) (int64, error) {
	sql, args, err := psql.Insert("answers").
		Columns("answer", "question_id", "club_id", "user_id").
		Values(a.Answer, a.QuestionID, a.ClubID, a.UserID).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building SQL: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&a.ID, &a.CreatedAt); err != nil {
		logger.Error().Err(err).Int64("questionId", a.QuestionID).Msg("Error creating answer")
		return 0, fmt.Errorf("error creating answer: %w", err)
	}
	return a.ID, nil
}

// ListByQuestion returns the answers to one question, oldest first
func (r *AnswerRepository) ListByQuestion(ctx context.Context, questionID int64) ([]*models.Answer, error) {
	return r.list(ctx, squirrel.Eq{"a.question_id": questionID})
}

// ListByQuestionIDs returns the answers to every listed question, oldest first
func (r *AnswerRepository) ListByQuestionIDs(ctx context.Context, questionIDs []int64) ([]*models.Answer, error) {
	if len(questionIDs) == 0 {
		return []*models.Answer{}, nil
	}
	return r.list(ctx, squirrel.Eq{"a.question_id": questionIDs})
}

func (r *AnswerRepository) list(ctx context.Context, where squirrel.Eq) ([]*models.Answer, error) {
	sql, args, err := psql.Select(
		"a.id", "a.answer", "a.question_id", "a.club_id", "a.user_id", "a.created_at",
		"u.first_name", "u.last_name", "u.role").
		From("answers a").
		Join("users u ON u.id = a.user_id").
		Where(where).
		OrderBy("a.created_at", "a.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	answers := []*models.Answer{}
	for rows.Next() {
		var a models.Answer
		if err := rows.Scan(&a.ID, &a.Answer, &a.QuestionID, &a.ClubID, &a.UserID, &a.CreatedAt,
			&a.AuthorFirstName, &a.AuthorLastName, &a.AuthorRole); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		answers = append(answers, &a)
	}
	return answers, rows.Err()
}
