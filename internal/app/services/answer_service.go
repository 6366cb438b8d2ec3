package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/elevate/clubhub/internal/app/auth"
	"github.com/elevate/clubhub/internal/app/models"
	"github.com/elevate/clubhub/internal/app/models/dto"
	"github.com/elevate/clubhub/internal/pkg/apperrors"
	"github.com/rs/zerolog"
)

// AnswerService defines club Q&A answer operations
type AnswerService interface {
	CreateAnswer(ctx context.Context, actor auth.Actor, req *dto.CreateAnswerRequest) (*dto.AnswerResponse, error)
	GetAnswers(ctx context.Context, questionID int64) ([]*dto.AnswerResponse, error)
}

type answerServiceImpl struct {
	stores Stores
	logger zerolog.Logger
}

// NewAnswerService creates a new AnswerService
func NewAnswerService(stores Stores, logger zerolog.Logger) AnswerService {
	return &answerServiceImpl{stores: stores, logger: logger}
}

func (s *answerServiceImpl) CreateAnswer(ctx context.Context, actor auth.Actor, req *dto.CreateAnswerRequest) (*dto.AnswerResponse, error) {
	if err := auth.ValidateSelf(actor, req.UserID); err != nil {
		return nil, err
	}
	user, err := s.stores.Users.FindByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if _, err := s.stores.Clubs.FindByID(ctx, req.ClubID); err != nil {
		return nil, err
	}
	q, err := s.stores.Questions.FindByID(ctx, req.QuestionID)
	if err != nil {
		return nil, err
	}
	if q.ClubID != req.ClubID {
		return nil, apperrors.NewInvalidRequestError(
			fmt.Sprintf("Question %d does not belong to club %d", q.ID, req.ClubID))
	}

	a := &models.Answer{
		Answer:          strings.TrimSpace(req.Answer),
		QuestionID:      q.ID,
		ClubID:          q.ClubID,
		UserID:          user.ID,
		AuthorFirstName: user.FirstName,
		AuthorLastName:  user.LastName,
		AuthorRole:      user.Role,
	}
	if _, err := s.stores.Answers.Create(ctx, a); err != nil {
		return nil, err
	}
	return dto.FromAnswer(a), nil
}

func (s *answerServiceImpl) GetAnswers(ctx context.Context, questionID int64) ([]*dto.AnswerResponse, error) {
	if _, err := s.stores.Questions.FindByID(ctx, questionID); err != nil {
		return nil, err
	}
	answers, err := s.stores.Answers.ListByQuestion(ctx, questionID)
	if err != nil {
		return nil, err
	}
	return dto.FromAnswers(answers), nil
}
