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

// QuestionService defines club Q&A question operations
type QuestionService interface {
	CreateQuestion(ctx context.Context, actor auth.Actor, req *dto.CreateQuestionRequest) (*dto.QuestionResponse, error)
	GetClubQuestions(ctx context.Context, clubID int64) ([]*dto.QuestionResponse, error)
	UpvoteQuestion(ctx context.Context, questionID int64) (*dto.QuestionResponse, error)
}

type questionServiceImpl struct {
	stores Stores
	logger zerolog.Logger
}

// NewQuestionService creates a new QuestionService
func NewQuestionService(stores Stores, logger zerolog.Logger) QuestionService {
	return &questionServiceImpl{stores: stores, logger: logger}
}

// requireMember loads the user and club and checks the user belongs to the club
func requireMember(ctx context.Context, stores Stores, userID, clubID int64) (*models.User, error) {
	user, err := stores.Users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := stores.Clubs.FindByID(ctx, clubID); err != nil {
		return nil, err
	}
	member, err := stores.Memberships.Exists(ctx, userID, clubID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, apperrors.NewCustomError(apperrors.ErrUndefinedUserClub,
			fmt.Sprintf("User with Id: %d is not a member of club %d", userID, clubID))
	}
	return user, nil
}

// CreateQuestion posts a question; only members of the club may ask
func (s *questionServiceImpl) CreateQuestion(ctx context.Context, actor auth.Actor, req *dto.CreateQuestionRequest) (*dto.QuestionResponse, error) {
	if err := auth.ValidateSelf(actor, req.UserID); err != nil {
		return nil, err
	}
	user, err := requireMember(ctx, s.stores, req.UserID, req.ClubID)
	if err != nil {
		return nil, err
	}

	q := &models.Question{
		Title:           strings.TrimSpace(req.Title),
		Question:        strings.TrimSpace(req.Question),
		ClubID:          req.ClubID,
		UserID:          user.ID,
		AuthorFirstName: user.FirstName,
		AuthorLastName:  user.LastName,
		AuthorRole:      user.Role,
	}
	if _, err := s.stores.Questions.Create(ctx, q); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("questionId", q.ID).Int64("clubId", q.ClubID).Msg("Question created")
	return dto.FromQuestion(q, nil), nil
}

// GetClubQuestions lists a club's questions with their answers, most upvoted first
func (s *questionServiceImpl) GetClubQuestions(ctx context.Context, clubID int64) ([]*dto.QuestionResponse, error) {
	if _, err := s.stores.Clubs.FindByID(ctx, clubID); err != nil {
		return nil, err
	}
	questions, err := s.stores.Questions.ListByClub(ctx, clubID)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(questions))
	for _, q := range questions {
		ids = append(ids, q.ID)
	}
	answers, err := s.stores.Answers.ListByQuestionIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byQuestion := make(map[int64][]*models.Answer, len(questions))
	for _, a := range answers {
		byQuestion[a.QuestionID] = append(byQuestion[a.QuestionID], a)
	}
	items := make([]dto.QuestionWithAnswers, 0, len(questions))
	for _, q := range questions {
		items = append(items, dto.QuestionWithAnswers{Question: q, Answers: byQuestion[q.ID]})
	}
	return dto.FromQuestionsWithAnswers(items), nil
}

// UpvoteQuestion adds one upvote
func (s *questionServiceImpl) UpvoteQuestion(ctx context.Context, questionID int64) (*dto.QuestionResponse, error) {
	count, err := s.stores.Questions.Upvote(ctx, questionID)
	if err != nil {
		return nil, err
	}
	q, err := s.stores.Questions.FindByID(ctx, questionID)
	if err != nil {
		return nil, err
	}
	q.UpvoteCount = count
	answers, err := s.stores.Answers.ListByQuestion(ctx, questionID)
	if err != nil {
		return nil, err
	}
	return dto.FromQuestion(q, answers), nil
}
