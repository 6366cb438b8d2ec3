package dto

import (
	"time"

	"github.com/elevate/clubhub/internal/app/models"
)

// CreateQuestionRequest posts a question to a club
type CreateQuestionRequest struct {
	UserID   int64  `json:"userId" form:"userId" binding:"required,gt=0"`
	ClubID   int64  `json:"clubId" form:"clubId" binding:"required,gt=0"`
	Title    string `json:"title" form:"title" binding:"required,max=200"`
	Question string `json:"question" form:"question" binding:"required,max=2000"`
}

// CreateAnswerRequest answers a question in a club
type CreateAnswerRequest struct {
	UserID     int64  `json:"userId" form:"userId" binding:"required,gt=0"`
	ClubID     int64  `json:"clubId" form:"clubId" binding:"required,gt=0"`
	QuestionID int64  `json:"questionId" form:"questionId" binding:"required,gt=0"`
	Answer     string `json:"answer" form:"answer" binding:"required,max=2000"`
}

// AnswerResponse is an answer with its author
type AnswerResponse struct {
	ID         int64        `json:"id"`
	Answer     string       `json:"answer"`
	QuestionID int64        `json:"questionId"`
	ClubID     int64        `json:"clubId"`
	Author     *UserSummary `json:"author"`
	CreatedAt  time.Time    `json:"createdAt"`
}

// QuestionResponse is a question with its author and answers
type QuestionResponse struct {
	ID          int64             `json:"id"`
	Title       string            `json:"title"`
	Question    string            `json:"question"`
	UpvoteCount int               `json:"upvoteCount"`
	ClubID      int64             `json:"clubId"`
	Author      *UserSummary      `json:"author"`
	Answers     []*AnswerResponse `json:"answers"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// QuestionWithAnswers pairs a question with its answers for conversion
type QuestionWithAnswers struct {
	Question *models.Question
	Answers  []*models.Answer
}

// FromAnswer converts a model answer
func FromAnswer(a *models.Answer) *AnswerResponse {
	if a == nil {
		return nil
	}
	return &AnswerResponse{
		ID:         a.ID,
		Answer:     a.Answer,
		QuestionID: a.QuestionID,
		ClubID:     a.ClubID,
		Author: &UserSummary{
			ID: a.UserID, FirstName: a.AuthorFirstName, LastName: a.AuthorLastName, Role: string(a.AuthorRole),
		},
		CreatedAt: a.CreatedAt,
	}
}

// FromAnswers converts a slice of answers
func FromAnswers(answers []*models.Answer) []*AnswerResponse {
	out := make([]*AnswerResponse, 0, len(answers))
	for _, a := range answers {
		out = append(out, FromAnswer(a))
	}
	return out
}

// FromQuestion converts a question and its answers
func FromQuestion(q *models.Question, answers []*models.Answer) *QuestionResponse {
	if q == nil {
		return nil
	}
	return &QuestionResponse{
		ID:          q.ID,
		Title:       q.Title,
		Question:    q.Question,
		UpvoteCount: q.UpvoteCount,
		ClubID:      q.ClubID,
		Author: &UserSummary{
			ID: q.UserID, FirstName: q.AuthorFirstName, LastName: q.AuthorLastName, Role: string(q.AuthorRole),
		},
		Answers:   FromAnswers(answers),
		CreatedAt: q.CreatedAt,
	}
}

// FromQuestionsWithAnswers converts a list of questions with their answers
func FromQuestionsWithAnswers(items []QuestionWithAnswers) []*QuestionResponse {
	out := make([]*QuestionResponse, 0, len(items))
	for _, it := range items {
		out = append(out, FromQuestion(it.Question, it.Answers))
	}
	return out
}
