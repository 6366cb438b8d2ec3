package services

import (
	"context"
	"testing"

	"github.com/elevate/clubhub/internal/app/models"
	"github.com/elevate/clubhub/internal/app/models/dto"
	"github.com/elevate/clubhub/internal/pkg/apperrors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuestionsAndAnswers(t *testing.T) {
	db := newFakeDB()
	ctx := context.Background()
	questions := NewQuestionService(db.stores(), zerolog.Nop())
	answers := NewAnswerService(db.stores(), zerolog.Nop())

	member := db.addUser(models.User{FirstName: "Mia", LastName: "Member", Email: "mia@school.edu"})
	outsider := db.addUser(models.User{Email: "out@school.edu"})
	club := db.addClub(models.Club{ClubName: "Chess", TotalSlots: 5})
	other := db.addClub(models.Club{ClubName: "Go", TotalSlots: 5})
	db.addMember(member.ID, club.ID)

	_, err := questions.CreateQuestion(ctx, actorOf(outsider), &dto.CreateQuestionRequest{
		UserID: outsider.ID, ClubID: club.ID, Title: "t", Question: "q",
	})
	assert.ErrorIs(t, err, apperrors.ErrUndefinedUserClub)

	_, err = questions.CreateQuestion(ctx, actorOf(outsider), &dto.CreateQuestionRequest{
		UserID: member.ID, ClubID: club.ID, Title: "t", Question: "q",
	})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorizedAction)

	q1, err := questions.CreateQuestion(ctx, actorOf(member), &dto.CreateQuestionRequest{
		UserID: member.ID, ClubID: club.ID, Title: "Openings", Question: "Which first?",
	})
	require.NoError(t, err)
	assert.Equal(t, "Mia", q1.Author.FirstName)
	assert.Empty(t, q1.Answers)

	q2, err := questions.CreateQuestion(ctx, actorOf(member), &dto.CreateQuestionRequest{
		UserID: member.ID, ClubID: club.ID, Title: "Clocks", Question: "Blitz?",
	})
	require.NoError(t, err)

	a, err := answers.CreateAnswer(ctx, actorOf(outsider), &dto.CreateAnswerRequest{
		UserID: outsider.ID, ClubID: club.ID, QuestionID: q1.ID, Answer: "e4",
	})
	require.NoError(t, err)
	assert.Equal(t, q1.ID, a.QuestionID)

	_, err = answers.CreateAnswer(ctx, actorOf(outsider), &dto.CreateAnswerRequest{
		UserID: outsider.ID, ClubID: other.ID, QuestionID: q1.ID, Answer: "d4",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidRequest)

	_, err = answers.CreateAnswer(ctx, actorOf(outsider), &dto.CreateAnswerRequest{
		UserID: outsider.ID, ClubID: club.ID, QuestionID: 999, Answer: "?",
	})
	assert.ErrorIs(t, err, apperrors.ErrQuestionNotFound)

	upvoted, err := questions.UpvoteQuestion(ctx, q2.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, upvoted.UpvoteCount)

	_, err = questions.UpvoteQuestion(ctx, 999)
	assert.ErrorIs(t, err, apperrors.ErrQuestionNotFound)

	list, err := questions.GetClubQuestions(ctx, club.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, q2.ID, list[0].ID)
	assert.Empty(t, list[0].Answers)
	require.Len(t, list[1].Answers, 1)
	assert.Equal(t, "e4", list[1].Answers[0].Answer)

	got, err := answers.GetAnswers(ctx, q1.ID)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = questions.GetClubQuestions(ctx, 999)
	assert.ErrorIs(t, err, apperrors.ErrClubNotFound)
}

func TestUserClubs(t *testing.T) {
	db := newFakeDB()
	ctx := context.Background()
	svc := NewUserClubService(db.stores(), zerolog.Nop())

	u := db.addUser(models.User{Email: "u@school.edu"})
	chess := db.addClub(models.Club{ClubName: "Chess", TotalSlots: 5})
	db.addClub(models.Club{ClubName: "Go", TotalSlots: 5})
	db.addMember(u.ID, chess.ID)

	clubs, err := svc.GetUserClubs(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, clubs, 1)
	assert.Equal(t, "Chess", clubs[0].ClubName)

	members, err := svc.GetClubMembers(ctx, chess.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, u.ID, members[0].ID)

	_, err = svc.GetUserClubs(ctx, 999)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	_, err = svc.GetClubMembers(ctx, 999)
	assert.ErrorIs(t, err, apperrors.ErrClubNotFound)
}
