package controllers

import (
	"net/http"

	"github.com/elevate/clubhub/internal/app/models/dto"
	"github.com/elevate/clubhub/internal/app/services"
	"github.com/elevate/clubhub/internal/middleware"
	"github.com/gin-gonic/gin"
)

// QuestionController handles club Q&A HTTP requests
type QuestionController struct {
	questionService services.QuestionService
	answerService   services.AnswerService
}

// NewQuestionController creates a new QuestionController
func NewQuestionController(questionService services.QuestionService, answerService services.AnswerService) *QuestionController {
	return &QuestionController{
		questionService: questionService,
		answerService:   answerService,
	}
}

// CreateQuestion posts a question to a club
// @Summary Ask a question
// @Tags questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateQuestionRequest true "Question"
// @Success 201 {object} dto.APIResponse{data=dto.QuestionResponse}
// @Failure 400 {object} dto.ErrorResponse "Not a member of the club"
// @Failure 404 {object} dto.ErrorResponse "User or club not found"
// @Router /student/questions [post]
func (c *QuestionController) CreateQuestion(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	var req dto.CreateQuestionRequest
	if err := ctx.ShouldBind(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	resp, err := c.questionService.CreateQuestion(ctx, actor, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(resp, "Question created successfully"))
}

// GetClubQuestions lists a club's questions with their answers
// @Summary List club questions
// @Tags questions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Club ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.QuestionResponse}
// @Failure 404 {object} dto.ErrorResponse "Club not found"
// @Router /student/questions/{id} [get]
func (c *QuestionController) GetClubQuestions(ctx *gin.Context) {
	clubID, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	resp, err := c.questionService.GetClubQuestions(ctx, clubID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, "Questions retrieved successfully"))
}

// UpvoteQuestion adds one upvote to a question
// @Summary Upvote a question
// @Tags questions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Question ID"
// @Success 200 {object} dto.APIResponse{data=dto.QuestionResponse}
// @Failure 404 {object} dto.ErrorResponse "Question not found"
// @Router /student/questions/{id}/upvote [patch]
func (c *QuestionController) UpvoteQuestion(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	resp, err := c.questionService.UpvoteQuestion(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, "Question upvoted"))
}

// CreateAnswer answers a question
// @Summary Answer a question
// @Tags answers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateAnswerRequest true "Answer"
// @Success 201 {object} dto.APIResponse{data=dto.AnswerResponse}
// @Failure 400 {object} dto.ErrorResponse "Question belongs to another club"
// @Failure 404 {object} dto.ErrorResponse "User, club or question not found"
// @Router /student/answers [post]
func (c *QuestionController) CreateAnswer(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	var req dto.CreateAnswerRequest
	if err := ctx.ShouldBind(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	resp, err := c.answerService.CreateAnswer(ctx, actor, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(resp, "Answer created successfully"))
}

// GetAnswers lists the answers to a question
// @Summary List answers
// @Tags answers
// @Produce json
// @Security BearerAuth
// @Param id path int true "Question ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.AnswerResponse}
// @Failure 404 {object} dto.ErrorResponse "Question not found"
// @Router /student/answers/{id} [get]
func (c *QuestionController) GetAnswers(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	resp, err := c.answerService.GetAnswers(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, "Answers retrieved successfully"))
}
