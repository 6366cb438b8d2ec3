package controllers

import (
	"net/http"

	"github.com/elevate/clubhub/internal/app/models/dto"
	"github.com/elevate/clubhub/internal/app/services"
	"github.com/elevate/clubhub/internal/middleware"
	"github.com/elevate/clubhub/internal/pkg/helpers"
	"github.com/gin-gonic/gin"
)

// ClubRequestController handles membership request HTTP requests
type ClubRequestController struct {
	requestService services.ClubRequestService
}

// NewClubRequestController creates a new ClubRequestController
func NewClubRequestController(requestService services.ClubRequestService) *ClubRequestController {
	return &ClubRequestController{requestService: requestService}
}

// CreateRequest submits a request to join a club
// @Summary Request to join a club
// @Tags club-requests
// @Accept json,x-www-form-urlencoded,multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateClubRequestRequest true "Join request"
// @Success 201 {object} dto.APIResponse{data=dto.ClubRequestResponse}
// @Failure 400 {object} dto.ErrorResponse "Club limit reached or already a member"
// @Failure 404 {object} dto.ErrorResponse "User or club not found"
// @Failure 409 {object} dto.ErrorResponse "A pending request already exists"
// @Router /student/club-requests [post]
func (c *ClubRequestController) CreateRequest(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	var req dto.CreateClubRequestRequest
	if err := ctx.ShouldBind(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	resp, err := c.requestService.CreateRequest(ctx, actor, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(resp, "Club request created successfully"))
}

// GetClubRequests lists the requests made to a club
// @Summary List a club's requests
// @Description status is ALL, PENDING, APPROVED, REJECTED or WITHDRAWN. ALL omits withdrawn requests.
// @Tags club-requests
// @Produce json
// @Security BearerAuth
// @Param id path int true "Club ID"
// @Param status query string false "Status filter" default(ALL)
// @Success 200 {object} dto.APIResponse{data=[]dto.ClubRequestResponse}
// @Failure 403 {object} dto.ErrorResponse "Not the club's admin"
// @Router /clubadmin/club-requests/{id} [get]
func (c *ClubRequestController) GetClubRequests(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	clubID, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	resp, err := c.requestService.GetClubRequests(ctx, actor, clubID, ctx.Query("status"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, "Club requests retrieved successfully"))
}

// GetUserRequests lists the requests a user has made
// @Summary List a user's requests
// @Tags club-requests
// @Produce json
// @Security BearerAuth
// @Param userId path int true "User ID"
// @Param status query string false "Status filter" default(ALL)
// @Success 200 {object} dto.APIResponse{data=[]dto.ClubRequestResponse}
// @Failure 403 {object} dto.ErrorResponse "Not your requests"
// @Router /student/club-requests/user/{userId} [get]
func (c *ClubRequestController) GetUserRequests(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	userID, ok := middleware.ParseIDParam(ctx, "userId")
	if !ok {
		return
	}

	resp, err := c.requestService.GetUserRequests(ctx, actor, userID, ctx.Query("status"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, "Club requests retrieved successfully"))
}

// UpdateRequest decides or annotates a pending request
// @Summary Decide a club request
// @Description Key/value patch: status (approved|rejected), approverComment, userComment.
// @Tags club-requests
// @Accept x-www-form-urlencoded,multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Param status formData string false "approved or rejected"
// @Param approverComment formData string false "Approver comment"
// @Param userComment formData string false "User comment"
// @Success 200 {object} dto.APIResponse{data=dto.ClubRequestResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid field, already processed, or limits reached"
// @Failure 403 {object} dto.ErrorResponse "Not the club's admin"
// @Failure 404 {object} dto.ErrorResponse "Request not found"
// @Router /clubadmin/club-requests/{id}/update [patch]
func (c *ClubRequestController) UpdateRequest(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	values, err := helpers.CollectPatchValues(ctx)
	if err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	resp, err := c.requestService.UpdateRequest(ctx, actor, id, values)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, "Club request updated successfully"))
}

// WithdrawRequest withdraws the caller's pending request
// @Summary Withdraw a club request
// @Tags club-requests
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Success 200 {object} dto.APIResponse{data=dto.ClubRequestResponse}
// @Failure 400 {object} dto.ErrorResponse "Request is no longer pending"
// @Failure 404 {object} dto.ErrorResponse "Request not found"
// @Router /student/club-requests/{id}/withdraw [patch]
func (c *ClubRequestController) WithdrawRequest(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	resp, err := c.requestService.WithdrawRequest(ctx, actor, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, "Club request withdrawn successfully"))
}
