package controllers

import (
	"net/http"

	"github.com/elevate/clubhub/internal/app/models/dto"
	"github.com/elevate/clubhub/internal/app/services"
	"github.com/elevate/clubhub/internal/middleware"
	"github.com/gin-gonic/gin"
)

// UserClubController exposes club memberships
type UserClubController struct {
	userClubService services.UserClubService
}

// NewUserClubController creates a new UserClubController
func NewUserClubController(userClubService services.UserClubService) *UserClubController {
	return &UserClubController{userClubService: userClubService}
}

// GetUserClubs lists the clubs a user joined
// @Summary Clubs of a user
// @Tags user-clubs
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.ClubResponse}
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /student/user-clubs/{id} [get]
func (c *UserClubController) GetUserClubs(ctx *gin.Context) {
	userID, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	clubs, err := c.userClubService.GetUserClubs(ctx, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(clubs, "User clubs retrieved successfully"))
}

// GetClubMembers lists the members of a club
// @Summary Members of a club
// @Tags user-clubs
// @Produce json
// @Security BearerAuth
// @Param id path int true "Club ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.UserResponse}
// @Failure 404 {object} dto.ErrorResponse "Club not found"
// @Router /student/user-clubs/{id}/club-members [get]
func (c *UserClubController) GetClubMembers(ctx *gin.Context) {
	clubID, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	members, err := c.userClubService.GetClubMembers(ctx, clubID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(members, "Club members retrieved successfully"))
}
