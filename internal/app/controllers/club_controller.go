package controllers

import (
	"context"
	"net/http"

	"github.com/elevate/clubhub/internal/app/auth"
	"github.com/elevate/clubhub/internal/app/models/dto"
	"github.com/elevate/clubhub/internal/app/services"
	"github.com/elevate/clubhub/internal/middleware"
	"github.com/elevate/clubhub/internal/pkg/filestorage"
	"github.com/elevate/clubhub/internal/pkg/helpers"
	"github.com/gin-gonic/gin"
)

const (
	clubImageField      = "clubImage"
	clubBackgroundField = "clubBackgroundImage"
)

// ClubController handles club-related HTTP requests
type ClubController struct {
	clubService services.ClubService
	images      filestorage.ImageReader
}

// NewClubController creates a new ClubController
func NewClubController(clubService services.ClubService, images filestorage.ImageReader) *ClubController {
	return &ClubController{
		clubService: clubService,
		images:      images,
	}
}

// clubImages reads both optional club image fields
func (c *ClubController) clubImages(ctx *gin.Context) (image, background []byte, ok bool) {
	if image, ok = formImage(ctx, c.images, clubImageField); !ok {
		return nil, nil, false
	}
	if background, ok = formImage(ctx, c.images, clubBackgroundField); !ok {
		return nil, nil, false
	}
	return image, background, true
}

// GetAllClubs lists every club
// @Summary List clubs
// @Tags clubs
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.ClubResponse}
// @Router /student/clubs [get]
func (c *ClubController) GetAllClubs(ctx *gin.Context) {
	clubs, err := c.clubService.GetAllClubs(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(clubs, "Clubs retrieved successfully"))
}

// GetClubByID retrieves a club by ID
// @Summary Get club by ID
// @Tags clubs
// @Produce json
// @Security BearerAuth
// @Param id path int true "Club ID"
// @Success 200 {object} dto.APIResponse{data=dto.ClubResponse}
// @Failure 404 {object} dto.ErrorResponse "Club not found"
// @Router /student/clubs/{id} [get]
func (c *ClubController) GetClubByID(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	club, err := c.clubService.GetClubByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(club, "Club retrieved successfully"))
}

// GetClubByName retrieves a club by its exact name
// @Summary Get club by name
// @Tags clubs
// @Produce json
// @Security BearerAuth
// @Param clubName query string true "Club name"
// @Success 200 {object} dto.APIResponse{data=dto.ClubResponse}
// @Failure 404 {object} dto.ErrorResponse "Club not found"
// @Router /student/clubs/by-name [get]
func (c *ClubController) GetClubByName(ctx *gin.Context) {
	club, err := c.clubService.GetClubByName(ctx, ctx.Query("clubName"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(club, "Club retrieved successfully"))
}

// CreateClub creates a club, optionally assigning its admin
// @Summary Create a club
// @Tags clubs
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param clubName formData string true "Club name"
// @Param description formData string true "Description"
// @Param totalSlots formData int false "Capacity (default 20)"
// @Param adminId formData int false "Student to promote to club admin"
// @Param clubImage formData file false "Club image"
// @Param clubBackgroundImage formData file false "Background image"
// @Success 201 {object} dto.APIResponse{data=dto.ClubResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 409 {object} dto.ErrorResponse "Club name already exists"
// @Router /admin/clubs [post]
func (c *ClubController) CreateClub(ctx *gin.Context) {
	var req dto.CreateClubRequest
	if err := ctx.ShouldBind(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}
	image, background, ok := c.clubImages(ctx)
	if !ok {
		return
	}

	club, err := c.clubService.CreateClub(ctx, &req, image, background)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(club, "Club created successfully"))
}

// UpdateClub replaces a club's fields
// @Summary Update a club
// @Tags clubs
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Club ID"
// @Param clubName formData string true "Club name"
// @Param description formData string true "Description"
// @Param totalSlots formData int true "Capacity"
// @Param adminId formData int false "Club admin"
// @Param clubImage formData file false "Club image"
// @Param clubBackgroundImage formData file false "Background image"
// @Success 200 {object} dto.APIResponse{data=dto.ClubResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Club not found"
// @Router /admin/clubs/{id} [put]
func (c *ClubController) UpdateClub(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateClubRequest
	if err := ctx.ShouldBind(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}
	image, background, ok := c.clubImages(ctx)
	if !ok {
		return
	}

	club, err := c.clubService.UpdateClub(ctx, id, &req, image, background)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(club, "Club updated successfully"))
}

// PatchClub applies key/value changes to a club
// @Summary Patch a club
// @Description Accepts clubName, description, totalSlots, availableSlots and adminId. availableSlots must equal totalSlots minus noOfMembers.
// @Tags clubs
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Club ID"
// @Param clubImage formData file false "Club image"
// @Param clubBackgroundImage formData file false "Background image"
// @Success 200 {object} dto.APIResponse{data=dto.ClubResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid field or value"
// @Failure 403 {object} dto.ErrorResponse "Not the club's admin"
// @Router /clubadmin/clubs/{id} [patch]
func (c *ClubController) PatchClub(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	values, err := helpers.CollectPatchValues(ctx, clubImageField, clubBackgroundField)
	if err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}
	image, background, ok := c.clubImages(ctx)
	if !ok {
		return
	}

	club, err := c.clubService.PatchClub(ctx, actor, id, values, image, background)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(club, "Club updated successfully"))
}

// UpdateClubImage sets or clears the club image
// @Summary Set club image
// @Description Uploading a file sets the image; sending none clears it
// @Tags clubs
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Club ID"
// @Param clubImage formData file false "Club image"
// @Success 200 {object} dto.APIResponse{data=dto.ClubResponse}
// @Router /clubadmin/clubs/{id}/image [patch]
func (c *ClubController) UpdateClubImage(ctx *gin.Context) {
	c.updateImage(ctx, clubImageField, c.clubService.UpdateClubImage)
}

// UpdateClubBackgroundImage sets or clears the club background image
// @Summary Set club background image
// @Description Uploading a file sets the image; sending none clears it
// @Tags clubs
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Club ID"
// @Param clubBackgroundImage formData file false "Background image"
// @Success 200 {object} dto.APIResponse{data=dto.ClubResponse}
// @Router /clubadmin/clubs/{id}/background-image [patch]
func (c *ClubController) UpdateClubBackgroundImage(ctx *gin.Context) {
	c.updateImage(ctx, clubBackgroundField, c.clubService.UpdateClubBackgroundImage)
}

type imageUpdater func(ctx context.Context, actor auth.Actor, id int64, image []byte) (*dto.ClubResponse, error)

func (c *ClubController) updateImage(ctx *gin.Context, field string, update imageUpdater) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	image, ok := formImage(ctx, c.images, field)
	if !ok {
		return
	}

	club, err := update(ctx, actor, id, image)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(club, "Club image updated successfully"))
}

// DeleteClub removes a club and releases its members
// @Summary Delete a club
// @Tags clubs
// @Produce json
// @Security BearerAuth
// @Param id path int true "Club ID"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.ErrorResponse "Club not found"
// @Router /admin/clubs/{id} [delete]
func (c *ClubController) DeleteClub(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.clubService.DeleteClub(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Club deleted successfully"))
}
