package controllers

import (
	"net/http"

	"github.com/elevate/clubhub/internal/app/models/dto"
	"github.com/elevate/clubhub/internal/app/services"
	"github.com/elevate/clubhub/internal/middleware"
	"github.com/elevate/clubhub/internal/pkg/filestorage"
	"github.com/elevate/clubhub/internal/pkg/helpers"
	"github.com/gin-gonic/gin"
)

// AnnouncementController handles announcement HTTP requests
type AnnouncementController struct {
	announcementService services.AnnouncementService
	images              filestorage.ImageReader
}

// NewAnnouncementController creates a new AnnouncementController
func NewAnnouncementController(announcementService services.AnnouncementService, images filestorage.ImageReader) *AnnouncementController {
	return &AnnouncementController{
		announcementService: announcementService,
		images:              images,
	}
}

// CreateAnnouncement posts an announcement to every member of a club
// @Summary Post an announcement
// @Tags announcements
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param clubId formData int true "Club ID"
// @Param title formData string true "Title"
// @Param content formData string true "Content"
// @Param type formData string true "EVENT, GENERAL or URGENT"
// @Param announcementImage formData file false "Image"
// @Success 201 {object} dto.APIResponse{data=dto.AnnouncementResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Not the club's admin"
// @Failure 404 {object} dto.ErrorResponse "User or club not found"
// @Router /clubadmin/announcements [post]
func (c *AnnouncementController) CreateAnnouncement(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	var req dto.CreateAnnouncementRequest
	if err := ctx.ShouldBind(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}
	image, ok := formImage(ctx, c.images, "announcementImage")
	if !ok {
		return
	}

	resp, err := c.announcementService.CreateAnnouncement(ctx, actor, &req, image)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(resp, "Announcement created successfully"))
}

// GetAnnouncements lists a user's announcements in a club, unseen first
// @Summary List announcements
// @Tags announcements
// @Produce json
// @Security BearerAuth
// @Param userId path int true "User ID"
// @Param clubId path int true "Club ID"
// @Param type query string false "EVENT, GENERAL, URGENT or ALL"
// @Param page query int false "Page" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse{items=[]dto.AnnouncementResponse}}
// @Failure 403 {object} dto.ErrorResponse "Not your announcements"
// @Router /student/announcements/{userId}/club/{clubId} [get]
func (c *AnnouncementController) GetAnnouncements(ctx *gin.Context) {
	c.list(ctx, false)
}

// GetUnseenAnnouncements lists a user's unseen announcements in a club
// @Summary List unseen announcements
// @Tags announcements
// @Produce json
// @Security BearerAuth
// @Param userId path int true "User ID"
// @Param clubId path int true "Club ID"
// @Param type query string false "EVENT, GENERAL, URGENT or ALL"
// @Param page query int false "Page" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse{items=[]dto.AnnouncementResponse}}
// @Router /student/announcements/{userId}/club/{clubId}/unseen [get]
func (c *AnnouncementController) GetUnseenAnnouncements(ctx *gin.Context) {
	c.list(ctx, true)
}

func (c *AnnouncementController) list(ctx *gin.Context, unseenOnly bool) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	userID, ok := middleware.ParseIDParam(ctx, "userId")
	if !ok {
		return
	}
	clubID, ok := middleware.ParseIDParam(ctx, "clubId")
	if !ok {
		return
	}
	page, size := helpers.ParsePaginationParams(ctx)

	resp, err := c.announcementService.GetAnnouncements(ctx, actor, services.AnnouncementQuery{
		UserID:     userID,
		ClubID:     clubID,
		Type:       ctx.Query("type"),
		UnseenOnly: unseenOnly,
		Page:       page,
		Size:       size,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, "Announcements retrieved successfully"))
}

// MarkSeen marks an announcement as seen by a user
// @Summary Mark an announcement seen
// @Tags announcements
// @Produce json
// @Security BearerAuth
// @Param userId path int true "User ID"
// @Param announcementId path int true "Announcement ID"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.ErrorResponse "Announcement not delivered to this user"
// @Router /user/announcements/{userId}/{announcementId}/mark-seen [patch]
func (c *AnnouncementController) MarkSeen(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	userID, ok := middleware.ParseIDParam(ctx, "userId")
	if !ok {
		return
	}
	announcementID, ok := middleware.ParseIDParam(ctx, "announcementId")
	if !ok {
		return
	}

	if err := c.announcementService.MarkSeen(ctx, actor, userID, announcementID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Announcement marked as seen"))
}
