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

// UserController handles user-related HTTP requests
type UserController struct {
	userService services.UserService
	images      filestorage.ImageReader
}

// NewUserController creates a new UserController
func NewUserController(userService services.UserService, images filestorage.ImageReader) *UserController {
	return &UserController{
		userService: userService,
		images:      images,
	}
}

// GetAllUsers lists every user
// @Summary List users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.UserResponse}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Router /admin/users [get]
func (c *UserController) GetAllUsers(ctx *gin.Context) {
	users, err := c.userService.GetAllUsers(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(users, "Users retrieved successfully"))
}

// GetUserByID retrieves a user by ID
// @Summary Get user by ID
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid user ID"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /admin/users/{id} [get]
func (c *UserController) GetUserByID(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	user, err := c.userService.GetUserByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(user, "User retrieved successfully"))
}

// GetUserByEmail retrieves a user by email
// @Summary Get user by email
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param email query string true "Email"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse}
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /student/users/email [get]
func (c *UserController) GetUserByEmail(ctx *gin.Context) {
	user, err := c.userService.GetUserByEmail(ctx, ctx.Query("email"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(user, "User retrieved successfully"))
}

// SearchUsers matches users by email or name prefix
// @Summary Search users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param q query string true "Email or name prefix"
// @Success 200 {object} dto.APIResponse{data=[]dto.UserResponse}
// @Failure 400 {object} dto.ErrorResponse "Empty query"
// @Router /student/users/search [get]
func (c *UserController) SearchUsers(ctx *gin.Context) {
	users, err := c.userService.SearchUsers(ctx, ctx.Query("q"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(users, "Users retrieved successfully"))
}

// GetProfile returns the caller's own profile
// @Summary Get own profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse}
// @Failure 403 {object} dto.ErrorResponse "Not your profile"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /student/profile/{id} [get]
func (c *UserController) GetProfile(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	user, err := c.userService.GetProfile(ctx, actor, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(user, "Profile retrieved successfully"))
}

// UpdateProfile replaces the caller's profile fields
// @Summary Update own profile
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param firstName formData string true "First name"
// @Param lastName formData string true "Last name"
// @Param phone formData string false "Phone"
// @Param bio formData string false "Bio"
// @Param birthday formData string false "Birthday (YYYY-MM-DD)"
// @Param profilePhoto formData file false "Profile photo"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Not your profile"
// @Router /student/profile/{id}/update [put]
func (c *UserController) UpdateProfile(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if err := ctx.ShouldBind(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}
	photo, ok := formImage(ctx, c.images, "profilePhoto")
	if !ok {
		return
	}

	user, err := c.userService.UpdateProfile(ctx, actor, id, &req, photo)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(user, "Profile updated successfully"))
}

// AdminUpdateUser replaces any user's fields including credentials and role
// @Summary Update a user
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param firstName formData string true "First name"
// @Param lastName formData string true "Last name"
// @Param email formData string true "Email"
// @Param password formData string false "New password"
// @Param role formData string true "Role"
// @Param profilePhoto formData file false "Profile photo"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Failure 409 {object} dto.ErrorResponse "Email already in use"
// @Router /admin/users/{id}/update [put]
func (c *UserController) AdminUpdateUser(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.AdminUpdateUserRequest
	if err := ctx.ShouldBind(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}
	photo, ok := formImage(ctx, c.images, "profilePhoto")
	if !ok {
		return
	}

	user, err := c.userService.AdminUpdateUser(ctx, id, &req, photo)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(user, "User updated successfully"))
}

// PatchProfile applies key/value changes to the caller's profile
// @Summary Patch own profile
// @Description Accepts any of firstName, lastName, phone, bio, apartment, street, city, state, zipcode, country, birthday. Blank values are ignored.
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param profilePhoto formData file false "Profile photo"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid field"
// @Failure 403 {object} dto.ErrorResponse "Not your profile"
// @Router /student/profile/{id} [patch]
func (c *UserController) PatchProfile(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	values, err := helpers.CollectPatchValues(ctx, "profilePhoto")
	if err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}
	photo, ok := formImage(ctx, c.images, "profilePhoto")
	if !ok {
		return
	}

	user, err := c.userService.PatchProfile(ctx, actor, id, values, photo)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(user, "Profile updated successfully"))
}

// UpdateProfilePhoto replaces the caller's profile photo
// @Summary Update profile photo
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param profilePhoto formData file true "Profile photo"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse}
// @Failure 400 {object} dto.ErrorResponse "Missing or invalid image"
// @Router /student/update/profile-photo/{id} [patch]
func (c *UserController) UpdateProfilePhoto(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	photo, ok := formImage(ctx, c.images, "profilePhoto")
	if !ok {
		return
	}

	user, err := c.userService.UpdateProfilePhoto(ctx, actor, id, photo)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(user, "Profile photo updated successfully"))
}

// DeleteUser removes a user and frees the seats they held
// @Summary Delete a user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /admin/users/{id} [delete]
func (c *UserController) DeleteUser(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.userService.DeleteUser(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "User deleted successfully"))
}
