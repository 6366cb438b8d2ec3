package controllers

import (
	"net/http"

	"github.com/elevate/clubhub/internal/app/models/dto"
	"github.com/elevate/clubhub/internal/app/services"
	"github.com/elevate/clubhub/internal/middleware"
	"github.com/elevate/clubhub/internal/pkg/filestorage"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// AuthController handles authentication related operations
type AuthController struct {
	authService *services.AuthService
	images      filestorage.ImageReader
	logger      zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService *services.AuthService, images filestorage.ImageReader, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		images:      images,
		logger:      logger,
	}
}

// Login handles user login
// @Summary Log in
// @Description Authenticates a user by email and password and returns a JWT access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.APIResponse{data=dto.AuthResponse} "Login successful"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBind(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid login request payload")
		middleware.HandleValidationError(ctx, err)
		return
	}

	resp, err := c.authService.Login(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, "Login successful"))
}

// Signup handles user registration
// @Summary Register a new user
// @Description Creates a student account. An optional profile photo may be uploaded.
// @Tags auth
// @Accept multipart/form-data
// @Produce json
// @Param firstName formData string true "First name"
// @Param lastName formData string true "Last name"
// @Param email formData string true "Email"
// @Param password formData string true "Password"
// @Param phone formData string false "Phone (10 digits)"
// @Param bio formData string false "Bio"
// @Param apartment formData string false "Apartment"
// @Param street formData string false "Street"
// @Param city formData string false "City"
// @Param state formData string false "State"
// @Param zipcode formData string false "Zip code"
// @Param country formData string false "Country"
// @Param birthday formData string false "Birthday (YYYY-MM-DD)"
// @Param role formData string false "Requested role"
// @Param profilePhoto formData file false "Profile photo"
// @Success 201 {object} dto.APIResponse{data=dto.UserResponse} "User created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 409 {object} dto.ErrorResponse "Email already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/users/signup [post]
func (c *AuthController) Signup(ctx *gin.Context) {
	var req dto.SignupRequest
	if err := ctx.ShouldBind(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid signup request payload")
		middleware.HandleValidationError(ctx, err)
		return
	}

	photo, ok := formImage(ctx, c.images, "profilePhoto")
	if !ok {
		return
	}

	user, err := c.authService.Signup(ctx, &req, photo)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(user, "User created successfully"))
}
