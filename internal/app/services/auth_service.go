package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/elevate/clubhub/internal/app/models"
	"github.com/elevate/clubhub/internal/app/models/dto"
	"github.com/elevate/clubhub/internal/pkg/apperrors"
	"github.com/elevate/clubhub/internal/pkg/auth"
	"github.com/elevate/clubhub/internal/pkg/helpers"
	"github.com/elevate/clubhub/internal/pkg/validation"
	"github.com/rs/zerolog"
)

// AuthService handles authentication operations
type AuthService struct {
	users      UserStore
	jwtService *auth.JWTService
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(users UserStore, jwtService *auth.JWTService, logger zerolog.Logger) *AuthService {
	return &AuthService{
		users:      users,
		jwtService: jwtService,
		logger:     logger,
	}
}

// Login authenticates a user by email and password
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	email := strings.TrimSpace(req.Email)
	if !validation.IsValidEmail(email) {
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, "Invalid email format")
	}
	if req.Password == "" {
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, "Password cannot be empty")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.NewCustomError(apperrors.ErrUserNotFound, "User with email "+email+" not found")
		}
		return nil, err
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		s.logger.Warn().Int64("userId", user.ID).Msg("Failed login attempt")
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.authResponse(user)
}

// Signup registers a new account. Public signup never grants an elevated role.
func (s *AuthService) Signup(ctx context.Context, req *dto.SignupRequest, photo []byte) (*dto.UserResponse, error) {
	email := strings.TrimSpace(req.Email)
	if !validation.IsValidEmail(email) {
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, "Invalid email format")
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("error checking if email exists: %w", err)
	}
	if exists {
		return nil, apperrors.NewCustomError(apperrors.ErrUserAlreadyExists, "User with email "+email+" already exists")
	}

	if req.Role != nil && models.RoleType(*req.Role) != models.RoleStudent {
		s.logger.Info().Str("email", email).Str("requestedRole", *req.Role).Msg("Signup role downgraded to STUDENT")
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Email:        email,
		Password:     hashed,
		Role:         models.RoleStudent,
		ProfilePhoto: photo,
	}
	if err := applyProfile(user, dto.UpdateProfileRequest{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Bio:       req.Bio,
		Apartment: req.Apartment,
		Street:    req.Street,
		City:      req.City,
		State:     req.State,
		Zipcode:   req.Zipcode,
		Country:   req.Country,
		Birthday:  req.Birthday,
	}); err != nil {
		return nil, err
	}

	if _, err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("userId", user.ID).Msg("User signed up")
	return dto.FromUser(user), nil
}

func (s *AuthService) authResponse(user *models.User) (*dto.AuthResponse, error) {
	token, expiresIn, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}
	return &dto.AuthResponse{
		Token: dto.TokenResponse{
			AccessToken: token,
			TokenType:   "Bearer",
			ExpiresIn:   int64(expiresIn),
		},
		User: dto.FromUser(user),
	}, nil
}

// applyProfile copies profile fields onto user. Blank optional values are stored as NULL.
func applyProfile(user *models.User, p dto.UpdateProfileRequest) error {
	birthday, err := helpers.ParseDate(p.Birthday)
	if err != nil {
		return apperrors.NewCustomError(apperrors.ErrValidationFailed, "Birthday must be in YYYY-MM-DD format")
	}
	if p.Phone != nil && strings.TrimSpace(*p.Phone) != "" && !validation.IsValidPhone(strings.TrimSpace(*p.Phone)) {
		return apperrors.NewCustomError(apperrors.ErrValidationFailed, "Phone number must be 10 digits")
	}

	user.FirstName = strings.TrimSpace(p.FirstName)
	user.LastName = strings.TrimSpace(p.LastName)
	user.Phone = blankToNil(p.Phone)
	user.Bio = blankToNil(p.Bio)
	user.Apartment = blankToNil(p.Apartment)
	user.Street = blankToNil(p.Street)
	user.City = blankToNil(p.City)
	user.State = blankToNil(p.State)
	user.Zipcode = blankToNil(p.Zipcode)
	user.Country = blankToNil(p.Country)
	user.Birthday = birthday
	return nil
}
