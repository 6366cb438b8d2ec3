// Package seed creates the data a fresh installation needs
package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	appModels "github.com/elevate/clubhub/internal/app/models"
	"github.com/elevate/clubhub/internal/pkg/apperrors"
	"github.com/elevate/clubhub/internal/pkg/auth"
	"github.com/rs/zerolog"
)

// UserCreator is the slice of the user repository the seed needs
type UserCreator interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user *appModels.User) (int64, error)
}

// AdminAccount holds the credentials of the default super admin
type AdminAccount struct {
	Email    string
	Password string
}

// CreateDefaultData creates the default super admin if no account uses its email
func CreateDefaultData(ctx context.Context, users UserCreator, admin AdminAccount, lgr zerolog.Logger) error {
	email := strings.ToLower(strings.TrimSpace(admin.Email))
	if email == "" || admin.Password == "" {
		lgr.Warn().Msg("Seed admin credentials not configured, skipping default admin")
		return nil
	}

	exists, err := users.ExistsByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("checking default admin: %w", err)
	}
	if exists {
		lgr.Info().Str("email", email).Msg("Admin user already exists, skipping creation")
		return nil
	}

	hashedPassword, err := auth.HashPassword(admin.Password)
	if err != nil {
		return fmt.Errorf("hashing default admin password: %w", err)
	}

	id, err := users.Create(ctx, &appModels.User{
		Email:     email,
		Password:  hashedPassword,
		FirstName: "System",
		LastName:  "Administrator",
		Role:      appModels.RoleSuperAdmin,
	})
	if errors.Is(err, apperrors.ErrUserAlreadyExists) {
		// another instance seeded concurrently
		return nil
	}
	if err != nil {
		return fmt.Errorf("creating default admin: %w", err)
	}

	lgr.Info().Int64("adminId", id).Str("email", email).Msg("Default admin user created successfully")
	return nil
}
