package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/elevate/clubhub/internal/app/models"
	"github.com/elevate/clubhub/internal/pkg/apperrors"
	"github.com/elevate/clubhub/internal/pkg/dberrors"
	"github.com/elevate/clubhub/internal/pkg/logger"
	"github.com/jackc/pgx/v5"
)

const usersEmailConstraint = "users_email_key"

var userColumns = []string{
	"u.id", "u.first_name", "u.last_name", "u.email", "u.password", "u.phone", "u.bio",
	"u.apartment", "u.street", "u.city", "u.state", "u.zipcode", "u.country", "u.birthday",
	"u.profile_photo", "u.role", "u.joined_clubs", "u.created_at", "u.updated_at",
}

// UserRepository handles database operations for users
type UserRepository struct {
	db DBTX
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Password, &u.Phone, &u.Bio,
		&u.Apartment, &u.Street, &u.City, &u.State, &u.Zipcode, &u.Country, &u.Birthday,
		&u.ProfilePhoto, &u.Role, &u.JoinedClubs, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) queryOne(ctx context.Context, qb squirrel.SelectBuilder) (*models.User, error) {
	sql, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	user, err := scanUser(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		logger.Error().Err(err).Msg("Error scanning user")
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	return user, nil
}

func (r *UserRepository) queryMany(ctx context.Context, qb squirrel.SelectBuilder) ([]*models.User, error) {
	sql, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	users := []*models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Create inserts a user and sets its ID and timestamps
func (r *UserRepository) Create(ctx context.Context, user *models.User) (int64, error) {
	if user.Role == "" {
		user.Role = models.RoleStudent
	}

	sql, args, err := psql.Insert("users").
		Columns("first_name", "last_name", "email", "password", "phone", "bio", "apartment",
			"street", "city", "state", "zipcode", "country", "birthday", "profile_photo", "role").
		Values(user.FirstName, user.LastName, user.Email, user.Password, user.Phone, user.Bio,
			user.Apartment, user.Street, user.City, user.State, user.Zipcode, user.Country,
			user.Birthday, user.ProfilePhoto, user.Role).
		Suffix("RETURNING id, joined_clubs, created_at, updated_at").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building SQL: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&user.ID, &user.JoinedClubs, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, usersEmailConstraint) {
			return 0, apperrors.ErrUserAlreadyExists
		}
		logger.Error().Err(err).Str("email", user.Email).Msg("Error creating user")
		return 0, fmt.Errorf("error creating user: %w", err)
	}
	return user.ID, nil
}

// FindByID retrieves a user by ID
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	return r.queryOne(ctx, psql.Select(userColumns...).From("users u").Where(squirrel.Eq{"u.id": id}))
}

// FindByIDForUpdate retrieves a user by ID and locks the row until the transaction ends
func (r *UserRepository) FindByIDForUpdate(ctx context.Context, id int64) (*models.User, error) {
	return r.queryOne(ctx, psql.Select(userColumns...).From("users u").Where(squirrel.Eq{"u.id": id}).Suffix("FOR UPDATE"))
}

// FindByEmail retrieves a user by email, case-insensitively
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.queryOne(ctx, psql.Select(userColumns...).From("users u").
		Where(squirrel.Expr("LOWER(u.email) = LOWER(?)", email)))
}

// ExistsByEmail reports whether the email is already registered
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE LOWER(email) = LOWER($1))`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking email: %w", err)
	}
	return exists, nil
}

// FindAll retrieves every user ordered by ID
func (r *UserRepository) FindAll(ctx context.Context) ([]*models.User, error) {
	return r.queryMany(ctx, psql.Select(userColumns...).From("users u").OrderBy("u.id"))
}

// Search matches users whose email, first name or last name starts with prefix
func (r *UserRepository) Search(ctx context.Context, prefix string, limit int) ([]*models.User, error) {
	pattern := strings.ToLower(escapeLike(prefix)) + "%"
	qb := psql.Select(userColumns...).From("users u").
		Where(squirrel.Or{
			squirrel.Expr("LOWER(u.email) LIKE ?", pattern),
			squirrel.Expr("LOWER(u.first_name) LIKE ?", pattern),
			squirrel.Expr("LOWER(u.last_name) LIKE ?", pattern),
		}).
		OrderBy("u.first_name", "u.last_name").
		Limit(uint64(limit))
	return r.queryMany(ctx, qb)
}

// Update writes every mutable column of the user
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	sql, args, err := psql.Update("users").
		Set("first_name", user.FirstName).
		Set("last_name", user.LastName).
		Set("email", user.Email).
		Set("password", user.Password).
		Set("phone", user.Phone).
		Set("bio", user.Bio).
		Set("apartment", user.Apartment).
		Set("street", user.Street).
		Set("city", user.City).
		Set("state", user.State).
		Set("zipcode", user.Zipcode).
		Set("country", user.Country).
		Set("birthday", user.Birthday).
		Set("profile_photo", user.ProfilePhoto).
		Set("role", user.Role).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": user.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&user.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrUserNotFound
		}
		if dberrors.IsDuplicateConstraintError(err, usersEmailConstraint) {
			return apperrors.ErrUserAlreadyExists
		}
		if dberrors.IsStringTooLong(err) {
			return apperrors.NewCustomError(apperrors.ErrValidationFailed, "A profile field exceeds its maximum length")
		}
		logger.Error().Err(err).Int64("userId", user.ID).Msg("Error updating user")
		return fmt.Errorf("error updating user: %w", err)
	}
	return nil
}

// UpdateProfilePhoto replaces the stored profile photo; nil clears it
func (r *UserRepository) UpdateProfilePhoto(ctx context.Context, id int64, photo []byte) error {
	tag, err := r.db.Exec(ctx, `UPDATE users SET profile_photo = $1, updated_at = NOW() WHERE id = $2`, photo, id)
	if err != nil {
		return fmt.Errorf("error updating profile photo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// UpdateRole changes the user's role
func (r *UserRepository) UpdateRole(ctx context.Context, id int64, role models.RoleType) error {
	tag, err := r.db.Exec(ctx, `UPDATE users SET role = $1, updated_at = NOW() WHERE id = $2`, role, id)
	if err != nil {
		return fmt.Errorf("error updating role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// IncrementJoinedClubs adds one to joined_clubs only while it is below limit
func (r *UserRepository) IncrementJoinedClubs(ctx context.Context, id int64, limit int) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET joined_clubs = joined_clubs + 1, updated_at = NOW()
		 WHERE id = $1 AND joined_clubs < $2`, id, limit)
	if err != nil {
		if dberrors.IsCheckViolation(err, "") {
			return apperrors.ErrClubLimitExceeded
		}
		return fmt.Errorf("error incrementing joined clubs: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrClubLimitExceeded
	}
	return nil
}

// DecrementJoinedClubs subtracts one from joined_clubs of every listed user, never below zero
func (r *UserRepository) DecrementJoinedClubs(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	sql, args, err := psql.Update("users").
		Set("joined_clubs", squirrel.Expr("GREATEST(joined_clubs - 1, 0)")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}
	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error decrementing joined clubs: %w", err)
	}
	return nil
}

// Delete removes a user; memberships, requests and seen-records cascade
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// ReconcileJoinedClubs rewrites joined_clubs from user_clubs and returns the corrected row count
func (r *UserRepository) ReconcileJoinedClubs(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE users u
		SET joined_clubs = LEAST(c.cnt, 3), updated_at = NOW()
		FROM (
			SELECT u2.id, COUNT(uc.id) AS cnt
			FROM users u2
			LEFT JOIN user_clubs uc ON uc.user_id = u2.id
			GROUP BY u2.id
		) c
		WHERE u.id = c.id AND u.joined_clubs <> LEAST(c.cnt, 3)`)
	if err != nil {
		return 0, fmt.Errorf("error reconciling joined clubs: %w", err)
	}
	return tag.RowsAffected(), nil
}

// escapeLike escapes LIKE wildcards in user input
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
