package dto

import (
	"time"

	"github.com/elevate/clubhub/internal/app/models"
)

// UserResponse is a user as returned by the API. The password is never included.
type UserResponse struct {
	ID           int64      `json:"id" example:"1"`
	FirstName    string     `json:"firstName" example:"Ada"`
	LastName     string     `json:"lastName" example:"Lovelace"`
	Email        string     `json:"email" example:"ada@example.com"`
	Phone        *string    `json:"phone,omitempty" example:"5551234567"`
	Bio          *string    `json:"bio,omitempty"`
	Apartment    *string    `json:"apartment,omitempty"`
	Street       *string    `json:"street,omitempty"`
	City         *string    `json:"city,omitempty"`
	State        *string    `json:"state,omitempty"`
	Zipcode      *string    `json:"zipcode,omitempty"`
	Country      *string    `json:"country,omitempty"`
	Birthday     *string    `json:"birthday,omitempty" example:"2001-12-10"`
	ProfilePhoto *string    `json:"profilePhoto,omitempty"`
	Role         string     `json:"role" example:"STUDENT"`
	JoinedClubs  int        `json:"joinedClubs" example:"2"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    *time.Time `json:"updatedAt,omitempty"`
}

// UserSummary is the short user form embedded in other responses
type UserSummary struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email,omitempty"`
	Role      string `json:"role,omitempty"`
}

// UpdateProfileRequest is the multipart form for a student updating their own profile
type UpdateProfileRequest struct {
	FirstName string  `form:"firstName" binding:"required,max=50"`
	LastName  string  `form:"lastName" binding:"required,max=50"`
	Phone     *string `form:"phone" binding:"omitempty,phone"`
	Bio       *string `form:"bio" binding:"omitempty,max=500"`
	Apartment *string `form:"apartment" binding:"omitempty,max=100"`
	Street    *string `form:"street" binding:"omitempty,max=100"`
	City      *string `form:"city" binding:"omitempty,max=50"`
	State     *string `form:"state" binding:"omitempty,max=50"`
	Zipcode   *string `form:"zipcode" binding:"omitempty,max=10"`
	Country   *string `form:"country" binding:"omitempty,max=50"`
	Birthday  *string `form:"birthday" binding:"omitempty,datetime=2006-01-02"`
}

// AdminUpdateUserRequest lets a super admin also change email, password and role
type AdminUpdateUserRequest struct {
	UpdateProfileRequest
	Email    string  `form:"email" binding:"required,clubemail"`
	Password *string `form:"password" binding:"omitempty,min=6"`
	Role     string  `form:"role" binding:"required,oneof=STUDENT CLUB_ADMIN SUPER_ADMIN"`
}

const dateLayout = "2006-01-02"

// FromUser converts a model user into its API form
func FromUser(u *models.User) *UserResponse {
	if u == nil {
		return nil
	}
	resp := &UserResponse{
		ID:           u.ID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Email:        u.Email,
		Phone:        u.Phone,
		Bio:          u.Bio,
		Apartment:    u.Apartment,
		Street:       u.Street,
		City:         u.City,
		State:        u.State,
		Zipcode:      u.Zipcode,
		Country:      u.Country,
		ProfilePhoto: EncodeImage(u.ProfilePhoto),
		Role:         string(u.Role),
		JoinedClubs:  u.JoinedClubs,
		CreatedAt:    u.CreatedAt,
	}
	if u.Birthday != nil {
		b := u.Birthday.Format(dateLayout)
		resp.Birthday = &b
	}
	if !u.UpdatedAt.IsZero() {
		updated := u.UpdatedAt
		resp.UpdatedAt = &updated
	}
	return resp
}

// FromUsers converts a slice of users
func FromUsers(users []*models.User) []*UserResponse {
	out := make([]*UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, FromUser(u))
	}
	return out
}

// SummaryOf returns the short form of a user, nil when u is nil
func SummaryOf(u *models.User) *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName, Email: u.Email, Role: string(u.Role)}
}
