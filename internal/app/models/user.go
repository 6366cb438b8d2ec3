package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID           int64      `json:"id" db:"id" example:"1"`
	FirstName    string     `json:"firstName" db:"first_name" example:"Jane"`
	LastName     string     `json:"lastName" db:"last_name" example:"Doe"`
	Email        string     `json:"email" db:"email" example:"jane@school.edu"`
	Password     string     `json:"-" db:"password"` // bcrypt hash
	Phone        *string    `json:"phone,omitempty" db:"phone" example:"5551234567"`
	Bio          *string    `json:"bio,omitempty" db:"bio"`
	Apartment    *string    `json:"apartment,omitempty" db:"apartment"`
	Street       *string    `json:"street,omitempty" db:"street"`
	City         *string    `json:"city,omitempty" db:"city"`
	State        *string    `json:"state,omitempty" db:"state"`
	Zipcode      *string    `json:"zipcode,omitempty" db:"zipcode"`
	Country      *string    `json:"country,omitempty" db:"country"`
	Birthday     *time.Time `json:"birthday,omitempty" db:"birthday"`
	ProfilePhoto []byte     `json:"-" db:"profile_photo"`
	Role         RoleType   `json:"role" db:"role" example:"STUDENT"`
	JoinedClubs  int        `json:"joinedClubs" db:"joined_clubs" example:"1"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time  `json:"updatedAt" db:"updated_at"`
}

// FullName returns "First Last"
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
