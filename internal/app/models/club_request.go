package models

import "time"

// ClubRequest is a student's application to join a club
type ClubRequest struct {
	ID              int64         `json:"id" db:"id"`
	UserID          int64         `json:"userId" db:"user_id"`
	ClubID          int64         `json:"clubId" db:"club_id"`
	UserComment     *string       `json:"userComment,omitempty" db:"user_comment"`
	ApproverComment *string       `json:"approverComment,omitempty" db:"approver_comment"`
	Status          RequestStatus `json:"status" db:"status"`
	CreatedAt       time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time     `json:"updatedAt" db:"updated_at"`

	// Related entities
	User *User `json:"user,omitempty"`
	Club *Club `json:"club,omitempty"`
}
