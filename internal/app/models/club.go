package models

import "time"

// Club defines a student club. AvailableSlots is computed by the database
// (total_slots - no_of_members) and is read-only here.
type Club struct {
	ID                  int64     `json:"id" db:"id"`
	ClubName            string    `json:"clubName" db:"club_name"`
	Description         string    `json:"description" db:"description"`
	TotalSlots          int       `json:"totalSlots" db:"total_slots"`
	NoOfMembers         int       `json:"noOfMembers" db:"no_of_members"`
	AvailableSlots      int       `json:"availableSlots" db:"available_slots"`
	ClubAdminID         *int64    `json:"adminId,omitempty" db:"club_admin_id"`
	ClubImage           []byte    `json:"-" db:"club_image"`
	ClubBackgroundImage []byte    `json:"-" db:"club_background_image"`
	CreatedAt           time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt           time.Time `json:"updatedAt" db:"updated_at"`
}

// HasFreeSlot reports whether another member fits
func (c *Club) HasFreeSlot() bool {
	return c.NoOfMembers < c.TotalSlots
}

// UserClub records an approved membership
type UserClub struct {
	ID              int64      `json:"id" db:"id"`
	UserID          int64      `json:"userId" db:"user_id"`
	ClubID          int64      `json:"clubId" db:"club_id"`
	Comment         *string    `json:"comment,omitempty" db:"comment"`
	JoinedDate      time.Time  `json:"joinedDate" db:"joined_date"`
	TerminationDate *time.Time `json:"terminationDate,omitempty" db:"termination_date"`
}
