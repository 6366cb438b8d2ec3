package models

import "time"

// Announcement is a post made to every member of a club
type Announcement struct {
	ID        int64            `json:"id" db:"id"`
	PostedBy  int64            `json:"postedBy" db:"posted_by"`
	ClubID    int64            `json:"clubId" db:"club_id"`
	Title     string           `json:"title" db:"title"`
	Content   string           `json:"content" db:"content"`
	Type      AnnouncementType `json:"type" db:"type"`
	Image     []byte           `json:"-" db:"image"`
	CreatedAt time.Time        `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time        `json:"updatedAt" db:"updated_at"`
}

// UserAnnouncement tracks whether one user has seen one announcement
type UserAnnouncement struct {
	UserID         int64      `json:"userId" db:"user_id"`
	AnnouncementID int64      `json:"announcementId" db:"announcement_id"`
	IsSeen         bool       `json:"isSeen" db:"is_seen"`
	SeenAt         *time.Time `json:"seenAt,omitempty" db:"seen_at"`
}

// AnnouncementView is an announcement as seen by one user
type AnnouncementView struct {
	Announcement
	PosterFirstName string     `json:"posterFirstName"`
	PosterLastName  string     `json:"posterLastName"`
	IsSeen          bool       `json:"isSeen"`
	SeenAt          *time.Time `json:"seenAt,omitempty"`
}
