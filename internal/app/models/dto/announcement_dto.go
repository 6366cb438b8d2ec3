package dto

import (
	"time"

	"github.com/elevate/clubhub/internal/app/models"
)

// CreateAnnouncementRequest is the multipart announcement form; announcementImage is read
// separately and the poster is the authenticated user
type CreateAnnouncementRequest struct {
	ClubID  int64  `form:"clubId" binding:"required,gt=0"`
	Title   string `form:"title" binding:"required,max=100"`
	Content string `form:"content" binding:"required,max=1000"`
	Type    string `form:"type" binding:"required,oneof=EVENT GENERAL URGENT"`
}

// AnnouncementResponse is an announcement as seen by one user
type AnnouncementResponse struct {
	ID        int64        `json:"id" example:"5"`
	ClubID    int64        `json:"clubId" example:"2"`
	Title     string       `json:"title" example:"Spring tournament"`
	Content   string       `json:"content"`
	Type      string       `json:"type" example:"EVENT"`
	Image     *string      `json:"announcementImage,omitempty"`
	PostedBy  *UserSummary `json:"postedBy,omitempty"`
	IsSeen    bool         `json:"isSeen"`
	SeenAt    *time.Time   `json:"seenAt,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// FromAnnouncement converts a freshly created announcement, seen by its poster
func FromAnnouncement(a *models.Announcement) *AnnouncementResponse {
	if a == nil {
		return nil
	}
	return &AnnouncementResponse{
		ID:        a.ID,
		ClubID:    a.ClubID,
		Title:     a.Title,
		Content:   a.Content,
		Type:      string(a.Type),
		Image:     EncodeImage(a.Image),
		PostedBy:  &UserSummary{ID: a.PostedBy},
		IsSeen:    true,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// FromAnnouncementView converts a per-user announcement row
func FromAnnouncementView(v *models.AnnouncementView) *AnnouncementResponse {
	if v == nil {
		return nil
	}
	resp := FromAnnouncement(&v.Announcement)
	resp.IsSeen = v.IsSeen
	resp.SeenAt = v.SeenAt
	if v.PostedBy == 0 {
		resp.PostedBy = nil
	} else {
		resp.PostedBy.FirstName = v.PosterFirstName
		resp.PostedBy.LastName = v.PosterLastName
	}
	return resp
}

// FromAnnouncementViews converts a slice of per-user rows
func FromAnnouncementViews(views []*models.AnnouncementView) []*AnnouncementResponse {
	out := make([]*AnnouncementResponse, 0, len(views))
	for _, v := range views {
		out = append(out, FromAnnouncementView(v))
	}
	return out
}
