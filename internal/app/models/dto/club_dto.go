package dto

import (
	"time"

	"github.com/elevate/clubhub/internal/app/models"
)

// CreateClubRequest is the multipart form for creating a club. clubImage and
// clubBackgroundImage files are read separately.
type CreateClubRequest struct {
	ClubName    string `form:"clubName" json:"clubName" binding:"required,max=100"`
	Description string `form:"description" json:"description" binding:"required,max=500"`
	TotalSlots  *int   `form:"totalSlots" json:"totalSlots" binding:"omitempty,gt=0"`
	AdminID     *int64 `form:"adminId" json:"adminId" binding:"omitempty,gt=0"`
}

// UpdateClubRequest is the multipart form for a full club update
type UpdateClubRequest struct {
	ClubName    string `form:"clubName" json:"clubName" binding:"required,max=100"`
	Description string `form:"description" json:"description" binding:"required,max=500"`
	TotalSlots  int    `form:"totalSlots" json:"totalSlots" binding:"required,gt=0"`
	AdminID     *int64 `form:"adminId" json:"adminId" binding:"omitempty,gt=0"`
}

// ClubResponse is a club as returned by the API
type ClubResponse struct {
	ID                  int64     `json:"id" example:"1"`
	ClubName            string    `json:"clubName" example:"Chess Club"`
	Description         string    `json:"description" example:"Weekly games and tournaments"`
	TotalSlots          int       `json:"totalSlots" example:"20"`
	NoOfMembers         int       `json:"noOfMembers" example:"12"`
	AvailableSlots      int       `json:"availableSlots" example:"8"`
	AdminID             *int64    `json:"adminId,omitempty" example:"4"`
	ClubImage           *string   `json:"clubImage,omitempty"`
	ClubBackgroundImage *string   `json:"clubBackgroundImage,omitempty"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// FromClub converts a model club into its API form
func FromClub(c *models.Club) *ClubResponse {
	if c == nil {
		return nil
	}
	return &ClubResponse{
		ID:                  c.ID,
		ClubName:            c.ClubName,
		Description:         c.Description,
		TotalSlots:          c.TotalSlots,
		NoOfMembers:         c.NoOfMembers,
		AvailableSlots:      c.AvailableSlots,
		AdminID:             c.ClubAdminID,
		ClubImage:           EncodeImage(c.ClubImage),
		ClubBackgroundImage: EncodeImage(c.ClubBackgroundImage),
		CreatedAt:           c.CreatedAt,
		UpdatedAt:           c.UpdatedAt,
	}
}

// FromClubs converts a slice of clubs
func FromClubs(clubs []*models.Club) []*ClubResponse {
	out := make([]*ClubResponse, 0, len(clubs))
	for _, c := range clubs {
		out = append(out, FromClub(c))
	}
	return out
}
