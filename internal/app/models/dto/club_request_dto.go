package dto

import (
	"time"

	"github.com/elevate/clubhub/internal/app/models"
)

// CreateClubRequestRequest is a student's application to join a club
type CreateClubRequestRequest struct {
	UserID      int64   `form:"userId" json:"userId" binding:"required,gt=0" example:"7"`
	ClubID      int64   `form:"clubId" json:"clubId" binding:"required,gt=0" example:"2"`
	UserComment *string `form:"userComment" json:"userComment" binding:"omitempty,max=500" example:"I play every weekend"`
}

// ClubRequestResponse is a club request as returned by the API
type ClubRequestResponse struct {
	ID              int64         `json:"id" example:"11"`
	UserID          int64         `json:"userId" example:"7"`
	ClubID          int64         `json:"clubId" example:"2"`
	UserComment     *string       `json:"userComment,omitempty"`
	ApproverComment *string       `json:"approverComment,omitempty"`
	Status          string        `json:"status" example:"PENDING"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
	User            *UserSummary  `json:"user,omitempty"`
	Club            *ClubResponse `json:"club,omitempty"`
}

// FromClubRequest converts a model request into its API form
func FromClubRequest(r *models.ClubRequest) *ClubRequestResponse {
	if r == nil {
		return nil
	}
	return &ClubRequestResponse{
		ID:              r.ID,
		UserID:          r.UserID,
		ClubID:          r.ClubID,
		UserComment:     r.UserComment,
		ApproverComment: r.ApproverComment,
		Status:          string(r.Status),
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
		User:            SummaryOf(r.User),
		Club:            FromClub(r.Club),
	}
}

// FromClubRequests converts a slice of requests
func FromClubRequests(requests []*models.ClubRequest) []*ClubRequestResponse {
	out := make([]*ClubRequestResponse, 0, len(requests))
	for _, r := range requests {
		out = append(out, FromClubRequest(r))
	}
	return out
}
