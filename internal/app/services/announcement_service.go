package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/elevate/clubhub/internal/app/auth"
	"github.com/elevate/clubhub/internal/app/models"
	"github.com/elevate/clubhub/internal/app/models/dto"
	"github.com/elevate/clubhub/internal/app/repositories"
	"github.com/elevate/clubhub/internal/pkg/apperrors"
	"github.com/elevate/clubhub/internal/pkg/events"
	"github.com/elevate/clubhub/internal/pkg/helpers"
	"github.com/rs/zerolog"
)

// AnnouncementQuery selects a page of a user's announcements in one club
type AnnouncementQuery struct {
	UserID     int64
	ClubID     int64
	Type       string
	UnseenOnly bool
	Page       int
	Size       int
}

// AnnouncementService defines announcement operations
type AnnouncementService interface {
	CreateAnnouncement(ctx context.Context, actor auth.Actor, req *dto.CreateAnnouncementRequest, image []byte) (*dto.AnnouncementResponse, error)
	GetAnnouncements(ctx context.Context, actor auth.Actor, q AnnouncementQuery) (*dto.PaginatedResponse, error)
	MarkSeen(ctx context.Context, actor auth.Actor, userID, announcementID int64) error
}

type announcementServiceImpl struct {
	stores Stores
	tx     Transactor
	events events.Publisher
	logger zerolog.Logger
}

// NewAnnouncementService creates a new AnnouncementService
func NewAnnouncementService(stores Stores, tx Transactor, publisher events.Publisher, logger zerolog.Logger) AnnouncementService {
	return &announcementServiceImpl{
		stores: stores,
		tx:     tx,
		events: publisher,
		logger: logger,
	}
}

// CreateAnnouncement posts to every current member of the club. The poster and club
// admins among the members start with the announcement already seen.
func (s *announcementServiceImpl) CreateAnnouncement(ctx context.Context, actor auth.Actor, req *dto.CreateAnnouncementRequest, image []byte) (*dto.AnnouncementResponse, error) {
	poster, err := s.stores.Users.FindByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	club, err := s.stores.Clubs.FindByID(ctx, req.ClubID)
	if err != nil {
		return nil, err
	}
	posterActor := auth.Actor{UserID: poster.ID, Email: poster.Email, Role: poster.Role}
	if !auth.CanManage(posterActor, club) {
		return nil, apperrors.NewUnauthorizedActionError(
			fmt.Sprintf("User %d is not allowed to post announcements for club %d", poster.ID, club.ID))
	}

	annType := models.AnnouncementType(strings.ToUpper(strings.TrimSpace(req.Type)))
	if !annType.IsValid() {
		return nil, apperrors.NewInvalidRequestError("Invalid announcement type: " + req.Type)
	}

	a := &models.Announcement{
		PostedBy: poster.ID,
		ClubID:   club.ID,
		Title:    strings.TrimSpace(req.Title),
		Content:  strings.TrimSpace(req.Content),
		Type:     annType,
		Image:    image,
	}

	recipients := 0
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context, tx Stores) error {
		if _, err := tx.Announcements.Create(ctx, a); err != nil {
			return err
		}
		members, err := tx.Memberships.ListMembersByClub(ctx, club.ID)
		if err != nil {
			return err
		}

		rows := make([]repositories.Recipient, 0, len(members)+1)
		posterIncluded := false
		for _, m := range members {
			seen := m.ID == poster.ID || m.Role == models.RoleClubAdmin
			posterIncluded = posterIncluded || m.ID == poster.ID
			rows = append(rows, repositories.Recipient{UserID: m.ID, IsSeen: seen})
		}
		if !posterIncluded {
			rows = append(rows, repositories.Recipient{UserID: poster.ID, IsSeen: true})
		}
		recipients = len(rows)
		return tx.Announcements.AddRecipients(ctx, a.ID, rows)
	})
	if err != nil {
		return nil, err
	}

	resp := dto.FromAnnouncement(a)
	resp.PostedBy = dto.SummaryOf(poster)
	s.logger.Info().Int64("announcementId", a.ID).Int64("clubId", club.ID).Int("recipients", recipients).Msg("Announcement created")
	publish(ctx, s.events, s.logger, events.NewEvent(events.AnnouncementCreated, club.ID, map[string]interface{}{
		"announcementId": a.ID,
		"title":          a.Title,
		"type":           a.Type,
		"recipients":     recipients,
	}))
	return resp, nil
}

// GetAnnouncements pages through a user's announcements of one club, unseen first and
// newest first within each group
func (s *announcementServiceImpl) GetAnnouncements(ctx context.Context, actor auth.Actor, q AnnouncementQuery) (*dto.PaginatedResponse, error) {
	if err := auth.ValidateSelf(actor, q.UserID); err != nil {
		return nil, err
	}
	if _, err := s.stores.Users.FindByID(ctx, q.UserID); err != nil {
		return nil, err
	}
	if _, err := s.stores.Clubs.FindByID(ctx, q.ClubID); err != nil {
		return nil, err
	}

	filter := repositories.AnnouncementFilter{
		UserID:     q.UserID,
		ClubID:     q.ClubID,
		UnseenOnly: q.UnseenOnly,
	}
	if t := strings.ToUpper(strings.TrimSpace(q.Type)); t != "" && t != "ALL" {
		annType := models.AnnouncementType(t)
		if !annType.IsValid() {
			return nil, apperrors.NewInvalidRequestError("Invalid announcement type: " + q.Type)
		}
		filter.Type = &annType
	}
	filter.Offset, filter.Limit = helpers.CalculateOffsetLimit(q.Page, q.Size)

	views, total, err := s.stores.Announcements.ListForUser(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &dto.PaginatedResponse{
		Items:      dto.FromAnnouncementViews(views),
		Pagination: helpers.NewPaginationInfo(total, q.Page, filter.Limit),
	}, nil
}

// MarkSeen flags one announcement as seen by the user
func (s *announcementServiceImpl) MarkSeen(ctx context.Context, actor auth.Actor, userID, announcementID int64) error {
	if err := auth.ValidateSelf(actor, userID); err != nil {
		return err
	}
	return s.stores.Announcements.MarkSeen(ctx, userID, announcementID)
}
