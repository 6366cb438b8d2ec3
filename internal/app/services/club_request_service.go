package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/elevate/clubhub/internal/app/auth"
	"github.com/elevate/clubhub/internal/app/models"
	"github.com/elevate/clubhub/internal/app/models/dto"
	"github.com/elevate/clubhub/internal/pkg/apperrors"
	"github.com/elevate/clubhub/internal/pkg/cache"
	"github.com/elevate/clubhub/internal/pkg/events"
	"github.com/elevate/clubhub/internal/pkg/helpers"
	"github.com/elevate/clubhub/internal/pkg/metrics"
	"github.com/rs/zerolog"
)

// Patch keys accepted by UpdateRequest
const (
	patchKeyStatus          = "status"
	patchKeyApproverComment = "approverComment"
	patchKeyUserComment     = "userComment"
)

// ClubRequestService drives the membership request workflow
type ClubRequestService interface {
	CreateRequest(ctx context.Context, actor auth.Actor, req *dto.CreateClubRequestRequest) (*dto.ClubRequestResponse, error)
	GetClubRequests(ctx context.Context, actor auth.Actor, clubID int64, status string) ([]*dto.ClubRequestResponse, error)
	GetUserRequests(ctx context.Context, actor auth.Actor, userID int64, status string) ([]*dto.ClubRequestResponse, error)
	UpdateRequest(ctx context.Context, actor auth.Actor, requestID int64, values helpers.PatchValues) (*dto.ClubRequestResponse, error)
	ApproveRequest(ctx context.Context, actor auth.Actor, requestID int64, approverComment *string) (*dto.ClubRequestResponse, error)
	RejectRequest(ctx context.Context, actor auth.Actor, requestID int64, approverComment *string) (*dto.ClubRequestResponse, error)
	WithdrawRequest(ctx context.Context, actor auth.Actor, requestID int64) (*dto.ClubRequestResponse, error)
}

type clubRequestServiceImpl struct {
	stores      Stores
	tx          Transactor
	authz       *auth.AuthorizationService
	cache       cache.Cache
	events      events.Publisher
	memberLimit int
	logger      zerolog.Logger
}

// NewClubRequestService creates a new ClubRequestService
func NewClubRequestService(
	stores Stores,
	tx Transactor,
	cache cache.Cache,
	publisher events.Publisher,
	memberLimit int,
	logger zerolog.Logger,
) ClubRequestService {
	if memberLimit <= 0 {
		memberLimit = DefaultMemberLimit
	}
	return &clubRequestServiceImpl{
		stores:      stores,
		tx:          tx,
		authz:       auth.NewAuthorizationService(stores.Clubs),
		cache:       cache,
		events:      publisher,
		memberLimit: memberLimit,
		logger:      logger,
	}
}

func errAlreadyProcessed(id int64) error {
	return apperrors.NewInvalidRequestError(fmt.Sprintf("Club Request with Id: %d has already been processed", id))
}

// parseStatusFilter maps a status query value to a filter; blank and ALL mean no filter
func parseStatusFilter(status string) (*models.RequestStatus, error) {
	status = strings.ToUpper(strings.TrimSpace(status))
	if status == "" || status == "ALL" {
		return nil, nil
	}
	s := models.RequestStatus(status)
	if !s.IsValid() {
		return nil, apperrors.NewInvalidRequestError("Invalid status: " + status)
	}
	return &s, nil
}

// CreateRequest files a pending membership request after checking, in order, that the
// user and club exist, the user is below the club limit, no pending request exists and
// the user is not already a member
func (s *clubRequestServiceImpl) CreateRequest(ctx context.Context, actor auth.Actor, in *dto.CreateClubRequestRequest) (*dto.ClubRequestResponse, error) {
	if err := auth.ValidateSelf(actor, in.UserID); err != nil {
		return nil, err
	}

	user, err := s.stores.Users.FindByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	club, err := s.stores.Clubs.FindByID(ctx, in.ClubID)
	if err != nil {
		return nil, err
	}
	if user.JoinedClubs >= s.memberLimit {
		return nil, apperrors.NewCustomError(apperrors.ErrClubLimitExceeded,
			fmt.Sprintf("User with Id: %d has already joined %d clubs", user.ID, s.memberLimit))
	}

	pending, err := s.stores.Requests.ExistsPending(ctx, user.ID, club.ID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, apperrors.NewCustomError(apperrors.ErrRequestAlreadyExists,
			"A pending request for this club already exists")
	}

	member, err := s.stores.Memberships.Exists(ctx, user.ID, club.ID)
	if err != nil {
		return nil, err
	}
	if member {
		return nil, apperrors.NewInvalidRequestError("User is already a member of this club")
	}

	req := &models.ClubRequest{
		UserID:      user.ID,
		ClubID:      club.ID,
		UserComment: blankToNil(in.UserComment),
		Status:      models.RequestPending,
	}
	if _, err := s.stores.Requests.Create(ctx, req); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("requestId", req.ID).Int64("userId", user.ID).Int64("clubId", club.ID).Msg("Club request created")
	publish(ctx, s.events, s.logger, events.NewEvent(events.ClubRequestCreated, club.ID, dto.FromClubRequest(req)))
	return dto.FromClubRequest(req), nil
}

// GetClubRequests lists a club's requests for its manager. Without a status filter
// withdrawn requests are left out.
func (s *clubRequestServiceImpl) GetClubRequests(ctx context.Context, actor auth.Actor, clubID int64, status string) ([]*dto.ClubRequestResponse, error) {
	filter, err := parseStatusFilter(status)
	if err != nil {
		return nil, err
	}
	if _, err := s.authz.ValidateClubManager(ctx, actor, clubID); err != nil {
		return nil, err
	}

	requests, err := s.stores.Requests.ListByClub(ctx, clubID, filter)
	if err != nil {
		return nil, err
	}
	return dto.FromClubRequests(requests), nil
}

// GetUserRequests lists every request of a user, optionally by status
func (s *clubRequestServiceImpl) GetUserRequests(ctx context.Context, actor auth.Actor, userID int64, status string) ([]*dto.ClubRequestResponse, error) {
	filter, err := parseStatusFilter(status)
	if err != nil {
		return nil, err
	}
	if err := auth.ValidateSelf(actor, userID); err != nil {
		return nil, err
	}
	if _, err := s.stores.Users.FindByID(ctx, userID); err != nil {
		return nil, err
	}

	requests, err := s.stores.Requests.ListByUser(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	return dto.FromClubRequests(requests), nil
}

// UpdateRequest applies a key/value patch to a pending request. The status key is read
// first so approverComment is only honoured together with a decision.
func (s *clubRequestServiceImpl) UpdateRequest(ctx context.Context, actor auth.Actor, requestID int64, values helpers.PatchValues) (*dto.ClubRequestResponse, error) {
	req, err := s.stores.Requests.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if _, err := s.authz.ValidateClubManager(ctx, actor, req.ClubID); err != nil {
		return nil, err
	}
	if req.Status != models.RequestPending {
		return nil, errAlreadyProcessed(req.ID)
	}

	var decision models.RequestStatus
	if raw, ok := values[patchKeyStatus]; ok {
		switch strings.ToLower(strings.TrimSpace(raw)) {
		case "approved":
			decision = models.RequestApproved
		case "rejected":
			decision = models.RequestRejected
		default:
			return nil, apperrors.NewInvalidRequestError("Invalid status: " + raw)
		}
	}

	var approverComment, userComment *string
	for _, key := range values.Keys() {
		switch key {
		case patchKeyStatus:
		case patchKeyApproverComment:
			if v, ok := values.NonBlank(key); ok && decision != "" {
				approverComment = strPtr(v)
			}
		case patchKeyUserComment:
			if v, ok := values.NonBlank(key); ok {
				userComment = strPtr(v)
			}
		default:
			return nil, apperrors.NewInvalidRequestError("Invalid field: " + key)
		}
	}

	switch decision {
	case models.RequestApproved:
		return s.approve(ctx, actor, requestID, approverComment, userComment)
	case models.RequestRejected:
		return s.reject(ctx, actor, requestID, approverComment, userComment)
	}

	if userComment != nil {
		if err := s.stores.Requests.UpdateUserComment(ctx, requestID, userComment); err != nil {
			return nil, err
		}
		req.UserComment = userComment
	}
	return dto.FromClubRequest(req), nil
}

// ApproveRequest approves a pending request
func (s *clubRequestServiceImpl) ApproveRequest(ctx context.Context, actor auth.Actor, requestID int64, approverComment *string) (*dto.ClubRequestResponse, error) {
	return s.approve(ctx, actor, requestID, blankToNil(approverComment), nil)
}

// RejectRequest rejects a pending request
func (s *clubRequestServiceImpl) RejectRequest(ctx context.Context, actor auth.Actor, requestID int64, approverComment *string) (*dto.ClubRequestResponse, error) {
	return s.reject(ctx, actor, requestID, blankToNil(approverComment), nil)
}

// approve admits the requester in one transaction. Rows are locked request, user, club so
// concurrent decisions on the same request serialise and the loser sees a non-pending
// request. The counter updates are conditional, so the limit and capacity hold even
// against writers that skip the locks.
func (s *clubRequestServiceImpl) approve(ctx context.Context, actor auth.Actor, requestID int64, approverComment, userComment *string) (*dto.ClubRequestResponse, error) {
	var (
		result *models.ClubRequest
		club   *models.Club
	)

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context, tx Stores) error {
		req, err := tx.Requests.FindByIDForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		if req.Status != models.RequestPending {
			return errAlreadyProcessed(req.ID)
		}

		user, err := tx.Users.FindByIDForUpdate(ctx, req.UserID)
		if err != nil {
			return err
		}
		club, err = tx.Clubs.FindByIDForUpdate(ctx, req.ClubID)
		if err != nil {
			return err
		}
		if !auth.CanManage(actor, club) {
			return apperrors.NewUnauthorizedActionError(
				fmt.Sprintf("User %d is not allowed to manage club %d", actor.UserID, club.ID))
		}

		if user.JoinedClubs >= s.memberLimit {
			return apperrors.NewCustomError(apperrors.ErrClubLimitExceeded,
				fmt.Sprintf("User with Id: %d has already joined %d clubs", user.ID, s.memberLimit))
		}
		if !club.HasFreeSlot() {
			return apperrors.NewCustomError(apperrors.ErrClubCapacityExceeded,
				fmt.Sprintf("Club with Id: %d has no available slots", club.ID))
		}
		member, err := tx.Memberships.Exists(ctx, user.ID, club.ID)
		if err != nil {
			return err
		}
		if member {
			return apperrors.NewCustomError(apperrors.ErrRequestAlreadyExists,
				"User is already a member of this club")
		}

		if err := tx.Memberships.Create(ctx, &models.UserClub{
			UserID:  user.ID,
			ClubID:  club.ID,
			Comment: req.UserComment,
		}); err != nil {
			return err
		}
		if err := tx.Users.IncrementJoinedClubs(ctx, user.ID, s.memberLimit); err != nil {
			return err
		}
		if err := tx.Clubs.IncrementMembers(ctx, club.ID); err != nil {
			return err
		}
		club.NoOfMembers++
		club.AvailableSlots = club.TotalSlots - club.NoOfMembers

		if userComment != nil {
			if err := tx.Requests.UpdateUserComment(ctx, req.ID, userComment); err != nil {
				return err
			}
			req.UserComment = userComment
		}
		req.Status = models.RequestApproved
		req.ApproverComment = approverComment
		if err := tx.Requests.UpdateStatus(ctx, req); err != nil {
			return err
		}

		result = req
		return nil
	})
	if err != nil {
		metrics.RecordDecision(decisionOutcome(err))
		s.logger.Warn().Err(err).Int64("requestId", requestID).Msg("Club request approval refused")
		return nil, err
	}

	metrics.RecordDecision(metrics.OutcomeApproved)
	invalidateClubs(ctx, s.cache, s.logger, club)
	s.logger.Info().Int64("requestId", result.ID).Int64("userId", result.UserID).Int64("clubId", result.ClubID).Msg("Club request approved")
	publish(ctx, s.events, s.logger, events.NewEvent(events.ClubRequestApproved, result.ClubID, dto.FromClubRequest(result)))

	result.Club = club
	return dto.FromClubRequest(result), nil
}

func (s *clubRequestServiceImpl) reject(ctx context.Context, actor auth.Actor, requestID int64, approverComment, userComment *string) (*dto.ClubRequestResponse, error) {
	var result *models.ClubRequest

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context, tx Stores) error {
		req, err := tx.Requests.FindByIDForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		if req.Status != models.RequestPending {
			return errAlreadyProcessed(req.ID)
		}
		club, err := tx.Clubs.FindByID(ctx, req.ClubID)
		if err != nil {
			return err
		}
		if !auth.CanManage(actor, club) {
			return apperrors.NewUnauthorizedActionError(
				fmt.Sprintf("User %d is not allowed to manage club %d", actor.UserID, club.ID))
		}

		if userComment != nil {
			if err := tx.Requests.UpdateUserComment(ctx, req.ID, userComment); err != nil {
				return err
			}
			req.UserComment = userComment
		}
		req.Status = models.RequestRejected
		req.ApproverComment = approverComment
		if err := tx.Requests.UpdateStatus(ctx, req); err != nil {
			return err
		}
		result = req
		return nil
	})
	if err != nil {
		metrics.RecordDecision(decisionOutcome(err))
		return nil, err
	}

	metrics.RecordDecision(metrics.OutcomeRejected)
	s.logger.Info().Int64("requestId", result.ID).Int64("clubId", result.ClubID).Msg("Club request rejected")
	publish(ctx, s.events, s.logger, events.NewEvent(events.ClubRequestRejected, result.ClubID, dto.FromClubRequest(result)))
	return dto.FromClubRequest(result), nil
}

// WithdrawRequest lets the requester take back a pending request
func (s *clubRequestServiceImpl) WithdrawRequest(ctx context.Context, actor auth.Actor, requestID int64) (*dto.ClubRequestResponse, error) {
	var result *models.ClubRequest

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context, tx Stores) error {
		req, err := tx.Requests.FindByIDForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		if err := auth.ValidateSelf(actor, req.UserID); err != nil {
			return err
		}
		if req.Status != models.RequestPending {
			return apperrors.NewInvalidRequestError(
				fmt.Sprintf("Club Request with Id: %d is %s and cannot be withdrawn", req.ID, req.Status))
		}
		req.Status = models.RequestWithdrawn
		if err := tx.Requests.UpdateStatus(ctx, req); err != nil {
			return err
		}
		result = req
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordDecision(metrics.OutcomeWithdrawn)
	publish(ctx, s.events, s.logger, events.NewEvent(events.ClubRequestWithdrawn, result.ClubID, dto.FromClubRequest(result)))
	return dto.FromClubRequest(result), nil
}

func decisionOutcome(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrClubLimitExceeded):
		return metrics.OutcomeLimitExceeded
	case errors.Is(err, apperrors.ErrClubCapacityExceeded):
		return metrics.OutcomeCapacityExceeded
	case errors.Is(err, apperrors.ErrRequestAlreadyExists):
		return metrics.OutcomeAlreadyMember
	case errors.Is(err, apperrors.ErrInvalidRequest):
		return metrics.OutcomeAlreadyProcessed
	default:
		return "error"
	}
}

// blankToNil trims s and returns nil for missing or blank input
func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
