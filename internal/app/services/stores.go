package services

import (
	"context"

	"github.com/elevate/clubhub/internal/app/models"
	"github.com/elevate/clubhub/internal/app/repositories"
)

// UserStore is the persistence surface the services need for users
type UserStore interface {
	Create(ctx context.Context, user *models.User) (int64, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	FindByIDForUpdate(ctx context.Context, id int64) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	FindAll(ctx context.Context) ([]*models.User, error)
	Search(ctx context.Context, prefix string, limit int) ([]*models.User, error)
	Update(ctx context.Context, user *models.User) error
	UpdateProfilePhoto(ctx context.Context, id int64, photo []byte) error
	UpdateRole(ctx context.Context, id int64, role models.RoleType) error
	IncrementJoinedClubs(ctx context.Context, id int64, limit int) error
	DecrementJoinedClubs(ctx context.Context, ids []int64) error
	Delete(ctx context.Context, id int64) error
}

// ClubStore is the persistence surface for clubs
type ClubStore interface {
	Create(ctx context.Context, club *models.Club) (int64, error)
	FindByID(ctx context.Context, id int64) (*models.Club, error)
	FindByIDForUpdate(ctx context.Context, id int64) (*models.Club, error)
	FindByName(ctx context.Context, name string) (*models.Club, error)
	FindAll(ctx context.Context) ([]*models.Club, error)
	Update(ctx context.Context, club *models.Club) error
	UpdateImage(ctx context.Context, id int64, image []byte) error
	UpdateBackgroundImage(ctx context.Context, id int64, image []byte) error
	IncrementMembers(ctx context.Context, id int64) error
	DecrementMembers(ctx context.Context, ids []int64) error
	Delete(ctx context.Context, id int64) error
	CountAdministeredBy(ctx context.Context, userID, excludeClubID int64) (int, error)
}

// ClubRequestStore is the persistence surface for membership requests
type ClubRequestStore interface {
	Create(ctx context.Context, req *models.ClubRequest) (int64, error)
	FindByID(ctx context.Context, id int64) (*models.ClubRequest, error)
	FindByIDForUpdate(ctx context.Context, id int64) (*models.ClubRequest, error)
	ExistsPending(ctx context.Context, userID, clubID int64) (bool, error)
	ListByClub(ctx context.Context, clubID int64, status *models.RequestStatus) ([]*models.ClubRequest, error)
	ListByUser(ctx context.Context, userID int64, status *models.RequestStatus) ([]*models.ClubRequest, error)
	UpdateStatus(ctx context.Context, req *models.ClubRequest) error
	UpdateUserComment(ctx context.Context, id int64, comment *string) error
}

// MembershipStore is the persistence surface for approved memberships
type MembershipStore interface {
	Create(ctx context.Context, uc *models.UserClub) error
	Exists(ctx context.Context, userID, clubID int64) (bool, error)
	ListClubsByUser(ctx context.Context, userID int64) ([]*models.Club, error)
	ListMembersByClub(ctx context.Context, clubID int64) ([]*models.User, error)
	ListClubIDsByUser(ctx context.Context, userID int64) ([]int64, error)
	ListUserIDsByClub(ctx context.Context, clubID int64) ([]int64, error)
}

// AnnouncementStore is the persistence surface for announcements
type AnnouncementStore interface {
	Create(ctx context.Context, a *models.Announcement) (int64, error)
	AddRecipients(ctx context.Context, announcementID int64, recipients []repositories.Recipient) error
	ListForUser(ctx context.Context, f repositories.AnnouncementFilter) ([]*models.AnnouncementView, int64, error)
	MarkSeen(ctx context.Context, userID, announcementID int64) error
}

// QuestionStore is the persistence surface for questions
type QuestionStore interface {
	Create(ctx context.Context, q *models.Question) (int64, error)
	FindByID(ctx context.Context, id int64) (*models.Question, error)
	ListByClub(ctx context.Context, clubID int64) ([]*models.Question, error)
	Upvote(ctx context.Context, id int64) (int, error)
}

// AnswerStore is the persistence surface for answers
type AnswerStore interface {
	Create(ctx context.Context, a *models.Answer) (int64, error)
	ListByQuestion(ctx context.Context, questionID int64) ([]*models.Answer, error)
	ListByQuestionIDs(ctx context.Context, questionIDs []int64) ([]*models.Answer, error)
}

// Stores groups every store bound to one connection or one transaction
type Stores struct {
	Users         UserStore
	Clubs         ClubStore
	Requests      ClubRequestStore
	Memberships   MembershipStore
	Announcements AnnouncementStore
	Questions     QuestionStore
	Answers       AnswerStore
}

// Transactor runs fn with stores bound to a single transaction
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context, tx Stores) error) error
}

// NewStores exposes a repository set as Stores
func NewStores(repos *repositories.Repositories) Stores {
	return Stores{
		Users:         repos.UserRepository,
		Clubs:         repos.ClubRepository,
		Requests:      repos.ClubRequestRepository,
		Memberships:   repos.UserClubRepository,
		Announcements: repos.AnnouncementRepository,
		Questions:     repos.QuestionRepository,
		Answers:       repos.AnswerRepository,
	}
}

type pgTransactor struct {
	repos *repositories.Repositories
}

// NewTransactor returns a Transactor over the repository set
func NewTransactor(repos *repositories.Repositories) Transactor {
	return &pgTransactor{repos: repos}
}

func (t *pgTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context, tx Stores) error) error {
	return t.repos.WithinTransaction(ctx, func(ctx context.Context, tx *repositories.Repositories) error {
		return fn(ctx, NewStores(tx))
	})
}
