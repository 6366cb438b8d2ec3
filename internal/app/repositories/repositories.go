package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/elevate/clubhub/internal/db"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is the query surface shared by *pgxpool.Pool and pgx.Tx, so the same repository
// code runs inside and outside a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// psql is the statement builder used by every repository
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repositories holds all the repository instances
type Repositories struct {
	pool *pgxpool.Pool // nil when the set is bound to a transaction

	UserRepository         *UserRepository
	ClubRepository         *ClubRepository
	ClubRequestRepository  *ClubRequestRepository
	UserClubRepository     *UserClubRepository
	AnnouncementRepository *AnnouncementRepository
	QuestionRepository     *QuestionRepository
	AnswerRepository       *AnswerRepository
}

// NewRepositories initializes all repositories on the pool
func NewRepositories(pool *pgxpool.Pool) *Repositories {
	r := newRepositories(pool)
	r.pool = pool
	return r
}

func newRepositories(conn DBTX) *Repositories {
	return &Repositories{
		UserRepository:         NewUserRepository(conn),
		ClubRepository:         NewClubRepository(conn),
		ClubRequestRepository:  NewClubRequestRepository(conn),
		UserClubRepository:     NewUserClubRepository(conn),
		AnnouncementRepository: NewAnnouncementRepository(conn),
		QuestionRepository:     NewQuestionRepository(conn),
		AnswerRepository:       NewAnswerRepository(conn),
	}
}

// WithinTransaction runs fn with a repository set bound to one transaction. Calls on a set
// that is already transactional reuse the current transaction.
func (r *Repositories) WithinTransaction(ctx context.Context, fn func(ctx context.Context, tx *Repositories) error) error {
	if r.pool == nil {
		return fn(ctx, r)
	}
	return db.WithTransaction(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		return fn(ctx, newRepositories(tx))
	})
}
