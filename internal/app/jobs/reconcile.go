// Package jobs holds the scheduled maintenance jobs
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/elevate/clubhub/internal/pkg/cache"
	"github.com/elevate/clubhub/internal/pkg/metrics"
	"github.com/elevate/clubhub/internal/pkg/scheduler"
	"github.com/rs/zerolog"
)

// ReconcileJobName names the counter reconciliation job
const ReconcileJobName = "reconcile-counters"

// MemberCountReconciler rewrites clubs.no_of_members from the membership table
type MemberCountReconciler interface {
	ReconcileMemberCounts(ctx context.Context) (int64, error)
}

// JoinedClubsReconciler rewrites users.joined_clubs from the membership table
type JoinedClubsReconciler interface {
	ReconcileJoinedClubs(ctx context.Context) (int64, error)
}

// CounterReconciler brings the denormalised membership counters back in line with
// user_clubs
type CounterReconciler struct {
	clubs  MemberCountReconciler
	users  JoinedClubsReconciler
	cache  cache.Cache
	logger zerolog.Logger
}

// NewCounterReconciler creates a CounterReconciler
func NewCounterReconciler(clubs MemberCountReconciler, users JoinedClubsReconciler, c cache.Cache, logger zerolog.Logger) *CounterReconciler {
	if c == nil {
		c = cache.NoopCache{}
	}
	return &CounterReconciler{clubs: clubs, users: users, cache: c, logger: logger}
}

// Run performs one reconciliation pass and returns the number of corrected rows
func (r *CounterReconciler) Run(ctx context.Context) (int64, error) {
	clubRows, err := r.clubs.ReconcileMemberCounts(ctx)
	if err != nil {
		metrics.RecordReconcile(0, err)
		return 0, fmt.Errorf("reconcile member counts: %w", err)
	}
	userRows, err := r.users.ReconcileJoinedClubs(ctx)
	if err != nil {
		metrics.RecordReconcile(0, err)
		return 0, fmt.Errorf("reconcile joined clubs: %w", err)
	}

	corrected := clubRows + userRows
	metrics.RecordReconcile(corrected, nil)
	if corrected == 0 {
		return 0, nil
	}

	r.logger.Warn().
		Int64("clubsCorrected", clubRows).
		Int64("usersCorrected", userRows).
		Msg("Membership counters drifted and were corrected")

	// Single club entries expire with the cache TTL
	if clubRows > 0 {
		if err := r.cache.Delete(ctx, cache.KeyAllClubs); err != nil {
			r.logger.Warn().Err(err).Msg("Failed to invalidate club list cache")
		}
	}
	return corrected, nil
}

// Job wraps the reconciler for the scheduler
func (r *CounterReconciler) Job(spec string) scheduler.Job {
	return scheduler.Job{
		Name: ReconcileJobName,
		Spec: spec,
		Run: func(ctx context.Context) error {
			_, err := r.Run(ctx)
			return err
		},
		Timeout: 2 * time.Minute,
	}
}
