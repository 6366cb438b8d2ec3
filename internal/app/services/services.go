// Package services holds the business rules of ClubHub. Services depend on the store
// interfaces in stores.go and run multi-row changes through a Transactor.
package services

import (
	"context"

	"github.com/elevate/clubhub/internal/app/models"
	"github.com/elevate/clubhub/internal/pkg/cache"
	"github.com/elevate/clubhub/internal/pkg/events"
	"github.com/rs/zerolog"
)

// DefaultMemberLimit is the number of clubs a user may join
const DefaultMemberLimit = 3

// publish emits an event after the change it describes has committed. Delivery failures
// are logged and never undo the change.
func publish(ctx context.Context, pub events.Publisher, log zerolog.Logger, event events.Event) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, event); err != nil {
		log.Warn().Err(err).Str("event", event.Type).Int64("clubId", event.ClubID).Msg("Failed to publish event")
	}
}

// invalidateClubs drops cached reads of the given clubs and the club list
func invalidateClubs(ctx context.Context, c cache.Cache, log zerolog.Logger, clubs ...*models.Club) {
	if c == nil {
		return
	}
	keys := []string{cache.KeyAllClubs}
	for _, club := range clubs {
		if club == nil {
			continue
		}
		keys = append(keys, cache.ClubKey(club.ID), cache.ClubNameKey(club.ClubName))
	}
	if err := c.Delete(ctx, keys...); err != nil {
		log.Warn().Err(err).Strs("keys", keys).Msg("Failed to invalidate club cache")
	}
}

func strPtr(s string) *string {
	return &s
}
