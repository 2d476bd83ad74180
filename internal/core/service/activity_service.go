package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/gaadidekho/car-marketplace/internal/core/domain"
	"github.com/gaadidekho/car-marketplace/internal/core/ports"
)

type activityService struct {
	repo ports.ActivityRepository
	log  zerolog.Logger
}

// NewActivityService returns an ActivityService that writes the listing
// audit trail.
func NewActivityService(repo ports.ActivityRepository, log zerolog.Logger) ports.ActivityService {
	return &activityService{repo: repo, log: log}
}

func (s *activityService) Record(ctx context.Context, a domain.ListingActivity) error {
	if a.ListingID == "" || a.Action == "" {
		return fmt.Errorf("record activity: %w: listing id and action are required", domain.ErrValidation)
	}
	if err := s.repo.InsertActivity(ctx, &a); err != nil {
		return fmt.Errorf("record activity: %w", err)
	}

	s.log.Debug().
		Str("listing_id", a.ListingID).
		Str("action", string(a.Action)).
		Str("actor_id", a.ActorID).
		Msg("activity recorded")
	return nil
}
