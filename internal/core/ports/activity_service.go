package ports

import (
	"context"

	"github.com/gaadidekho/car-marketplace/internal/core/domain"
)

// ActivityService records a single listing activity.
type ActivityService interface {
	Record(ctx context.Context, activity domain.ListingActivity) error
}

// ActivityPublisher hands activities off for asynchronous recording.
type ActivityPublisher interface {
	Publish(activity domain.ListingActivity)
}
