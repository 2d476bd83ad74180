package ports

import (
	"context"

	"github.com/gaadidekho/car-marketplace/internal/core/domain"
)

// ActivityRepository persists the listing audit trail.
type ActivityRepository interface {
	InsertActivity(ctx context.Context, activity *domain.ListingActivity) error
}
