package ports

import (
	"context"

	"github.com/gaadidekho/car-marketplace/internal/core/domain"
)

// ListListingsFilter carries the query parameters for listing search.
// Zero values mean "no filter".
type ListListingsFilter struct {
	OwnerID      string
	FuelType     string
	Transmission string
	Year         int
	PriceMin     *float64
	PriceMax     *float64
	Search       string // partial, case-insensitive match on title, make or model
	Page         int    // 1-based
	Limit        int
}

// ListingRepository defines persistence operations for listings.
// FindByID must observe the latest committed write.
type ListingRepository interface {
	Create(ctx context.Context, l *domain.Listing) error
	FindByID(ctx context.Context, id string) (*domain.Listing, error)
	// Update applies patch and returns the stored listing after the change.
	Update(ctx context.Context, id string, patch domain.ListingPatch) (*domain.Listing, error)
	Delete(ctx context.Context, id string) error
	// List returns one page of listings, newest first, and the total match count.
	List(ctx context.Context, filter ListListingsFilter) ([]*domain.Listing, int64, error)
}
