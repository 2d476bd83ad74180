package ports

import (
	"context"

	"github.com/gaadidekho/car-marketplace/internal/core/domain"
)

// CreateListingInput is the validated payload for a new listing.
// It has no owner field: the owner always comes from the caller's identity.
type CreateListingInput struct {
	Title        string
	Make         string
	Model        string
	Year         int
	Price        float64
	Mileage      int
	Location     string
	FuelType     string
	Transmission string
	Description  string
	Features     string
	Images       []string
	Tags         domain.Tags
}

// ListListingsInput carries the public search parameters.
type ListListingsInput struct {
	OwnerID      string
	FuelType     string
	Transmission string
	Year         int
	PriceMin     *float64
	PriceMax     *float64
	Search       string
	Page         int
	Limit        int
}

// OwnerSummary is the public profile embedded in listing views.
type OwnerSummary struct {
	ID   string
	Name string
}

// ListingView is a listing together with its owner's public profile.
type ListingView struct {
	Listing *domain.Listing
	Owner   OwnerSummary
}

type ListListingsResult struct {
	Items      []ListingView
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// ListingService defines the use cases for car listings. Mutations take
// the resolved caller identity explicitly; nil means anonymous.
type ListingService interface {
	GetListing(ctx context.Context, id string) (*ListingView, error)
	ListListings(ctx context.Context, input ListListingsInput) (*ListListingsResult, error)
	CreateListing(ctx context.Context, identity *domain.Identity, input CreateListingInput) (*ListingView, error)
	UpdateListing(ctx context.Context, identity *domain.Identity, id string, patch domain.ListingPatch) (*ListingView, error)
	DeleteListing(ctx context.Context, identity *domain.Identity, id string) error
}
