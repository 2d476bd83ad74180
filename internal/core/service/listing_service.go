package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gaadidekho/car-marketplace/internal/core/domain"
	"github.com/gaadidekho/car-marketplace/internal/core/ports"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
	maxPage          = 10000
)

type ListingService struct {
	repo      ports.ListingRepository
	users     ports.AuthRepository
	publisher ports.ActivityPublisher
	logger    zerolog.Logger
	now       func() time.Time
}

func NewListingService(
	repo ports.ListingRepository,
	users ports.AuthRepository,
	publisher ports.ActivityPublisher,
	logger zerolog.Logger,
) *ListingService {
	return &ListingService{
		repo:      repo,
		users:     users,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// GetListing returns a listing by id. Reads are public.
func (s *ListingService) GetListing(ctx context.Context, id string) (*ports.ListingView, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, l), nil
}

// ListListings returns one page of listings, newest first.
func (s *ListingService) ListListings(ctx context.Context, in ports.ListListingsInput) (*ports.ListListingsResult, error) {
	if in.PriceMin != nil && in.PriceMax != nil && *in.PriceMin > *in.PriceMax {
		return nil, fmt.Errorf("%w: price_min must not exceed price_max", domain.ErrValidation)
	}

	page := in.Page
	if page < 1 {
		page = 1
	}
	if page > maxPage {
		return nil, fmt.Errorf("%w: page must be at most %d", domain.ErrValidation, maxPage)
	}
	limit := in.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	listings, total, err := s.repo.List(ctx, ports.ListListingsFilter{
		OwnerID:      in.OwnerID,
		FuelType:     in.FuelType,
		Transmission: in.Transmission,
		Year:         in.Year,
		PriceMin:     in.PriceMin,
		PriceMax:     in.PriceMax,
		Search:       strings.TrimSpace(in.Search),
		Page:         page,
		Limit:        limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}

	owners := s.owners(ctx, listings)
	items := make([]ports.ListingView, len(listings))
	for i, l := range listings {
		items[i] = ports.ListingView{Listing: l, Owner: ownerSummary(l.OwnerID, owners)}
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &ports.ListListingsResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

// CreateListing stores a new listing owned by the caller.
func (s *ListingService) CreateListing(ctx context.Context, identity *domain.Identity, in ports.CreateListingInput) (*ports.ListingView, error) {
	if identity == nil || identity.UserID == "" {
		return nil, domain.ErrUnauthenticated
	}

	now := s.now().UTC()
	l := &domain.Listing{
		ID:           uuid.NewString(),
		OwnerID:      identity.UserID,
		Title:        domain.ResolveTitle(in.Title, in.Make, in.Model),
		Make:         strings.TrimSpace(in.Make),
		Model:        strings.TrimSpace(in.Model),
		Year:         in.Year,
		Price:        in.Price,
		Mileage:      in.Mileage,
		Location:     strings.TrimSpace(in.Location),
		FuelType:     in.FuelType,
		Transmission: in.Transmission,
		Description:  in.Description,
		Features:     in.Features,
		Images:       append([]string(nil), in.Images...),
		Tags:         in.Tags,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, l); err != nil {
		s.logger.Error().Err(err).Str("owner_id", identity.UserID).Msg("failed to create listing")
		return nil, fmt.Errorf("create listing: %w", err)
	}

	s.logger.Info().Str("listing_id", l.ID).Str("owner_id", l.OwnerID).Msg("listing created")
	s.publish(l.ID, identity.UserID, domain.ActivityCreated, nil)

	return &ports.ListingView{
		Listing: l,
		Owner:   ports.OwnerSummary{ID: identity.UserID, Name: identity.Name},
	}, nil
}

// UpdateListing applies patch after the existence and ownership checks.
// A missing listing is reported before the caller's identity is examined.
func (s *ListingService) UpdateListing(ctx context.Context, identity *domain.Identity, id string, patch domain.ListingPatch) (*ports.ListingView, error) {
	if _, err := s.authorize(ctx, identity, id); err != nil {
		return nil, err
	}
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	patch = normalizePatch(patch)

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("update listing: %w", err)
	}

	s.logger.Info().Str("listing_id", id).Strs("fields", patch.Fields()).Msg("listing updated")
	s.publish(id, identity.UserID, domain.ActivityUpdated, patch.Fields())

	return &ports.ListingView{
		Listing: updated,
		Owner:   ports.OwnerSummary{ID: identity.UserID, Name: identity.Name},
	}, nil
}

// DeleteListing removes a listing owned by the caller.
func (s *ListingService) DeleteListing(ctx context.Context, identity *domain.Identity, id string) error {
	if _, err := s.authorize(ctx, identity, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete listing: %w", err)
	}

	s.logger.Info().Str("listing_id", id).Str("owner_id", identity.UserID).Msg("listing deleted")
	s.publish(id, identity.UserID, domain.ActivityDeleted, nil)
	return nil
}

// authorize fetches the current listing and runs the ownership guard on it.
func (s *ListingService) authorize(ctx context.Context, identity *domain.Identity, id string) (*domain.Listing, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := domain.AuthorizeMutation(identity, current); err != nil {
		ev := s.logger.Warn().Err(err).Str("listing_id", id)
		if identity != nil {
			ev = ev.Str("user_id", identity.UserID)
		}
		ev.Msg("listing mutation denied")
		return nil, err
	}
	return current, nil
}

func (s *ListingService) publish(listingID, actorID string, action domain.ActivityAction, fields []string) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(domain.ListingActivity{
		ListingID:  listingID,
		ActorID:    actorID,
		Action:     action,
		Fields:     fields,
		OccurredAt: s.now().UTC(),
	})
}

func (s *ListingService) view(ctx context.Context, l *domain.Listing) *ports.ListingView {
	owners := s.owners(ctx, []*domain.Listing{l})
	return &ports.ListingView{Listing: l, Owner: ownerSummary(l.OwnerID, owners)}
}

// owners loads the owner profiles of listings. A lookup failure only
// degrades the views to bare owner ids.
func (s *ListingService) owners(ctx context.Context, listings []*domain.Listing) map[string]*domain.User {
	if s.users == nil || len(listings) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(listings))
	ids := make([]string, 0, len(listings))
	for _, l := range listings {
		if _, ok := seen[l.OwnerID]; ok {
			continue
		}
		seen[l.OwnerID] = struct{}{}
		ids = append(ids, l.OwnerID)
	}

	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		s.logger.Warn().Err(err).Int("owners", len(ids)).Msg("owner lookup failed")
		return nil
	}
	return users
}

func ownerSummary(ownerID string, owners map[string]*domain.User) ports.OwnerSummary {
	out := ports.OwnerSummary{ID: ownerID}
	if u, ok := owners[ownerID]; ok {
		out.Name = u.Name
	}
	return out
}

func normalizePatch(p domain.ListingPatch) domain.ListingPatch {
	trim := func(v *string) *string {
		if v == nil {
			return nil
		}
		t := strings.TrimSpace(*v)
		return &t
	}
	p.Title = trim(p.Title)
	p.Make = trim(p.Make)
	p.Model = trim(p.Model)
	p.Location = trim(p.Location)
	return p
}
