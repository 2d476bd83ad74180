package mongo

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/gaadidekho/car-marketplace/internal/core/domain"
	"github.com/gaadidekho/car-marketplace/internal/core/ports"
)

const collectionListings = "listings"

type ListingRepository struct {
	col *mongo.Collection
}

func NewListingRepository(db *mongo.Database) *ListingRepository {
	return &ListingRepository{col: db.Collection(collectionListings)}
}

// Create inserts a new listing document keyed by its string id.
func (r *ListingRepository) Create(ctx context.Context, l *domain.Listing) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, l); err != nil {
		return fmt.Errorf("insert listing: %w", err)
	}
	return nil
}

// FindByID retrieves a listing by id.
func (r *ListingRepository) FindByID(ctx context.Context, id string) (*domain.Listing, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var l domain.Listing
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&l); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrListingNotFound
		}
		return nil, fmt.Errorf("find listing: %w", err)
	}
	return &l, nil
}

// Update sets the patched fields and updated_at, returning the new document.
// owner_id and created_at are never part of the update.
func (r *ListingRepository) Update(ctx context.Context, id string, patch domain.ListingPatch) (*domain.Listing, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := patchSet(patch)
	set["updated_at"] = time.Now().UTC()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var l domain.Listing
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&l)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrListingNotFound
		}
		return nil, fmt.Errorf("update listing: %w", err)
	}
	return &l, nil
}

// Delete removes a listing by id.
func (r *ListingRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete listing: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

// List returns one page of listings matching f, newest first, and the total
// number of matches.
func (r *ListingRepository) List(ctx context.Context, f ports.ListListingsFilter) ([]*domain.Listing, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := listFilter(f)

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count listings: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(pageSkip(f.Page, f.Limit)).
		SetLimit(int64(f.Limit))

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find listings: %w", err)
	}

	listings := make([]*domain.Listing, 0, f.Limit)
	if err := cur.All(ctx, &listings); err != nil {
		return nil, 0, fmt.Errorf("decode listings: %w", err)
	}
	return listings, total, nil
}

// EnsureIndexes creates the indexes backing the list filters and ordering.
func (r *ListingRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "fuel_type", Value: 1}}},
		{Keys: bson.D{{Key: "price", Value: 1}}},
		{Keys: bson.D{{Key: "year", Value: 1}}},
	}

	if _, err := r.col.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("listings indexes: %w", err)
	}
	return nil
}

func listFilter(f ports.ListListingsFilter) bson.M {
	filter := bson.M{}
	if f.OwnerID != "" {
		filter["owner_id"] = f.OwnerID
	}
	if f.FuelType != "" {
		filter["fuel_type"] = f.FuelType
	}
	if f.Transmission != "" {
		filter["transmission"] = f.Transmission
	}
	if f.Year != 0 {
		filter["year"] = f.Year
	}
	if f.PriceMin != nil || f.PriceMax != nil {
		price := bson.M{}
		if f.PriceMin != nil {
			price["$gte"] = *f.PriceMin
		}
		if f.PriceMax != nil {
			price["$lte"] = *f.PriceMax
		}
		filter["price"] = price
	}
	if f.Search != "" {
		rx := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"title": rx},
			bson.M{"make": rx},
			bson.M{"model": rx},
			bson.M{"description": rx},
			bson.M{"tags.car_type": rx},
			bson.M{"tags.company": rx},
			bson.M{"tags.dealer": rx},
		}
	}
	return filter
}

// pageSkip returns the number of documents before a 1-based page, saturating
// at math.MaxInt64 instead of wrapping negative.
func pageSkip(page, limit int) int64 {
	if page <= 1 || limit <= 0 {
		return 0
	}
	p, l := int64(page-1), int64(limit)
	if p > math.MaxInt64/l {
		return math.MaxInt64
	}
	return p * l
}

func patchSet(p domain.ListingPatch) bson.M {
	set := bson.M{}
	if p.Title != nil {
		set["title"] = *p.Title
	}
	if p.Make != nil {
		set["make"] = *p.Make
	}
	if p.Model != nil {
		set["model"] = *p.Model
	}
	if p.Year != nil {
		set["year"] = *p.Year
	}
	if p.Price != nil {
		set["price"] = *p.Price
	}
	if p.Mileage != nil {
		set["mileage"] = *p.Mileage
	}
	if p.Location != nil {
		set["location"] = *p.Location
	}
	if p.FuelType != nil {
		set["fuel_type"] = *p.FuelType
	}
	if p.Transmission != nil {
		set["transmission"] = *p.Transmission
	}
	if p.Description != nil {
		set["description"] = *p.Description
	}
	if p.Features != nil {
		set["features"] = *p.Features
	}
	if p.Images != nil {
		set["images"] = *p.Images
	}
	if p.Tags != nil {
		set["tags"] = *p.Tags
	}
	return set
}
