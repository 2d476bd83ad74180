package handler

import (
	"github.com/gaadidekho/car-marketplace/internal/core/domain"
	"github.com/gaadidekho/car-marketplace/internal/core/ports"
)

// --- Request → Service input ---

func toCreateInput(req createListingRequest) ports.CreateListingInput {
	return ports.CreateListingInput{
		Title:        req.Title,
		Make:         req.Make,
		Model:        req.Model,
		Year:         req.Year,
		Price:        req.Price,
		Mileage:      req.Mileage,
		Location:     req.Location,
		FuelType:     req.FuelType,
		Transmission: req.Transmission,
		Description:  req.Description,
		Features:     req.Features,
		Images:       req.Images,
		Tags:         toTags(req.Tags),
	}
}

func toPatch(req updateListingRequest) domain.ListingPatch {
	patch := domain.ListingPatch{
		Title:        req.Title,
		Make:         req.Make,
		Model:        req.Model,
		Year:         req.Year,
		Price:        req.Price,
		Mileage:      req.Mileage,
		Location:     req.Location,
		FuelType:     req.FuelType,
		Transmission: req.Transmission,
		Description:  req.Description,
		Features:     req.Features,
		Images:       req.Images,
	}
	if req.Tags != nil {
		tags := toTags(req.Tags)
		patch.Tags = &tags
	}
	return patch
}

func toTags(t *tagsRequest) domain.Tags {
	if t == nil {
		return domain.Tags{}
	}
	return domain.Tags{CarType: t.CarType, Company: t.Company, Dealer: t.Dealer}
}

func toListInput(q listListingsQuery) ports.ListListingsInput {
	return ports.ListListingsInput{
		OwnerID:      q.OwnerID,
		FuelType:     q.FuelType,
		Transmission: q.Transmission,
		Year:         q.Year,
		PriceMin:     q.PriceMin,
		PriceMax:     q.PriceMax,
		Search:       q.Search,
		Page:         q.Page,
		Limit:        q.Limit,
	}
}

// --- Service result → HTTP response ---

func toListingResponse(v *ports.ListingView) listingResponse {
	l := v.Listing
	images := l.Images
	if images == nil {
		images = []string{}
	}
	return listingResponse{
		ID:           l.ID,
		Title:        l.Title,
		Make:         l.Make,
		Model:        l.Model,
		Year:         l.Year,
		Price:        l.Price,
		Mileage:      l.Mileage,
		Location:     l.Location,
		FuelType:     l.FuelType,
		Transmission: l.Transmission,
		Description:  l.Description,
		Features:     l.Features,
		Images:       images,
		Tags: tagsResponse{
			CarType: l.Tags.CarType,
			Company: l.Tags.Company,
			Dealer:  l.Tags.Dealer,
		},
		OwnerID:   l.OwnerID,
		Owner:     ownerResponse{ID: v.Owner.ID, Name: v.Owner.Name},
		CreatedAt: l.CreatedAt.UTC(),
		UpdatedAt: l.UpdatedAt.UTC(),
		Links:     listingLinks{Self: "/v1/listings/" + l.ID},
	}
}

func toListResponse(r *ports.ListListingsResult) listListingsResponse {
	items := make([]listingResponse, len(r.Items))
	for i := range r.Items {
		items[i] = toListingResponse(&r.Items[i])
	}
	return listListingsResponse{
		Data: items,
		Pagination: paginationResponse{
			Total:      r.Total,
			Page:       r.Page,
			Limit:      r.Limit,
			TotalPages: r.TotalPages,
		},
	}
}
