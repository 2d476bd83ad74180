package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gaadidekho/car-marketplace/internal/api/metrics"
	"github.com/gaadidekho/car-marketplace/internal/core/domain"
	"github.com/gaadidekho/car-marketplace/internal/core/ports"
)

// ListingHandler handles HTTP requests for car listings.
type ListingHandler struct {
	service ports.ListingService
}

func NewListingHandler(service ports.ListingService) *ListingHandler {
	return &ListingHandler{service: service}
}

// Get handles GET /v1/listings/:id.
//
// @Summary      Get a listing
// @Tags         listings
// @Produce      json
// @Param        id   path      string  true  "Listing id"
// @Success      200  {object}  listingResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /v1/listings/{id} [get]
func (h *ListingHandler) Get(c echo.Context) error {
	view, err := h.service.GetListing(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListingResponse(view))
}

// List handles GET /v1/listings.
//
// @Summary      Browse listings, newest first
// @Tags         listings
// @Produce      json
// @Param        page          query     int     false  "Page number (1-based)"
// @Param        limit         query     int     false  "Page size (default 20, max 100)"
// @Param        owner_id      query     string  false  "Only listings of this owner"
// @Param        fuel_type     query     string  false  "Fuel type"     Enums(Petrol, Diesel, Electric, Hybrid, CNG)
// @Param        transmission  query     string  false  "Transmission"  Enums(Manual, Automatic)
// @Param        year          query     int     false  "Model year"
// @Param        price_min     query     number  false  "Minimum price"
// @Param        price_max     query     number  false  "Maximum price"
// @Param        q             query     string  false  "Search title, make and model"
// @Success      200           {object}  listListingsResponse
// @Failure      400           {object}  errorResponse
// @Failure      500           {object}  errorResponse
// @Router       /v1/listings [get]
func (h *ListingHandler) List(c echo.Context) error {
	var (
		q                  listListingsQuery
		priceMin, priceMax float64
	)
	err := echo.QueryParamsBinder(c).
		Int("page", &q.Page).
		Int("limit", &q.Limit).
		Int("year", &q.Year).
		String("owner_id", &q.OwnerID).
		String("fuel_type", &q.FuelType).
		String("transmission", &q.Transmission).
		String("q", &q.Search).
		Float64("price_min", &priceMin).
		Float64("price_max", &priceMax).
		BindError()
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if c.QueryParam("price_min") != "" {
		q.PriceMin = &priceMin
	}
	if c.QueryParam("price_max") != "" {
		q.PriceMax = &priceMax
	}
	if err := c.Validate(&q); err != nil {
		return err
	}

	result, err := h.service.ListListings(c.Request().Context(), toListInput(q))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListResponse(result))
}

// Create handles POST /v1/listings. The owner is always the caller.
//
// @Summary      Create a listing
// @Tags         listings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createListingRequest  true  "Listing details"
// @Success      201   {object}  listingResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /v1/listings [post]
func (h *ListingHandler) Create(c echo.Context) error {
	view, err := h.create(c)
	metrics.ObserveMutation("create", err)
	if err != nil {
		return err
	}

	fuel := view.Listing.FuelType
	if fuel == "" {
		fuel = "unspecified"
	}
	metrics.ListingsCreatedTotal.WithLabelValues(fuel).Inc()

	return c.JSON(http.StatusCreated, toListingResponse(view))
}

func (h *ListingHandler) create(c echo.Context) (*ports.ListingView, error) {
	identity, err := requireIdentity(c)
	if err != nil {
		return nil, err
	}

	var req createListingRequest
	if err := c.Bind(&req); err != nil {
		return nil, bindError(err)
	}
	if err := c.Validate(&req); err != nil {
		return nil, err
	}

	return h.service.CreateListing(c.Request().Context(), identity, toCreateInput(req))
}

// Update handles PUT /v1/listings/:id. Only the supplied fields change.
//
// @Summary      Update a listing
// @Tags         listings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Listing id"
// @Param        body  body      updateListingRequest  true  "Fields to change"
// @Success      200   {object}  listingResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /v1/listings/{id} [put]
func (h *ListingHandler) Update(c echo.Context) error {
	var req updateListingRequest
	if err := c.Bind(&req); err != nil {
		err = bindError(err)
		metrics.ObserveMutation("update", err)
		return err
	}

	view, err := h.service.UpdateListing(c.Request().Context(), ctxIdentity(c), c.Param("id"), toPatch(req))
	metrics.ObserveMutation("update", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListingResponse(view))
}

// Delete handles DELETE /v1/listings/:id.
//
// @Summary      Delete a listing
// @Tags         listings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Listing id"
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /v1/listings/{id} [delete]
func (h *ListingHandler) Delete(c echo.Context) error {
	err := h.service.DeleteListing(c.Request().Context(), ctxIdentity(c), c.Param("id"))
	metrics.ObserveMutation("delete", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "listing deleted"})
}
