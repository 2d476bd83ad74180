package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type tagsRequest struct {
	CarType string `json:"car_type" validate:"max=60"`
	Company string `json:"company"  validate:"max=60"`
	Dealer  string `json:"dealer"   validate:"max=120"`
}

// createListingRequest has no owner: OwnerID and UserID are accepted so the
// strict decoder does not reject them, and are never read.
type createListingRequest struct {
	Title        string       `json:"title"        validate:"max=200"`
	Make         string       `json:"make"         validate:"max=60"`
	Model        string       `json:"model"        validate:"max=60"`
	Year         int          `json:"year"         validate:"gte=0"`
	Price        float64      `json:"price"        validate:"gte=0"`
	Mileage      int          `json:"mileage"      validate:"gte=0"`
	Location     string       `json:"location"     validate:"max=120"`
	FuelType     string       `json:"fuel_type"    validate:"omitempty,fuel_type"`
	Transmission string       `json:"transmission" validate:"omitempty,transmission"`
	Description  string       `json:"description"  validate:"required,max=5000"`
	Features     string       `json:"features"     validate:"max=2000"`
	Images       []string     `json:"images"       validate:"required,min=1,max=10,dive,http_url"`
	Tags         *tagsRequest `json:"tags"`
	OwnerID      string       `json:"owner_id" swaggerignore:"true"`
	UserID       string       `json:"userId"   swaggerignore:"true"`
}

// updateListingRequest is a partial update: absent fields stay nil. Field
// rules are enforced by the service once ownership has been checked.
type updateListingRequest struct {
	Title        *string      `json:"title"`
	Make         *string      `json:"make"`
	Model        *string      `json:"model"`
	Year         *int         `json:"year"`
	Price        *float64     `json:"price"`
	Mileage      *int         `json:"mileage"`
	Location     *string      `json:"location"`
	FuelType     *string      `json:"fuel_type"`
	Transmission *string      `json:"transmission"`
	Description  *string      `json:"description"`
	Features     *string      `json:"features"`
	Images       *[]string    `json:"images"`
	Tags         *tagsRequest `json:"tags"`
	OwnerID      string       `json:"owner_id" swaggerignore:"true"`
	UserID       string       `json:"userId"   swaggerignore:"true"`
}

type listListingsQuery struct {
	Page         int      `query:"page"         validate:"gte=0"`
	Limit        int      `query:"limit"        validate:"gte=0"`
	OwnerID      string   `query:"owner_id"`
	FuelType     string   `query:"fuel_type"    validate:"omitempty,fuel_type"`
	Transmission string   `query:"transmission" validate:"omitempty,transmission"`
	Year         int      `query:"year"         validate:"gte=0"`
	PriceMin     *float64 `query:"price_min"    validate:"omitempty,gte=0"`
	PriceMax     *float64 `query:"price_max"    validate:"omitempty,gte=0"`
	Search       string   `query:"q"            validate:"max=100"`
}

// --- Response types ---

type tagsResponse struct {
	CarType string `json:"car_type,omitempty"`
	Company string `json:"company,omitempty"`
	Dealer  string `json:"dealer,omitempty"`
}

type ownerResponse struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

type listingLinks struct {
	Self string `json:"self"`
}

type listingResponse struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Make         string        `json:"make"`
	Model        string        `json:"model"`
	Year         int           `json:"year"`
	Price        float64       `json:"price"`
	Mileage      int           `json:"mileage"`
	Location     string        `json:"location"`
	FuelType     string        `json:"fuel_type"`
	Transmission string        `json:"transmission"`
	Description  string        `json:"description"`
	Features     string        `json:"features"`
	Images       []string      `json:"images"`
	Tags         tagsResponse  `json:"tags"`
	OwnerID      string        `json:"owner_id"`
	Owner        ownerResponse `json:"owner"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
	Links        listingLinks  `json:"_links"`
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

type listListingsResponse struct {
	Data       []listingResponse  `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}
