package domain

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"
)

const (
	MinListingImages = 1
	MaxListingImages = 10
)

const minListingYear = 1886

const (
	FuelPetrol   = "Petrol"
	FuelDiesel   = "Diesel"
	FuelElectric = "Electric"
	FuelHybrid   = "Hybrid"
	FuelCNG      = "CNG"

	TransmissionManual    = "Manual"
	TransmissionAutomatic = "Automatic"
)

// Tags carries the optional classification of a listing.
type Tags struct {
	CarType string `json:"car_type,omitempty" bson:"car_type,omitempty"`
	Company string `json:"company,omitempty" bson:"company,omitempty"`
	Dealer  string `json:"dealer,omitempty" bson:"dealer,omitempty"`
}

// Listing is a car offered for sale. OwnerID is fixed at creation.
type Listing struct {
	ID           string    `json:"id" bson:"_id"`
	OwnerID      string    `json:"owner_id" bson:"owner_id"`
	Title        string    `json:"title" bson:"title"`
	Make         string    `json:"make" bson:"make"`
	Model        string    `json:"model" bson:"model"`
	Year         int       `json:"year" bson:"year"`
	Price        float64   `json:"price" bson:"price"`
	Mileage      int       `json:"mileage" bson:"mileage"`
	Location     string    `json:"location" bson:"location"`
	FuelType     string    `json:"fuel_type" bson:"fuel_type"`
	Transmission string    `json:"transmission" bson:"transmission"`
	Description  string    `json:"description" bson:"description"`
	Features     string    `json:"features" bson:"features"`
	Images       []string  `json:"images" bson:"images"`
	Tags         Tags      `json:"tags" bson:"tags"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}

// ListingPatch is a partial update. Nil fields are left untouched.
type ListingPatch struct {
	Title        *string
	Make         *string
	Model        *string
	Year         *int
	Price        *float64
	Mileage      *int
	Location     *string
	FuelType     *string
	Transmission *string
	Description  *string
	Features     *string
	Images       *[]string
	Tags         *Tags
}

// Fields returns the names of the fields the patch sets, in a stable order.
func (p ListingPatch) Fields() []string {
	var out []string
	add := func(set bool, name string) {
		if set {
			out = append(out, name)
		}
	}
	add(p.Title != nil, "title")
	add(p.Make != nil, "make")
	add(p.Model != nil, "model")
	add(p.Year != nil, "year")
	add(p.Price != nil, "price")
	add(p.Mileage != nil, "mileage")
	add(p.Location != nil, "location")
	add(p.FuelType != nil, "fuel_type")
	add(p.Transmission != nil, "transmission")
	add(p.Description != nil, "description")
	add(p.Features != nil, "features")
	add(p.Images != nil, "images")
	add(p.Tags != nil, "tags")
	return out
}

// IsEmpty reports whether the patch changes nothing.
func (p ListingPatch) IsEmpty() bool {
	return len(p.Fields()) == 0
}

// ValidateImages enforces the image bounds and that every entry is an
// absolute http(s) URL.
func ValidateImages(images []string) error {
	if len(images) < MinListingImages {
		return fmt.Errorf("%w: at least %d image is required", ErrValidation, MinListingImages)
	}
	if len(images) > MaxListingImages {
		return fmt.Errorf("%w: maximum %d images allowed", ErrValidation, MaxListingImages)
	}
	for i, raw := range images {
		u, err := url.Parse(strings.TrimSpace(raw))
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%w: images[%d] is not a valid URL", ErrValidation, i)
		}
	}
	return nil
}

// ResolveTitle returns the explicit title, or "<make> <model>" when the
// title is blank and both are present.
func ResolveTitle(title, carMake, carModel string) string {
	if t := strings.TrimSpace(title); t != "" {
		return t
	}
	carMake, carModel = strings.TrimSpace(carMake), strings.TrimSpace(carModel)
	if carMake == "" || carModel == "" {
		return ""
	}
	return carMake + " " + carModel
}

var (
	fuelTypes     = []string{FuelPetrol, FuelDiesel, FuelElectric, FuelHybrid, FuelCNG}
	transmissions = []string{TransmissionManual, TransmissionAutomatic}
)

// FuelTypes lists the accepted fuel_type values.
func FuelTypes() []string { return slices.Clone(fuelTypes) }

// Transmissions lists the accepted transmission values.
func Transmissions() []string { return slices.Clone(transmissions) }

func IsFuelType(s string) bool { return slices.Contains(fuelTypes, s) }

func IsTransmission(s string) bool { return slices.Contains(transmissions, s) }

// Validate checks a listing before it is first stored.
func (l *Listing) Validate() error {
	if strings.TrimSpace(l.Title) == "" {
		return fmt.Errorf("%w: title (or make and model) is required", ErrValidation)
	}
	if strings.TrimSpace(l.Description) == "" {
		return fmt.Errorf("%w: description is required", ErrValidation)
	}
	if err := ValidateImages(l.Images); err != nil {
		return err
	}
	return validateAttributes(&l.Year, &l.Price, &l.Mileage, &l.FuelType, &l.Transmission)
}

// Validate checks the fields a patch sets. An empty patch is invalid.
func (p ListingPatch) Validate() error {
	if p.IsEmpty() {
		return fmt.Errorf("%w: no fields to update", ErrValidation)
	}
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return fmt.Errorf("%w: title must not be empty", ErrValidation)
	}
	if p.Description != nil && strings.TrimSpace(*p.Description) == "" {
		return fmt.Errorf("%w: description must not be empty", ErrValidation)
	}
	if p.Images != nil {
		if err := ValidateImages(*p.Images); err != nil {
			return err
		}
	}
	return validateAttributes(p.Year, p.Price, p.Mileage, p.FuelType, p.Transmission)
}

// validateAttributes checks the optional descriptive fields; nil and zero
// values mean "not provided".
func validateAttributes(year *int, price *float64, mileage *int, fuelType, transmission *string) error {
	if year != nil && *year != 0 {
		if maxYear := time.Now().Year() + 1; *year < minListingYear || *year > maxYear {
			return fmt.Errorf("%w: year must be between %d and %d", ErrValidation, minListingYear, maxYear)
		}
	}
	if price != nil && *price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrValidation)
	}
	if mileage != nil && *mileage < 0 {
		return fmt.Errorf("%w: mileage must not be negative", ErrValidation)
	}
	if fuelType != nil && *fuelType != "" && !IsFuelType(*fuelType) {
		return fmt.Errorf("%w: fuel_type must be one of: %s", ErrValidation, strings.Join(fuelTypes, " "))
	}
	if transmission != nil && *transmission != "" && !IsTransmission(*transmission) {
		return fmt.Errorf("%w: transmission must be one of: %s", ErrValidation, strings.Join(transmissions, " "))
	}
	return nil
}
