package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func imageURLs(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("https://img.example.com/car-%d.jpg", i)
	}
	return out
}

func TestValidateImages(t *testing.T) {
	tests := []struct {
		name    string
		images  []string
		wantErr bool
	}{
		{name: "none", images: nil, wantErr: true},
		{name: "one", images: imageURLs(1)},
		{name: "ten", images: imageURLs(10)},
		{name: "eleven", images: imageURLs(11), wantErr: true},
		{name: "not a url", images: []string{"car.jpg"}, wantErr: true},
		{name: "ftp scheme", images: []string{"ftp://example.com/car.jpg"}, wantErr: true},
		{name: "http", images: []string{"http://example.com/car.jpg"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateImages(tt.images)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestResolveTitle(t *testing.T) {
	assert.Equal(t, "Family car", ResolveTitle("  Family car ", "Maruti", "Swift"))
	assert.Equal(t, "Maruti Swift", ResolveTitle("", "Maruti", " Swift"))
	assert.Equal(t, "", ResolveTitle("", "Maruti", ""))
}

func TestListingPatch_Fields(t *testing.T) {
	price := 1.0
	images := []string{"https://example.com/a.jpg"}
	p := ListingPatch{Price: &price, Images: &images}

	assert.Equal(t, []string{"price", "images"}, p.Fields())
	assert.False(t, p.IsEmpty())
	assert.True(t, ListingPatch{}.IsEmpty())
}

func validListing() *Listing {
	return &Listing{
		Title:        "Hyundai Creta SX",
		Description:  "Top variant",
		Images:       imageURLs(3),
		Year:         2021,
		Price:        1250000,
		Mileage:      18000,
		FuelType:     FuelDiesel,
		Transmission: TransmissionAutomatic,
	}
}

func TestListing_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Listing)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Listing) {}},
		{name: "optional fields empty", mutate: func(l *Listing) { l.Year, l.FuelType, l.Transmission = 0, "", "" }},
		{name: "blank title", mutate: func(l *Listing) { l.Title = " " }, wantErr: true},
		{name: "blank description", mutate: func(l *Listing) { l.Description = "" }, wantErr: true},
		{name: "no images", mutate: func(l *Listing) { l.Images = nil }, wantErr: true},
		{name: "ancient year", mutate: func(l *Listing) { l.Year = 1700 }, wantErr: true},
		{name: "negative price", mutate: func(l *Listing) { l.Price = -1 }, wantErr: true},
		{name: "negative mileage", mutate: func(l *Listing) { l.Mileage = -5 }, wantErr: true},
		{name: "unknown fuel", mutate: func(l *Listing) { l.FuelType = "Steam" }, wantErr: true},
		{name: "unknown transmission", mutate: func(l *Listing) { l.Transmission = "CVT-ish" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := validListing()
			tt.mutate(l)
			err := l.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestListingPatch_Validate(t *testing.T) {
	str := func(s string) *string { return &s }
	num := func(n int) *int { return &n }
	imgs := func(n int) *[]string { v := imageURLs(n); return &v }

	tests := []struct {
		name    string
		patch   ListingPatch
		wantErr bool
	}{
		{name: "empty", patch: ListingPatch{}, wantErr: true},
		{name: "title", patch: ListingPatch{Title: str("New title")}},
		{name: "blank title", patch: ListingPatch{Title: str("")}, wantErr: true},
		{name: "blank description", patch: ListingPatch{Description: str("   ")}, wantErr: true},
		{name: "images ok", patch: ListingPatch{Images: imgs(10)}},
		{name: "images empty", patch: ListingPatch{Images: imgs(0)}, wantErr: true},
		{name: "images too many", patch: ListingPatch{Images: imgs(11)}, wantErr: true},
		{name: "bad year", patch: ListingPatch{Year: num(3000)}, wantErr: true},
		{name: "bad fuel", patch: ListingPatch{FuelType: str("Coal")}, wantErr: true},
		{name: "fuel ok", patch: ListingPatch{FuelType: str(FuelCNG)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.patch.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestFuelTypesAndTransmissions(t *testing.T) {
	assert.True(t, IsFuelType(FuelCNG))
	assert.False(t, IsFuelType("petrol"))
	assert.True(t, IsTransmission(TransmissionAutomatic))
	assert.False(t, IsTransmission(""))

	fuels := FuelTypes()
	fuels[0] = "Steam"
	assert.False(t, IsFuelType("Steam"))
	assert.Equal(t, []string{TransmissionManual, TransmissionAutomatic}, Transmissions())
}
