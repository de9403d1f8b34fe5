package model

import (
	"context"
	"fmt"
	"math"
)

// LocationAPI defines the remote location operations used by the location state.
type LocationAPI interface {
	FetchLocations(ctx context.Context, params ListParams) (LocationPage, error)
	FetchLocation(ctx context.Context, id int64) (Location, error)
	CreateLocation(ctx context.Context, input LocationInput) (Location, error)
	UpdateLocation(ctx context.Context, id int64, input LocationInput) (Location, error)
	DeleteLocation(ctx context.Context, id int64) error
}

// Location is a named, geocoded place owned by a user.
type Location struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	Locality  string  `json:"locality"`
	City      string  `json:"city"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// LocationInput is the body of create and update requests.
type LocationInput struct {
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	Locality  string  `json:"locality,omitempty"`
	City      string  `json:"city,omitempty"`
	Country   string  `json:"country,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Validate checks coordinate ranges and required fields.
func (in LocationInput) Validate() error {
	if in.Name == "" {
		return NewValidationError("name is required", map[string][]string{"name": {"Name is required"}})
	}
	if !finite(in.Latitude) || in.Latitude < -90 || in.Latitude > 90 {
		return NewValidationError(fmt.Sprintf("latitude %v out of range", in.Latitude),
			map[string][]string{"latitude": {"Latitude must be between -90 and 90"}})
	}
	if !finite(in.Longitude) || in.Longitude < -180 || in.Longitude > 180 {
		return NewValidationError(fmt.Sprintf("longitude %v out of range", in.Longitude),
			map[string][]string{"longitude": {"Longitude must be between -180 and 180"}})
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// ListParams are query parameters for listing locations.
type ListParams struct {
	Page    int
	PerPage int
	Search  string
}

// Pagination describes a page of a listing.
type Pagination struct {
	CurrentPage int `json:"current_page"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`
	LastPage    int `json:"last_page"`
}

// LocationPage is the response of the locations listing.
type LocationPage struct {
	Data       []Location `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// Address is the normalized result of a geocoding lookup.
type Address struct {
	FormattedAddress string  `json:"formatted_address"`
	PlaceID          string  `json:"place_id"`
	StreetNumber     string  `json:"street_number"`
	StreetName       string  `json:"street_name"`
	Neighborhood     string  `json:"neighborhood"`
	Locality         string  `json:"locality"`
	City             string  `json:"city"`
	County           string  `json:"county"`
	State            string  `json:"state"`
	StateCode        string  `json:"state_code"`
	PostalCode       string  `json:"postal_code"`
	Country          string  `json:"country"`
	CountryCode      string  `json:"country_code"`
	Lat              float64 `json:"lat"`
	Lng              float64 `json:"lng"`
}
