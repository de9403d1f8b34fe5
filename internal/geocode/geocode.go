// Package geocode resolves addresses and coordinates through the Google
// Geocoding API.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"time"

	"github.com/dtroode/outagetracker/internal/api/rest/middleware"
	"github.com/dtroode/outagetracker/internal/logger"
	"github.com/dtroode/outagetracker/internal/model"
)

const (
	DefaultURL     = "https://maps.googleapis.com/maps/api/geocode/json"
	DefaultTimeout = 10 * time.Second
)

// Geocoder converts between addresses and coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (model.Address, error)
	ReverseGeocode(ctx context.Context, lat, lng float64) (model.Address, error)
}

var _ Geocoder = (*Google)(nil)

// Component is one entry of a result's address_components.
type Component struct {
	LongName  string   `json:"long_name"`
	ShortName string   `json:"short_name"`
	Types     []string `json:"types"`
}

// Result is one geocoding match.
type Result struct {
	FormattedAddress  string      `json:"formatted_address"`
	PlaceID           string      `json:"place_id"`
	AddressComponents []Component `json:"address_components"`
	Geometry          struct {
		Location struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"location"`
	} `json:"geometry"`
}

type response struct {
	Status       string   `json:"status"`
	ErrorMessage string   `json:"error_message"`
	Results      []Result `json:"results"`
}

// Google is a Geocoder backed by the Google Geocoding REST API.
type Google struct {
	baseURL    string
	apiKey     string
	timeout    time.Duration
	httpClient *http.Client
	logger     *logger.Logger
}

// NewGoogle creates a Google geocoder. Empty baseURL and zero timeout
// select the defaults.
func NewGoogle(baseURL, apiKey string, timeout time.Duration, base http.RoundTripper, logger *logger.Logger) *Google {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if base == nil {
		base = http.DefaultTransport
	}

	return &Google{
		baseURL:    baseURL,
		apiKey:     apiKey,
		timeout:    timeout,
		httpClient: &http.Client{Transport: middleware.Chain(base, middleware.NewLogging(logger).Wrap)},
		logger:     logger,
	}
}

// Geocode resolves a free-form address.
func (g *Google) Geocode(ctx context.Context, address string) (model.Address, error) {
	q := url.Values{}
	q.Set("address", address)

	res, err := g.lookup(ctx, q)
	if err != nil {
		return model.Address{}, fmt.Errorf("geocoding failed: %w", err)
	}

	addr := ExtractAddressComponents(res)
	addr.Lat = res.Geometry.Location.Lat
	addr.Lng = res.Geometry.Location.Lng

	return addr, nil
}

// ReverseGeocode resolves coordinates to the nearest address. The
// returned coordinates are the ones asked for.
func (g *Google) ReverseGeocode(ctx context.Context, lat, lng float64) (model.Address, error) {
	q := url.Values{}
	q.Set("latlng", strconv.FormatFloat(lat, 'f', -1, 64)+","+strconv.FormatFloat(lng, 'f', -1, 64))

	res, err := g.lookup(ctx, q)
	if err != nil {
		return model.Address{}, fmt.Errorf("reverse geocoding failed: %w", err)
	}

	addr := ExtractAddressComponents(res)
	addr.Lat = lat
	addr.Lng = lng

	return addr, nil
}

func (g *Google) lookup(ctx context.Context, q url.Values) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	if g.apiKey != "" {
		q.Set("key", g.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return Result{}, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var body response
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Result{}, fmt.Errorf("failed to decode response: %w", err)
	}

	if body.Status != "OK" || len(body.Results) == 0 {
		g.logger.Warn("Geocoder: lookup rejected",
			"status", body.Status,
			"message", body.ErrorMessage)
		return Result{}, errors.New(body.Status)
	}

	return body.Results[0], nil
}

// ExtractAddressComponents maps a result's components onto an Address.
// Coordinates are left for the caller to fill.
func ExtractAddressComponents(res Result) model.Address {
	addr := model.Address{
		FormattedAddress: res.FormattedAddress,
		PlaceID:          res.PlaceID,
	}

	for _, c := range res.AddressComponents {
		has := func(t string) bool { return slices.Contains(c.Types, t) }

		if has("street_number") {
			addr.StreetNumber = c.LongName
		}
		if has("route") {
			addr.StreetName = c.LongName
		}
		if has("neighborhood") {
			addr.Neighborhood = c.LongName
		}
		if has("sublocality") || has("sublocality_level_1") {
			addr.Locality = c.LongName
		}
		if has("locality") {
			addr.City = c.LongName
		}
		if has("administrative_area_level_2") {
			addr.County = c.LongName
		}
		if has("administrative_area_level_1") {
			addr.State = c.LongName
			addr.StateCode = c.ShortName
		}
		if has("postal_code") {
			addr.PostalCode = c.LongName
		}
		if has("country") {
			addr.Country = c.LongName
			addr.CountryCode = c.ShortName
		}
	}

	return addr
}
