package rest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dtroode/outagetracker/internal/model"
)

type locationResponse struct {
	Location model.Location `json:"location"`
}

type listQuery model.ListParams

func (p listQuery) values() url.Values {
	v := url.Values{}
	if p.Page > 0 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	if p.PerPage > 0 {
		v.Set("per_page", strconv.Itoa(p.PerPage))
	}
	if p.Search != "" {
		v.Set("search", p.Search)
	}
	return v
}

// FetchLocations lists the current user's locations.
func (c *Client) FetchLocations(ctx context.Context, params model.ListParams) (model.LocationPage, error) {
	var page model.LocationPage
	if err := c.do(ctx, http.MethodGet, "/locations", listQuery(params).values(), nil, &page); err != nil {
		return model.LocationPage{}, err
	}
	if page.Data == nil {
		page.Data = []model.Location{}
	}
	return page, nil
}

// FetchLocation returns a single location.
func (c *Client) FetchLocation(ctx context.Context, id int64) (model.Location, error) {
	var res locationResponse
	if err := c.do(ctx, http.MethodGet, locationPath(id), nil, nil, &res); err != nil {
		return model.Location{}, err
	}
	return res.Location, nil
}

// CreateLocation creates a location. A duplicate by coordinates fails with
// a conflict error carrying the existing record.
func (c *Client) CreateLocation(ctx context.Context, input model.LocationInput) (model.Location, error) {
	var res locationResponse
	if err := c.do(ctx, http.MethodPost, "/locations", nil, input, &res); err != nil {
		return model.Location{}, err
	}
	return res.Location, nil
}

// UpdateLocation replaces the location with the given id.
func (c *Client) UpdateLocation(ctx context.Context, id int64, input model.LocationInput) (model.Location, error) {
	var res locationResponse
	if err := c.do(ctx, http.MethodPut, locationPath(id), nil, input, &res); err != nil {
		return model.Location{}, err
	}
	return res.Location, nil
}

// DeleteLocation removes the location with the given id.
func (c *Client) DeleteLocation(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, locationPath(id), nil, nil, nil)
}

func locationPath(id int64) string {
	return fmt.Sprintf("/locations/%d", id)
}
