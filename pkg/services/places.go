// Package services holds the outbound collaborators of the assistant: place
// lookup, environmental data, web search, and the location analyzers built on
// top of them.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	placesNearbyURL = "https://maps.googleapis.com/maps/api/place/nearbysearch/json"

	serviceTimeout = 30 * time.Second

	// DefaultRadius is the search radius in meters used when a tool call
	// omits one.
	DefaultRadius = 1000
)

// Place is a single nearby-search hit.
type Place struct {
	Name    string  `json:"name"`
	Address string  `json:"address"`
	Rating  float64 `json:"rating,omitempty"`
}

// PlaceResults is the outcome of one nearby search.
type PlaceResults struct {
	Places     []Place `json:"places"`
	TotalFound int     `json:"total_found"`
	SearchTerm string  `json:"search_term"`
}

// PlacesClient queries the Google Places nearby-search endpoint.
type PlacesClient struct {
	APIKey  string
	BaseURL string
	Client  *http.Client
}

func NewPlacesClient(apiKey string) *PlacesClient {
	return &PlacesClient{
		APIKey:  apiKey,
		BaseURL: placesNearbyURL,
		Client:  &http.Client{Timeout: serviceTimeout},
	}
}

// FindPlaces searches for places of placeType around the coordinates. The
// keyword narrows results and doubles as the reported search term.
func (p *PlacesClient) FindPlaces(ctx context.Context, lat, lng float64, placeType string, radius int, keyword string) (*PlaceResults, error) {
	if p.APIKey == "" {
		return nil, fmt.Errorf("places: missing API key")
	}
	if radius <= 0 {
		radius = DefaultRadius
	}

	q := url.Values{}
	q.Set("location", fmt.Sprintf("%f,%f", lat, lng))
	q.Set("radius", strconv.Itoa(radius))
	q.Set("key", p.APIKey)
	if placeType != "" {
		q.Set("type", placeType)
	}
	if keyword != "" {
		q.Set("keyword", keyword)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("places search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("places search: unexpected status %d", resp.StatusCode)
	}

	var payload struct {
		Status  string `json:"status"`
		Results []struct {
			Name     string  `json:"name"`
			Vicinity string  `json:"vicinity"`
			Rating   float64 `json:"rating"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("places search: decode: %w", err)
	}
	if payload.Status != "OK" && payload.Status != "ZERO_RESULTS" {
		return nil, fmt.Errorf("places search: status %s", payload.Status)
	}

	term := keyword
	if term == "" {
		term = placeType
	}
	results := &PlaceResults{SearchTerm: term}
	for _, r := range payload.Results {
		results.Places = append(results.Places, Place{Name: r.Name, Address: r.Vicinity, Rating: r.Rating})
	}
	results.TotalFound = len(results.Places)
	return results, nil
}
