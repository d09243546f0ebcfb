package location

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

// Coordinates is a validated latitude/longitude pair.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether the pair is inside the WGS84 ranges.
func (c Coordinates) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 && c.Longitude >= -180 && c.Longitude <= 180
}

// Geocoder resolves a free-text address to coordinates. A nil result with a
// nil error means the provider found nothing.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*Coordinates, error)
}

const (
	googleGeocodeURL = "https://maps.googleapis.com/maps/api/geocode/json"
	nominatimURL     = "https://nominatim.openstreetmap.org/search"

	geocodeTimeout = 10 * time.Second
)

// GoogleGeocoder geocodes through the Google Maps Geocoding API.
type GoogleGeocoder struct {
	APIKey  string
	BaseURL string
	Client  *http.Client
}

func NewGoogleGeocoder(apiKey string) *GoogleGeocoder {
	return &GoogleGeocoder{
		APIKey:  apiKey,
		BaseURL: googleGeocodeURL,
		Client:  &http.Client{Timeout: geocodeTimeout},
	}
}

func (g *GoogleGeocoder) Geocode(ctx context.Context, address string) (*Coordinates, error) {
	if g.APIKey == "" {
		return nil, fmt.Errorf("google geocoder: missing API key")
	}

	q := url.Values{}
	q.Set("address", address)
	q.Set("key", g.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := g.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("google geocode: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google geocode: unexpected status %d", resp.StatusCode)
	}

	var payload struct {
		Status  string `json:"status"`
		Results []struct {
			Geometry struct {
				Location struct {
					Lat float64 `json:"lat"`
					Lng float64 `json:"lng"`
				} `json:"location"`
			} `json:"geometry"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("google geocode: decode: %w", err)
	}
	if payload.Status != "OK" || len(payload.Results) == 0 {
		return nil, nil
	}

	loc := payload.Results[0].Geometry.Location
	coords := Coordinates{Latitude: loc.Lat, Longitude: loc.Lng}
	if !coords.Valid() {
		return nil, nil
	}
	return &coords, nil
}

// NominatimGeocoder is the no-key fallback geocoder. Nominatim's usage policy
// caps clients at one request per second, enforced here with a limiter.
type NominatimGeocoder struct {
	BaseURL   string
	UserAgent string
	Client    *http.Client
	limiter   *rate.Limiter
}

func NewNominatimGeocoder(userAgent string) *NominatimGeocoder {
	if userAgent == "" {
		userAgent = "location_assistant"
	}
	return &NominatimGeocoder{
		BaseURL:   nominatimURL,
		UserAgent: userAgent,
		Client:    &http.Client{Timeout: geocodeTimeout},
		limiter:   rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

func (n *NominatimGeocoder) Geocode(ctx context.Context, address string) (*Coordinates, error) {
	if n.limiter != nil {
		if err := n.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	q := url.Values{}
	q.Set("q", address)
	q.Set("format", "json")
	q.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", n.UserAgent)

	resp, err := n.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("nominatim geocode: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nominatim geocode: unexpected status %d", resp.StatusCode)
	}

	var payload []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("nominatim geocode: decode: %w", err)
	}
	if len(payload) == 0 {
		return nil, nil
	}

	lat, err := strconv.ParseFloat(payload[0].Lat, 64)
	if err != nil {
		return nil, nil
	}
	lng, err := strconv.ParseFloat(payload[0].Lon, 64)
	if err != nil {
		return nil, nil
	}

	coords := Coordinates{Latitude: lat, Longitude: lng}
	if !coords.Valid() {
		return nil, nil
	}
	return &coords, nil
}

// ChainGeocoder tries each provider in order and returns the first hit.
// Provider errors are swallowed so a failing primary falls through to the
// fallback.
type ChainGeocoder struct {
	Providers []Geocoder
}

func NewChainGeocoder(providers ...Geocoder) *ChainGeocoder {
	return &ChainGeocoder{Providers: providers}
}

func (c *ChainGeocoder) Geocode(ctx context.Context, address string) (*Coordinates, error) {
	for _, p := range c.Providers {
		if p == nil {
			continue
		}
		coords, err := p.Geocode(ctx, address)
		if err != nil {
			continue
		}
		if coords != nil {
			return coords, nil
		}
	}
	return nil, nil
}

var (
	_ Geocoder = (*GoogleGeocoder)(nil)
	_ Geocoder = (*NominatimGeocoder)(nil)
	_ Geocoder = (*ChainGeocoder)(nil)
)
