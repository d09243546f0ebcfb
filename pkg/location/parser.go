package location

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/azharlabs/locas/pkg/logx"
	"github.com/azharlabs/locas/pkg/models"
)

// Parser extracts location information from free-text queries using a
// cascading strategy: LLM classification, geocoding, then treating the whole
// query as an address. Extraction never fails the caller; every stage that
// goes wrong is logged and treated as a miss.
type Parser struct {
	model    models.ChatModel
	geocoder Geocoder
}

func NewParser(model models.ChatModel, geocoder Geocoder) *Parser {
	return &Parser{model: model, geocoder: geocoder}
}

const extractionSystemPrompt = "You are a location information extraction assistant. Extract location data from user queries and format as specified."

const extractionPromptTemplate = `Analyze the following query and extract any location information:

%q

Identify if it contains:
1. Specific coordinates (latitude and longitude)
2. A Google Maps URL
3. A physical address or named location

Format your response as a JSON object with these fields:
- type: "coordinates", "map_url", "address", or "none"
- value: The extracted value (coordinates as {"lat": float, "lng": float}, URL as string, or address as string)
- clean_query: The original query with the location information removed

Only return the JSON object, no additional text.`

const mapURLPromptTemplate = `Extract the latitude and longitude coordinates from this Google Maps URL:

%q

Format your response as a JSON object with:
- lat: The latitude as a float
- lng: The longitude as a float

If you cannot find coordinates, return {"lat": null, "lng": null}
Only return the JSON object, no additional text.`

type extractionResult struct {
	Type       string          `json:"type"`
	Value      json.RawMessage `json:"value"`
	CleanQuery string          `json:"clean_query"`
}

// Extract returns the query with any location phrase removed plus the
// resolved coordinates, or (query, nil) when no stage succeeds.
func (p *Parser) Extract(ctx context.Context, query string) (string, *Coordinates) {
	clean := query
	var coords *Coordinates

	if extraction := p.extractWithLLM(ctx, query); extraction != nil {
		if c := strings.TrimSpace(extraction.CleanQuery); c != "" {
			clean = c
		}
		switch extraction.Type {
		case "coordinates":
			coords = decodeCoordinateValue(extraction.Value)
		case "map_url":
			if u := decodeStringValue(extraction.Value); u != "" {
				coords = p.extractFromMapURL(ctx, u)
			}
		case "address":
			if addr := decodeStringValue(extraction.Value); addr != "" {
				coords = p.geocode(ctx, addr)
			}
		}
	}

	// Last resort: the whole query might itself be an address.
	if coords == nil {
		clean = query
		if c := p.geocode(ctx, strings.TrimSpace(query)); c != nil {
			coords = c
		}
	}

	return clean, coords
}

func (p *Parser) extractWithLLM(ctx context.Context, query string) *extractionResult {
	if p.model == nil {
		return nil
	}
	resp, err := p.model.Complete(ctx, models.Request{
		Messages: []models.Message{
			{Role: models.RoleSystem, Content: extractionSystemPrompt},
			{Role: models.RoleUser, Content: fmt.Sprintf(extractionPromptTemplate, query)},
		},
		Temperature: 0.1,
		JSONOnly:    true,
	})
	if err != nil {
		logx.Warn().Err(err).Msg("location extraction call failed")
		return nil
	}

	var result extractionResult
	if err := json.Unmarshal([]byte(resp.Content), &result); err != nil {
		logx.Warn().Err(err).Msg("location extraction returned malformed JSON")
		return nil
	}
	return &result
}

func (p *Parser) extractFromMapURL(ctx context.Context, mapURL string) *Coordinates {
	if p.model == nil {
		return nil
	}
	resp, err := p.model.Complete(ctx, models.Request{
		Messages: []models.Message{
			{Role: models.RoleSystem, Content: "You are a URL parsing assistant that extracts coordinates from Google Maps URLs."},
			{Role: models.RoleUser, Content: fmt.Sprintf(mapURLPromptTemplate, mapURL)},
		},
		Temperature: 0.1,
		JSONOnly:    true,
	})
	if err != nil {
		logx.Warn().Err(err).Msg("map URL extraction call failed")
		return nil
	}

	var pair struct {
		Lat *float64 `json:"lat"`
		Lng *float64 `json:"lng"`
	}
	if err := json.Unmarshal([]byte(resp.Content), &pair); err != nil {
		return nil
	}
	if pair.Lat == nil || pair.Lng == nil {
		return nil
	}
	coords := Coordinates{Latitude: *pair.Lat, Longitude: *pair.Lng}
	if !coords.Valid() {
		return nil
	}
	return &coords
}

func (p *Parser) geocode(ctx context.Context, address string) *Coordinates {
	if p.geocoder == nil || address == "" {
		return nil
	}
	coords, err := p.geocoder.Geocode(ctx, address)
	if err != nil {
		logx.Warn().Err(err).Str("address", address).Msg("geocoding failed")
		return nil
	}
	return coords
}

// decodeCoordinateValue accepts {"lat": .., "lng": ..} objects and discards
// out-of-range pairs.
func decodeCoordinateValue(raw json.RawMessage) *Coordinates {
	if len(raw) == 0 {
		return nil
	}
	var pair struct {
		Lat *float64 `json:"lat"`
		Lng *float64 `json:"lng"`
	}
	if err := json.Unmarshal(raw, &pair); err != nil {
		return nil
	}
	if pair.Lat == nil || pair.Lng == nil {
		return nil
	}
	coords := Coordinates{Latitude: *pair.Lat, Longitude: *pair.Lng}
	if !coords.Valid() {
		return nil
	}
	return &coords
}

func decodeStringValue(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}
