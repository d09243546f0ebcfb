package locas

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/azharlabs/locas/pkg/location"
	"github.com/azharlabs/locas/pkg/models"
	"github.com/azharlabs/locas/pkg/services"
)

// Collaborator interfaces the dispatcher calls through. The concrete
// implementations live in pkg/services; tests substitute stubs.
type (
	PlacesFinder interface {
		FindPlaces(ctx context.Context, lat, lng float64, placeType string, radius int, keyword string) (*services.PlaceResults, error)
	}

	EnvironmentalSource interface {
		GetEnvironmentalData(ctx context.Context, lat, lng float64, dataType string) (*services.EnvReport, error)
	}

	LocationAnalyzer interface {
		AnalyzeLand(ctx context.Context, lat, lng float64, userQuery string, radius int) (string, error)
		AnalyzeBusiness(ctx context.Context, lat, lng float64, userQuery, businessType string, radius int) (string, error)
	}

	WebSearcher interface {
		SearchAndExtract(ctx context.Context, query string, maxResults int) (*services.SearchResultSet, error)
	}
)

// webSearchMaxResults caps how many result pages a search_web call extracts.
const webSearchMaxResults = 2

// dispatcher routes one tool call to the matching collaborator. It never
// returns an error: every failure is a ToolError result.
type dispatcher struct {
	places      PlacesFinder
	environment EnvironmentalSource
	analyzer    LocationAnalyzer
	search      WebSearcher

	coords    location.Coordinates
	userQuery string

	// onSelected fires synchronously before the tool runs.
	onSelected func(name string)
}

// Dispatch executes the named tool with validated, defaulted arguments.
func (d *dispatcher) Dispatch(ctx context.Context, call models.ToolCall) ToolResult {
	if d.onSelected != nil {
		d.onSelected(call.Name)
	}

	args := map[string]any{}
	if call.Arguments != "" {
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			return ToolError{Message: fmt.Sprintf("Invalid arguments for %s: %v", call.Name, err)}
		}
	}

	lat := floatArg(args, "latitude", d.coords.Latitude)
	lng := floatArg(args, "longitude", d.coords.Longitude)

	switch call.Name {
	case ToolFindPlaces:
		if d.places == nil {
			return ToolError{Message: "find_places is not available"}
		}
		results, err := d.places.FindPlaces(ctx, lat, lng,
			stringArg(args, "place_type", ""),
			intArg(args, "radius", services.DefaultRadius),
			stringArg(args, "keyword", ""))
		if err != nil {
			return ToolError{Message: err.Error()}
		}
		return PlaceList{PlaceResults: *results}

	case ToolAnalyzeLand:
		if d.analyzer == nil {
			return ToolError{Message: "analyze_location_suitability is not available"}
		}
		text, err := d.analyzer.AnalyzeLand(ctx, lat, lng, d.userQuery, intArg(args, "radius", services.DefaultRadius))
		if err != nil {
			return ToolError{Message: err.Error()}
		}
		return AnalysisText{Text: text}

	case ToolAnalyzeBusiness:
		if d.analyzer == nil {
			return ToolError{Message: "analyze_business_viability is not available"}
		}
		text, err := d.analyzer.AnalyzeBusiness(ctx, lat, lng, d.userQuery,
			stringArg(args, "business_type", "business"),
			intArg(args, "radius", services.DefaultRadius))
		if err != nil {
			return ToolError{Message: err.Error()}
		}
		return AnalysisText{Text: text}

	case ToolEnvironmentalData:
		if d.environment == nil {
			return ToolError{Message: "get_environmental_data is not available"}
		}
		report, err := d.environment.GetEnvironmentalData(ctx, lat, lng, stringArg(args, "data_type", "both"))
		if err != nil {
			return ToolError{Message: err.Error()}
		}
		return EnvironmentalReport{Message: report.Message}

	case ToolSearchWeb:
		query := stringArg(args, "query", "")
		if query == "" {
			return ToolError{Message: "search_web requires a query"}
		}
		if d.search == nil {
			return ToolError{Message: "search_web is not available"}
		}
		set, err := d.search.SearchAndExtract(ctx, query, webSearchMaxResults)
		if err != nil {
			return ToolError{Message: err.Error()}
		}
		return SearchResultSet{SearchResultSet: *set}

	default:
		return ToolError{Message: "Unknown tool: " + call.Name}
	}
}

func floatArg(args map[string]any, key string, fallback float64) float64 {
	if v, ok := args[key].(float64); ok {
		return v
	}
	return fallback
}

func intArg(args map[string]any, key string, fallback int) int {
	if v, ok := args[key].(float64); ok && v > 0 {
		return int(v)
	}
	return fallback
}

func stringArg(args map[string]any, key, fallback string) string {
	if v, ok := args[key].(string); ok && v != "" {
		return v
	}
	return fallback
}
