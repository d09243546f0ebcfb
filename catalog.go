package locas

import (
	"fmt"
	"strings"
	"sync"

	"github.com/azharlabs/locas/pkg/models"
)

// ToolCatalog exposes the tool definitions the model can call.
type ToolCatalog interface {
	Lookup(name string) (models.ToolDef, bool)
	Specs() []models.ToolDef
}

// StaticToolCatalog is the in-memory ToolCatalog used by the assistant. It
// is populated at construction and read-only afterwards.
type StaticToolCatalog struct {
	mu    sync.RWMutex
	specs map[string]models.ToolDef
	order []string
}

// NewStaticToolCatalog constructs a catalog seeded with the provided specs.
func NewStaticToolCatalog(specs []models.ToolDef) *StaticToolCatalog {
	catalog := &StaticToolCatalog{specs: make(map[string]models.ToolDef)}
	for _, spec := range specs {
		_ = catalog.register(spec)
	}
	return catalog
}

func (c *StaticToolCatalog) register(spec models.ToolDef) error {
	key := strings.ToLower(strings.TrimSpace(spec.Name))
	if key == "" {
		return fmt.Errorf("tool name is empty")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.specs[key]; exists {
		return fmt.Errorf("tool %s already registered", spec.Name)
	}
	c.specs[key] = spec
	c.order = append(c.order, key)
	return nil
}

// Lookup returns the spec for a tool name if present.
func (c *StaticToolCatalog) Lookup(name string) (models.ToolDef, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	spec, ok := c.specs[strings.ToLower(strings.TrimSpace(name))]
	return spec, ok
}

// Specs returns a snapshot of the tool specifications in registration order.
func (c *StaticToolCatalog) Specs() []models.ToolDef {
	c.mu.RLock()
	defer c.mu.RUnlock()

	specs := make([]models.ToolDef, 0, len(c.order))
	for _, key := range c.order {
		specs = append(specs, c.specs[key])
	}
	return specs
}

// Tool names known to the dispatcher.
const (
	ToolFindPlaces        = "find_places"
	ToolAnalyzeLand       = "analyze_location_suitability"
	ToolAnalyzeBusiness   = "analyze_business_viability"
	ToolEnvironmentalData = "get_environmental_data"
	ToolSearchWeb         = "search_web"
)

// DefaultCatalog returns the catalog of the five built-in tools.
func DefaultCatalog() *StaticToolCatalog {
	coordinate := func(desc string) map[string]any {
		return map[string]any{"type": "number", "description": desc}
	}

	return NewStaticToolCatalog([]models.ToolDef{
		{
			Name:        ToolFindPlaces,
			Description: "Find places of a specific type near a location. Use this when the user asks for nearby places such as restaurants, schools, hospitals, or parks.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"latitude":  coordinate("Latitude of the search center"),
					"longitude": coordinate("Longitude of the search center"),
					"place_type": map[string]any{
						"type":        "string",
						"description": "Category of place to search for, e.g. restaurant, school, hospital, park",
					},
					"radius": map[string]any{
						"type":        "integer",
						"description": "Search radius in meters (default 1000)",
					},
					"keyword": map[string]any{
						"type":        "string",
						"description": "Optional keyword to narrow the search",
					},
				},
				"required": []string{"place_type"},
			},
		},
		{
			Name:        ToolAnalyzeLand,
			Description: "Run a comprehensive analysis of a location's suitability for buying land, covering services, amenities, transportation, and environment.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"latitude":  coordinate("Latitude of the location"),
					"longitude": coordinate("Longitude of the location"),
					"radius": map[string]any{
						"type":        "integer",
						"description": "Survey radius in meters (default 1000)",
					},
				},
			},
		},
		{
			Name:        ToolAnalyzeBusiness,
			Description: "Analyze the viability of opening a specific type of business at a location, covering customer traffic, competition, and accessibility.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"latitude":  coordinate("Latitude of the location"),
					"longitude": coordinate("Longitude of the location"),
					"business_type": map[string]any{
						"type":        "string",
						"description": "Type of business, e.g. tea stall, coffee shop, restaurant",
					},
					"radius": map[string]any{
						"type":        "integer",
						"description": "Survey radius in meters (default 1000)",
					},
				},
			},
		},
		{
			Name:        ToolEnvironmentalData,
			Description: "Get current air quality and pollen information for a location. Use this when the user asks about air quality, pollution, pollen, or allergies.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"latitude":  coordinate("Latitude of the location"),
					"longitude": coordinate("Longitude of the location"),
					"data_type": map[string]any{
						"type":        "string",
						"enum":        []string{"air_quality", "pollen", "both"},
						"description": "Which environmental data to fetch (default both)",
					},
				},
			},
		},
		{
			Name:        ToolSearchWeb,
			Description: "Search the web for current information such as news, regulations, or anything requiring real-time data.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query": map[string]any{
						"type":        "string",
						"description": "The search query",
					},
				},
				"required": []string{"query"},
			},
		},
	})
}
