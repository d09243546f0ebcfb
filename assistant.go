// Package locas implements a location-intelligence assistant: it extracts a
// location from free text, then drives a bounded function-calling
// conversation in which a language model selects among place search,
// land-purchase analysis, business-viability analysis, environmental lookup,
// and web search tools.
package locas

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/azharlabs/locas/pkg/location"
	"github.com/azharlabs/locas/pkg/logx"
	"github.com/azharlabs/locas/pkg/models"
)

const defaultSystemPrompt = `You are a helpful location assistant that helps users find places near them and provides environmental information.

When users ask about places, use the appropriate search function based on their request:
- For finding places by category, use find_places
- For comprehensive location analysis, use analyze_location_suitability
- For business viability analysis, use analyze_business_viability
- For information that requires real-time data, use search_web

When users ask about air quality or pollen, use the get_environmental_data function.

Always format search results in a user-friendly way. If distances are available,
mention them to help the user understand how far places are from them.

If the requested data is not available for a location, explain the issue in a helpful way.`

const (
	defaultMaxTurns = 5

	// TurnBudgetMessage is the answer returned when the conversation uses
	// all its turns without the model producing a plain response.
	TurnBudgetMessage = "I'm sorry, I wasn't able to complete your request within the allowed number of turns."

	// NoValidAddressMessage asks the user to supply a location when none
	// could be resolved from any source.
	NoValidAddressMessage = "The address was not found. Kindly include the address in your query to proceed."
)

// Result statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusWarning = "warning"
)

// LocationExtractor turns a raw query into a clean query and optional
// coordinates. Implementations never fail; a miss is (query, nil).
type LocationExtractor interface {
	Extract(ctx context.Context, query string) (string, *location.Coordinates)
}

// QueryResult is the outcome of one processed query.
type QueryResult struct {
	Status string `json:"status"`
	Result string `json:"result"`
	// Tool is the name of the last tool invoked while answering, empty
	// when the model answered directly or the turn budget ran out.
	Tool string `json:"tool"`
}

// Assistant holds the shared, read-only wiring. Per-query state lives in a
// Session.
type Assistant struct {
	model        models.ChatModel
	extractor    LocationExtractor
	catalog      ToolCatalog
	places       PlacesFinder
	environment  EnvironmentalSource
	analyzer     LocationAnalyzer
	search       WebSearcher
	systemPrompt string
	maxTurns     int
}

// Options configure a new Assistant.
type Options struct {
	Model       models.ChatModel
	Extractor   LocationExtractor
	Catalog     ToolCatalog
	Places      PlacesFinder
	Environment EnvironmentalSource
	Analyzer    LocationAnalyzer
	Search      WebSearcher

	SystemPrompt string
	MaxTurns     int
}

// New creates an Assistant with the provided options.
func New(opts Options) (*Assistant, error) {
	if opts.Model == nil {
		return nil, errors.New("assistant requires a language model")
	}
	if opts.Extractor == nil {
		return nil, errors.New("assistant requires a location extractor")
	}

	catalog := opts.Catalog
	if catalog == nil {
		catalog = DefaultCatalog()
	}

	systemPrompt := opts.SystemPrompt
	if strings.TrimSpace(systemPrompt) == "" {
		systemPrompt = defaultSystemPrompt
	}

	maxTurns := opts.MaxTurns
	if maxTurns <= 0 {
		maxTurns = defaultMaxTurns
	}

	return &Assistant{
		model:        opts.Model,
		extractor:    opts.Extractor,
		catalog:      catalog,
		places:       opts.Places,
		environment:  opts.Environment,
		analyzer:     opts.Analyzer,
		search:       opts.Search,
		systemPrompt: systemPrompt,
		maxTurns:     maxTurns,
	}, nil
}

// Session carries the sticky coordinates across queries from one caller.
// Sessions are not safe for concurrent use; concurrent callers should hold
// separate sessions.
type Session struct {
	assistant *Assistant
	coords    *location.Coordinates
}

// NewSession starts a session with no known location.
func (a *Assistant) NewSession() *Session {
	return &Session{assistant: a}
}

// ProcessOptions carry the optional per-query inputs.
type ProcessOptions struct {
	// Explicit coordinates win over anything extracted from the query.
	Latitude  *float64
	Longitude *float64
	// OnToolSelected fires synchronously, in invocation order, before each
	// tool runs.
	OnToolSelected func(name string)
}

// Process answers one query. It never returns an error: model and
// collaborator failures surface as StatusError results, an unresolvable
// location as StatusWarning.
func (s *Session) Process(ctx context.Context, query string, opts ProcessOptions) QueryResult {
	a := s.assistant

	clean, extracted := a.extractor.Extract(ctx, query)

	coords := s.resolveCoordinates(opts, extracted)
	if coords == nil {
		return QueryResult{Status: StatusWarning, Result: NoValidAddressMessage}
	}
	s.coords = coords

	logx.Debug().
		Float64("lat", coords.Latitude).
		Float64("lng", coords.Longitude).
		Str("query", clean).
		Msg("processing query")

	d := &dispatcher{
		places:      a.places,
		environment: a.environment,
		analyzer:    a.analyzer,
		search:      a.search,
		coords:      *coords,
		userQuery:   clean,
		onSelected:  opts.OnToolSelected,
	}

	transcript := []models.Message{
		{Role: models.RoleSystem, Content: a.systemPrompt},
		{Role: models.RoleUser, Content: fmt.Sprintf("%s My location is %v, %v", clean, coords.Latitude, coords.Longitude)},
	}

	lastTool := ""
	for turn := 0; turn < a.maxTurns; turn++ {
		resp, err := a.model.Complete(ctx, models.Request{
			Messages:    transcript,
			Tools:       a.catalog.Specs(),
			Temperature: 0.7,
			MaxTokens:   1000,
		})
		if err != nil {
			logx.Error().Err(err).Msg("model call failed")
			return QueryResult{
				Status: StatusError,
				Result: fmt.Sprintf("Error processing your request: %v", err),
				Tool:   lastTool,
			}
		}

		transcript = append(transcript, models.Message{
			Role:      models.RoleAssistant,
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})

		if len(resp.ToolCalls) == 0 {
			return QueryResult{Status: StatusSuccess, Result: resp.Content, Tool: lastTool}
		}

		for _, call := range resp.ToolCalls {
			result := d.Dispatch(ctx, call)
			transcript = append(transcript, models.Message{
				Role:       models.RoleTool,
				ToolCallID: call.ID,
				Name:       call.Name,
				Content:    FormatToolResult(result),
			})
			lastTool = call.Name
		}
	}

	return QueryResult{Status: StatusSuccess, Result: TurnBudgetMessage}
}

// resolveCoordinates applies the precedence explicit > extracted > sticky.
func (s *Session) resolveCoordinates(opts ProcessOptions, extracted *location.Coordinates) *location.Coordinates {
	if opts.Latitude != nil && opts.Longitude != nil {
		c := location.Coordinates{Latitude: *opts.Latitude, Longitude: *opts.Longitude}
		if c.Valid() {
			return &c
		}
	}
	if extracted != nil {
		return extracted
	}
	return s.coords
}

// Coordinates returns the session's sticky coordinates, nil before the first
// resolved query.
func (s *Session) Coordinates() *location.Coordinates {
	return s.coords
}
