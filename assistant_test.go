package locas

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/azharlabs/locas/pkg/location"
	"github.com/azharlabs/locas/pkg/models"
	"github.com/azharlabs/locas/pkg/services"
)

// scriptedModel replays canned responses and records every request.
type scriptedModel struct {
	responses []*models.Response
	err       error
	requests  []models.Request
}

func (s *scriptedModel) Complete(ctx context.Context, req models.Request) (*models.Response, error) {
	s.requests = append(s.requests, req)
	if s.err != nil {
		return nil, s.err
	}
	if len(s.requests) > len(s.responses) {
		return &models.Response{Content: "out of script"}, nil
	}
	return s.responses[len(s.requests)-1], nil
}

type stubExtractor struct {
	clean  string
	coords *location.Coordinates
}

func (s stubExtractor) Extract(ctx context.Context, query string) (string, *location.Coordinates) {
	if s.clean == "" {
		return query, s.coords
	}
	return s.clean, s.coords
}

func toolCallResponse(id, name, args string) *models.Response {
	return &models.Response{ToolCalls: []models.ToolCall{{ID: id, Name: name, Arguments: args}}}
}

func newTestAssistant(t *testing.T, model models.ChatModel, extractor LocationExtractor) *Assistant {
	t.Helper()
	a, err := New(Options{
		Model:     model,
		Extractor: extractor,
		Places:    &captureFinder{results: &services.PlaceResults{SearchTerm: "parks", TotalFound: 1, Places: []services.Place{{Name: "Cubbon Park", Address: "Kasturba Road"}}}},
		Search:    stubSearcher{set: &services.SearchResultSet{}},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return a
}

func TestNewRequiresModelAndExtractor(t *testing.T) {
	if _, err := New(Options{Extractor: stubExtractor{}}); err == nil {
		t.Error("expected error without a model")
	}
	if _, err := New(Options{Model: &scriptedModel{}}); err == nil {
		t.Error("expected error without an extractor")
	}
}

func TestProcessDirectAnswer(t *testing.T) {
	model := &scriptedModel{responses: []*models.Response{{Content: "Here is what I know."}}}
	a := newTestAssistant(t, model, stubExtractor{coords: &location.Coordinates{Latitude: 37.7749, Longitude: -122.4194}})

	result := a.NewSession().Process(context.Background(), "find parks nearby", ProcessOptions{})

	if result.Status != StatusSuccess || result.Result != "Here is what I know." {
		t.Fatalf("result = %+v", result)
	}
	if result.Tool != "" {
		t.Errorf("direct answer should carry an empty tool tag, got %q", result.Tool)
	}
	if len(model.requests) != 1 {
		t.Fatalf("loop should stop after one turn, made %d calls", len(model.requests))
	}
	user := model.requests[0].Messages[1]
	if !strings.Contains(user.Content, "My location is 37.7749, -122.4194") {
		t.Errorf("coordinates not appended to user turn: %q", user.Content)
	}
	if len(model.requests[0].Tools) != 5 {
		t.Errorf("catalog not passed to the model: %d tools", len(model.requests[0].Tools))
	}
}

func TestProcessToolCallThenAnswer(t *testing.T) {
	model := &scriptedModel{responses: []*models.Response{
		toolCallResponse("call-1", ToolFindPlaces, `{"place_type":"park"}`),
		{Content: "There is one park near you: Cubbon Park."},
	}}
	a := newTestAssistant(t, model, stubExtractor{coords: &location.Coordinates{Latitude: 12.97, Longitude: 77.59}})

	result := a.NewSession().Process(context.Background(), "find parks nearby", ProcessOptions{})

	if result.Status != StatusSuccess {
		t.Fatalf("result = %+v", result)
	}
	if result.Tool != ToolFindPlaces {
		t.Errorf("tool tag = %q, want %q", result.Tool, ToolFindPlaces)
	}

	// The second request must contain the assistant turn with its tool call
	// and the answering tool turn.
	second := model.requests[1].Messages
	assistantTurn := second[len(second)-2]
	toolTurn := second[len(second)-1]
	if assistantTurn.Role != models.RoleAssistant || len(assistantTurn.ToolCalls) != 1 {
		t.Errorf("assistant turn not recorded: %+v", assistantTurn)
	}
	if toolTurn.Role != models.RoleTool || toolTurn.ToolCallID != "call-1" || toolTurn.Name != ToolFindPlaces {
		t.Errorf("tool turn = %+v", toolTurn)
	}
	if !strings.HasPrefix(toolTurn.Content, "Found 1 parks:") {
		t.Errorf("tool turn content = %q", toolTurn.Content)
	}
}

func TestProcessNoLocation(t *testing.T) {
	model := &scriptedModel{responses: []*models.Response{{Content: "unreachable"}}}
	a := newTestAssistant(t, model, stubExtractor{coords: nil})

	result := a.NewSession().Process(context.Background(), "what's the weather like", ProcessOptions{})

	if result.Status != StatusWarning {
		t.Fatalf("status = %q, want %q", result.Status, StatusWarning)
	}
	if result.Result != NoValidAddressMessage {
		t.Errorf("result = %q", result.Result)
	}
	if len(model.requests) != 0 {
		t.Errorf("model should not be called without a location")
	}
}

func TestProcessStickyCoordinates(t *testing.T) {
	model := &scriptedModel{responses: []*models.Response{
		{Content: "first answer"},
		{Content: "second answer"},
	}}
	extractor := &switchableExtractor{coords: &location.Coordinates{Latitude: 51.5, Longitude: -0.12}}
	a := newTestAssistant(t, model, extractor)
	session := a.NewSession()

	first := session.Process(context.Background(), "restaurants near London Bridge", ProcessOptions{})
	if first.Status != StatusSuccess {
		t.Fatalf("first result = %+v", first)
	}

	// Second query has no location of its own; the session falls back to
	// the previous coordinates.
	extractor.coords = nil
	second := session.Process(context.Background(), "any good cafes?", ProcessOptions{})
	if second.Status != StatusSuccess {
		t.Fatalf("second result = %+v", second)
	}
	if !strings.Contains(model.requests[1].Messages[1].Content, "My location is 51.5, -0.12") {
		t.Errorf("sticky coordinates not applied: %q", model.requests[1].Messages[1].Content)
	}
}

type switchableExtractor struct {
	coords *location.Coordinates
}

func (s *switchableExtractor) Extract(ctx context.Context, query string) (string, *location.Coordinates) {
	return query, s.coords
}

func TestProcessExplicitCoordinatesWin(t *testing.T) {
	model := &scriptedModel{responses: []*models.Response{{Content: "ok"}}}
	a := newTestAssistant(t, model, stubExtractor{coords: &location.Coordinates{Latitude: 1, Longitude: 2}})

	lat, lng := 48.8584, 2.2945
	a.NewSession().Process(context.Background(), "restaurants nearby", ProcessOptions{Latitude: &lat, Longitude: &lng})

	if !strings.Contains(model.requests[0].Messages[1].Content, "My location is 48.8584, 2.2945") {
		t.Errorf("explicit coordinates not preferred: %q", model.requests[0].Messages[1].Content)
	}
}

func TestProcessModelFailure(t *testing.T) {
	model := &scriptedModel{err: errors.New("connection refused")}
	a := newTestAssistant(t, model, stubExtractor{coords: &location.Coordinates{Latitude: 1, Longitude: 2}})

	result := a.NewSession().Process(context.Background(), "find parks", ProcessOptions{})

	if result.Status != StatusError {
		t.Fatalf("status = %q, want %q", result.Status, StatusError)
	}
	if !strings.Contains(result.Result, "connection refused") {
		t.Errorf("result should embed the failure: %q", result.Result)
	}
}

func TestProcessTurnBudget(t *testing.T) {
	// Every turn requests another tool call; the loop must stop at five
	// model calls and return the apology.
	var responses []*models.Response
	for i := 0; i < 10; i++ {
		responses = append(responses, toolCallResponse("call", ToolFindPlaces, `{"place_type":"park"}`))
	}
	model := &scriptedModel{responses: responses}
	a := newTestAssistant(t, model, stubExtractor{coords: &location.Coordinates{Latitude: 1, Longitude: 2}})

	result := a.NewSession().Process(context.Background(), "find parks", ProcessOptions{})

	if len(model.requests) != 5 {
		t.Fatalf("made %d model calls, want exactly 5", len(model.requests))
	}
	if result.Status != StatusSuccess || result.Result != TurnBudgetMessage {
		t.Fatalf("result = %+v", result)
	}
	if result.Tool != "" {
		t.Errorf("budget exhaustion should carry an empty tool tag, got %q", result.Tool)
	}
}

func TestProcessToolErrorKeepsConversationAlive(t *testing.T) {
	model := &scriptedModel{responses: []*models.Response{
		toolCallResponse("call-1", "teleport", "{}"),
		{Content: "Sorry, I could not do that."},
	}}
	a := newTestAssistant(t, model, stubExtractor{coords: &location.Coordinates{Latitude: 1, Longitude: 2}})

	result := a.NewSession().Process(context.Background(), "teleport me home", ProcessOptions{})

	if result.Status != StatusSuccess {
		t.Fatalf("result = %+v", result)
	}
	toolTurn := model.requests[1].Messages[len(model.requests[1].Messages)-1]
	if toolTurn.Content != "Error: Unknown tool: teleport" {
		t.Errorf("tool turn = %q", toolTurn.Content)
	}
}

func TestProcessReportsToolProgress(t *testing.T) {
	model := &scriptedModel{responses: []*models.Response{
		toolCallResponse("call-1", ToolFindPlaces, `{"place_type":"park"}`),
		{Content: "done"},
	}}
	a := newTestAssistant(t, model, stubExtractor{coords: &location.Coordinates{Latitude: 1, Longitude: 2}})

	var seen []string
	a.NewSession().Process(context.Background(), "find parks", ProcessOptions{
		OnToolSelected: func(name string) { seen = append(seen, name) },
	})

	if len(seen) != 1 || seen[0] != ToolFindPlaces {
		t.Errorf("progress callbacks = %v", seen)
	}
}
