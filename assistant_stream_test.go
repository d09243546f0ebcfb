package locas

import (
	"context"
	"testing"

	"github.com/azharlabs/locas/pkg/location"
	"github.com/azharlabs/locas/pkg/models"
)

func collectEvents(t *testing.T, events <-chan Event) []Event {
	t.Helper()
	var out []Event
	for ev := range events {
		out = append(out, ev)
	}
	return out
}

func TestProcessStreamToolThenFinal(t *testing.T) {
	model := &scriptedModel{responses: []*models.Response{
		toolCallResponse("call-1", ToolFindPlaces, `{"place_type":"park"}`),
		{Content: "There is one park near you."},
	}}
	a := newTestAssistant(t, model, stubExtractor{coords: &location.Coordinates{Latitude: 1, Longitude: 2}})

	events := collectEvents(t, a.NewSession().ProcessStream(context.Background(), "find parks", ProcessOptions{}))

	if len(events) != 2 {
		t.Fatalf("got %d events, want 2: %+v", len(events), events)
	}
	if events[0].Type != EventTool || events[0].Tool != ToolFindPlaces {
		t.Errorf("first event = %+v", events[0])
	}
	final := events[1]
	if final.Type != EventFinal || final.Status != StatusSuccess || final.Result != "There is one park near you." {
		t.Errorf("final event = %+v", final)
	}
	if final.Tool != ToolFindPlaces {
		t.Errorf("final tool tag = %q", final.Tool)
	}
}

func TestProcessStreamFinalIsAlwaysLastAndUnique(t *testing.T) {
	var responses []*models.Response
	for i := 0; i < 10; i++ {
		responses = append(responses, toolCallResponse("call", ToolFindPlaces, `{"place_type":"park"}`))
	}
	model := &scriptedModel{responses: responses}
	a := newTestAssistant(t, model, stubExtractor{coords: &location.Coordinates{Latitude: 1, Longitude: 2}})

	events := collectEvents(t, a.NewSession().ProcessStream(context.Background(), "find parks", ProcessOptions{}))

	finals := 0
	for i, ev := range events {
		switch ev.Type {
		case EventFinal:
			finals++
			if i != len(events)-1 {
				t.Errorf("final event at index %d of %d", i, len(events))
			}
		case EventTool:
			if ev.Tool != ToolFindPlaces {
				t.Errorf("tool event = %+v", ev)
			}
		default:
			t.Errorf("unknown event type %q", ev.Type)
		}
	}
	if finals != 1 {
		t.Errorf("got %d final events, want exactly 1", finals)
	}
	// Five turns, one tool call each, plus the final event.
	if len(events) != 6 {
		t.Errorf("got %d events, want 6", len(events))
	}
}

func TestProcessStreamNoLocation(t *testing.T) {
	model := &scriptedModel{responses: []*models.Response{{Content: "unused"}}}
	a := newTestAssistant(t, model, stubExtractor{})

	events := collectEvents(t, a.NewSession().ProcessStream(context.Background(), "hello", ProcessOptions{}))

	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].Type != EventFinal || events[0].Status != StatusWarning {
		t.Errorf("event = %+v", events[0])
	}
}
