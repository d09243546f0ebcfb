package locas

import "context"

// Event kinds emitted by ProcessStream.
const (
	EventTool  = "tool"
	EventFinal = "final"
)

// Event is one frame of a streamed query: zero or more tool events while the
// conversation runs, then exactly one final event carrying the result.
type Event struct {
	Type   string `json:"type"`
	Tool   string `json:"tool,omitempty"`
	Status string `json:"status,omitempty"`
	Result string `json:"result,omitempty"`
}

// ProcessStream runs Process on its own goroutine and reports progress over
// the returned channel. Tool events arrive in invocation order; the final
// event is always last, after which the channel is closed.
func (s *Session) ProcessStream(ctx context.Context, query string, opts ProcessOptions) <-chan Event {
	events := make(chan Event)

	go func() {
		defer close(events)

		userCallback := opts.OnToolSelected
		opts.OnToolSelected = func(name string) {
			if userCallback != nil {
				userCallback(name)
			}
			events <- Event{Type: EventTool, Tool: name}
		}

		result := s.Process(ctx, query, opts)
		events <- Event{
			Type:   EventFinal,
			Status: result.Status,
			Result: result.Result,
			Tool:   result.Tool,
		}
	}()

	return events
}
