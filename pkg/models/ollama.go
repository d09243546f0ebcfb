package models

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	ollama "github.com/ollama/ollama/api"
)

// ---------------------------- Ollama -----------------------------------------

// OllamaLLM implements ChatModel against a local Ollama server. It is a
// plain-completion adapter: tool definitions are ignored and tool calls are
// never returned, which keeps it usable for extraction and formatting calls.
type OllamaLLM struct {
	Client *ollama.Client
	Model  string
}

func NewOllamaLLM(model string) (*OllamaLLM, error) {
	host := os.Getenv("OLLAMA_HOST")
	if host == "" {
		host = "http://localhost:11434"
	}

	u, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("invalid OLLAMA_HOST %q: %w", host, err)
	}

	httpClient := &http.Client{
		Timeout: 60 * time.Second,
	}

	return &OllamaLLM{Client: ollama.NewClient(u, httpClient), Model: model}, nil
}

func (o *OllamaLLM) Complete(ctx context.Context, req Request) (*Response, error) {
	messages := make([]ollama.Message, 0, len(req.Messages))
	for _, m := range req.Messages {
		content := m.Content
		if m.Role == RoleTool && m.Name != "" {
			content = fmt.Sprintf("%s => %s", m.Name, m.Content)
		}
		messages = append(messages, ollama.Message{Role: m.Role, Content: content})
	}

	stream := false
	chatReq := &ollama.ChatRequest{
		Model:    o.Model,
		Messages: messages,
		Stream:   &stream,
	}
	if req.JSONOnly {
		chatReq.Format = json.RawMessage(`"json"`)
	}
	if req.Temperature > 0 {
		chatReq.Options = map[string]any{"temperature": req.Temperature}
	}

	var text strings.Builder
	if err := o.Client.Chat(ctx, chatReq, func(cr ollama.ChatResponse) error {
		text.WriteString(cr.Message.Content)
		return nil
	}); err != nil {
		return nil, err
	}

	return &Response{Content: text.String()}, nil
}

var _ ChatModel = (*OllamaLLM)(nil)
