package models

import (
	"context"
	"fmt"
	"strings"
)

// DummyLLM is a lightweight model implementation useful for local runs
// without API calls. It echoes the last non-empty user line.
type DummyLLM struct {
	Prefix string
}

func NewDummyLLM(prefix string) *DummyLLM {
	if strings.TrimSpace(prefix) == "" {
		prefix = "Dummy response:"
	}
	return &DummyLLM{Prefix: prefix}
}

func (d *DummyLLM) Complete(_ context.Context, req Request) (*Response, error) {
	var last string
	for i := len(req.Messages) - 1; i >= 0; i-- {
		candidate := strings.TrimSpace(req.Messages[i].Content)
		if candidate != "" {
			last = candidate
			break
		}
	}
	if last == "" {
		last = "<empty prompt>"
	}
	if req.JSONOnly {
		return &Response{Content: `{"type": "none"}`}, nil
	}
	return &Response{Content: fmt.Sprintf("%s %s", d.Prefix, last)}, nil
}

var _ ChatModel = (*DummyLLM)(nil)
