package transform

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kbukum/gorunnable/runnable"
)

// JSONFormatInstructions asks a model for output JSONParser can decode.
const JSONFormatInstructions = `a JSON object of the form {"points": ["...", "..."]} and nothing else`

// JSONParser decodes a model response as JSON. The response is taken from
// the "response" field of a record, or is the input itself when it is text.
// A surrounding ```json fence is ignored.
type JSONParser struct {
	name string
	text *Extractor
}

// NewJSONParser returns a JSONParser named "json_parser".
func NewJSONParser() *JSONParser {
	return &JSONParser{name: "json_parser", text: StringParser()}
}

// Name returns the stage name.
func (p *JSONParser) Name() string { return p.name }

// Invoke decodes the response text into a Value.
func (p *JSONParser) Invoke(ctx context.Context, input runnable.Value) (runnable.Value, error) {
	raw, err := p.text.Invoke(ctx, input)
	if err != nil {
		return runnable.Value{}, runnable.Fail(p.name, unwrapInvocation(err))
	}
	text, _ := raw.AsText()

	var out runnable.Value
	if err := json.Unmarshal([]byte(stripFence(text)), &out); err != nil {
		return runnable.Value{}, runnable.Fail(p.name, fmt.Errorf("response is not valid JSON: %w", err))
	}
	return out, nil
}

func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// unwrapInvocation drops the frame the embedded extractor added so the
// failure is attributed to the parser alone.
func unwrapInvocation(err error) error {
	if ie, ok := err.(*runnable.InvocationError); ok && ie.Cause != nil {
		return ie.Cause
	}
	return err
}
