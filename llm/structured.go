package llm

import (
	"context"
	"encoding/json"
	"fmt"
)

// DecodeStructured parses the response content into out using a
// two-stage parse: strict first, then sanitized (code fences stripped,
// comments and trailing commas removed) on failure.
func DecodeStructured(content string, out any) error {
	if err := json.Unmarshal([]byte(content), out); err == nil {
		return nil
	}

	sanitized := ExtractJSON(content)
	if sanitized == "" {
		sanitized = ExtractJSONArray(content)
	}
	if sanitized == "" {
		return fmt.Errorf("no JSON found in model output")
	}
	if err := json.Unmarshal([]byte(sanitized), out); err != nil {
		return fmt.Errorf("parse sanitized model output: %w", err)
	}
	return nil
}

// CompleteStructured sends a request and decodes the JSON response
// into T. The raw response is returned alongside for model and token
// metadata.
func CompleteStructured[T any](ctx context.Context, c Completer, req Request) (T, *Response, error) {
	var out T

	resp, err := c.Complete(ctx, req)
	if err != nil {
		return out, nil, err
	}

	if err := DecodeStructured(resp.Content, &out); err != nil {
		return out, resp, fmt.Errorf("decode %s response: %w", req.Role, err)
	}
	return out, resp, nil
}
