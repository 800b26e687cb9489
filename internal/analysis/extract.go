package analysis

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoJSON means the model output contains no '{' at all.
	ErrNoJSON = errors.New("no valid JSON found in response")
	// ErrInvalidJSON means no '{' in the output starts a complete JSON object.
	ErrInvalidJSON = errors.New("invalid JSON in response")
)

// ExtractJSON returns the first complete JSON object embedded in text. Each
// '{' is tried in order as the start of an object and decoded with a real
// JSON decoder, so prose, code fences, trailing text and braces inside
// string values do not confuse it.
func ExtractJSON(text string) (json.RawMessage, error) {
	return extractFirst(text, func(json.RawMessage) error { return nil })
}

// extractFirst is ExtractJSON with a check on each decoded candidate. A
// candidate that accept rejects is skipped and scanning resumes at the next
// '{'.
func extractFirst(text string, accept func(json.RawMessage) error) (json.RawMessage, error) {
	var lastErr error
	for off := 0; off < len(text); {
		i := strings.IndexByte(text[off:], '{')
		if i < 0 {
			break
		}
		start := off + i

		var raw json.RawMessage
		dec := json.NewDecoder(strings.NewReader(text[start:]))
		err := dec.Decode(&raw)
		if err == nil {
			err = accept(raw)
		}
		if err == nil {
			return raw, nil
		}
		lastErr = err
		off = start + 1
	}

	if lastErr == nil {
		return nil, ErrNoJSON
	}
	return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, lastErr)
}
