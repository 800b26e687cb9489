// Package llm defines the generator contract shared by every hosted or local
// model backend.
package llm

import (
	"context"
	"fmt"
)

// Image is an inline image sent alongside a prompt.
type Image struct {
	Data     []byte
	MIMEType string
}

// Generator sends a prompt, plus an optional image, to a model and returns its
// raw text output.
type Generator interface {
	Generate(ctx context.Context, prompt string, img *Image) (string, error)
}

// MissingKeyError reports that the credential a backend needs is not set. It
// is returned at call time so a server can start without one.
type MissingKeyError struct {
	EnvVar string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("%s environment variable is not set", e.EnvVar)
}

// NormaliseMIME maps browser MIME types to the set vendors accept: jpeg, png,
// gif and webp. Anything else becomes jpeg.
func NormaliseMIME(mimeType string) string {
	switch mimeType {
	case "image/png", "image/gif", "image/webp":
		return mimeType
	default:
		return "image/jpeg"
	}
}
