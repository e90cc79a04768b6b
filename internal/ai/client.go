package ai

import (
	"context"
	"errors"
)

// ErrEmptyResponse is returned when the provider answered without any text.
var ErrEmptyResponse = errors.New("ai: empty model response")

// Image is an inline attachment sent alongside the prompt.
type Image struct {
	Data     []byte
	MIMEType string
}

// LanguageModelClient sends a prompt (and optionally one image) to a hosted
// model and returns its raw text answer. Implementations do not interpret the
// answer; structured decoding happens in the parser package.
type LanguageModelClient interface {
	Generate(ctx context.Context, prompt string, image *Image) (string, error)
}
