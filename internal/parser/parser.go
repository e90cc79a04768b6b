// README: Recovers JSON objects embedded in free-form model text.
package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNoObject means the text holds no balanced {...} span.
var ErrNoObject = errors.New("no JSON object found")

// ParseError carries the original text the model returned so callers can log
// it. It is always treated as "no structured answer".
type ParseError struct {
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse model output: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Extractor decodes the structured answer contained in text into v.
type Extractor interface {
	Extract(text string, v any) error
}

// Lenient finds the first balanced object span in surrounding prose.
type Lenient struct{}

func (Lenient) Extract(text string, v any) error {
	start, end, ok := FindObject(text)
	if !ok {
		return &ParseError{Text: text, Err: ErrNoObject}
	}
	if err := json.Unmarshal([]byte(text[start:end]), v); err != nil {
		return &ParseError{Text: text, Err: err}
	}
	return nil
}

// Strict expects the whole reply to be one JSON document, optionally wrapped in
// a markdown fence. Use it with providers that honour a JSON response mode.
type Strict struct{}

func (Strict) Extract(text string, v any) error {
	body := StripCodeFences(text)
	if body == "" {
		return &ParseError{Text: text, Err: ErrNoObject}
	}
	if err := json.Unmarshal([]byte(body), v); err != nil {
		return &ParseError{Text: text, Err: err}
	}
	return nil
}

const (
	ModeLenient = "lenient"
	ModeStrict  = "strict"
)

// ForMode returns the extractor configured by name. An empty mode is lenient.
func ForMode(mode string) (Extractor, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", ModeLenient:
		return Lenient{}, nil
	case ModeStrict:
		return Strict{}, nil
	default:
		return nil, fmt.Errorf("unknown parser mode %q", mode)
	}
}

// Decode is a typed convenience over an Extractor.
func Decode[T any](ex Extractor, text string) (T, error) {
	var out T
	if ex == nil {
		ex = Lenient{}
	}
	if err := ex.Extract(text, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// FindObject returns the byte range [start,end) of the object that opens at
// the first '{' in s. Braces inside JSON strings are ignored.
func FindObject(s string) (start, end int, ok bool) {
	start = strings.IndexByte(s, '{')
	if start < 0 {
		return 0, 0, false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return start, i + 1, true
			}
		}
	}
	return 0, 0, false
}

// StripCodeFences removes a surrounding ```json ... ``` wrapper if present.
func StripCodeFences(input string) string {
	input = strings.TrimSpace(input)
	input = strings.TrimPrefix(input, "```json")
	input = strings.TrimPrefix(input, "```")
	input = strings.TrimSuffix(input, "```")
	return strings.TrimSpace(input)
}
