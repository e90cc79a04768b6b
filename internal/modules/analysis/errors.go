package analysis

import (
	"errors"
	"fmt"
)

// Kind is the machine-readable error category returned to callers.
type Kind string

const (
	KindInvalidInput        Kind = "invalid_input"
	KindProviderUnavailable Kind = "provider_unavailable"
	KindUnhandledTrack      Kind = "unhandled_track"
	KindAnalysisFailed      Kind = "analysis_failed"
	// KindRecoverableParse is converted to a fallback value and never returned.
	KindRecoverableParse Kind = "recoverable_parse"
)

// Error is the only error type that crosses the package boundary.
type Error struct {
	Kind   Kind
	Detail string
	Track  Track
	Err    error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Track != "" {
		msg += " [" + string(e.Track) + "]"
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on Kind so the sentinels below work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrInvalidInput        = &Error{Kind: KindInvalidInput}
	ErrProviderUnavailable = &Error{Kind: KindProviderUnavailable}
	ErrUnhandledTrack      = &Error{Kind: KindUnhandledTrack}
	ErrAnalysisFailed      = &Error{Kind: KindAnalysisFailed}
)

func invalidInput(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidInput, Detail: fmt.Sprintf(format, args...)}
}

func unhandledTrack(f Family, t Track) *Error {
	return &Error{
		Kind:   KindUnhandledTrack,
		Track:  t,
		Detail: fmt.Sprintf("no analyzer bound to track %q in family %s", t, f),
	}
}

// AsError returns err as *Error, wrapping foreign errors as analysis_failed.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{Kind: KindAnalysisFailed, Detail: "unexpected failure", Err: err}
}
