// Package errs defines the exhaustive set of typed error kinds the document
// server can return, matching the surface-level error catalog of the tool
// protocol. Every predictable failure mode is one of these kinds; nothing
// is swallowed silently.
package errs

import "fmt"

// Kind identifies one of the closed set of error kinds the server can
// surface in a response envelope.
type Kind string

const (
	MalformedExpression Kind = "MalformedExpression"
	UnknownChordSymbol  Kind = "UnknownChordSymbol"
	DuplicateName       Kind = "DuplicateName"
	NotFound            Kind = "NotFound"
	InvalidRange        Kind = "InvalidRange"
	SectionOverlap      Kind = "SectionOverlap"
	SectionWouldSwallow Kind = "SectionWouldSwallow"
	PitchOutOfRange     Kind = "PitchOutOfRange"
	DurationNonPositive Kind = "DurationNonPositive"
	TrackMissing        Kind = "TrackMissing"
	NoProgression       Kind = "NoProgression"
	NothingToUndo       Kind = "NothingToUndo"
	NothingToRedo       Kind = "NothingToRedo"
	UnknownTool         Kind = "UnknownTool"
	SchemaViolation     Kind = "SchemaViolation"
	IOError             Kind = "IOError"
)

// Error is the typed error every predictable failure is wrapped in. Data
// carries structured context (e.g. the offending batch index) for batch
// operations and chord/expression diagnostics.
type Error struct {
	Kind    Kind
	Message string
	Data    map[string]any
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// New builds an *Error with no extra data.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WithData builds an *Error carrying structured context.
func WithData(kind Kind, data map[string]any, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Data: data}
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == kind
}
