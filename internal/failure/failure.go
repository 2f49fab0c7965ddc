// Package failure defines the typed failures returned by the recruitment pipelines.
//
// Every failure carries a Kind. Callers match on the kind with errors.Is against
// the exported sentinels or read it with KindOf.
package failure

import (
	"errors"
	"fmt"
)

// Kind names a category of failure.
type Kind string

const (
	SchemaMismatch              Kind = "schema_mismatch"
	ProviderUnavailable         Kind = "provider_unavailable"
	RequirementExtractionFailed Kind = "requirement_extraction_failed"
	AnalysisFailed              Kind = "analysis_failed"
	UnsupportedFormat           Kind = "unsupported_format"
	FileNotFound                Kind = "file_not_found"
	ConversionFailed            Kind = "conversion_failed"
	UnknownRound                Kind = "unknown_round"
	MissingCredentials          Kind = "missing_credentials"
	InvalidInput                Kind = "invalid_input"
)

var (
	ErrSchemaMismatch              = &Error{Kind: SchemaMismatch}
	ErrProviderUnavailable         = &Error{Kind: ProviderUnavailable}
	ErrRequirementExtractionFailed = &Error{Kind: RequirementExtractionFailed}
	ErrAnalysisFailed              = &Error{Kind: AnalysisFailed}
	ErrUnsupportedFormat           = &Error{Kind: UnsupportedFormat}
	ErrFileNotFound                = &Error{Kind: FileNotFound}
	ErrConversionFailed            = &Error{Kind: ConversionFailed}
	ErrUnknownRound                = &Error{Kind: UnknownRound}
	ErrMissingCredentials          = &Error{Kind: MissingCredentials}
	ErrInvalidInput                = &Error{Kind: InvalidInput}
)

// Error is a failure of a known kind with an optional cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

// New returns a failure of the given kind.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap returns a failure of the given kind caused by err.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

func (e *Error) Error() string {
	switch {
	case e.Msg != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	case e.Msg != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return string(e.Kind)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is a failure of the same kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the kind of the outermost failure in err's chain, or an empty kind.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
