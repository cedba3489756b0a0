package pipeline

import "github.com/pkg/errors"

// Kind is a closed set of reduction-pipeline failure categories, mirroring
// the teacher's habit of typed sentinel errors (timescale's leap-second
// lookup, eop's table-range warnings) rather than ad hoc string matching.
type Kind int

const (
	// KindUnknownBody: the requested body is not in bodies' NAIF table.
	KindUnknownBody Kind = iota
	// KindInvalidAlgorithm: Options names an Algorithm the dispatcher
	// doesn't recognize.
	KindInvalidAlgorithm
	// KindDateOutOfRange: every candidate theory rejected the date.
	KindDateOutOfRange
	// KindNoConvergence: an iterative step (light-time, inverse apparent
	// place) exceeded its iteration budget without converging.
	KindNoConvergence
	// KindFileUnavailable: a DE theory was requested but its backing
	// Reader is nil or has no granule for the date.
	KindFileUnavailable
	// KindUnsupportedFrameConversion: the requested frame pair has no
	// implemented rotation (e.g. ITRS for a non-Earth mother body).
	KindUnsupportedFrameConversion
	// KindDomainError: a downstream numeric routine received an input
	// outside its valid domain (e.g. asin argument > 1).
	KindDomainError
)

func (k Kind) String() string {
	switch k {
	case KindUnknownBody:
		return "unknown body"
	case KindInvalidAlgorithm:
		return "invalid algorithm"
	case KindDateOutOfRange:
		return "date out of range"
	case KindNoConvergence:
		return "no convergence"
	case KindFileUnavailable:
		return "file unavailable"
	case KindUnsupportedFrameConversion:
		return "unsupported frame conversion"
	case KindDomainError:
		return "domain error"
	default:
		return "unknown error kind"
	}
}

// Error is the pipeline's wrapped error type: a Kind plus the wrapped
// underlying cause (via pkg/errors, matching cheby's parse-error and eop's
// range-warning wrapping elsewhere in this module).
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Kind.String() + ": " + e.Err.Error()
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Err: errors.Errorf(format, args...)}
}

// IsKind reports whether err is a *Error of the given Kind, unwrapping
// through any wrapping errors.As would traverse.
func IsKind(err error, kind Kind) bool {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind == kind
	}
	return false
}
