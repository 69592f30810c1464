package auth

import "errors"

// Kind classifies an auth failure so callers can branch on it instead of
// matching message text.
type Kind int

const (
	KindUnknown Kind = iota
	KindConflict
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindInvalid
	KindExpired
	KindInternal
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindConflict:
		return "conflict"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindInvalid:
		return "invalid"
	case KindExpired:
		return "expired"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Error is a kind-tagged auth failure
type Error struct {
	Kind    Kind
	Message string
	Err     error // underlying cause, surfaced only in debug mode
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// E creates a new kind-tagged error
func E(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the kind from an error, or KindUnknown if it is not an
// auth error.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindUnknown
}

// MessageOf extracts the user-facing message from an error
func MessageOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Message
	}
	return "an error occurred"
}
