package api

import "errors"

// Kind classifies a gateway failure so callers can branch on the cause
// instead of matching message text.
type Kind int

const (
	// KindNetwork is a transport failure before any response arrived.
	KindNetwork Kind = iota
	// KindHTTP is a non-2xx response from the server.
	KindHTTP
	// KindTimeout means the request did not settle within the deadline.
	KindTimeout
	// KindValidation is a client-side check that failed before any
	// network call was made.
	KindValidation
)

// TimeoutMessage is the fixed message surfaced when a request is
// aborted by the timeout, regardless of what the server would return.
const TimeoutMessage = "request took too long to respond"

// Error is the single error type crossing the gateway boundary.
// Message is always human-readable; Status is set for KindHTTP only.
type Error struct {
	Kind    Kind
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// IsTimeout reports whether err is a gateway timeout.
func IsTimeout(err error) bool {
	return isKind(err, KindTimeout)
}

// IsHTTP reports whether err is a non-2xx server response.
func IsHTTP(err error) bool {
	return isKind(err, KindHTTP)
}

// IsNetwork reports whether err is a transport failure.
func IsNetwork(err error) bool {
	return isKind(err, KindNetwork)
}

// IsValidation reports whether err is a local validation failure.
func IsValidation(err error) bool {
	return isKind(err, KindValidation)
}

func isKind(err error, kind Kind) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind == kind
	}
	return false
}

// ValidationError builds a KindValidation error with the given message.
func ValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}
