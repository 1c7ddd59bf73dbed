package sepush

import (
	"errors"
	"fmt"
)

// Kind identifies one failure of the closed error set returned by this package.
type Kind int

const (
	KindUnknown Kind = iota

	// Validation, raised before any request is sent.
	KindAreaIDNotSet
	KindSearchTextNotSet
	KindCoordinatesNotSet

	// Transport.
	KindNoInternet
	KindTimeout

	// API, derived from the response status code.
	KindBadRequest
	KindForbidden
	KindNotFound
	KindTooManyRequests
	KindServerError

	KindDecode
	KindTokenNotSet
)

// Class groups kinds the way callers usually branch on them.
type Class string

const (
	ClassValidation Class = "validation"
	ClassTransport  Class = "transport"
	ClassAPI        Class = "api"
	ClassDecode     Class = "decode"
	ClassConfig     Class = "config"
	ClassUnknown    Class = "unknown"
)

var kindNames = map[Kind]string{
	KindUnknown:           "unknown",
	KindAreaIDNotSet:      "area_id_not_set",
	KindSearchTextNotSet:  "search_text_not_set",
	KindCoordinatesNotSet: "coordinates_not_set",
	KindNoInternet:        "no_internet",
	KindTimeout:           "timeout",
	KindBadRequest:        "bad_request",
	KindForbidden:         "forbidden",
	KindNotFound:          "not_found",
	KindTooManyRequests:   "too_many_requests",
	KindServerError:       "server_error",
	KindDecode:            "decode",
	KindTokenNotSet:       "token_not_set",
}

// String returns a stable snake_case name, suitable for metric labels.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Class returns the group k belongs to.
func (k Kind) Class() Class {
	switch k {
	case KindAreaIDNotSet, KindSearchTextNotSet, KindCoordinatesNotSet:
		return ClassValidation
	case KindNoInternet, KindTimeout:
		return ClassTransport
	case KindBadRequest, KindForbidden, KindNotFound, KindTooManyRequests, KindServerError:
		return ClassAPI
	case KindDecode:
		return ClassDecode
	case KindTokenNotSet:
		return ClassConfig
	default:
		return ClassUnknown
	}
}

// Error is the error type returned by every operation in this package.
type Error struct {
	Kind Kind

	// StatusCode and Body are set for errors derived from an HTTP response.
	StatusCode int
	Body       string

	// Latitude and Longitude hold the rejected values for KindCoordinatesNotSet.
	Latitude  float64
	Longitude float64

	// Name is the environment variable looked up for KindTokenNotSet.
	Name string

	Err error
}

// Sentinels for errors.Is. Any *Error with the same Kind matches.
var (
	ErrAreaIDNotSet      = &Error{Kind: KindAreaIDNotSet}
	ErrSearchTextNotSet  = &Error{Kind: KindSearchTextNotSet}
	ErrCoordinatesNotSet = &Error{Kind: KindCoordinatesNotSet}
	ErrNoInternet        = &Error{Kind: KindNoInternet}
	ErrTimeout           = &Error{Kind: KindTimeout}
	ErrBadRequest        = &Error{Kind: KindBadRequest}
	ErrForbidden         = &Error{Kind: KindForbidden}
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrTooManyRequests   = &Error{Kind: KindTooManyRequests}
	ErrServerError       = &Error{Kind: KindServerError}
	ErrDecode            = &Error{Kind: KindDecode}
	ErrTokenNotSet       = &Error{Kind: KindTokenNotSet}
	ErrUnknown           = &Error{Kind: KindUnknown}
)

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	var msg string
	switch e.Kind {
	case KindAreaIDNotSet:
		msg = "area id not set"
	case KindSearchTextNotSet:
		msg = "search text not set"
	case KindCoordinatesNotSet:
		msg = fmt.Sprintf("longitude and/or latitude has not been set: latitude: %v longitude: %v", e.Latitude, e.Longitude)
	case KindNoInternet:
		msg = "no internet"
	case KindTimeout:
		msg = "timeout"
	case KindBadRequest:
		msg = "api error: bad request (you sent something bad)"
	case KindForbidden:
		msg = "api error: not authenticated (token invalid / disabled)"
	case KindNotFound:
		msg = "api error: not found"
	case KindTooManyRequests:
		msg = "api error: too many requests (token quota exceeded)"
	case KindServerError:
		msg = "api error: server error: " + e.Body
	case KindDecode:
		msg = "response error: decode"
	case KindTokenNotSet:
		msg = "api token not set"
		if e.Name != "" {
			msg = fmt.Sprintf("api token not set: environment variable %s is empty", e.Name)
		}
	default:
		msg = "unknown error"
		if e.StatusCode != 0 {
			msg = fmt.Sprintf("unknown error: unexpected status %d", e.StatusCode)
		}
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Kind == t.Kind
}

// KindOf returns the Kind of the first *Error in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
