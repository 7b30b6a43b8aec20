package apperr

import "errors"

var (
	// ErrMalformedPayload marks a publish whose body does not decode to a
	// valid snapshot. The previous snapshot stays authoritative.
	ErrMalformedPayload = errors.New("malformed payload")
)
