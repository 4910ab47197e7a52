package explorer

import (
	"errors"
	"fmt"
)

// ErrNoGeocodeResult indicates the geocoding API returned an empty result
// set for a query. Nothing is stored for such a query.
var ErrNoGeocodeResult = errors.New("geocode returned no results")

// UpstreamError wraps any failure talking to a third-party API: network
// errors, non-2xx statuses, and undecodable bodies.
type UpstreamError struct {
	Source string
	Err    error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s upstream: %v", e.Source, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// MalformedPayloadError indicates an upstream response decoded cleanly but
// is missing a field a record cannot be built without.
type MalformedPayloadError struct {
	Source string
	Field  string
}

func (e *MalformedPayloadError) Error() string {
	return fmt.Sprintf("%s upstream: payload missing required field %q", e.Source, e.Field)
}
