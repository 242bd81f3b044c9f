package movie

import "errors"

var (
	// ErrLookupFailed is returned when the API answers but flags the lookup as failed
	ErrLookupFailed = errors.New("movie lookup failed")

	// ErrEmptyLookupKey is returned when there is nothing to look up
	ErrEmptyLookupKey = errors.New("lookup key is required")
)
