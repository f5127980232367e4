package client

import "errors"

var (
	// ErrInvalidURL is returned when the cluster address, or a path
	// joined to it, is not a well formed absolute URL.
	ErrInvalidURL = errors.New("invalid url")

	// ErrRequestFailed is returned when the HTTP request could not be
	// completed at all. It does not apply to non-2xx responses.
	ErrRequestFailed = errors.New("http request failed")
)
