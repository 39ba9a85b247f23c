package fetcher

import (
	"fmt"
	"net/http"
)

// FetchError reports a non-success HTTP status from the feed or relay endpoint.
type FetchError struct {
	StatusCode int
	URL        string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("unexpected status code %d for url %s", e.StatusCode, e.URL)
}

// Temporary reports whether the endpoint may answer differently on a later attempt.
func (e *FetchError) Temporary() bool {
	return e.StatusCode >= http.StatusInternalServerError || e.StatusCode == http.StatusTooManyRequests
}

// NetworkError reports a transport failure: no response, or a body cut short.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("failed to fetch url %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
