package nav

import "errors"

// ErrFragmentUnavailable is returned by fetchers when the navigation fragment
// could not be retrieved, either because of a transport failure or because the
// source answered with a non-success status.
var ErrFragmentUnavailable = errors.New("navigation fragment unavailable")

// ErrPlaceholderNotFound is returned by Load when the page has no element
// with the placeholder id. Nothing is fetched or written in that case.
var ErrPlaceholderNotFound = errors.New("placeholder element not found")
