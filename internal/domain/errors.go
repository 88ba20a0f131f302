package domain

import "errors"

// Sentinel errors shared across usecases and transport.
var (
	// ErrListingNotFound indicates the requested listing does not exist.
	ErrListingNotFound = errors.New("listing not found")
	// ErrPropertyNotFound indicates the requested property does not exist.
	ErrPropertyNotFound = errors.New("property not found")
	// ErrHostNotFound indicates the requested host does not exist.
	ErrHostNotFound = errors.New("host not found")
	// ErrLoadInProgress indicates a load was ignored because one is already in flight.
	ErrLoadInProgress = errors.New("load already in progress")
)
