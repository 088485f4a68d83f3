package provider

import (
	"errors"
	"fmt"
)

// Provider errors.
var (
	// ErrMissingCredential is returned at construction when no API key was
	// passed and the backend's environment variable is unset.
	ErrMissingCredential = errors.New("missing API key")
)

// ResolveError is returned when both backends failed to construct. It names
// both attempted backends and both underlying failure reasons.
type ResolveError struct {
	Primary     Kind
	PrimaryErr  error
	Fallback    Kind
	FallbackErr error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("failed to initialize both providers: %s (%v); %s (%v)",
		e.Primary, e.PrimaryErr, e.Fallback, e.FallbackErr)
}

// Unwrap exposes the underlying failures to errors.Is/As.
func (e *ResolveError) Unwrap() []error {
	return []error{e.PrimaryErr, e.FallbackErr}
}
