package types

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingField is wrapped by a ParseError when a required JSON field is absent or empty
	ErrMissingField = errors.New("missing required field")

	// ErrUnexpectedStatus is wrapped by a FetchError when the endpoint answers with a non-2xx status
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")
)

// FetchError reports a transport level failure: the request could not be
// made, or the endpoint answered with a non-2xx status.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("failed to fetch commitment from %s (status %d): %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("failed to fetch commitment from %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ParseError reports a response body, or raw commitment, that could not be
// turned into a Commitment.
type ParseError struct {
	Field string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid commitment field %q: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("invalid commitment: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func newMissingFieldError(field string) *ParseError {
	return &ParseError{Field: field, Err: ErrMissingField}
}

// RecoveryError reports signature material from which no public key could be recovered
type RecoveryError struct {
	Err error
}

func (e *RecoveryError) Error() string {
	return fmt.Sprintf("failed to recover signer: %v", e.Err)
}

func (e *RecoveryError) Unwrap() error {
	return e.Err
}
