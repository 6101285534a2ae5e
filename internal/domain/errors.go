package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors forming the pipeline's failure taxonomy. Fetch and
// enrichment failures are recoverable: the run continues with whatever was
// collected. Delivery failures are terminal for the run.
var (
	// ErrInvalidCategory is returned when a fetcher is asked for a category
	// outside its supported set. The accumulator is left untouched.
	ErrInvalidCategory = errors.New("invalid category")

	// ErrEmptyStage is returned by an enrichment stage whose entire input is
	// empty or whose every record was invalid.
	ErrEmptyStage = errors.New("no articles to process")

	// ErrMissingRecipient is returned when delivery is attempted with no
	// recipients configured.
	ErrMissingRecipient = errors.New("no recipient configured")

	// ErrMissingDigest is returned when delivery is attempted before a digest
	// was assembled.
	ErrMissingDigest = errors.New("no digest to deliver")
)

// FailureKind distinguishes the recoverable fetch failure modes.
type FailureKind string

const (
	FailureNetwork       FailureKind = "network"
	FailureParse         FailureKind = "parse"
	FailureEmptyFeed     FailureKind = "empty_feed"
	FailureSerialization FailureKind = "serialization"
)

// FetchError reports a failed fetch attempt without aborting the run.
type FetchError struct {
	Source string
	Kind   FailureKind
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %s: %v", e.Source, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// TransportError captures the detail of a failed delivery attempt.
type TransportError struct {
	Transport string
	Detail    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("deliver via %s: %v", e.Transport, e.Detail)
}

func (e *TransportError) Unwrap() error { return e.Detail }
