package domain

import "errors"

// The pipeline's error taxonomy. Stages wrap these with fmt.Errorf("...: %w")
// so callers can dispatch with errors.Is.
var (
	// ErrInvalidInput marks a null or wrong-shaped input to a stage.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidItem marks a malformed element inside an otherwise valid
	// collection.
	ErrInvalidItem = errors.New("invalid item")

	// ErrMissingData marks required external data that is absent or empty.
	ErrMissingData = errors.New("missing data")

	// ErrInsufficientData marks data that is present but below the minimum
	// usable size after cleaning. Recoverable by fetching a longer history.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrNotTrained marks a predict call before a successful train call, or
	// a feature-schema mismatch with the held model. A caller-ordering bug.
	ErrNotTrained = errors.New("model not trained")
)
