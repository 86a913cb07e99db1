package internal

import (
	"errors"
	"fmt"
)

var (
	ErrCredentialMissing      = errors.New("api key is missing")
	ErrReferenceMissing       = errors.New("no reference tags")
	ErrReferenceCountExceeded = errors.New("too many reference tags")
	ErrInputMissing           = errors.New("no input data")
	ErrParseFailed            = errors.New("failed to parse response")
	ErrLowReliability         = errors.New("response has low reliability")
	ErrNoLabels               = errors.New("no tags classified")
	ErrUnsupported            = errors.New("operation not supported by engine")
	ErrNoFilename             = errors.New("no filename suggestion")
	ErrNoteNotFound           = errors.New("note not found")
	ErrNoRepository           = errors.New("no git repository")
)

// HTTPError is returned by the engine adapters when the backend answers
// with a non-success status. Body holds the raw response body, or the
// parsed error detail when the backend returned a structured error.
type HTTPError struct {
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("api error: %d - %s", e.Status, e.Body)
}

type ReferenceCountError struct {
	Count int
	Limit int
}

func (e *ReferenceCountError) Error() string {
	return fmt.Sprintf("zero-shot engine supports at most %d reference tags, but %d were provided", e.Limit, e.Count)
}

func (e *ReferenceCountError) Unwrap() error {
	return ErrReferenceCountExceeded
}

type ReliabilityError struct {
	Score float64
}

func (e *ReliabilityError) Error() string {
	return fmt.Sprintf("%s (%g)", ErrLowReliability, e.Score)
}

func (e *ReliabilityError) Unwrap() error {
	return ErrLowReliability
}
