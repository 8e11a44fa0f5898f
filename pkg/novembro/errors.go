package novembro

import (
	"errors"
	"fmt"
)

// ErrFileNotFound indicates the procedures CSV does not exist.
var ErrFileNotFound = errors.New("file not found")

// ErrEmptyDataset indicates the CSV produced no monthly records.
var ErrEmptyDataset = errors.New("dataset has no months")

// LoadError represents an error while loading a dataset.
type LoadError struct {
	Source string
	Stage  string // "read", "parse", "select"
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load error for %q (%s): %v", e.Source, e.Stage, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// NewLoadError creates a new LoadError.
func NewLoadError(source, stage string, err error) *LoadError {
	return &LoadError{
		Source: source,
		Stage:  stage,
		Err:    err,
	}
}
