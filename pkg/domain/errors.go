package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidGraph is matched by every ConfigurationError.
	ErrInvalidGraph = errors.New("invalid decision graph")

	// ErrEmptyNickname is returned by Begin when the nickname is blank after trimming.
	ErrEmptyNickname = errors.New("nickname is required")

	// ErrUnknownOption is returned when a selection references an option that is not
	// offered by the current question. The state is left untouched.
	ErrUnknownOption = errors.New("unknown option")

	// ErrInvalidStage is returned when an action is not allowed in the current stage.
	ErrInvalidStage = errors.New("action not allowed in current stage")

	// ErrStoreWrite is matched by StoreErrors raised by mutating store operations.
	ErrStoreWrite = errors.New("store write failure")

	// ErrStoreRead is matched by StoreErrors raised by read operations.
	ErrStoreRead = errors.New("store read failure")
)

// ConfigurationError reports every integrity problem found in a decision graph.
type ConfigurationError struct {
	Problems []string
}

func (e *ConfigurationError) Error() string {
	if len(e.Problems) == 1 {
		return fmt.Sprintf("%s: %s", ErrInvalidGraph, e.Problems[0])
	}
	return fmt.Sprintf("%s: found %d problems:\n- %s", ErrInvalidGraph, len(e.Problems), strings.Join(e.Problems, "\n- "))
}

func (e *ConfigurationError) Unwrap() error { return ErrInvalidGraph }

// StoreError wraps a failure of the external result store.
// It matches ErrStoreWrite or ErrStoreRead (Kind) as well as the underlying cause.
type StoreError struct {
	Op   string
	Kind error
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
}

func (e *StoreError) Unwrap() []error { return []error{e.Kind, e.Err} }

// WriteFailure wraps err as a store write failure for operation op.
func WriteFailure(op string, err error) error {
	return &StoreError{Op: op, Kind: ErrStoreWrite, Err: err}
}

// ReadFailure wraps err as a store read failure for operation op.
func ReadFailure(op string, err error) error {
	return &StoreError{Op: op, Kind: ErrStoreRead, Err: err}
}
