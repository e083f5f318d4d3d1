package store

import (
	"errors"
	"fmt"
)

var (
	// ErrStorageUnavailable indicates the store could not be opened or upgraded.
	ErrStorageUnavailable = errors.New("store: storage unavailable")
	// ErrCollectionUnavailable indicates an operation before open, after close, or against an unknown collection.
	ErrCollectionUnavailable = errors.New("store: collection unavailable")
	// ErrIO indicates an underlying read or write failure.
	ErrIO = errors.New("store: io failure")
	// ErrInvalidRecord indicates a payload that is not a JSON object keyed by a string id.
	ErrInvalidRecord = errors.New("store: invalid record")
)

// Error carries the failing operation code alongside the error kind and its cause.
// errors.Is matches both the kind sentinel and the wrapped cause.
type Error struct {
	code string
	kind error
	err  error
}

func (e *Error) Error() string {
	if e.err == nil {
		return fmt.Sprintf("%s: %v", e.code, e.kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.code, e.kind, e.err)
}

func (e *Error) Unwrap() []error {
	if e.err == nil {
		return []error{e.kind}
	}
	return []error{e.kind, e.err}
}

// Code returns the dotted operation code, e.g. "store.put.write_failed".
func (e *Error) Code() string {
	return e.code
}

// Kind returns the sentinel describing the failure class.
func (e *Error) Kind() error {
	return e.kind
}

const (
	opOpen     = "store.open"
	opGet      = "store.get"
	opGetAll   = "store.get_all"
	opPut      = "store.put"
	opDelete   = "store.delete"
	opClear    = "store.clear"
	opClearAll = "store.clear_all"
)

func newError(operation, reason string, kind, cause error) error {
	return &Error{
		code: fmt.Sprintf("%s.%s", operation, reason),
		kind: kind,
		err:  cause,
	}
}
