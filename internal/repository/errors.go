package repository

import "errors"

var (
	// ErrNotFound indicates the requested row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate indicates a uniqueness constraint rejected the insert.
	// Purchase ingestion treats it as a retried delivery, not a failure.
	ErrDuplicate = errors.New("duplicate row")
)
