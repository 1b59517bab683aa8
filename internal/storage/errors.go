// Package storage holds what the SQL listing stores share: sentinel errors and
// the context-carried transaction.
package storage

import "errors"

var (
	ErrNotFound = errors.New("listing not found")
	ErrConflict = errors.New("record already exists")
)
