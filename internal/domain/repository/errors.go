package repository

import "errors"

// Errors translated from storage-specific failures so that use cases never
// inspect driver error types.
var (
	ErrDuplicateEmail = errors.New("duplicate email")
	ErrDuplicateSlot  = errors.New("duplicate active appointment slot")
)
