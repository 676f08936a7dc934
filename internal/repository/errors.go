// Package repository holds the errors shared by every storage backend.
package repository

import "errors"

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrInsufficientPending is returned when a settlement exceeds a client's
// outstanding balance at write time.
var ErrInsufficientPending = errors.New("pending balance lower than settlement")

// ErrDuplicate is returned when a unique key already exists.
var ErrDuplicate = errors.New("duplicate record")

// ErrLockNotAcquired is returned when an exclusion lock stays busy past the wait budget.
var ErrLockNotAcquired = errors.New("lock not acquired")
