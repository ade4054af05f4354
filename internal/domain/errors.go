// Package domain provides shared domain-level sentinel errors.
package domain

import "errors"

// ErrNotFound indicates the requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrValidation indicates malformed input or an illegal entity state transition.
var ErrValidation = errors.New("validation error")

// ErrBusinessRule indicates a domain rule rejected the operation.
var ErrBusinessRule = errors.New("business rule violation")

// ErrConflict indicates a concurrent modification conflict.
var ErrConflict = errors.New("conflict: resource was modified by another request")

// ErrUnauthorized indicates the caller is not allowed to perform the operation.
var ErrUnauthorized = errors.New("unauthorized")
