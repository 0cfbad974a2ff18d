package service

import "errors"

// ErrNotFound indicates the requested resource was not found. It also covers
// "exists but belongs to someone else" for targeted reads, so callers cannot
// probe for the existence of other admins' records.
var ErrNotFound = errors.New("not found")

// ValidationError represents a bad-request condition (HTTP 400).
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ForbiddenError represents an authorization failure for a specific resource
// (HTTP 403): the caller is authenticated but the ownership or permission
// check failed.
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string { return e.Message }

// ConflictError represents a state-invariant violation (HTTP 409), e.g. a
// second assignment attempt on the same task.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }
