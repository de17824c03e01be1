package services

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrNotInDuo        = errors.New("user is not part of a confirmed duo")
	ErrAlreadyInDuo    = errors.New("user is already part of a duo")
	ErrInviteNotFound  = errors.New("invitation token not found")
	ErrSelfPairing     = errors.New("cannot form a duo with yourself")
	ErrUserExists      = errors.New("username or email is already registered")
	ErrRuleExists      = errors.New("rule already exists for this app")
	ErrRuleNotFound    = errors.New("rule not found or not owned by user")
	ErrRequestNotFound = errors.New("rule modification request not found or not owned by user")
	ErrUserNotFound    = errors.New("user not found")
)

// ValidationError carries field-level messages back to the controller.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func newValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}
