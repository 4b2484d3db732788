// Package common defines sentinel errors and small helpers shared by the
// crmdesk client packages. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Store-level errors.
	ErrNotFound       = errors.New("not found")
	ErrDuplicateField = errors.New("duplicate field id")

	// Identity errors.
	ErrNoIdentity   = errors.New("no active identity")
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// ErrIdentityChanged is reported when the active identity switched while
	// a long-running operation was still applying its results.
	ErrIdentityChanged = errors.New("identity changed during operation")
)
