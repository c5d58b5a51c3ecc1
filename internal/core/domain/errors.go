package domain

import "errors"

// Authentication and session errors.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("token invalid")
	ErrTokenMalformed     = errors.New("token malformed")
	ErrForbidden          = errors.New("access forbidden")
	// ErrSigningKeyMissing is fatal: the process must refuse to serve
	// auth-dependent routes rather than issue unsigned tokens.
	ErrSigningKeyMissing = errors.New("token signing key missing")
)

// Account errors.
var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")
)

// Editorial lifecycle errors.
var (
	ErrSubmissionNotFound     = errors.New("submission not found")
	ErrMagazineNotFound       = errors.New("magazine not found")
	ErrInvalidSubmissionState = errors.New("submission not in a valid state")
	ErrAlreadyAssigned        = errors.New("submission already assigned to a magazine")
	ErrAlreadyPublished       = errors.New("magazine already published")
)

// ErrUnavailable marks a transient storage or transport failure. It is the
// only error kind callers may retry, and only for idempotent reads.
var ErrUnavailable = errors.New("service unavailable")
