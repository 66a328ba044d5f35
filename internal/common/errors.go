// Package common defines shared constants and sentinel errors used across
// the server, transports and the CLI client. Callers should match them with
// errors.Is.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound        = errors.New("not found")
	ErrDuplicateUsername = errors.New("username already registered")

	// Service-level errors.
	ErrorInternal         = errors.New("internal error")
	ErrorUnauthorized     = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrorValidation       = errors.New("validation error")

	// Token verification failures. Transports must collapse all of them into
	// ErrorUnauthorized before anything reaches a client.
	ErrInvalidToken     = errors.New("invalid token")
	ErrTokenMalformed   = errors.New("token malformed")
	ErrInvalidSignature = errors.New("token signature invalid")
	ErrTokenExpired     = errors.New("token expired")
)
