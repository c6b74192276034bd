// Package common defines shared constants and sentinel errors used across
// client layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Session errors.
	ErrIncompleteCredential = errors.New("access and refresh tokens must both be set")
	ErrSessionRevoked       = errors.New("session revoked by server")

	// Token introspection errors.
	ErrTokenMalformed = errors.New("token malformed")
	ErrNoExpiry       = errors.New("token carries no expiry")
)
