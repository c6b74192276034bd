// Package common contains shared constants and sentinel errors used across
// the isoko client packages.
package common

// Persisted session keys. Both entries are written and cleared together.
const (
	AccessTokenKey  = "access_token"
	RefreshTokenKey = "refresh_token"
)

// Outbound HTTP header names and the bearer scheme prefix.
const (
	AuthorizationHeader = "Authorization"
	BearerPrefix        = "Bearer "
	RequestIDHeader     = "X-Request-ID"
)

// MaxUploadSize mirrors the backend's upload limit (50 MiB).
const MaxUploadSize = 50 << 20
