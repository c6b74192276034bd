// Package api is the HTTP/JSON transport to the isoko REST backend.
//
// # Error Handling
//
// Failures fall in two groups that callers tell apart with errors.Is and
// errors.As:
//
//   - ErrUnavailable: the request never completed (connection refused, DNS,
//     timeout, truncated body).
//   - *Error: the backend answered with a non-2xx status. errors.Is matches
//     ErrUnauthorized (401), ErrForbidden (403) and ErrNotFound (404).
//
// A cancelled context is returned as is, never as ErrUnavailable.
//
// The client attaches no credentials of its own; callers pass an
// Authorization header per request (see the auth package).
package api
