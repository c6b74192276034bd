// Package models defines the client-side view of the backend's resources
// (users, categories, documents, reports), list envelopes, and the forms the
// pages submit together with their client-side validation.
package models
