// Package session persists the access/refresh credential pair.
//
// Both tokens are always written and removed together: a Store never holds
// one without the other, and Load reports ok=false if either is missing.
// Token contents are never inspected here.
package session
