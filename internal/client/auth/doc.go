// Package auth owns the client session: who is logged in, with which
// credential, and how that credential is attached to outbound requests.
//
// A Gateway moves through four states:
//
//	Uninitialized -> Resolving -> Anonymous | Authenticated
//
// and afterwards cycles between Anonymous and Authenticated. Resolve runs
// once at start-up; Login, Register, Logout and Revalidate drive the cycle.
// The Gateway is the only writer of the session and of the session Store;
// everything else reads through CurrentUser, State and AuthHeaders.
//
// Login and Register never return Go errors. Every failure (network,
// rejection or validation) becomes a Result with Success=false and a
// message suitable for display.
package auth
