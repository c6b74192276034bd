// Package pages renders the isoko views as text and carries their actions.
//
// A Site owns the route table and the resource state shared between views.
// Pages fetch through the services package, so every request carries the
// Authorization header of the moment. What a page offers depends on the
// current user, but that is only a hint: any action may be invoked and a
// rejection from the backend comes back as an ordinary error.
package pages
