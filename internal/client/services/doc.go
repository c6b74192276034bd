// Package services wraps the isoko REST resources (documents, categories,
// reports and users) behind small typed interfaces used by the pages.
//
// Every service sends through a Doer, normally the auth gateway, so the
// current Authorization header is attached at call time. Errors are the
// api package's taxonomy wrapped with the operation name; client-side
// validation failures are returned before any request is made.
package services
