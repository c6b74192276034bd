// Package cli provides the interactive isoko command-line client.
//
// It wires configuration, the persisted session store, the auth gateway and
// the page set into a REPL. Pages are addressed by path ("/documents",
// "/document/7", "/moderator?tab=reports") and each page contributes its own
// actions, so the command set changes as the user moves around.
//
// A background watcher re-checks the session and the backend. When the server
// stops accepting the session the user is logged out and the current page is
// re-opened; when the backend cannot be reached the prompt switches to
// offline mode until it answers again.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
