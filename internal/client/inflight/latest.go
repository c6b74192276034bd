// Package inflight keeps only the newest of overlapping fetches for one
// logical resource.
//
// Each fetch takes a Ticket from Begin. Beginning a new fetch cancels the
// context of the previous one, and Commit applies a result only if its
// ticket is still the newest, so a late response can never overwrite the
// state produced by a newer request.
package inflight

import (
	"context"
	"sync"
)

// Ticket identifies one fetch. Tickets increase monotonically per Latest.
type Ticket uint64

type Latest struct {
	mu     sync.Mutex
	seq    Ticket
	cancel context.CancelFunc
}

// Begin supersedes any fetch in progress and returns a context for the new
// one together with its ticket.
func (l *Latest) Begin(ctx context.Context) (context.Context, Ticket) {
	ctx, cancel := context.WithCancel(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cancel != nil {
		l.cancel()
	}
	l.seq++
	l.cancel = cancel
	return ctx, l.seq
}

// Current reports whether t is still the newest ticket.
func (l *Latest) Current(t Ticket) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return t == l.seq
}

// Commit runs apply if t is still the newest ticket and reports whether it
// did. apply runs under the lock, so it must not call back into l.
func (l *Latest) Commit(t Ticket, apply func()) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if t != l.seq {
		return false
	}
	apply()
	return true
}

// Done releases the context of t once its fetch has finished.
func (l *Latest) Done(t Ticket) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if t == l.seq && l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
}

// Invalidate supersedes the fetch in progress without starting a new one.
func (l *Latest) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.seq++
}
