package pages

import (
	"context"
	"sync"

	"github.com/isokodocs/isoko/internal/client/inflight"
)

// slot holds the newest committed result of one resource.
type slot[T any] struct {
	latest inflight.Latest

	mu     sync.RWMutex
	val    T
	err    error
	loaded bool
}

// load runs fetch and stores its outcome unless a newer load or a local
// update superseded it in the meantime.
func (s *slot[T]) load(ctx context.Context, fetch func(ctx context.Context) (T, error)) error {
	ctx, tk := s.latest.Begin(ctx)
	defer s.latest.Done(tk)

	v, err := fetch(ctx)
	applied := s.latest.Commit(tk, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if err == nil {
			s.val = v
		}
		s.err = err
		s.loaded = true
	})
	if !applied {
		return ErrSuperseded
	}
	return err
}

// update changes the stored value in place and discards any load still in
// flight.
func (s *slot[T]) update(fn func(T) T) {
	s.latest.Invalidate()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.val = fn(s.val)
	s.err = nil
	s.loaded = true
}

func (s *slot[T]) get() (T, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.val, s.loaded, s.err
}

func (s *slot[T]) reset() {
	s.latest.Invalidate()

	s.mu.Lock()
	defer s.mu.Unlock()
	var zero T
	s.val, s.err, s.loaded = zero, nil, false
}
