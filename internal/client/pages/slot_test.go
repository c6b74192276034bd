package pages

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlot_LateResultDiscarded(t *testing.T) {
	var s slot[string]

	started := make(chan struct{})
	finish := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- s.load(context.Background(), func(context.Context) (string, error) {
			close(started)
			<-finish
			return "A", nil
		})
	}()
	<-started

	require.NoError(t, s.load(context.Background(), func(context.Context) (string, error) {
		return "B", nil
	}))
	close(finish)

	assert.ErrorIs(t, <-done, ErrSuperseded)
	v, loaded, err := s.get()
	assert.True(t, loaded)
	assert.NoError(t, err)
	assert.Equal(t, "B", v)
}

func TestSlot_NewLoadCancelsPrevious(t *testing.T) {
	var s slot[int]

	started := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- s.load(context.Background(), func(ctx context.Context) (int, error) {
			close(started)
			<-ctx.Done()
			return 0, ctx.Err()
		})
	}()
	<-started

	require.NoError(t, s.load(context.Background(), func(context.Context) (int, error) { return 2, nil }))
	assert.ErrorIs(t, <-done, ErrSuperseded)
}

func TestSlot_UpdateSupersedesInflightLoad(t *testing.T) {
	var s slot[[]int]
	s.update(func([]int) []int { return []int{1, 2} })

	started := make(chan struct{})
	finish := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- s.load(context.Background(), func(context.Context) ([]int, error) {
			close(started)
			<-finish
			return []int{9}, nil
		})
	}()
	<-started
	s.update(func(v []int) []int { return v[:1] })
	close(finish)

	assert.ErrorIs(t, <-done, ErrSuperseded)
	v, _, _ := s.get()
	assert.Equal(t, []int{1}, v)
}

func TestSlot_ErrorKeepsValue(t *testing.T) {
	var s slot[string]
	require.NoError(t, s.load(context.Background(), func(context.Context) (string, error) { return "ok", nil }))

	boom := errors.New("boom")
	assert.ErrorIs(t, s.load(context.Background(), func(context.Context) (string, error) { return "", boom }), boom)

	v, loaded, err := s.get()
	assert.True(t, loaded)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "ok", v)

	s.reset()
	_, loaded, err = s.get()
	assert.False(t, loaded)
	assert.NoError(t, err)
}
