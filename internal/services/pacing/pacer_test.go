package pacing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClampsInterval(t *testing.T) {
	assert.Equal(t, 300*time.Millisecond, New(300*time.Millisecond).Interval())
	assert.Equal(t, 500*time.Millisecond, New(500*time.Millisecond).Interval())
	assert.Equal(t, DefaultInterval, New(50*time.Millisecond).Interval())
	assert.Equal(t, DefaultInterval, New(2*time.Second).Interval())
	assert.Zero(t, New(0).Interval())
}

func TestPacerSpacesCalls(t *testing.T) {
	p := New(MinInterval)
	ctx := context.Background()

	start := time.Now()
	var stamps []time.Duration
	for range 3 {
		require.NoError(t, p.Do(ctx, func(context.Context) error {
			stamps = append(stamps, time.Since(start))
			return nil
		}))
	}

	assert.Less(t, stamps[0], 50*time.Millisecond, "first call is immediate")
	assert.GreaterOrEqual(t, stamps[1]-stamps[0], MinInterval-20*time.Millisecond)
	assert.GreaterOrEqual(t, stamps[2]-stamps[1], MinInterval-20*time.Millisecond)
}

func TestPacerDisabled(t *testing.T) {
	p := New(0)
	start := time.Now()
	for range 20 {
		require.NoError(t, p.Wait(context.Background()))
	}
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestPacerCancelled(t *testing.T) {
	p := New(MaxInterval)
	require.NoError(t, p.Wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	called := false
	err := p.Do(ctx, func(context.Context) error {
		called = true
		return nil
	})
	assert.Error(t, err)
	assert.False(t, called)
}

func TestPacerPropagatesError(t *testing.T) {
	boom := errors.New("boom")
	err := New(0).Do(context.Background(), func(context.Context) error { return boom })
	assert.ErrorIs(t, err, boom)
}
