package portfolio

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheServesWithinTTLWithoutRecompute(t *testing.T) {
	computes := 0
	c := NewCache(10*time.Second, func(ctx context.Context) (*Analysis, error) {
		computes++
		return &Analysis{LatestValue: float64(computes)}, nil
	})
	now := time.Unix(1000, 0)
	c.now = func() time.Time { return now }

	first, err := c.Get(context.Background())
	require.NoError(t, err)

	now = now.Add(5 * time.Second)
	second, err := c.Get(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, computes, "no second feed call within the TTL window")
	assert.Same(t, first, second, "cached result is returned unchanged")
}

func TestCacheRecomputesAfterTTL(t *testing.T) {
	computes := 0
	c := NewCache(10*time.Second, func(ctx context.Context) (*Analysis, error) {
		computes++
		return &Analysis{LatestValue: float64(computes)}, nil
	})
	now := time.Unix(1000, 0)
	c.now = func() time.Time { return now }

	_, err := c.Get(context.Background())
	require.NoError(t, err)

	now = now.Add(11 * time.Second)
	second, err := c.Get(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, computes, "expiry triggers exactly one recompute")
	assert.Equal(t, 2.0, second.LatestValue)
}

func TestCacheKeepsSlotOnFailedRecompute(t *testing.T) {
	fail := false
	c := NewCache(10*time.Second, func(ctx context.Context) (*Analysis, error) {
		if fail {
			return nil, fmt.Errorf("feed down")
		}
		return &Analysis{LatestValue: 42}, nil
	})
	now := time.Unix(1000, 0)
	c.now = func() time.Time { return now }

	_, err := c.Get(context.Background())
	require.NoError(t, err)

	fail = true
	now = now.Add(11 * time.Second)
	_, err = c.Get(context.Background())
	require.Error(t, err)

	// The old slot survives the failed swap and is served once compute
	// recovers within a fresh window.
	fail = false
	got, err := c.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42.0, got.LatestValue)
}

func TestCacheConcurrentGetsSingleFlight(t *testing.T) {
	computes := 0
	c := NewCache(time.Minute, func(ctx context.Context) (*Analysis, error) {
		computes++
		time.Sleep(10 * time.Millisecond)
		return &Analysis{}, nil
	})

	type result struct {
		a   *Analysis
		err error
	}
	done := make(chan result, 4)
	for i := 0; i < 4; i++ {
		go func() {
			a, err := c.Get(context.Background())
			done <- result{a, err}
		}()
	}

	first := <-done
	require.NoError(t, first.err)
	for i := 0; i < 3; i++ {
		r := <-done
		require.NoError(t, r.err)
		assert.Same(t, first.a, r.a, "concurrent requests serialize on one in-flight computation")
	}
	assert.Equal(t, 1, computes)
}
