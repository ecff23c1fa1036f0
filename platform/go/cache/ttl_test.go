package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTTLCachesValues(t *testing.T) {
	t.Parallel()

	c, err := New[bool](DefaultConfig(time.Minute))
	require.NoError(t, err)

	calls := 0
	fetch := func(context.Context) (bool, error) {
		calls++
		return true, nil
	}

	for i := 0; i < 3; i++ {
		v, err := c.GetOrFetch(context.Background(), "hotel-1", fetch)
		require.NoError(t, err)
		require.True(t, v)
	}
	require.Equal(t, 1, calls)
	require.Equal(t, 1, c.Size())

	c.Delete("hotel-1")
	_, err = c.GetOrFetch(context.Background(), "hotel-1", fetch)
	require.NoError(t, err)
	require.Equal(t, 2, calls)
}

func TestTTLDoesNotCacheErrors(t *testing.T) {
	t.Parallel()

	c, err := New[bool](DefaultConfig(time.Minute))
	require.NoError(t, err)

	calls := 0
	_, err = c.GetOrFetch(context.Background(), "hotel-1", func(context.Context) (bool, error) {
		calls++
		return false, errors.New("unavailable")
	})
	require.Error(t, err)

	v, err := c.GetOrFetch(context.Background(), "hotel-1", func(context.Context) (bool, error) {
		calls++
		return true, nil
	})
	require.NoError(t, err)
	require.True(t, v)
	require.Equal(t, 2, calls)
}

func TestZeroTTLDisablesCaching(t *testing.T) {
	t.Parallel()

	c, err := New[int](Config{})
	require.NoError(t, err)

	calls := 0
	for i := 0; i < 2; i++ {
		_, err := c.GetOrFetch(context.Background(), "k", func(context.Context) (int, error) {
			calls++
			return calls, nil
		})
		require.NoError(t, err)
	}
	require.Equal(t, 2, calls)
	require.Zero(t, c.Size())
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig(time.Second)
	cfg.EvictionPercentage = 0

	var cfgErr *ConfigError
	require.ErrorAs(t, cfg.Validate(), &cfgErr)
	require.Equal(t, "EvictionPercentage", cfgErr.Field)

	require.Error(t, Config{TTL: -time.Second}.Validate())
}
