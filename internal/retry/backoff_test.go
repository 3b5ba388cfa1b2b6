package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func fastConfig(retries int) Config {
	return Config{
		MaxRetries:   retries,
		InitialDelay: time.Millisecond,
		MaxDelay:     2 * time.Millisecond,
		Multiplier:   2,
	}
}

func TestWithBackoff(t *testing.T) {
	boom := errors.New("boom")

	t.Run("succeeds after failures", func(t *testing.T) {
		calls := 0
		err := WithBackoff(context.Background(), fastConfig(5), zap.NewNop(), "op", func() error {
			calls++
			if calls < 3 {
				return boom
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("gives up", func(t *testing.T) {
		calls := 0
		err := WithBackoff(context.Background(), fastConfig(3), zap.NewNop(), "op", func() error {
			calls++
			return boom
		})
		assert.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "op failed after 3 attempts")
		assert.Equal(t, 3, calls)
	})

	t.Run("permanent", func(t *testing.T) {
		calls := 0
		err := WithBackoff(context.Background(), fastConfig(5), zap.NewNop(), "op", func() error {
			calls++
			return Permanent(boom)
		})
		assert.Equal(t, boom, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		calls := 0
		err := WithBackoff(ctx, fastConfig(5), zap.NewNop(), "op", func() error {
			calls++
			return nil
		})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Zero(t, calls)
	})

	t.Run("zero retries still runs once", func(t *testing.T) {
		calls := 0
		err := WithBackoff(context.Background(), fastConfig(0), zap.NewNop(), "op", func() error {
			calls++
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})
}

func TestCalculateBackoff(t *testing.T) {
	cfg := Config{InitialDelay: 100 * time.Millisecond, MaxDelay: time.Second, Multiplier: 2}

	assert.Equal(t, 100*time.Millisecond, calculateBackoff(cfg, 1))
	assert.Equal(t, 400*time.Millisecond, calculateBackoff(cfg, 3))
	assert.Equal(t, time.Second, calculateBackoff(cfg, 10))

	cfg.JitterEnabled = true
	for i := 0; i < 20; i++ {
		d := calculateBackoff(cfg, 1)
		assert.GreaterOrEqual(t, d, 84*time.Millisecond)
		assert.LessOrEqual(t, d, 116*time.Millisecond)
	}
}

func TestPermanentNil(t *testing.T) {
	assert.NoError(t, Permanent(nil))
}
