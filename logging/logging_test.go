package logging

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/zoobzio/kernz/internal/vector"
)

func TestAttach(t *testing.T) {
	t.Run("Logs Successful Run", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		typed, err := vector.Pipeline(2)
		require.NoError(t, err)
		defer typed.Close()

		require.NoError(t, Attach(typed.Pipeline(), zap.New(core)))

		out, err := typed.Process(context.Background(), &[]int{2, 3, 4})
		require.NoError(t, err)
		assert.Equal(t, 3, *out)

		assert.Eventually(t, func() bool {
			return logs.FilterMessage("run succeeded").Len() == 1 &&
				logs.FilterMessage("stage complete").Len() == 3
		}, time.Second, 10*time.Millisecond)

		entry := logs.FilterMessage("run succeeded").All()[0]
		assert.Equal(t, zapcore.InfoLevel, entry.Level)
		assert.Equal(t, "vector", entry.ContextMap()["pipeline"])
		assert.EqualValues(t, 3, entry.ContextMap()["completed_stages"])
	})

	t.Run("Logs Failed Run", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		typed, err := vector.Pipeline(2)
		require.NoError(t, err)
		defer typed.Close()

		require.NoError(t, Attach(typed.Pipeline(), zap.New(core)))

		_, err = typed.Process(context.Background(), &[]int{2, 1, 4})
		require.Error(t, err)

		assert.Eventually(t, func() bool {
			return logs.FilterMessage("run failed").Len() == 1 &&
				logs.FilterMessage("stage complete").Len() == 2
		}, time.Second, 10*time.Millisecond)

		entry := logs.FilterMessage("run failed").All()[0]
		assert.Equal(t, zapcore.WarnLevel, entry.Level)
		assert.EqualValues(t, 1, entry.ContextMap()["completed_stages"])
		assert.Contains(t, entry.ContextMap()["error"], "non-negative")
	})

	t.Run("Nil Logger", func(t *testing.T) {
		typed, err := vector.Pipeline(0)
		require.NoError(t, err)
		defer typed.Close()

		require.NoError(t, Attach(typed.Pipeline(), nil))
		_, err = typed.Process(context.Background(), &[]int{1})
		assert.NoError(t, err)
	})
}
