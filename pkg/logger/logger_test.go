package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInit(t *testing.T) {
	prev := get()
	t.Cleanup(func() { Set(prev) })

	require.NoError(t, Init("debug", "json"))
	assert.True(t, get().Core().Enabled(zapcore.DebugLevel))

	// 无法识别的级别回退到 info
	require.NoError(t, Init("loud", "console"))
	assert.False(t, get().Core().Enabled(zapcore.DebugLevel))
	assert.True(t, get().Core().Enabled(zapcore.InfoLevel))
}

func TestPackageFuncsWriteToGlobal(t *testing.T) {
	prev := get()
	t.Cleanup(func() { Set(prev) })

	core, logs := observer.New(zapcore.InfoLevel)
	Set(zap.New(core))

	Debug("hidden")
	Info("follow created", zap.Uint64("follower_id", 1))
	Warn("slow query")
	Error("boom")

	require.Equal(t, 3, logs.Len())
	assert.Equal(t, "follow created", logs.All()[0].Message)
	assert.EqualValues(t, 1, logs.All()[0].ContextMap()["follower_id"])
	assert.Equal(t, zapcore.ErrorLevel, logs.All()[2].Level)
}
