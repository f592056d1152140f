package monitoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/mutual-circle/config"
)

func TestInitSentry_EmptyDSNDisables(t *testing.T) {
	on, err := InitSentry(config.SentryConfig{})
	require.NoError(t, err)
	assert.False(t, on)
}

func TestInitSentry_BadDSN(t *testing.T) {
	on, err := InitSentry(config.SentryConfig{DSN: "not a dsn"})
	assert.Error(t, err)
	assert.False(t, on)
}
