package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := FromZap(zap.New(core)).Named("application").With("use_case", "submit")

	log.Info("application submitted", "application_id", "a1")
	log.Debug("retrying", "attempt", 2)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "application", entries[0].LoggerName)
	assert.Equal(t, "application submitted", entries[0].Message)
	assert.Equal(t, map[string]interface{}{"use_case": "submit", "application_id": "a1"}, entries[0].ContextMap())
	assert.Equal(t, int64(2), entries[1].ContextMap()["attempt"])
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"WARNING": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"":        zapcore.InfoLevel,
		"verbose": zapcore.InfoLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, parseLevel(in), in)
	}
}
