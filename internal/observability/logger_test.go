// internal/observability/logger_test.go
package observability

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Yangsun94/Gmarket-Project/internal/config"
)

type syncBuffer struct {
	bytes.Buffer
}

func (s *syncBuffer) Sync() error { return nil }

func initForTest(t *testing.T, cfg config.LoggerConfig) *syncBuffer {
	t.Helper()
	ResetForTest()
	t.Cleanup(ResetForTest)

	buf := &syncBuffer{}
	Initialize(cfg, zapcore.Lock(buf))
	return buf
}

func TestInitializeJSONFormat(t *testing.T) {
	buf := initForTest(t, config.LoggerConfig{
		Level:       "info",
		Format:      "json",
		ServiceName: "gmkt-test",
	})

	GetLogger().Info("hello", zap.String("keyword", "마우스"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "마우스", entry["keyword"])
	assert.Equal(t, "gmkt-test", entry["logger"])
	assert.Equal(t, "INFO", entry["level"])
}

func TestLevelFiltering(t *testing.T) {
	buf := initForTest(t, config.LoggerConfig{
		Level:       "warn",
		Format:      "json",
		ServiceName: "gmkt-test",
	})

	GetLogger().Info("suppressed")
	GetLogger().Warn("emitted")

	out := buf.String()
	assert.NotContains(t, out, "suppressed")
	assert.Contains(t, out, "emitted")
}

func TestInvalidLevelFallsBackToInfo(t *testing.T) {
	buf := initForTest(t, config.LoggerConfig{
		Level:       "not-a-level",
		Format:      "json",
		ServiceName: "gmkt-test",
	})

	GetLogger().Debug("below info")
	GetLogger().Info("at info")

	out := buf.String()
	assert.NotContains(t, out, "below info")
	assert.Contains(t, out, "at info")
}

func TestInitializeRunsOnce(t *testing.T) {
	buf := initForTest(t, config.LoggerConfig{Level: "info", Format: "json", ServiceName: "first"})

	// A second initialization must not replace the logger.
	second := &syncBuffer{}
	Initialize(config.LoggerConfig{Level: "debug", Format: "json", ServiceName: "second"}, zapcore.Lock(second))

	GetLogger().Info("routed")
	assert.Contains(t, buf.String(), "routed")
	assert.Empty(t, second.String())
}

func TestGetLoggerBeforeInitReturnsFallback(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	logger := GetLogger()
	require.NotNil(t, logger)
}
