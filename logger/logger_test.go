package logger

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestVerbosityToLevel(t *testing.T) {
	tests := []struct {
		verbosity int
		want      zapcore.Level
	}{
		{-1, zapcore.WarnLevel},
		{VerbosityUser, zapcore.WarnLevel},
		{VerbosityInfo, zapcore.InfoLevel},
		{VerbosityDebug, zapcore.DebugLevel},
		{7, zapcore.DebugLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, VerbosityToLevel(tt.verbosity), "verbosity %d", tt.verbosity)
	}
}

func TestLevelName(t *testing.T) {
	assert.Equal(t, "User", LevelName(0))
	assert.Equal(t, "Info (-v)", LevelName(1))
	assert.Equal(t, "Debug (-vv)", LevelName(5))
}

func TestInitialize(t *testing.T) {
	defer func() { Logger = zap.NewNop().Sugar() }()

	require.NoError(t, Initialize(false, VerbosityInfo))
	assert.False(t, JSONOutput)
	assert.True(t, Logger.Desugar().Core().Enabled(zapcore.InfoLevel))
	assert.False(t, Logger.Desugar().Core().Enabled(zapcore.DebugLevel))

	require.NoError(t, Initialize(true, VerbosityUser))
	assert.True(t, JSONOutput)
	assert.False(t, Logger.Desugar().Core().Enabled(zapcore.InfoLevel))
}

func TestWrappersWithNopLogger(t *testing.T) {
	Logger = zap.NewNop().Sugar()
	assert.NotPanics(t, func() {
		Infow("generated", FieldFile, "index.ts")
		Infof("%d files", 3)
		Debugw("debug")
		Warnw("warn")
		Errorw("error", FieldError, "boom")
		Cleanup()
	})
}

func TestMinimalEncoder(t *testing.T) {
	enc := newMinimalEncoder()
	ent := zapcore.Entry{
		Level:      zapcore.InfoLevel,
		Time:       time.Date(2026, 1, 2, 13, 4, 35, 0, time.UTC),
		LoggerName: "typegen",
		Message:    "Generated file",
	}
	buf, err := enc.EncodeEntry(ent, []zapcore.Field{
		zap.String(FieldFile, "api/index.ts"),
		zap.Int(FieldCount, 4),
		zap.String("ignored", "value"),
	})
	require.NoError(t, err)
	line := buf.String()

	assert.Contains(t, line, "13:04:35")
	assert.Contains(t, line, "typegen")
	assert.Contains(t, line, "Generated file")
	assert.Contains(t, line, "api/index.ts")
	assert.Contains(t, line, "4"+colorReset+" files")
	assert.NotContains(t, line, "ignored")
	assert.NotContains(t, line, "INFO")
	assert.True(t, strings.HasSuffix(line, "\n"))
}

func TestMinimalEncoderLevels(t *testing.T) {
	enc := newMinimalEncoder()
	buf, err := enc.EncodeEntry(zapcore.Entry{Level: zapcore.WarnLevel, Message: "slow"}, nil)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "WARN")

	buf, err = enc.EncodeEntry(zapcore.Entry{Level: zapcore.ErrorLevel, Message: "failed"}, nil)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "ERROR")
}
