package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestNewDefaults(t *testing.T) {
	cfg := New(nil)
	assert.Equal(t, zapcore.InfoLevel, cfg.GetZapLevel())
	assert.True(t, cfg.IsConsoleEnabled())
	assert.Empty(t, cfg.GetFilePath())
	assert.Equal(t, defaultMaxSize, cfg.GetMaxSize())
}

func TestNewOverrides(t *testing.T) {
	cfg := New(&LogOptions{Level: "DEBUG", FilePath: "/tmp/w.log", MaxBackups: 2})
	assert.Equal(t, zapcore.DebugLevel, cfg.GetZapLevel())
	assert.False(t, cfg.IsConsoleEnabled(), "显式配置的零值应生效")
	assert.Equal(t, "/tmp/w.log", cfg.GetFilePath())
	assert.Equal(t, 2, cfg.GetMaxBackups())
	assert.Equal(t, defaultMaxAge, cfg.GetMaxAge(), "未设置的数值字段回退默认值")
}

func TestUnknownLevelFallsBackToInfo(t *testing.T) {
	cfg := New(&LogOptions{Level: "verbose"})
	assert.Equal(t, zapcore.InfoLevel, cfg.GetZapLevel())
}
