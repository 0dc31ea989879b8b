package log

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	logconfig "github.com/mwallet/v1/internal/config/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

// newBufferLogger 创建写入内存缓冲区的 JSON logger
func newBufferLogger(t *testing.T, level string) (*bytes.Buffer, *Logger) {
	t.Helper()
	var buf bytes.Buffer
	cfg := logconfig.New(&logconfig.LogOptions{Level: level, ToConsole: true, JSONConsole: true})
	l, err := NewWithConsole(cfg, zapcore.AddSync(&buf))
	require.NoError(t, err)
	return &buf, l.(*Logger)
}

func TestInfoLog(t *testing.T) {
	buf, l := newBufferLogger(t, "info")
	l.Info("测试信息日志")
	require.NoError(t, l.Sync())

	assert.Contains(t, buf.String(), "测试信息日志")
	assert.Contains(t, buf.String(), `"level":"info"`)
}

func TestLevelFiltering(t *testing.T) {
	buf, l := newBufferLogger(t, "warn")
	l.Info("不应出现")
	l.Warnf("告警 %d", 7)

	out := buf.String()
	assert.NotContains(t, out, "不应出现")
	assert.Contains(t, out, "告警 7")
}

func TestStructuredLogging(t *testing.T) {
	buf, l := newBufferLogger(t, "debug")
	l.With("module", "wallet", "count", 3, "dangling").Debug("结构化日志测试")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "wallet", entry["module"])
	assert.EqualValues(t, 3, entry["count"])
	_, hasDangling := entry["dangling"]
	assert.False(t, hasDangling, "奇数个参数时最后一个应被丢弃")
}

func TestFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "wallet.log")
	cfg := logconfig.New(&logconfig.LogOptions{Level: "info", FilePath: path})
	l, err := New(cfg)
	require.NoError(t, err)

	l.Error("写入文件")
	require.NoError(t, l.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "写入文件"))
}

func TestNewModuleLoggerNilBase(t *testing.T) {
	l := NewModuleLogger(nil, "transport")
	require.NotNil(t, l)
	l.Info("ignored")
	assert.NotNil(t, l.GetZapLogger())
}

func TestSetLoggerIgnoresNil(t *testing.T) {
	before := GetLogger()
	SetLogger(nil)
	assert.Equal(t, before, GetLogger())
}
