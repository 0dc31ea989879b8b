package log

import (
	logInterface "github.com/mwallet/v1/pkg/interfaces/infrastructure/log"
	"go.uber.org/zap"
)

// noopLogger 是一个无操作的Logger实现，用于可选Logger为nil时的回退
type noopLogger struct{}

// NewNop 返回丢弃所有输出的 Logger
func NewNop() logInterface.Logger { return noopLogger{} }

func (noopLogger) Debug(msg string)                               {}
func (noopLogger) Debugf(format string, args ...interface{})      {}
func (noopLogger) Info(msg string)                                {}
func (noopLogger) Infof(format string, args ...interface{})       {}
func (noopLogger) Warn(msg string)                                {}
func (noopLogger) Warnf(format string, args ...interface{})       {}
func (noopLogger) Error(msg string)                               {}
func (noopLogger) Errorf(format string, args ...interface{})      {}
func (l noopLogger) With(keyvals ...interface{}) logInterface.Logger { return l }
func (noopLogger) Sync() error                                    { return nil }
func (noopLogger) GetZapLogger() *zap.Logger                      { return zap.NewNop() }
