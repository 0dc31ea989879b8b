package log

import (
	"strings"

	logiface "github.com/mwallet/v1/pkg/interfaces/infrastructure/log"
	"go.uber.org/zap/zapcore"
)

// LogOptions 日志配置选项
type LogOptions struct {
	Level       string `json:"level"`        // 日志级别 (debug, info, warn, error)
	ToConsole   bool   `json:"to_console"`   // 是否输出到 stderr
	JSONConsole bool   `json:"json_console"` // 控制台是否使用 JSON 编码
	FilePath    string `json:"file_path"`    // 日志文件路径，空表示不写文件

	MaxSize    int  `json:"max_size"`    // 单个日志文件最大大小(MB)
	MaxBackups int  `json:"max_backups"` // 最大备份文件数
	MaxAge     int  `json:"max_age"`     // 日志文件最大保留天数
	Compress   bool `json:"compress"`    // 是否压缩历史日志文件

	EnableCaller bool `json:"enable_caller"` // 是否启用调用者信息
}

// DefaultOptions 返回默认日志选项
func DefaultOptions() *LogOptions {
	return &LogOptions{
		Level:        defaultLogLevel,
		ToConsole:    defaultToConsole,
		JSONConsole:  defaultJSONConsole,
		FilePath:     defaultFilePath,
		MaxSize:      defaultMaxSize,
		MaxBackups:   defaultMaxBackups,
		MaxAge:       defaultMaxAge,
		Compress:     defaultCompress,
		EnableCaller: defaultEnableCaller,
	}
}

// Config 日志配置实现
type Config struct {
	options *LogOptions
}

// New 创建日志配置，user 中的零值字段回退到默认值
func New(user *LogOptions) *Config {
	options := DefaultOptions()
	if user != nil {
		applyUserOptions(options, user)
	}
	return &Config{options: options}
}

func applyUserOptions(options, user *LogOptions) {
	if user.Level != "" {
		options.Level = string(logiface.ParseLevel(strings.ToLower(user.Level)))
	}
	options.ToConsole = user.ToConsole
	options.JSONConsole = user.JSONConsole
	if user.FilePath != "" {
		options.FilePath = user.FilePath
	}
	if user.MaxSize > 0 {
		options.MaxSize = user.MaxSize
	}
	if user.MaxBackups > 0 {
		options.MaxBackups = user.MaxBackups
	}
	if user.MaxAge > 0 {
		options.MaxAge = user.MaxAge
	}
	options.Compress = user.Compress
	options.EnableCaller = user.EnableCaller
}

// GetOptions 获取完整的日志配置选项
func (c *Config) GetOptions() *LogOptions {
	return c.options
}

// GetZapLevel 获取zap日志级别
func (c *Config) GetZapLevel() zapcore.Level {
	if level, ok := defaultLevelMap[c.options.Level]; ok {
		return level
	}
	return zapcore.InfoLevel
}

// IsConsoleEnabled 是否启用控制台输出
func (c *Config) IsConsoleEnabled() bool {
	return c.options.ToConsole
}

// GetFilePath 获取日志文件路径
func (c *Config) GetFilePath() string {
	return c.options.FilePath
}

func (c *Config) GetMaxSize() int    { return c.options.MaxSize }
func (c *Config) GetMaxBackups() int { return c.options.MaxBackups }
func (c *Config) GetMaxAge() int     { return c.options.MaxAge }

// IsCompressionEnabled 是否启用压缩
func (c *Config) IsCompressionEnabled() bool {
	return c.options.Compress
}

// IsCallerEnabled 是否启用调用者信息
func (c *Config) IsCallerEnabled() bool {
	return c.options.EnableCaller
}

// CreateFileEncoder 创建文件编码器
func (c *Config) CreateFileEncoder() zapcore.Encoder {
	return zapcore.NewJSONEncoder(encoderConfig(zapcore.ISO8601TimeEncoder, zapcore.LowercaseLevelEncoder))
}

// CreateConsoleEncoder 创建控制台编码器
func (c *Config) CreateConsoleEncoder() zapcore.Encoder {
	if c.options.JSONConsole {
		return c.CreateFileEncoder()
	}
	return zapcore.NewConsoleEncoder(encoderConfig(zapcore.TimeEncoderOfLayout("15:04:05.000"), zapcore.CapitalLevelEncoder))
}

func encoderConfig(timeEnc zapcore.TimeEncoder, levelEnc zapcore.LevelEncoder) zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     timeEnc,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
		EncodeLevel:    levelEnc,
	}
}
