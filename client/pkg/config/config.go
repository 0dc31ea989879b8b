// Package config provides configuration management for the wallet client.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	logconfig "github.com/mwallet/v1/internal/config/log"
)

const (
	defaultDirName      = ".mwallet"
	defaultConfigFile   = "config.json"
	defaultKeystoreFile = "wallet.json"

	defaultPublicEndpoint = "http://localhost:33035"
	defaultTimeout        = 10 * time.Second
	defaultPeriodOffset   = 5
	defaultRetryAttempts  = 3
	defaultRetryBackoff   = 500 * time.Millisecond
)

// ErrInvalidConfig 配置校验失败
var ErrInvalidConfig = errors.New("invalid config")

// Duration 时间duration(支持JSON序列化)
type Duration time.Duration

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}

	*d = Duration(dur)
	return nil
}

// Endpoint 节点端点
type Endpoint struct {
	Name     string `json:"name"`     // 端点名称
	Priority int    `json:"priority"` // 优先级(数字越小越优先)
	JSONRPC  string `json:"jsonrpc"`  // JSON-RPC地址
}

// RetryConfig 重试策略
type RetryConfig struct {
	Enabled  bool     `json:"enabled"`
	Attempts int      `json:"attempts"`
	Backoff  Duration `json:"backoff"`
}

// Config 客户端配置
type Config struct {
	// 节点配置
	PublicEndpoints []Endpoint  `json:"public_endpoints"`           // 读取与提交使用的公共端点，按优先级回退
	PrivateEndpoint *Endpoint   `json:"private_endpoint,omitempty"` // 节点管理端点（可选）
	ChainID         uint64      `json:"chain_id"`                   // 0 表示不校验
	Timeout         Duration    `json:"timeout"`
	Retry           RetryConfig `json:"retry"`
	PeriodOffset    uint64      `json:"period_offset"` // 过期周期余量
	CheckBalance    bool        `json:"check_balance"` // 提交前检查发送方余额

	// 钱包配置
	KeystorePath string `json:"keystore_path"`

	// 日志配置
	Log *logconfig.LogOptions `json:"log,omitempty"`
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		PublicEndpoints: []Endpoint{{Name: "local", Priority: 0, JSONRPC: defaultPublicEndpoint}},
		Timeout:         Duration(defaultTimeout),
		Retry: RetryConfig{
			Enabled:  true,
			Attempts: defaultRetryAttempts,
			Backoff:  Duration(defaultRetryBackoff),
		},
		PeriodOffset: defaultPeriodOffset,
		KeystorePath: filepath.Join(DefaultDir(), defaultKeystoreFile),
		Log:          logconfig.DefaultOptions(),
	}
}

// DefaultDir 默认配置目录 ~/.mwallet
func DefaultDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return defaultDirName
	}
	return filepath.Join(homeDir, defaultDirName)
}

// DefaultPath 默认配置文件路径
func DefaultPath() string {
	return filepath.Join(DefaultDir(), defaultConfigFile)
}

// Load 加载配置，文件不存在时返回默认配置
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	//nolint:gosec // G304: 配置路径由用户指定
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// 在默认值之上解析，缺省字段保留默认值
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save 保存配置
func (c *Config) Save(path string) error {
	if path == "" {
		path = DefaultPath()
	}

	//nolint:gosec // G301: 配置目录需要用户可读权限
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Validate 检查必填字段
func (c *Config) Validate() error {
	if len(c.PublicEndpoints) == 0 {
		return fmt.Errorf("%w: at least one public endpoint is required", ErrInvalidConfig)
	}
	for i, ep := range c.PublicEndpoints {
		if ep.JSONRPC == "" {
			return fmt.Errorf("%w: public endpoint %d has no jsonrpc url", ErrInvalidConfig, i)
		}
	}
	if c.PrivateEndpoint != nil && c.PrivateEndpoint.JSONRPC == "" {
		return fmt.Errorf("%w: private endpoint has no jsonrpc url", ErrInvalidConfig)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("%w: negative timeout", ErrInvalidConfig)
	}
	if c.Retry.Enabled && c.Retry.Attempts < 1 {
		return fmt.Errorf("%w: retry attempts must be positive", ErrInvalidConfig)
	}
	return nil
}

// OrderedEndpoints 按优先级返回公共端点地址
func (c *Config) OrderedEndpoints() []string {
	eps := make([]Endpoint, len(c.PublicEndpoints))
	copy(eps, c.PublicEndpoints)
	sort.SliceStable(eps, func(i, j int) bool { return eps[i].Priority < eps[j].Priority })

	out := make([]string, len(eps))
	for i, ep := range eps {
		out[i] = ep.JSONRPC
	}
	return out
}
