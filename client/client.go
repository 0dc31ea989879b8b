// Package client 钱包客户端入口：组装传输、签名、钱包与提交服务
package client

import (
	"context"
	"fmt"
	"time"

	evbus "github.com/asaskevich/EventBus"
	"github.com/mwallet/v1/client/core/submit"
	"github.com/mwallet/v1/client/core/transport"
	"github.com/mwallet/v1/client/core/wallet"
	"github.com/mwallet/v1/client/pkg/config"
	cryptoinfra "github.com/mwallet/v1/internal/core/infrastructure/crypto"
	"github.com/mwallet/v1/internal/core/infrastructure/crypto/encryption"
	"github.com/mwallet/v1/internal/core/infrastructure/crypto/signature"
	zaplog "github.com/mwallet/v1/internal/core/infrastructure/log"
	"github.com/mwallet/v1/pkg/interfaces/infrastructure/log"
	"github.com/prometheus/client_golang/prometheus"
)

// Client 钱包客户端 - 统一的客户端入口
type Client struct {
	cfg      *config.Config
	logger   log.Logger
	bus      evbus.Bus
	registry *prometheus.Registry

	node    *transport.NodeAPI
	private *transport.NodeAPI
	wallet  *wallet.Wallet
	submit  *submit.Client
}

// Dependencies 可替换的依赖，零值字段使用默认实现
type Dependencies struct {
	Logger     log.Logger
	Signer     *signature.Service
	Encryption *encryption.EncryptionService
	Registry   *prometheus.Registry
}

// New 根据配置创建客户端
func New(cfg *config.Config, deps Dependencies) (*Client, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := deps.Logger
	if logger == nil {
		logger = zaplog.NewNop()
	}
	if deps.Signer == nil || deps.Encryption == nil {
		services := cryptoinfra.CreateCryptoServices(cryptoinfra.ServiceInput{Logger: logger})
		if deps.Signer == nil {
			deps.Signer = services.SignatureService
		}
		if deps.Encryption == nil {
			deps.Encryption = services.EncryptionService
		}
	}
	registry := deps.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	timeout := time.Duration(cfg.Timeout)
	policy := transport.RetryPolicy{
		Enabled:  cfg.Retry.Enabled,
		Attempts: cfg.Retry.Attempts,
		Backoff:  time.Duration(cfg.Retry.Backoff),
	}
	metrics := transport.NewMetrics(registry)

	endpoints := cfg.OrderedEndpoints()
	callers := make([]transport.Caller, len(endpoints))
	for i, ep := range endpoints {
		callers[i] = transport.NewJSONRPCClient(ep, timeout)
	}
	public, err := transport.NewRetryCaller(policy, metrics, logger, callers...)
	if err != nil {
		return nil, fmt.Errorf("public endpoints: %w", err)
	}

	c := &Client{
		cfg:      cfg,
		logger:   zaplog.NewModuleLogger(logger, "client"),
		bus:      evbus.New(),
		registry: registry,
		node:     transport.NewNodeAPI(public),
	}

	if cfg.PrivateEndpoint != nil {
		private, err := transport.NewRetryCaller(policy, metrics, logger,
			transport.NewJSONRPCClient(cfg.PrivateEndpoint.JSONRPC, timeout))
		if err != nil {
			return nil, fmt.Errorf("private endpoint: %w", err)
		}
		c.private = transport.NewNodeAPI(private)
	}

	c.wallet = wallet.New(wallet.Config{
		Signer:     deps.Signer,
		Node:       c.node,
		Encryption: deps.Encryption,
		Bus:        c.bus,
		Logger:     logger,
		ChainID:    cfg.ChainID,
	})
	c.submit = submit.New(submit.Config{
		Wallet:       c.wallet,
		Node:         c.node,
		Signer:       deps.Signer,
		PeriodOffset: cfg.PeriodOffset,
		CheckBalance: cfg.CheckBalance,
		Logger:       logger,
	})

	c.logger.Infof("client ready with %d public endpoints", len(endpoints))
	return c, nil
}

// Config 返回客户端配置
func (c *Client) Config() *config.Config { return c.cfg }

// Wallet 返回钱包
func (c *Client) Wallet() *wallet.Wallet { return c.wallet }

// Submitter 返回操作提交客户端
func (c *Client) Submitter() *submit.Client { return c.submit }

// Node 返回公共节点 API
func (c *Client) Node() *transport.NodeAPI { return c.node }

// Private 返回私有节点 API，未配置时为 nil
func (c *Client) Private() *transport.NodeAPI { return c.private }

// Events 返回钱包事件总线
func (c *Client) Events() evbus.Bus { return c.bus }

// Registry 返回 RPC 指标注册表
func (c *Client) Registry() *prometheus.Registry { return c.registry }

// === 便捷方法 ===

// Status 查询节点状态
func (c *Client) Status(ctx context.Context) (*transport.NodeStatus, error) {
	return c.node.GetStatus(ctx)
}

// LoadKeystore 从配置的 keystore 路径导入账户
func (c *Client) LoadKeystore(password string) ([]*wallet.SignableAccount, error) {
	return c.wallet.LoadKeystore(c.cfg.KeystorePath, password)
}

// SaveKeystore 把钱包写入配置的 keystore 路径
func (c *Client) SaveKeystore(password string) error {
	return c.wallet.SaveKeystore(c.cfg.KeystorePath, password)
}
