package client

import (
	"context"

	"github.com/mwallet/v1/client/core/submit"
	"github.com/mwallet/v1/client/core/transport"
	"github.com/mwallet/v1/client/core/wallet"
	"github.com/mwallet/v1/client/pkg/config"
	logconfig "github.com/mwallet/v1/internal/config/log"
	cryptoinfra "github.com/mwallet/v1/internal/core/infrastructure/crypto"
	"github.com/mwallet/v1/internal/core/infrastructure/crypto/encryption"
	"github.com/mwallet/v1/internal/core/infrastructure/crypto/signature"
	zaplog "github.com/mwallet/v1/internal/core/infrastructure/log"
	"github.com/mwallet/v1/pkg/interfaces/infrastructure/log"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

// ModuleParams 定义客户端模块的依赖参数
type ModuleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Config     *config.Config
	Logger     log.Logger
	Signer     *signature.Service
	Encryption *encryption.EncryptionService
	Registry   *prometheus.Registry `optional:"true"`
}

// ModuleOutput 定义客户端模块的输出结构
type ModuleOutput struct {
	fx.Out

	Client    *Client
	Wallet    *wallet.Wallet
	Submitter *submit.Client
	Node      *transport.NodeAPI
}

// Module 返回客户端模块，调用方需提供 *config.Config
func Module() fx.Option {
	return fx.Module("client",
		fx.Provide(provideLogOptions),
		zaplog.Module(),
		cryptoinfra.Module(),
		fx.Provide(ProvideClient),
	)
}

func provideLogOptions(cfg *config.Config) *logconfig.LogOptions {
	return cfg.Log
}

// ProvideClient 创建客户端并在停止时刷新日志
func ProvideClient(params ModuleParams) (ModuleOutput, error) {
	c, err := New(params.Config, Dependencies{
		Logger:     params.Logger,
		Signer:     params.Signer,
		Encryption: params.Encryption,
		Registry:   params.Registry,
	})
	if err != nil {
		return ModuleOutput{}, err
	}

	params.Lifecycle.Append(fx.Hook{
		OnStop: func(context.Context) error {
			_ = params.Logger.Sync()
			return nil
		},
	})

	return ModuleOutput{
		Client:    c,
		Wallet:    c.Wallet(),
		Submitter: c.Submitter(),
		Node:      c.Node(),
	}, nil
}
