package crypto

import (
	"github.com/mwallet/v1/internal/core/infrastructure/crypto/encryption"
	"github.com/mwallet/v1/internal/core/infrastructure/crypto/signature"
	cryptointf "github.com/mwallet/v1/pkg/interfaces/infrastructure/crypto"
	"github.com/mwallet/v1/pkg/interfaces/infrastructure/log"
	"go.uber.org/fx"
)

// CryptoParams 定义加密模块的依赖参数
type CryptoParams struct {
	fx.In

	Logger           log.Logger                  `optional:"true"`
	SignatureManager cryptointf.SignatureManager `name:"signer_override" optional:"true"`
	Encryption       *encryption.Params          `optional:"true"`
}

// CryptoOutput 定义加密模块的输出结构
type CryptoOutput struct {
	fx.Out

	HashManager       cryptointf.HashManager
	SignatureManager  cryptointf.SignatureManager
	SignatureService  *signature.Service
	EncryptionService *encryption.EncryptionService
}

// Module 返回加密模块
func Module() fx.Option {
	return fx.Module("crypto",
		fx.Provide(ProvideCryptoServices),
	)
}

// ProvideCryptoServices 提供加密服务
func ProvideCryptoServices(params CryptoParams) CryptoOutput {
	input := ServiceInput{
		Logger:           params.Logger,
		SignatureManager: params.SignatureManager,
	}
	if params.Encryption != nil {
		input.Encryption = *params.Encryption
	}

	out := CreateCryptoServices(input)
	return CryptoOutput{
		HashManager:       out.HashManager,
		SignatureManager:  out.SignatureManager,
		SignatureService:  out.SignatureService,
		EncryptionService: out.EncryptionService,
	}
}
