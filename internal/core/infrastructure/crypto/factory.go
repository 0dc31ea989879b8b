// Package crypto 提供加密服务工厂实现
package crypto

import (
	"github.com/mwallet/v1/internal/core/infrastructure/crypto/encryption"
	"github.com/mwallet/v1/internal/core/infrastructure/crypto/hash"
	"github.com/mwallet/v1/internal/core/infrastructure/crypto/signature"
	zaplog "github.com/mwallet/v1/internal/core/infrastructure/log"
	cryptointf "github.com/mwallet/v1/pkg/interfaces/infrastructure/crypto"
	"github.com/mwallet/v1/pkg/interfaces/infrastructure/log"
)

// ServiceInput 定义加密服务工厂的输入参数
type ServiceInput struct {
	Logger log.Logger
	// SignatureManager 为 nil 时使用 Ed25519
	SignatureManager cryptointf.SignatureManager
	Encryption       encryption.Params
}

// ServiceOutput 定义加密服务工厂的输出结果
type ServiceOutput struct {
	HashManager       cryptointf.HashManager
	SignatureManager  cryptointf.SignatureManager
	SignatureService  *signature.Service
	EncryptionService *encryption.EncryptionService
}

// CreateCryptoServices 创建加密服务并处理服务间依赖
func CreateCryptoServices(input ServiceInput) ServiceOutput {
	logger := zaplog.NewModuleLogger(input.Logger, "crypto")

	hashService := hash.NewHashService()

	manager := input.SignatureManager
	if manager == nil {
		manager = signature.NewEd25519Manager()
	}
	sigService := signature.NewService(manager, hashService, input.Logger)

	encService := encryption.NewEncryptionService(input.Encryption)
	logger.Debug("crypto services initialized")

	return ServiceOutput{
		HashManager:       hashService,
		SignatureManager:  manager,
		SignatureService:  sigService,
		EncryptionService: encService,
	}
}
