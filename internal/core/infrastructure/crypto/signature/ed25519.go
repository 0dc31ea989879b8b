package signature

import (
	"crypto/ed25519"
	"fmt"

	cryptointf "github.com/mwallet/v1/pkg/interfaces/infrastructure/crypto"
)

// 确保Ed25519Manager实现了cryptointf.SignatureManager接口
var _ cryptointf.SignatureManager = (*Ed25519Manager)(nil)

// Ed25519Manager 基于 Ed25519 的字节级签名实现
//
// 私钥为 32 字节种子，签名是确定性的（RFC 8032）。
type Ed25519Manager struct{}

// NewEd25519Manager 创建 Ed25519 签名管理器
func NewEd25519Manager() *Ed25519Manager {
	return &Ed25519Manager{}
}

// DerivePublicKey 从种子推导公钥
func (m *Ed25519Manager) DerivePublicKey(secret []byte) ([]byte, error) {
	if len(secret) != ed25519.SeedSize {
		return nil, fmt.Errorf("invalid secret key length %d", len(secret))
	}
	pub := ed25519.NewKeyFromSeed(secret).Public().(ed25519.PublicKey)
	return []byte(pub), nil
}

// Sign 对摘要签名
func (m *Ed25519Manager) Sign(secret, digest []byte) ([]byte, error) {
	if len(secret) != ed25519.SeedSize {
		return nil, fmt.Errorf("invalid secret key length %d", len(secret))
	}
	return ed25519.Sign(ed25519.NewKeyFromSeed(secret), digest), nil
}

// Verify 验证签名，长度不符直接返回 false
func (m *Ed25519Manager) Verify(publicKey, digest, signature []byte) bool {
	if len(publicKey) != ed25519.PublicKeySize || len(signature) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(publicKey), digest, signature)
}
