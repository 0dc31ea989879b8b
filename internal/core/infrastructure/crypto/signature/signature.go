// Package signature 提供消息签名与验证服务
//
// 消息摘要为 BLAKE3(data)，签名文本为
// Base58Check(varint(公钥版本) ++ 64字节签名)。
package signature

import (
	"errors"
	"fmt"

	"github.com/mwallet/v1/internal/core/infrastructure/crypto/encoding"
	"github.com/mwallet/v1/internal/core/infrastructure/crypto/hash"
	"github.com/mwallet/v1/internal/core/infrastructure/crypto/key"
	cryptointf "github.com/mwallet/v1/pkg/interfaces/infrastructure/crypto"
	"github.com/mwallet/v1/pkg/interfaces/infrastructure/log"
)

var (
	// ErrNoPrivateKey 缺少签名私钥
	ErrNoPrivateKey = errors.New("no private key to sign the message with")
	// ErrNoPublicKey 缺少用于自校验的公钥
	ErrNoPublicKey = errors.New("no public key to verify the signed message with")
	// ErrSignatureLength 签名原语返回了错误长度的签名
	ErrSignatureLength = errors.New("invalid signature length")
	// ErrVerificationFailed 签名后自校验失败
	ErrVerificationFailed = errors.New("signature could not be verified with public key")
	// ErrInvalidSignatureEncoding 签名文本格式错误
	ErrInvalidSignatureEncoding = errors.New("invalid signature encoding")
)

// SignedMessage 签名结果
type SignedMessage struct {
	PublicKey *key.PublicKey
	Signature []byte
	text      string
}

// String 返回签名文本
func (m *SignedMessage) String() string {
	return m.text
}

// Service 消息签名服务
type Service struct {
	manager cryptointf.SignatureManager
	hasher  cryptointf.HashManager
	logger  log.Logger
}

// NewService 创建签名服务，manager 为 nil 时使用 Ed25519
func NewService(manager cryptointf.SignatureManager, hasher cryptointf.HashManager, logger log.Logger) *Service {
	if manager == nil {
		manager = NewEd25519Manager()
	}
	if hasher == nil {
		hasher = hash.NewHashService()
	}
	s := &Service{manager: manager, hasher: hasher, logger: logger}
	if logger != nil {
		s.logger = logger.With("module", "signature")
	}
	return s
}

// DerivePublicKey 从私钥推导公钥，版本号继承自私钥
func (s *Service) DerivePublicKey(sk *key.SecretKey) (*key.PublicKey, error) {
	if sk == nil {
		return nil, ErrNoPrivateKey
	}
	raw, err := s.manager.DerivePublicKey(sk.Bytes[:])
	if err != nil {
		return nil, fmt.Errorf("derive public key: %w", err)
	}
	return key.NewPublicKey(sk.Version, raw)
}

// Sign 对 32 字节摘要签名
func (s *Service) Sign(sk *key.SecretKey, digest []byte) ([]byte, error) {
	if sk == nil {
		return nil, ErrNoPrivateKey
	}
	sig, err := s.manager.Sign(sk.Bytes[:], digest)
	if err != nil {
		return nil, fmt.Errorf("sign digest: %w", err)
	}
	if len(sig) != cryptointf.SignatureSize {
		return nil, fmt.Errorf("%w. Expected %d, got %d", ErrSignatureLength, cryptointf.SignatureSize, len(sig))
	}
	return sig, nil
}

// Verify 验证摘要签名
func (s *Service) Verify(signature, digest []byte, pk *key.PublicKey) bool {
	if pk == nil {
		return false
	}
	return s.manager.Verify(pk.Bytes[:], digest, signature)
}

// Digest 计算消息摘要
func (s *Service) Digest(data []byte) []byte {
	sum := s.hasher.ContentHash(data)
	return sum[:]
}

// SignMessage 对任意消息签名，并用签名者公钥立即自校验
func (s *Service) SignMessage(data []byte, sk *key.SecretKey, pk *key.PublicKey) (*SignedMessage, error) {
	if sk == nil {
		return nil, ErrNoPrivateKey
	}
	if pk == nil {
		return nil, ErrNoPublicKey
	}

	digest := s.Digest(data)
	sig, err := s.Sign(sk, digest)
	if err != nil {
		return nil, err
	}
	if !s.Verify(sig, digest, pk) {
		return nil, fmt.Errorf("%w %s", ErrVerificationFailed, pk.String())
	}

	return &SignedMessage{
		PublicKey: pk,
		Signature: sig,
		text:      EncodeSignature(pk.Version, sig),
	}, nil
}

// VerifySignature 验证文本形式的签名；任何解码失败都记录日志并返回 false
func (s *Service) VerifySignature(data []byte, publicKey, signature string) bool {
	pk, err := key.ParsePublicKey(publicKey)
	if err != nil {
		s.logf("verify signature: decode public key: %v", err)
		return false
	}
	_, sig, err := DecodeSignature(signature)
	if err != nil {
		s.logf("verify signature: decode signature: %v", err)
		return false
	}
	return s.Verify(sig, s.Digest(data), pk)
}

func (s *Service) logf(format string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Warnf(format, args...)
	}
}

// EncodeSignature 编码签名文本
func EncodeSignature(version uint64, sig []byte) string {
	payload := encoding.AppendVarint(make([]byte, 0, encoding.MaxVarintLen+len(sig)), version)
	return encoding.CheckEncode(append(payload, sig...))
}

// DecodeSignature 解码签名文本，返回版本号与 64 字节签名
func DecodeSignature(text string) (uint64, []byte, error) {
	payload, err := encoding.CheckDecode(text)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %w", ErrInvalidSignatureEncoding, err)
	}
	version, n, err := encoding.DecodeVarint(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: version: %w", ErrInvalidSignatureEncoding, err)
	}
	sig := payload[n:]
	if len(sig) != cryptointf.SignatureSize {
		return 0, nil, fmt.Errorf("%w. Expected %d, got %d", ErrSignatureLength, cryptointf.SignatureSize, len(sig))
	}
	return version, sig, nil
}
