// Package key 实现私钥与公钥的版本化文本编码
//
// 文本格式：
//   - 私钥：  "S" + Base58Check(varint(version) ++ 32字节私钥)
//   - 公钥：  "P" + Base58Check(varint(version) ++ 32字节公钥)
package key

import (
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mwallet/v1/internal/core/infrastructure/crypto/encoding"
	cryptointf "github.com/mwallet/v1/pkg/interfaces/infrastructure/crypto"
)

const (
	// SecretKeyPrefix 私钥文本前缀
	SecretKeyPrefix = "S"
	// PublicKeyPrefix 公钥文本前缀
	PublicKeyPrefix = "P"
	// DefaultVersion 新生成密钥使用的版本号
	DefaultVersion uint64 = 0
)

// ErrInvalidKeyEncoding 密钥文本格式错误
var ErrInvalidKeyEncoding = errors.New("invalid key encoding")

// SecretKey 版本化的 Ed25519 私钥（种子）
type SecretKey struct {
	Version uint64
	Bytes   [cryptointf.SecretKeySize]byte
	text    string
}

// PublicKey 版本化的 Ed25519 公钥
type PublicKey struct {
	Version uint64
	Bytes   [cryptointf.PublicKeySize]byte
	text    string
}

// ParseSecretKey 解析 "S" 前缀的私钥文本
func ParseSecretKey(text string) (*SecretKey, error) {
	version, raw, err := decodeVersioned(text, SecretKeyPrefix, cryptointf.SecretKeySize)
	if err != nil {
		return nil, fmt.Errorf("secret key: %w", err)
	}
	sk := &SecretKey{Version: version, text: text}
	copy(sk.Bytes[:], raw)
	return sk, nil
}

// NewSecretKey 由原始字节构造私钥
func NewSecretKey(version uint64, raw []byte) (*SecretKey, error) {
	if len(raw) != cryptointf.SecretKeySize {
		return nil, fmt.Errorf("%w: secret key must be %d bytes, got %d", ErrInvalidKeyEncoding, cryptointf.SecretKeySize, len(raw))
	}
	sk := &SecretKey{Version: version}
	copy(sk.Bytes[:], raw)
	sk.text = encodeVersioned(SecretKeyPrefix, version, sk.Bytes[:])
	return sk, nil
}

// GenerateSecretKey 使用系统随机源生成新私钥
func GenerateSecretKey(version uint64) (*SecretKey, error) {
	return GenerateSecretKeyFrom(rand.Reader, version)
}

// GenerateSecretKeyFrom 从指定随机源生成私钥
func GenerateSecretKeyFrom(r io.Reader, version uint64) (*SecretKey, error) {
	raw := make([]byte, cryptointf.SecretKeySize)
	if _, err := io.ReadFull(r, raw); err != nil {
		return nil, fmt.Errorf("read random seed: %w", err)
	}
	return NewSecretKey(version, raw)
}

// String 返回私钥文本；解析得到的私钥原样返回输入文本
func (k *SecretKey) String() string {
	if k.text == "" {
		k.text = encodeVersioned(SecretKeyPrefix, k.Version, k.Bytes[:])
	}
	return k.text
}

// Equal 常数时间比较两个私钥
func (k *SecretKey) Equal(other *SecretKey) bool {
	if k == nil || other == nil {
		return k == other
	}
	return k.Version == other.Version && subtle.ConstantTimeCompare(k.Bytes[:], other.Bytes[:]) == 1
}

// NewPublicKey 由原始字节构造公钥并计算文本形式
func NewPublicKey(version uint64, raw []byte) (*PublicKey, error) {
	if len(raw) != cryptointf.PublicKeySize {
		return nil, fmt.Errorf("%w: public key must be %d bytes, got %d", ErrInvalidKeyEncoding, cryptointf.PublicKeySize, len(raw))
	}
	pk := &PublicKey{Version: version}
	copy(pk.Bytes[:], raw)
	pk.text = encodeVersioned(PublicKeyPrefix, version, pk.Bytes[:])
	return pk, nil
}

// ParsePublicKey 解析 "P" 前缀的公钥文本
func ParsePublicKey(text string) (*PublicKey, error) {
	version, raw, err := decodeVersioned(text, PublicKeyPrefix, cryptointf.PublicKeySize)
	if err != nil {
		return nil, fmt.Errorf("public key: %w", err)
	}
	return NewPublicKey(version, raw)
}

// String 返回公钥文本
func (p *PublicKey) String() string {
	return p.text
}

// Equal 比较版本与字节
func (p *PublicKey) Equal(other *PublicKey) bool {
	if p == nil || other == nil {
		return p == other
	}
	return p.Version == other.Version && p.Bytes == other.Bytes
}

func encodeVersioned(prefix string, version uint64, raw []byte) string {
	payload := encoding.AppendVarint(make([]byte, 0, encoding.MaxVarintLen+len(raw)), version)
	payload = append(payload, raw...)
	return prefix + encoding.CheckEncode(payload)
}

// decodeVersioned 去掉前缀、校验并拆出版本号与定长密钥字节
func decodeVersioned(text, prefix string, size int) (uint64, []byte, error) {
	if !strings.HasPrefix(text, prefix) {
		return 0, nil, fmt.Errorf("%w: expected prefix %q", ErrInvalidKeyEncoding, prefix)
	}

	payload, err := encoding.CheckDecode(text[len(prefix):])
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %w", ErrInvalidKeyEncoding, err)
	}

	version, n, err := encoding.DecodeVarint(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: version: %w", ErrInvalidKeyEncoding, err)
	}

	raw := payload[n:]
	if len(raw) != size {
		return 0, nil, fmt.Errorf("%w: expected %d key bytes, got %d", ErrInvalidKeyEncoding, size, len(raw))
	}
	return version, raw, nil
}

// VersionedBytes 返回 varint(版本) ++ 公钥字节，即签名载荷的前缀
func (p *PublicKey) VersionedBytes() []byte {
	out := encoding.AppendVarint(make([]byte, 0, encoding.MaxVarintLen+len(p.Bytes)), p.Version)
	return append(out, p.Bytes[:]...)
}
