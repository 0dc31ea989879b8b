// Package hash 提供基于 BLAKE3 的内容哈希
package hash

import (
	cryptointf "github.com/mwallet/v1/pkg/interfaces/infrastructure/crypto"
	"lukechampine.com/blake3"
)

// 确保HashService实现了cryptointf.HashManager接口
var _ cryptointf.HashManager = (*HashService)(nil)

// HashService 提供内容哈希计算
type HashService struct{}

// NewHashService 创建新的哈希服务
func NewHashService() *HashService {
	return &HashService{}
}

// ContentHash 计算 BLAKE3-256 摘要
func (s *HashService) ContentHash(data []byte) [cryptointf.DigestSize]byte {
	return ContentHash(data)
}

// ContentHash 计算 BLAKE3-256 摘要
func ContentHash(data []byte) [cryptointf.DigestSize]byte {
	return blake3.Sum256(data)
}
