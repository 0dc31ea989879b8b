// Package address 实现账户地址的推导、解析和二进制编码
//
// 地址文本格式：
//   - 用户地址："AU" + Base58Check(varint(version) ++ BLAKE3(varint(version) ++ 公钥))
//   - 合约地址："AS" + Base58Check(varint(version) ++ 摘要)
//
// 二进制形式为 类别字节(0=用户, 1=合约) ++ Base58Check 解码后的载荷，
// 用于嵌入序列化后的操作。
package address

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mwallet/v1/internal/core/infrastructure/crypto/encoding"
	"github.com/mwallet/v1/internal/core/infrastructure/crypto/hash"
	"github.com/mwallet/v1/internal/core/infrastructure/crypto/key"
)

// Category 地址类别
type Category uint8

const (
	// User 用户地址
	User Category = 0
	// Contract 合约地址
	Contract Category = 1
)

const (
	// SystemPrefix 所有地址共用的首字符
	SystemPrefix = "A"
	// UserPrefix 用户地址前缀
	UserPrefix = SystemPrefix + "U"
	// ContractPrefix 合约地址前缀
	ContractPrefix = SystemPrefix + "S"
	// PrefixLength 地址前缀长度
	PrefixLength = 2
)

var (
	// ErrInvalidAddressPrefix 地址前缀不是 AU 或 AS
	ErrInvalidAddressPrefix = errors.New("invalid address prefix")
	// ErrInvalidAddress 地址载荷无法解码
	ErrInvalidAddress = errors.New("invalid address format")
)

func (c Category) String() string {
	switch c {
	case User:
		return "user"
	case Contract:
		return "contract"
	default:
		return fmt.Sprintf("category(%d)", uint8(c))
	}
}

// Address 已通过结构校验的地址
type Address struct {
	Version  uint64
	Category Category
	text     string
	payload  []byte // varint(version) ++ digest
}

// Derive 从公钥推导用户地址，版本号继承自公钥
func Derive(pk *key.PublicKey) *Address {
	version := encoding.EncodeVarint(pk.Version)

	preimage := make([]byte, 0, len(version)+len(pk.Bytes))
	preimage = append(preimage, version...)
	preimage = append(preimage, pk.Bytes[:]...)
	digest := hash.ContentHash(preimage)

	payload := make([]byte, 0, len(version)+len(digest))
	payload = append(payload, version...)
	payload = append(payload, digest[:]...)

	return &Address{
		Version:  pk.Version,
		Category: User,
		text:     UserPrefix + encoding.CheckEncode(payload),
		payload:  payload,
	}
}

// Parse 解析地址文本，只做结构校验，不与任何公钥比对
func Parse(text string) (*Address, error) {
	var category Category
	switch prefix := prefixOf(text); prefix {
	case UserPrefix:
		category = User
	case ContractPrefix:
		category = Contract
	default:
		return nil, fmt.Errorf("%w '%s'. Expected '%s' for users or '%s' for contracts",
			ErrInvalidAddressPrefix, prefix, UserPrefix, ContractPrefix)
	}

	payload, err := encoding.CheckDecode(text[PrefixLength:])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}
	version, _, err := encoding.DecodeVarint(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: version: %w", ErrInvalidAddress, err)
	}

	return &Address{
		Version:  version,
		Category: category,
		text:     text,
		payload:  payload,
	}, nil
}

func prefixOf(text string) string {
	if len(text) < PrefixLength {
		return text
	}
	return text[:PrefixLength]
}

// String 返回地址文本
func (a *Address) String() string {
	return a.text
}

// IsUser 是否用户地址
func (a *Address) IsUser() bool { return a.Category == User }

// IsContract 是否合约地址
func (a *Address) IsContract() bool { return a.Category == Contract }

// Digest 返回去掉版本号后的内容摘要
func (a *Address) Digest() []byte {
	_, n, _ := encoding.DecodeVarint(a.payload)
	return append([]byte(nil), a.payload[n:]...)
}

// Bytes 返回嵌入操作使用的二进制形式
func (a *Address) Bytes() []byte {
	out := make([]byte, 0, 1+len(a.payload))
	out = append(out, byte(a.Category))
	return append(out, a.payload...)
}

// Equal 地址比较忽略大小写
func (a *Address) Equal(other *Address) bool {
	if a == nil || other == nil {
		return a == other
	}
	return Normalize(a.text) == Normalize(other.text)
}

// Normalize 返回用作索引键的规范化地址文本
func Normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}
