// Package encoding 提供密钥、地址和签名共用的底层编码原语
//
// 包括无符号 varint（LEB128）以及带 4 字节校验和的 Base58Check 编码。
package encoding

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// MaxVarintLen 单个 uint64 varint 的最大字节数
const MaxVarintLen = binary.MaxVarintLen64

var (
	// ErrVarintTruncated 输入在 varint 结束前耗尽
	ErrVarintTruncated = errors.New("varint truncated")
	// ErrVarintOverflow varint 超过 64 位
	ErrVarintOverflow = errors.New("varint overflows uint64")
)

// EncodeVarint 将 n 编码为无符号 LEB128 varint
func EncodeVarint(n uint64) []byte {
	return binary.AppendUvarint(make([]byte, 0, MaxVarintLen), n)
}

// AppendVarint 将 n 的 varint 编码追加到 dst
func AppendVarint(dst []byte, n uint64) []byte {
	return binary.AppendUvarint(dst, n)
}

// DecodeVarint 解码 data 开头的 varint，返回值与消耗的字节数
func DecodeVarint(data []byte) (uint64, int, error) {
	v, n := binary.Uvarint(data)
	switch {
	case n == 0:
		return 0, 0, ErrVarintTruncated
	case n < 0:
		return 0, 0, fmt.Errorf("%w after %d bytes", ErrVarintOverflow, -n)
	}
	return v, n, nil
}
