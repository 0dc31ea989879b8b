package encoding

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/mr-tron/base58"
)

// ChecksumLength Base58Check 校验和长度
const ChecksumLength = 4

var (
	// ErrInvalidBase58 输入包含非 Base58 字符
	ErrInvalidBase58 = errors.New("invalid base58 string")
	// ErrChecksumMismatch 校验和不匹配
	ErrChecksumMismatch = errors.New("checksum mismatch")
)

// checksum 计算双 SHA256 的前 4 字节
func checksum(payload []byte) []byte {
	first := sha256.Sum256(payload)
	second := sha256.Sum256(first[:])
	return second[:ChecksumLength]
}

// CheckEncode 对 payload 附加校验和后编码为 Base58
func CheckEncode(payload []byte) string {
	buf := make([]byte, 0, len(payload)+ChecksumLength)
	buf = append(buf, payload...)
	buf = append(buf, checksum(payload)...)
	return base58.Encode(buf)
}

// CheckDecode 解码 Base58Check 文本并校验，返回去掉校验和的 payload
func CheckDecode(text string) ([]byte, error) {
	raw, err := base58.Decode(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBase58, err)
	}
	if len(raw) < ChecksumLength {
		return nil, fmt.Errorf("%w: payload too short (%d bytes)", ErrChecksumMismatch, len(raw))
	}

	payload, sum := raw[:len(raw)-ChecksumLength], raw[len(raw)-ChecksumLength:]
	if !bytes.Equal(checksum(payload), sum) {
		return nil, ErrChecksumMismatch
	}
	return payload, nil
}

// Encode 无校验和的 Base58 编码
func Encode(data []byte) string {
	return base58.Encode(data)
}

// Decode 无校验和的 Base58 解码
func Decode(text string) ([]byte, error) {
	raw, err := base58.Decode(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBase58, err)
	}
	return raw, nil
}
