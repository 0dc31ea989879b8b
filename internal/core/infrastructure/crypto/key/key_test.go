package key

import (
	"bytes"
	"testing"

	"github.com/mwallet/v1/internal/core/infrastructure/crypto/encoding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecretKey = "S12syP5uCVEwaJwvXLqJyD1a2GqZjsup13UnhY6uzbtyu7ExXWZS"
	testPublicKey = "P12c2wsKxEyAhPC4ouNsgywzM41VsNSuwH9JdMbRt9bM8ZsMLPQA"
)

func TestParseSecretKey(t *testing.T) {
	sk, err := ParseSecretKey(testSecretKey)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), sk.Version)
	assert.Equal(t, testSecretKey, sk.String())
}

func TestSecretKeyRoundTrip(t *testing.T) {
	for _, version := range []uint64{0, 1, 200, 1 << 20} {
		raw := bytes.Repeat([]byte{byte(version) + 7}, 32)
		sk, err := NewSecretKey(version, raw)
		require.NoError(t, err)

		parsed, err := ParseSecretKey(sk.String())
		require.NoError(t, err)
		assert.True(t, sk.Equal(parsed), "版本 %d 往返后应相等", version)
		assert.Equal(t, raw, parsed.Bytes[:])
	}
}

func TestParsePublicKeyRoundTrip(t *testing.T) {
	pk, err := ParsePublicKey(testPublicKey)
	require.NoError(t, err)
	assert.Equal(t, testPublicKey, pk.String())

	rebuilt, err := NewPublicKey(pk.Version, pk.Bytes[:])
	require.NoError(t, err)
	assert.True(t, pk.Equal(rebuilt))
	assert.Equal(t, testPublicKey, rebuilt.String())
}

func TestGenerateSecretKey(t *testing.T) {
	a, err := GenerateSecretKey(DefaultVersion)
	require.NoError(t, err)
	b, err := GenerateSecretKey(DefaultVersion)
	require.NoError(t, err)
	assert.False(t, a.Equal(b))
	assert.Equal(t, SecretKeyPrefix, a.String()[:1])

	fixed, err := GenerateSecretKeyFrom(bytes.NewReader(make([]byte, 32)), 3)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), fixed.Version)

	_, err = GenerateSecretKeyFrom(bytes.NewReader(make([]byte, 5)), 0)
	assert.Error(t, err)
}

func TestInvalidKeyEncoding(t *testing.T) {
	shortPayload := append(encoding.EncodeVarint(0), make([]byte, 31)...)

	tests := []struct {
		name  string
		parse func(string) error
		input string
	}{
		{"私钥缺少前缀", parseSK, testSecretKey[1:]},
		{"私钥前缀错误", parseSK, "P" + testSecretKey[1:]},
		{"公钥使用私钥前缀", parsePK, testSecretKey},
		{"非Base58字符", parseSK, "S0OIl"},
		{"空文本", parsePK, ""},
		{"密钥长度不足", parseSK, SecretKeyPrefix + encoding.CheckEncode(shortPayload)},
		{"版本号截断", parsePK, PublicKeyPrefix + encoding.CheckEncode([]byte{0x80})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.parse(tt.input), ErrInvalidKeyEncoding)
		})
	}
}

func TestChecksumFailureIsDistinguishable(t *testing.T) {
	corrupted := testPublicKey[:len(testPublicKey)-1] + "B"
	if corrupted == testPublicKey {
		corrupted = testPublicKey[:len(testPublicKey)-1] + "C"
	}
	_, err := ParsePublicKey(corrupted)
	assert.ErrorIs(t, err, ErrInvalidKeyEncoding)
	assert.ErrorIs(t, err, encoding.ErrChecksumMismatch)
}

func TestNewKeyWrongLength(t *testing.T) {
	_, err := NewSecretKey(0, make([]byte, 33))
	assert.ErrorIs(t, err, ErrInvalidKeyEncoding)
	_, err = NewPublicKey(0, nil)
	assert.ErrorIs(t, err, ErrInvalidKeyEncoding)
}

func parseSK(s string) error { _, err := ParseSecretKey(s); return err }
func parsePK(s string) error { _, err := ParsePublicKey(s); return err }

func TestVersionedBytes(t *testing.T) {
	raw := make([]byte, 32)
	raw[31] = 7
	pk, err := NewPublicKey(2, raw)
	require.NoError(t, err)

	b := pk.VersionedBytes()
	require.Len(t, b, 33)
	assert.Equal(t, byte(2), b[0])
	assert.Equal(t, raw, b[1:])
}
