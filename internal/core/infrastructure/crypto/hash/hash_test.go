package hash

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentHashKnownVector(t *testing.T) {
	// BLAKE3 官方测试向量：空输入
	sum := ContentHash(nil)
	assert.Equal(t, "af1349b9f5f9a1a6a0404dea36dcc9499bcb25c9adc112b7cc9a93cae41f3262", hex.EncodeToString(sum[:]))
}

func TestContentHashDeterministic(t *testing.T) {
	svc := NewHashService()
	data := []byte("Test message")

	a := svc.ContentHash(data)
	b := svc.ContentHash(append([]byte(nil), data...))
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, svc.ContentHash([]byte("Test message.")))
}
