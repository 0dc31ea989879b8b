package signature

import (
	"errors"
	"testing"

	"github.com/mwallet/v1/internal/core/infrastructure/crypto/key"
	zaplog "github.com/mwallet/v1/internal/core/infrastructure/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const (
	baseSecretKey  = "S12XuWmm5jULpJGXBnkeBsuiNmsGi2F4rMiTvriCzENxBR4Ev7vd"
	basePublicKey  = "P129tbNd4oVMRsnFvQcgSq4PUAZYYDA1pvqtef2ER6W7JqgY1Bfg"
	modelSignature = "1TXucC8nai7BYpAnMPYrotVcKCZ5oxkfWHb2ykKj2tXmaGMDL1XTU5AbC6Z13RH3q59F8QtbzKq4gzBphGPWpiDonownxE"
)

// fakeManager 可注入错误行为的签名实现
type fakeManager struct {
	inner     *Ed25519Manager
	sigLen    int
	rejectAll bool
	signErr   error
}

func (f *fakeManager) DerivePublicKey(secret []byte) ([]byte, error) {
	return f.inner.DerivePublicKey(secret)
}

func (f *fakeManager) Sign(secret, digest []byte) ([]byte, error) {
	if f.signErr != nil {
		return nil, f.signErr
	}
	if f.sigLen > 0 {
		return make([]byte, f.sigLen), nil
	}
	return f.inner.Sign(secret, digest)
}

func (f *fakeManager) Verify(publicKey, digest, signature []byte) bool {
	if f.rejectAll {
		return false
	}
	return f.inner.Verify(publicKey, digest, signature)
}

func baseKeys(t *testing.T, svc *Service) (*key.SecretKey, *key.PublicKey) {
	t.Helper()
	sk, err := key.ParseSecretKey(baseSecretKey)
	require.NoError(t, err)
	pk, err := svc.DerivePublicKey(sk)
	require.NoError(t, err)
	return sk, pk
}

func TestDerivePublicKey(t *testing.T) {
	svc := NewService(nil, nil, nil)
	tests := []struct {
		secret, public string
	}{
		{baseSecretKey, basePublicKey},
		{"S12syP5uCVEwaJwvXLqJyD1a2GqZjsup13UnhY6uzbtyu7ExXWZS", "P12c2wsKxEyAhPC4ouNsgywzM41VsNSuwH9JdMbRt9bM8ZsMLPQA"},
	}
	for _, tt := range tests {
		sk, err := key.ParseSecretKey(tt.secret)
		require.NoError(t, err)
		pk, err := svc.DerivePublicKey(sk)
		require.NoError(t, err)
		assert.Equal(t, tt.public, pk.String())
		assert.Equal(t, sk.Version, pk.Version)
	}
}

func TestSignMessageKnownVector(t *testing.T) {
	svc := NewService(nil, nil, nil)
	sk, pk := baseKeys(t, svc)

	msg, err := svc.SignMessage([]byte("Test message"), sk, pk)
	require.NoError(t, err)
	assert.Equal(t, modelSignature, msg.String())
	assert.Len(t, msg.Signature, 64)
	assert.True(t, msg.PublicKey.Equal(pk))
}

func TestSignDeterministic(t *testing.T) {
	svc := NewService(nil, nil, nil)
	sk, pk := baseKeys(t, svc)
	digest := svc.Digest([]byte("determinism"))

	a, err := svc.Sign(sk, digest)
	require.NoError(t, err)
	b, err := svc.Sign(sk, digest)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.True(t, svc.Verify(a, digest, pk))
	assert.False(t, svc.Verify(a, svc.Digest([]byte("other")), pk))
}

func TestSignMessageMissingKeys(t *testing.T) {
	svc := NewService(nil, nil, nil)
	sk, pk := baseKeys(t, svc)

	_, err := svc.SignMessage([]byte("m"), nil, pk)
	assert.ErrorIs(t, err, ErrNoPrivateKey)

	_, err = svc.SignMessage([]byte("m"), sk, nil)
	assert.ErrorIs(t, err, ErrNoPublicKey)
}

func TestSignMessageWrongSignatureLength(t *testing.T) {
	svc := NewService(&fakeManager{inner: NewEd25519Manager(), sigLen: 63}, nil, nil)
	sk, pk := baseKeys(t, svc)

	_, err := svc.SignMessage([]byte("Test message"), sk, pk)
	require.ErrorIs(t, err, ErrSignatureLength)
	assert.Contains(t, err.Error(), "Expected 64, got 63")
}

func TestSignMessageSelfVerificationFails(t *testing.T) {
	svc := NewService(&fakeManager{inner: NewEd25519Manager(), rejectAll: true}, nil, nil)
	sk, pk := baseKeys(t, svc)

	_, err := svc.SignMessage([]byte("Test message"), sk, pk)
	assert.ErrorIs(t, err, ErrVerificationFailed)
}

func TestSignMessageWithForeignPublicKey(t *testing.T) {
	svc := NewService(nil, nil, nil)
	sk, _ := baseKeys(t, svc)
	other, err := key.ParsePublicKey("P12c2wsKxEyAhPC4ouNsgywzM41VsNSuwH9JdMbRt9bM8ZsMLPQA")
	require.NoError(t, err)

	_, err = svc.SignMessage([]byte("Test message"), sk, other)
	assert.ErrorIs(t, err, ErrVerificationFailed)
}

func TestSignPropagatesPrimitiveError(t *testing.T) {
	boom := errors.New("hsm offline")
	svc := NewService(&fakeManager{inner: NewEd25519Manager(), signErr: boom}, nil, nil)
	sk, _ := baseKeys(t, svc)

	_, err := svc.Sign(sk, make([]byte, 32))
	assert.ErrorIs(t, err, boom)
}

func TestVerifySignature(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	svc := NewService(nil, nil, zaplog.FromZap(zap.New(core)))

	assert.True(t, svc.VerifySignature([]byte("Test message"), basePublicKey, modelSignature))
	assert.False(t, svc.VerifySignature([]byte("Test message!"), basePublicKey, modelSignature))
	assert.Equal(t, 0, logs.Len(), "有效格式的错误签名不记录日志")

	// 首字符改为 2，校验和失效
	invalid := "2" + modelSignature[1:]
	assert.False(t, svc.VerifySignature([]byte("Test message"), basePublicKey, invalid))
	assert.False(t, svc.VerifySignature([]byte("Test message"), "not-a-key", modelSignature))
	assert.Equal(t, 2, logs.Len())
	assert.Equal(t, "signature", logs.All()[0].ContextMap()["module"])
}

func TestSignatureEncoding(t *testing.T) {
	sig := make([]byte, 64)
	sig[0] = 0xAB
	text := EncodeSignature(3, sig)

	version, decoded, err := DecodeSignature(text)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), version)
	assert.Equal(t, sig, decoded)

	_, _, err = DecodeSignature(EncodeSignature(0, sig[:10]))
	assert.ErrorIs(t, err, ErrSignatureLength)

	_, _, err = DecodeSignature("2" + modelSignature[1:])
	assert.ErrorIs(t, err, ErrInvalidSignatureEncoding)
}

func TestEd25519ManagerRejectsBadInput(t *testing.T) {
	m := NewEd25519Manager()
	_, err := m.DerivePublicKey(make([]byte, 31))
	assert.Error(t, err)
	_, err = m.Sign(make([]byte, 33), nil)
	assert.Error(t, err)
	assert.False(t, m.Verify(make([]byte, 32), nil, make([]byte, 10)))
}
