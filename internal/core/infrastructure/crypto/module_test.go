package crypto

import (
	"testing"

	"github.com/mwallet/v1/internal/core/infrastructure/crypto/key"
	"github.com/mwallet/v1/internal/core/infrastructure/crypto/signature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
)

func TestModuleProvidesServices(t *testing.T) {
	var svc *signature.Service
	app := fxtest.New(t,
		Module(),
		fx.Populate(&svc),
	)
	app.RequireStart()
	defer app.RequireStop()

	require.NotNil(t, svc)
	sk, err := key.ParseSecretKey("S12syP5uCVEwaJwvXLqJyD1a2GqZjsup13UnhY6uzbtyu7ExXWZS")
	require.NoError(t, err)
	pk, err := svc.DerivePublicKey(sk)
	require.NoError(t, err)
	assert.Equal(t, "P12c2wsKxEyAhPC4ouNsgywzM41VsNSuwH9JdMbRt9bM8ZsMLPQA", pk.String())
}

func TestCreateCryptoServicesDefaults(t *testing.T) {
	out := CreateCryptoServices(ServiceInput{})
	assert.NotNil(t, out.HashManager)
	assert.IsType(t, &signature.Ed25519Manager{}, out.SignatureManager)
	assert.NotNil(t, out.EncryptionService)
}
