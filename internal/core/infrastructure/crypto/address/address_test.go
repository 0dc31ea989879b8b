package address

import (
	"testing"

	"github.com/mwallet/v1/internal/core/infrastructure/crypto/encoding"
	"github.com/mwallet/v1/internal/core/infrastructure/crypto/key"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testPublicKey       = "P12c2wsKxEyAhPC4ouNsgywzM41VsNSuwH9JdMbRt9bM8ZsMLPQA"
	testAddress         = "AU12KgrLq2vhMgi8aAwbxytiC4wXBDGgvTtqGTM5R7wEB9En8WBHB"
	testContractAddress = "AS12KgrLq2vhMgi8aAwbxytiC4wXBDGgvTtqGTM5R7wEB9En8WBHB"
)

func TestDeriveKnownVector(t *testing.T) {
	pk, err := key.ParsePublicKey(testPublicKey)
	require.NoError(t, err)

	addr := Derive(pk)
	assert.Equal(t, testAddress, addr.String())
	assert.Equal(t, pk.Version, addr.Version)
	assert.True(t, addr.IsUser())

	// 确定性推导
	assert.Equal(t, addr.String(), Derive(pk).String())
}

func TestParseRoundTrip(t *testing.T) {
	pk, err := key.NewPublicKey(5, make([]byte, 32))
	require.NoError(t, err)

	derived := Derive(pk)
	parsed, err := Parse(derived.String())
	require.NoError(t, err)
	assert.Equal(t, derived.Version, parsed.Version)
	assert.Equal(t, derived.Category, parsed.Category)
	assert.Equal(t, derived.Bytes(), parsed.Bytes())
	assert.Len(t, parsed.Digest(), 32)
}

func TestParseContractAddress(t *testing.T) {
	addr, err := Parse(testContractAddress)
	require.NoError(t, err)
	assert.True(t, addr.IsContract())
	assert.Equal(t, "contract", addr.Category.String())
}

func TestBytes(t *testing.T) {
	user, err := Parse(testAddress)
	require.NoError(t, err)
	contract, err := Parse(testContractAddress)
	require.NoError(t, err)

	payload, err := encoding.CheckDecode(testAddress[PrefixLength:])
	require.NoError(t, err)

	assert.Equal(t, append([]byte{0}, payload...), user.Bytes())
	assert.Equal(t, append([]byte{1}, payload...), contract.Bytes())
}

func TestParseInvalidPrefix(t *testing.T) {
	for _, input := range []string{"", "A", "AX12KgrLq2vhMgi8", "BU12KgrLq2vhMgi8", "au12KgrLq2vhMgi8"} {
		_, err := Parse(input)
		assert.ErrorIs(t, err, ErrInvalidAddressPrefix, "输入 %q", input)
	}

	_, err := Parse("AX12")
	assert.EqualError(t, err, "invalid address prefix 'AX'. Expected 'AU' for users or 'AS' for contracts")
}

func TestParseInvalidPayload(t *testing.T) {
	_, err := Parse("AU12KgrLq2vhMgi8aAwbxytiC4wXBDGgvTtqGTM5R7wEB9En8WBHC")
	assert.ErrorIs(t, err, ErrInvalidAddress)
	assert.ErrorIs(t, err, encoding.ErrChecksumMismatch)
}

func TestEqualIgnoresCase(t *testing.T) {
	a, err := Parse(testAddress)
	require.NoError(t, err)
	b := &Address{text: "au12kgrlq2vhmgi8aawbxytic4wxbdggvttqgtm5r7web9en8wbhb"}
	assert.True(t, a.Equal(b))
	assert.Equal(t, Normalize(testAddress), Normalize("  "+testAddress+" "))
}
