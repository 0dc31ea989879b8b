package main

import (
	"testing"

	"github.com/mwallet/v1/client/core/wallet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMAS(t *testing.T) {
	nano, err := parseMAS("1.5")
	require.NoError(t, err)
	assert.Equal(t, uint64(1_500_000_000), nano)

	_, err = parseMAS("abc")
	assert.Error(t, err)
}

func TestAccountView(t *testing.T) {
	w := wallet.New(wallet.Config{})
	acc, err := w.SetBaseAccount(wallet.AccountInput{SecretKey: "S12XuWmm5jULpJGXBnkeBsuiNmsGi2F4rMiTvriCzENxBR4Ev7vd"})
	require.NoError(t, err)

	view := accountView(acc, false, w)
	assert.Equal(t, "AU1QRRX6o2igWogY8qbBtqLYsNzYNHwvnpMC48Y6CLCv4cXe9gmK", view["address"])
	assert.Equal(t, true, view["base"])
	assert.NotContains(t, view, "secret_key")

	view = accountView(acc, true, nil)
	assert.Contains(t, view, "secret_key")
	assert.NotContains(t, view, "base")
}
