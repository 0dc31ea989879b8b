package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/mwallet/v1/client/core/builder"
	"github.com/mwallet/v1/client/core/wallet"
	"github.com/mwallet/v1/client/pkg/config"
	"github.com/mwallet/v1/internal/core/infrastructure/crypto/encryption"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
)

const (
	baseSecretKey = "S12XuWmm5jULpJGXBnkeBsuiNmsGi2F4rMiTvriCzENxBR4Ev7vd"
	baseAddress   = "AU1QRRX6o2igWogY8qbBtqLYsNzYNHwvnpMC48Y6CLCv4cXe9gmK"
	recipient     = "AU12KgrLq2vhMgi8aAwbxytiC4wXBDGgvTtqGTM5R7wEB9En8WBHB"
)

// fakeNode 最小化的节点 JSON-RPC 服务
type fakeNode struct {
	mu      sync.Mutex
	methods []string
}

func (n *fakeNode) calls() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.methods...)
}

func (n *fakeNode) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var req struct {
			Method string            `json:"method"`
			Params []json.RawMessage `json:"params"`
			ID     uint64            `json:"id"`
		}
		if !assert.NoError(t, json.Unmarshal(body, &req)) {
			return
		}

		n.mu.Lock()
		n.methods = append(n.methods, req.Method)
		n.mu.Unlock()

		var result interface{}
		switch req.Method {
		case "get_status":
			result = map[string]interface{}{"chain_id": 77, "next_slot": map[string]interface{}{"period": 10, "thread": 0}}
		case "get_addresses":
			var addrs []string
			assert.NoError(t, json.Unmarshal(req.Params[0], &addrs))
			infos := make([]map[string]interface{}, 0, len(addrs))
			for _, a := range addrs {
				infos = append(infos, map[string]interface{}{"address": a, "candidate_balance": "12.5", "final_balance": "10"})
			}
			result = infos
		case "send_operations":
			result = []string{"O1op"}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"jsonrpc": "2.0", "id": req.ID, "result": result})
	}
}

func testConfig(t *testing.T, urls ...string) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.PublicEndpoints = nil
	for i, u := range urls {
		cfg.PublicEndpoints = append(cfg.PublicEndpoints, config.Endpoint{Name: "n", Priority: i, JSONRPC: u})
	}
	cfg.Timeout = config.Duration(time.Second)
	cfg.Retry.Backoff = config.Duration(time.Millisecond)
	cfg.KeystorePath = filepath.Join(t.TempDir(), "wallet.json")
	cfg.Log.ToConsole = false
	return cfg
}

func fastDeps() Dependencies {
	return Dependencies{
		Encryption: encryption.NewEncryptionService(encryption.Params{KDF: encryption.KDFPBKDF2, PBKDF2Rounds: 16}),
	}
}

func TestClientEndToEnd(t *testing.T) {
	node := &fakeNode{}
	srv := httptest.NewServer(node.handler(t))
	defer srv.Close()

	c, err := New(testConfig(t, srv.URL), fastDeps())
	require.NoError(t, err)

	_, err = c.Wallet().SetBaseAccount(wallet.AccountInput{SecretKey: baseSecretKey})
	require.NoError(t, err)

	infos, err := c.Wallet().WalletInfo(context.Background())
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, baseAddress, infos[0].Address)

	bal, ok := c.Wallet().AccountBalance(context.Background(), recipient)
	require.True(t, ok)
	assert.Equal(t, "12.5", bal.Candidate.String())

	ids, err := c.Submitter().SendTransaction(context.Background(), builder.Transfer{Fee: 0, Amount: 1, Recipient: recipient})
	require.NoError(t, err)
	assert.Equal(t, []string{"O1op"}, ids)

	assert.Equal(t, []string{"get_addresses", "get_addresses", "get_status", "send_operations"}, node.calls())
}

func TestClientFallsBackToSecondEndpoint(t *testing.T) {
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer down.Close()
	node := &fakeNode{}
	up := httptest.NewServer(node.handler(t))
	defer up.Close()

	c, err := New(testConfig(t, down.URL, up.URL), fastDeps())
	require.NoError(t, err)

	status, err := c.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(10), status.NextSlot.Period)
	assert.Nil(t, c.Private())
}

func TestClientKeystore(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1")
	c, err := New(cfg, fastDeps())
	require.NoError(t, err)
	_, err = c.Wallet().AddSecretKeys([]string{baseSecretKey})
	require.NoError(t, err)
	require.NoError(t, c.SaveKeystore("pw"))

	other, err := New(cfg, fastDeps())
	require.NoError(t, err)
	added, err := other.LoadKeystore("pw")
	require.NoError(t, err)
	require.Len(t, added, 1)
	assert.Equal(t, baseAddress, added[0].Address().String())
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.PublicEndpoints = nil
	_, err := New(cfg, Dependencies{})
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestModule(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1")
	var w *wallet.Wallet
	var c *Client
	app := fxtest.New(t,
		fx.Supply(cfg),
		Module(),
		fx.Populate(&w, &c),
	)
	app.RequireStart()
	defer app.RequireStop()

	require.NotNil(t, c)
	assert.Same(t, c.Wallet(), w)
	assert.Equal(t, cfg, c.Config())
}
