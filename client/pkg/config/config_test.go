package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().PublicEndpoints, cfg.PublicEndpoints)
	assert.Equal(t, uint64(defaultPeriodOffset), cfg.PeriodOffset)
	assert.NoError(t, cfg.Validate())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	cfg := DefaultConfig()
	cfg.ChainID = 77658366
	cfg.Timeout = Duration(3 * time.Second)
	cfg.PublicEndpoints = []Endpoint{
		{Name: "backup", Priority: 2, JSONRPC: "http://b:33035"},
		{Name: "main", Priority: 1, JSONRPC: "http://a:33035"},
	}
	require.NoError(t, cfg.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"timeout": "3s"`)

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.ChainID, loaded.ChainID)
	assert.Equal(t, 3*time.Second, time.Duration(loaded.Timeout))
	assert.Equal(t, []string{"http://a:33035", "http://b:33035"}, loaded.OrderedEndpoints())
}

func TestLoadKeepsDefaultsForMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"chain_id": 9, "retry": {"enabled": false}}`), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, uint64(9), cfg.ChainID)
	assert.False(t, cfg.Retry.Enabled)
	assert.Equal(t, Duration(defaultTimeout), cfg.Timeout)
	assert.NotEmpty(t, cfg.PublicEndpoints)
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	require.NoError(t, os.WriteFile(path, []byte(`{"public_endpoints": []}`), 0600))
	_, err := Load(path)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	require.NoError(t, os.WriteFile(path, []byte(`{"timeout": "soon"}`), 0600))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"empty endpoint url", func(c *Config) { c.PublicEndpoints[0].JSONRPC = "" }},
		{"private without url", func(c *Config) { c.PrivateEndpoint = &Endpoint{Name: "admin"} }},
		{"negative timeout", func(c *Config) { c.Timeout = Duration(-time.Second) }},
		{"zero attempts", func(c *Config) { c.Retry.Attempts = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}
