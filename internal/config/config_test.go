package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	_ "coindeck/pkg/market/coingecko"
)

func writeConfig(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFullConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "market.yaml", `
default: coingecko
providers:
  coingecko:
    type: coingecko
    base_url: https://api.coingecko.com/api/v3
    http_timeout: 10s
    max_retries: 3
`)
	path := writeConfig(t, dir, "coindeck.yaml", `
Name: coindeck
Env: test
Dashboard:
  TopLimit: 25
  RefreshInterval: 45s
  ChartDays: 14
  StateFile: data/state.json
TTL:
  Short: 5
  Medium: 30
  Long: 120
Market:
  File: market.yaml
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.True(t, cfg.IsTestEnv())
	require.Equal(t, 25, cfg.Dashboard.TopLimit)
	require.Equal(t, 45*time.Second, cfg.Dashboard.Interval())
	require.Equal(t, 14, cfg.Dashboard.ChartDays)
	require.Equal(t, 5, cfg.TTL.Short)

	require.NotNil(t, cfg.Market.Value, "market section must hydrate from the side file")
	require.Equal(t, "coingecko", cfg.Market.Value.Default)
	require.Equal(t, dir, cfg.BaseDir())
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "coindeck.yaml", `
Name: coindeck
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "dev", cfg.Env)
	require.Equal(t, 50, cfg.Dashboard.TopLimit)
	require.Equal(t, 30*time.Second, cfg.Dashboard.Interval())
	require.Equal(t, "data/state.json", cfg.Dashboard.StateFile)
	require.Equal(t, 300, cfg.TTL.Long)
	require.Nil(t, cfg.Market.Value)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"bad env", "Name: coindeck\nEnv: staging\n"},
		{"zero top limit", "Name: coindeck\nDashboard:\n  TopLimit: 0\n"},
		{"top limit over cap", "Name: coindeck\nDashboard:\n  TopLimit: 500\n"},
		{"bad interval", "Name: coindeck\nDashboard:\n  RefreshInterval: soon\n"},
		{"negative chart days", "Name: coindeck\nDashboard:\n  ChartDays: -1\n"},
		{"empty state file", "Name: coindeck\nDashboard:\n  StateFile: \"  \"\n"},
		{"zero ttl", "Name: coindeck\nTTL:\n  Short: -1\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			path := writeConfig(t, dir, "coindeck.yaml", tc.body)
			_, err := Load(path)
			require.Error(t, err)
		})
	}
}

func TestLoadMissingMarketFile(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "coindeck.yaml", `
Name: coindeck
Market:
  File: nope.yaml
`)
	_, err := Load(path)
	require.Error(t, err)
}
