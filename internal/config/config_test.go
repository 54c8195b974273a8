package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadWithNoConfigFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	require.Equal(t, "INFO", cfg.Logging.Level)
	require.Equal(t, "unix", cfg.Proxy.ListenNetwork)
	require.Equal(t, ":0", cfg.Proxy.Upstream)
	require.Equal(t, "unlimited", cfg.Trace.SizeLimit)
}

func TestLoadReadsYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	contents := `
logging:
  level: debug
proxy:
  listen_network: tcp
  listen_address: "127.0.0.1:6010"
  upstream: "127.0.0.1:6000"
trace:
  filter: "CreateWindow MapWindow"
  size_limit: "256"
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "DEBUG", cfg.Logging.Level)
	require.Equal(t, "tcp", cfg.Proxy.ListenNetwork)
	require.Equal(t, "127.0.0.1:6010", cfg.Proxy.ListenAddress)
	require.Equal(t, "127.0.0.1:6000", cfg.Proxy.Upstream)
	require.Equal(t, "CreateWindow MapWindow", cfg.Trace.Filter)
	require.Equal(t, "256", cfg.Trace.SizeLimit)
}

func TestApplyDefaultsLeavesExplicitValuesAlone(t *testing.T) {
	cfg := &Config{Logging: LoggingConfig{Level: "warn"}}
	ApplyDefaults(cfg)
	require.Equal(t, "WARN", cfg.Logging.Level)
	require.Equal(t, "text", cfg.Logging.Format)
}

func TestDefaultConfigPathHonoursXDGConfigHome(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	require.Equal(t, "/custom/config/xtrace/config.yaml", DefaultConfigPath())
}
