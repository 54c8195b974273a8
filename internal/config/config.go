// Package config loads xtrace's configuration from a YAML file, environment
// variables, and defaults, following the teacher's spf13/viper precedence
// order.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config is xtrace's static configuration.
//
// Configuration sources (in order of precedence):
//  1. CLI flags (highest priority, applied by the cmd/xtrace commands)
//  2. Environment variables (XTRACE_*)
//  3. Configuration file (YAML)
//  4. Default values (lowest priority)
type Config struct {
	// Logging controls the tool's own operational log output.
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`

	// Proxy configures the local proxy listener.
	Proxy ProxyConfig `mapstructure:"proxy" yaml:"proxy"`

	// Trace controls the decoded wire-trace output: destination, filters,
	// and size limiting.
	Trace TraceConfig `mapstructure:"trace" yaml:"trace"`

	// Metrics configures the optional Prometheus/health HTTP server.
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
}

// LoggingConfig controls the operational logger (internal/logger), not the
// decoded trace stream.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
	Output string `mapstructure:"output" yaml:"output"`
}

// ProxyConfig configures the listener started by `xtrace proxy` / `xtrace run`.
type ProxyConfig struct {
	// ListenNetwork is "unix" or "tcp".
	ListenNetwork string `mapstructure:"listen_network" yaml:"listen_network"`
	// ListenAddress is a socket path or "host:port", depending on ListenNetwork.
	ListenAddress string `mapstructure:"listen_address" yaml:"listen_address"`
	// Upstream is the real X server's DISPLAY-style address to forward to.
	Upstream string `mapstructure:"upstream" yaml:"upstream"`
}

// TraceConfig controls what the decoded trace stream shows.
type TraceConfig struct {
	// Output is "stdout", "stderr", or a file path.
	Output string `mapstructure:"output" yaml:"output"`
	// Filter is a space-separated list of filter tokens, in the same
	// syntax ParseFilterTokens accepts (e.g. "CreateWindow MapWindow
	// events=KeyPress").
	Filter string `mapstructure:"filter" yaml:"filter"`
	// SizeLimit is a size-limit token ("unlimited", "none", a decimal or
	// 0x-prefixed hex byte count).
	SizeLimit string `mapstructure:"size_limit" yaml:"size_limit"`
}

// MetricsConfig configures the optional metrics/health HTTP server.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Address string `mapstructure:"address" yaml:"address"`
}

// Load loads configuration from file, environment, and defaults.
//
// Parameters:
//   - configPath: path to config file (empty string uses the default location)
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setupViper(v, configPath)

	if _, err := readConfigFile(v); err != nil {
		return nil, err
	}

	// AutomaticEnv only overrides keys viper already knows about, so bind
	// every key explicitly to let XTRACE_* variables apply with or without
	// a config file.
	for _, key := range []string{
		"logging.level", "logging.format", "logging.output",
		"proxy.listen_network", "proxy.listen_address", "proxy.upstream",
		"trace.output", "trace.filter", "trace.size_limit",
		"metrics.enabled", "metrics.address",
	} {
		_ = v.BindEnv(key)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	ApplyDefaults(cfg)
	return cfg, nil
}

// setupViper configures environment variable and config-file search
// behaviour, mirroring the teacher's DITTOFS_<SECTION>_<KEY> convention
// with an XTRACE_ prefix.
func setupViper(v *viper.Viper, configPath string) {
	v.SetEnvPrefix("XTRACE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		return
	}
	v.AddConfigPath(getConfigDir())
	v.SetConfigName("config")
	v.SetConfigType("yaml")
}

func readConfigFile(v *viper.Viper) (bool, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return false, nil
		}
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read config file: %w", err)
	}
	return true, nil
}

func getConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "xtrace")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "xtrace")
}

// DefaultConfigPath returns the default configuration file path.
func DefaultConfigPath() string {
	return filepath.Join(getConfigDir(), "config.yaml")
}
