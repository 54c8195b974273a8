package config

import "strings"

// ApplyDefaults fills in zero-valued fields with sensible defaults, the way
// the teacher's ApplyDefaults does section by section.
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyProxyDefaults(&cfg.Proxy)
	applyTraceDefaults(&cfg.Trace)
	applyMetricsDefaults(&cfg.Metrics)
}

func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	cfg.Level = strings.ToUpper(cfg.Level)

	if cfg.Format == "" {
		cfg.Format = "text"
	}
	if cfg.Output == "" {
		cfg.Output = "stderr"
	}
}

func applyProxyDefaults(cfg *ProxyConfig) {
	if cfg.ListenNetwork == "" {
		cfg.ListenNetwork = "unix"
	}
	if cfg.ListenAddress == "" {
		cfg.ListenAddress = "/tmp/.X11-unix/X11"
	}
	if cfg.Upstream == "" {
		cfg.Upstream = ":0"
	}
}

func applyTraceDefaults(cfg *TraceConfig) {
	if cfg.Output == "" {
		cfg.Output = "stdout"
	}
	if cfg.SizeLimit == "" {
		cfg.SizeLimit = "unlimited"
	}
}

func applyMetricsDefaults(cfg *MetricsConfig) {
	if cfg.Address == "" {
		cfg.Address = "127.0.0.1:9090"
	}
}
