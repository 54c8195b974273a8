package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/xtrace11/xtrace/internal/config"
	"github.com/xtrace11/xtrace/internal/logger"
	"github.com/xtrace11/xtrace/internal/proxy"
)

var (
	proxyListenNetwork string
	proxyListenAddress string
	proxyUpstream      string
	proxyMetricsAddr   string
)

var proxyCmd = &cobra.Command{
	Use:   "proxy",
	Short: "Start a local X11 proxy display and trace everything through it",
	Long: `Start a local proxy listener that forwards all bytes between a
client and the real X server unchanged, while decoding and printing a
trace of every request, reply, error, and event.

Examples:
  # Listen on a Unix socket, forward to display :0
  xtrace proxy --upstream :0 --listen-address /tmp/.X11-unix/X11

  # Listen on TCP, forward to a remote X server
  xtrace proxy --listen-network tcp --listen-address 127.0.0.1:6011 --upstream remote-host:6000`,
	RunE: runProxy,
}

func init() {
	proxyCmd.Flags().StringVar(&proxyListenNetwork, "listen-network", "", "Listener network: unix or tcp")
	proxyCmd.Flags().StringVar(&proxyListenAddress, "listen-address", "", "Listener address (socket path or host:port)")
	proxyCmd.Flags().StringVar(&proxyUpstream, "upstream", "", "Real X server to forward to (DISPLAY-style spec or host:port)")
	proxyCmd.Flags().StringVar(&proxyMetricsAddr, "metrics-addr", "", "Address for the optional /metrics and /healthz HTTP server")
}

func runProxy(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(GetConfigFile())
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	applyProxyFlagOverrides(cfg)

	if err := InitLogger(cfg); err != nil {
		return err
	}

	formatter, out, err := buildFormatter(cfg)
	if err != nil {
		return err
	}
	if out != os.Stdout && out != os.Stderr {
		defer func() { _ = out.Close() }()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stopMetrics, err := maybeStartMetrics(ctx, cfg, formatter)
	if err != nil {
		return err
	}
	defer stopMetrics()

	var watcher *config.Watcher
	if configPath := resolvedConfigPath(); configPath != "" {
		watcher, err = config.NewWatcher(configPath, formatter)
		if err != nil {
			logger.Warn("could not start config watcher", "error", err)
		} else {
			defer func() { _ = watcher.Close() }()
		}
	}

	srv := proxy.NewServer(proxy.Config{
		ListenNetwork: cfg.Proxy.ListenNetwork,
		ListenAddress: cfg.Proxy.ListenAddress,
		Upstream:      cfg.Proxy.Upstream,
		Formatter:     formatter,
	})

	serveDone := make(chan error, 1)
	go func() { serveDone <- srv.Serve(ctx) }()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("proxy listening",
		"network", cfg.Proxy.ListenNetwork,
		"address", cfg.Proxy.ListenAddress,
		"upstream", cfg.Proxy.Upstream)
	fmt.Printf("xtrace proxy listening on %s (%s), forwarding to %s\n",
		cfg.Proxy.ListenAddress, cfg.Proxy.ListenNetwork, cfg.Proxy.Upstream)

	select {
	case <-sigChan:
		signal.Stop(sigChan)
		logger.Info("shutdown signal received")
		cancel()
		return <-serveDone
	case err := <-serveDone:
		signal.Stop(sigChan)
		return err
	}
}

func applyProxyFlagOverrides(cfg *config.Config) {
	if proxyListenNetwork != "" {
		cfg.Proxy.ListenNetwork = proxyListenNetwork
	}
	if proxyListenAddress != "" {
		cfg.Proxy.ListenAddress = proxyListenAddress
	}
	if proxyUpstream != "" {
		cfg.Proxy.Upstream = proxyUpstream
	}
	if proxyMetricsAddr != "" {
		cfg.Metrics.Enabled = true
		cfg.Metrics.Address = proxyMetricsAddr
	}
}

func resolvedConfigPath() string {
	if GetConfigFile() != "" {
		return GetConfigFile()
	}
	if _, err := os.Stat(config.DefaultConfigPath()); err == nil {
		return config.DefaultConfigPath()
	}
	return ""
}
