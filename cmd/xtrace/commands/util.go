package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/xtrace11/xtrace/internal/config"
	"github.com/xtrace11/xtrace/internal/logger"
	"github.com/xtrace11/xtrace/internal/metrics"
	"github.com/xtrace11/xtrace/internal/x11"
)

// InitLogger initializes the structured logger from configuration.
func InitLogger(cfg *config.Config) error {
	loggerCfg := logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}
	if err := logger.Init(loggerCfg); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// traceOutput opens the writer the decoded trace stream is written to,
// per cfg.Trace.Output ("stdout", "stderr", or a file path).
func traceOutput(cfg *config.Config) (*os.File, error) {
	switch cfg.Trace.Output {
	case "", "stdout":
		return os.Stdout, nil
	case "stderr":
		return os.Stderr, nil
	default:
		f, err := os.OpenFile(cfg.Trace.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND|os.O_TRUNC, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open trace output %q: %w", cfg.Trace.Output, err)
		}
		return f, nil
	}
}

// buildFormatter constructs a Formatter with cfg's filter tokens and size
// limit already applied.
func buildFormatter(cfg *config.Config) (*x11.Formatter, *os.File, error) {
	out, err := traceOutput(cfg)
	if err != nil {
		return nil, nil, err
	}
	formatter := x11.NewFormatter(out)

	reqFilter, eventFilter, err := x11.ParseFilterTokens(nil, nil, cfg.Trace.Filter)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid trace filter %q: %w", cfg.Trace.Filter, err)
	}
	formatter.SetFilters(reqFilter, eventFilter)

	limit, err := x11.ParseSizeLimit(cfg.Trace.SizeLimit)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid trace size limit %q: %w", cfg.Trace.SizeLimit, err)
	}
	formatter.SetSizeLimit(limit)

	return formatter, out, nil
}

// maybeStartMetrics starts the optional Prometheus/health HTTP server
// under ctx and wires a Collector into formatter. Returns a no-op stop
// function when metrics are disabled; otherwise stop cancels the server's
// own context and blocks until it has shut down.
func maybeStartMetrics(ctx context.Context, cfg *config.Config, formatter *x11.Formatter) (stop func(), err error) {
	if !cfg.Metrics.Enabled {
		return func() {}, nil
	}

	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)
	formatter.SetMetricsSink(collector)

	srv := metrics.NewServerForRegistry(cfg.Metrics.Address, reg)
	srvCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := srv.ListenAndServe(srvCtx); err != nil {
			logger.Error("metrics server error", "error", err)
		}
	}()
	logger.Info("metrics server listening", "address", cfg.Metrics.Address)

	return func() {
		cancel()
		<-done
	}, nil
}
