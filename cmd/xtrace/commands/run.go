package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/xtrace11/xtrace/internal/config"
	"github.com/xtrace11/xtrace/internal/launcher"
	"github.com/xtrace11/xtrace/internal/logger"
	"github.com/xtrace11/xtrace/internal/proxy"
	"github.com/xtrace11/xtrace/internal/xauth"
)

const proxyDisplayBase = 50

var (
	runDisplay    string
	runXauthority string
)

var runCmd = &cobra.Command{
	Use:   "run -- <command> [args...]",
	Short: "Launch a command under a freshly created proxy display",
	Long: `Create a proxy display backed by the real X server, point the
launched command's DISPLAY (and XAUTHORITY) at it, and trace every
request, reply, error, and event it exchanges — the X11 equivalent of
"strace <command>".

Examples:
  # Trace a client run against the current DISPLAY
  xtrace run -- xterm

  # Trace against a specific real display
  xtrace run --display :1 -- glxgears`,
	Args:                  cobra.MinimumNArgs(1),
	RunE:                  runRun,
	DisableFlagsInUseLine: true,
}

func init() {
	runCmd.Flags().StringVar(&runDisplay, "display", "", "Real display to forward to (default: $DISPLAY)")
	runCmd.Flags().StringVar(&runXauthority, "xauthority", "", "Xauthority file to read the real display's cookie from (default: $XAUTHORITY or ~/.Xauthority)")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(GetConfigFile())
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := InitLogger(cfg); err != nil {
		return err
	}

	upstream := runDisplay
	if upstream == "" {
		upstream = os.Getenv("DISPLAY")
	}
	if upstream == "" {
		return fmt.Errorf("no real display given: set --display or $DISPLAY")
	}

	realNum, err := xauth.ParseDisplay(upstream)
	if err != nil {
		return err
	}

	proxyNum, err := pickFreeDisplay()
	if err != nil {
		return err
	}
	proxyDisplay := fmt.Sprintf(":%d", proxyNum)
	socketPath := fmt.Sprintf("/tmp/.X11-unix/X%d", proxyNum)

	xauthPath := runXauthority
	if xauthPath == "" {
		xauthPath, err = xauth.DefaultPath()
		if err != nil {
			return fmt.Errorf("could not locate Xauthority file: %w", err)
		}
	}

	hostname, err := os.Hostname()
	if err != nil {
		return fmt.Errorf("could not determine hostname: %w", err)
	}

	cookie, err := xauth.CraftProxyCookie(xauthPath, hostname, realNum, strconv.Itoa(proxyNum))
	if err != nil {
		return fmt.Errorf("failed to craft proxy Xauthority cookie: %w", err)
	}
	tempAuthPath, err := xauth.WriteTemp(cookie)
	if err != nil {
		return fmt.Errorf("failed to write temporary Xauthority file: %w", err)
	}

	formatter, out, err := buildFormatter(cfg)
	if err != nil {
		_ = os.Remove(tempAuthPath)
		return err
	}
	if out != os.Stdout && out != os.Stderr {
		defer func() { _ = out.Close() }()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stopMetrics, err := maybeStartMetrics(ctx, cfg, formatter)
	if err != nil {
		_ = os.Remove(tempAuthPath)
		return err
	}
	defer stopMetrics()

	srv := proxy.NewServer(proxy.Config{
		ListenNetwork: "unix",
		ListenAddress: socketPath,
		Upstream:      upstream,
		Formatter:     formatter,
	})

	serveDone := make(chan error, 1)
	go func() { serveDone <- srv.Serve(ctx) }()
	defer srv.Stop()

	if err := waitForSocket(socketPath, 2*time.Second); err != nil {
		return fmt.Errorf("proxy display never came up: %w", err)
	}

	logger.Info("run: proxy display ready", "display", proxyDisplay, "upstream", upstream)
	fmt.Printf("xtrace running %v under %s (forwarding to %s)\n", args, proxyDisplay, upstream)

	proc, err := launcher.Launch(launcher.Config{
		Command:        args[0],
		Args:           args[1:],
		Display:        proxyDisplay,
		XauthorityPath: tempAuthPath,
		Stdin:          os.Stdin,
		Stdout:         os.Stdout,
		Stderr:         os.Stderr,
	})
	if err != nil {
		return err
	}
	proc.AddTermHook(func() { _ = os.Remove(tempAuthPath) })

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	childDone := make(chan error, 1)
	go func() { childDone <- proc.Wait() }()

	select {
	case <-sigChan:
		signal.Stop(sigChan)
		logger.Info("run: shutdown signal received, killing child", "pid", proc.Pid())
		_ = proc.Kill()
		return nil
	case err := <-childDone:
		signal.Stop(sigChan)
		if err != nil {
			logger.Warn("run: child exited with error", "error", err)
		}
		return nil
	case err := <-serveDone:
		signal.Stop(sigChan)
		_ = proc.Kill()
		return err
	}
}

// pickFreeDisplay returns the lowest display number at or above
// proxyDisplayBase with no live socket under /tmp/.X11-unix.
func pickFreeDisplay() (int, error) {
	displays, err := proxy.ListDisplays()
	if err != nil {
		return 0, err
	}
	taken := make(map[string]bool, len(displays))
	for _, d := range displays {
		taken[d] = true
	}
	for n := proxyDisplayBase; ; n++ {
		if !taken[strconv.Itoa(n)] {
			return n, nil
		}
	}
}

// waitForSocket polls for path to appear, up to timeout.
func waitForSocket(path string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if _, err := os.Stat(path); err == nil {
			return nil
		}
		time.Sleep(10 * time.Millisecond)
	}
	return fmt.Errorf("timed out waiting for %s", path)
}
