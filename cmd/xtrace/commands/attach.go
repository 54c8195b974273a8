package commands

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/xtrace11/xtrace/internal/cli/prompt"
	"github.com/xtrace11/xtrace/internal/config"
	"github.com/xtrace11/xtrace/internal/logger"
	"github.com/xtrace11/xtrace/internal/proxy"
	"github.com/xtrace11/xtrace/internal/record"
	"github.com/xtrace11/xtrace/internal/x11"
)

var attachClientID string

var attachCmd = &cobra.Command{
	Use:   "attach [display]",
	Short: "Attach to a running client via the X RECORD extension",
	Long: `Attach directly to the real X server's RECORD extension and trace an
already-running client, without interposing a proxy display.

If no display is given, xtrace lists live displays found under
/tmp/.X11-unix and prompts for one.

Examples:
  # Attach to display :0, tracing every client
  xtrace attach :0

  # Attach to a specific client resource id
  xtrace attach :0 --client 0x1e00003`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAttach,
}

func init() {
	attachCmd.Flags().StringVar(&attachClientID, "client", "", "Specific client resource id to trace (hex or decimal); default traces all clients")
}

func runAttach(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(GetConfigFile())
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := InitLogger(cfg); err != nil {
		return err
	}

	display, err := resolveDisplay(args)
	if err != nil {
		return err
	}

	clientSpecs, err := parseClientSpecs(attachClientID)
	if err != nil {
		return err
	}

	formatter, out, err := buildFormatter(cfg)
	if err != nil {
		return err
	}
	if out != os.Stdout && out != os.Stderr {
		defer func() { _ = out.Close() }()
	}

	recCtx, err := record.Attach(display, clientSpecs)
	if err != nil {
		return fmt.Errorf("failed to attach via X RECORD: %w", err)
	}
	defer func() { _ = recCtx.Close() }()

	session := x11.New(display, x11.ModeAttached, formatter)
	defer session.Close()

	logger.Info("attached via X RECORD", "display", display)
	fmt.Printf("xtrace attached to %s via X RECORD\n", display)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	runDone := make(chan error, 1)
	go func() { runDone <- recCtx.Run(session) }()

	select {
	case <-sigChan:
		signal.Stop(sigChan)
		return nil
	case err := <-runDone:
		return err
	}
}

// resolveDisplay returns the display from args, or prompts interactively
// using the live sockets under /tmp/.X11-unix when none was given.
func resolveDisplay(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}

	displays, err := proxy.ListDisplays()
	if err != nil {
		return "", err
	}
	if len(displays) == 0 {
		return "", fmt.Errorf("no live X11 displays found under /tmp/.X11-unix; specify one explicitly")
	}

	options := make([]prompt.SelectOption, 0, len(displays))
	for _, d := range displays {
		options = append(options, prompt.SelectOption{Label: ":" + d, Value: ":" + d})
	}
	return prompt.Select("Select a display to attach to", options)
}

// parseClientSpecs turns the --client flag into RECORD client specs, or
// nil (meaning "all current and future clients") when unset.
func parseClientSpecs(raw string) ([]uint32, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(strings.TrimPrefix(raw, "0x"), hexOrDecBase(raw), 32)
	if err != nil {
		return nil, fmt.Errorf("invalid --client value %q: %w", raw, err)
	}
	return []uint32{uint32(id)}, nil
}

func hexOrDecBase(raw string) int {
	if strings.HasPrefix(raw, "0x") || strings.HasPrefix(raw, "0X") {
		return 16
	}
	return 10
}
