package proxy

import (
	"fmt"
	"net"
	"os"
	"sort"
	"strings"
)

// socketDir is where Unix-domain X11 listeners live on Linux.
const socketDir = "/tmp/.X11-unix"

// ListDisplays returns the display specs ("0", "1", ...) with a live socket
// under socketDir, sorted numerically by name. Used by the CLI's
// interactive picker when no target is given on the command line.
func ListDisplays() ([]string, error) {
	entries, err := os.ReadDir(socketDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("proxy: list displays: %w", err)
	}

	var displays []string
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, "X") && len(name) > 1 {
			displays = append(displays, name[1:])
		}
	}
	sort.Slice(displays, func(i, j int) bool {
		if len(displays[i]) != len(displays[j]) {
			return len(displays[i]) < len(displays[j])
		}
		return displays[i] < displays[j]
	})
	return displays, nil
}

// DialUpstream connects to the real X server a traced client expects,
// given a DISPLAY-style spec (":0", ":0.1", "unix:/tmp/.X11-unix/X0", or
// "host:6000" for TCP displays).
func DialUpstream(display string) (net.Conn, error) {
	if strings.HasPrefix(display, "unix:") {
		return net.Dial("unix", strings.TrimPrefix(display, "unix:"))
	}
	if strings.HasPrefix(display, ":") {
		num, err := displayNumber(display)
		if err != nil {
			return nil, err
		}
		return net.Dial("unix", fmt.Sprintf("/tmp/.X11-unix/X%s", num))
	}
	return net.Dial("tcp", display)
}

func displayNumber(display string) (string, error) {
	rest := strings.TrimPrefix(display, ":")
	if i := strings.IndexByte(rest, '.'); i >= 0 {
		rest = rest[:i]
	}
	if rest == "" {
		return "", fmt.Errorf("proxy: could not parse display number from %q", display)
	}
	return rest, nil
}
