package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xtrace11/xtrace/internal/x11"
)

func TestWatcherReloadsFilterOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("trace:\n  filter: \"CreateWindow\"\n"), 0644))

	var buf bytes.Buffer
	formatter := x11.NewFormatter(&buf)

	w, err := NewWatcher(path, formatter)
	require.NoError(t, err)
	defer func() { _ = w.Close() }()

	require.NoError(t, os.WriteFile(path, []byte("trace:\n  filter: \"MapWindow\"\n  size_limit: \"64\"\n"), 0644))

	require.Eventually(t, func() bool {
		return formatter.RequestFilterMatches("CreateWindow") && !formatter.RequestFilterMatches("MapWindow")
	}, 2*time.Second, 10*time.Millisecond)
}
