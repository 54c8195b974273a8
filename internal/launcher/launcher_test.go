package launcher

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOverrideEnvReplacesExistingDisplay(t *testing.T) {
	env := []string{"HOME=/home/x", "DISPLAY=:0", "PATH=/bin"}
	out := overrideEnv(env, ":11", "")

	require.Contains(t, out, "DISPLAY=:11")
	require.NotContains(t, out, "DISPLAY=:0")
	require.Contains(t, out, "HOME=/home/x")
}

func TestOverrideEnvAppendsDisplayWhenAbsent(t *testing.T) {
	env := []string{"HOME=/home/x"}
	out := overrideEnv(env, ":11", "")
	require.Contains(t, out, "DISPLAY=:11")
}

func TestOverrideEnvReplacesXauthority(t *testing.T) {
	env := []string{"XAUTHORITY=/home/x/.Xauthority"}
	out := overrideEnv(env, ":11", "/tmp/xtrace-xauth-1")

	require.Contains(t, out, "XAUTHORITY=/tmp/xtrace-xauth-1")
	require.NotContains(t, out, "XAUTHORITY=/home/x/.Xauthority")
}

func TestOverrideEnvLeavesXauthorityAloneWhenPathEmpty(t *testing.T) {
	env := []string{"XAUTHORITY=/home/x/.Xauthority"}
	out := overrideEnv(env, ":11", "")
	require.Contains(t, out, "XAUTHORITY=/home/x/.Xauthority")
}

func TestLaunchRejectsEmptyCommand(t *testing.T) {
	_, err := Launch(Config{})
	require.Error(t, err)
}

func TestLaunchAndWait(t *testing.T) {
	p, err := Launch(Config{Command: "true"})
	require.NoError(t, err)
	require.NotZero(t, p.Pid())

	var hookRan bool
	p.AddTermHook(func() { hookRan = true })

	require.NoError(t, p.Wait())
	require.True(t, hookRan)
}
