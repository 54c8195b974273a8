package proxy

import (
	"bytes"
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xtrace11/xtrace/internal/x11"
)

func TestDialUpstreamTCP(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer func() { _ = ln.Close() }()

	go func() {
		c, err := ln.Accept()
		if err == nil {
			_ = c.Close()
		}
	}()

	conn, err := DialUpstream(ln.Addr().String())
	require.NoError(t, err)
	_ = conn.Close()
}

func TestDisplayNumberParsesScreenSuffix(t *testing.T) {
	n, err := displayNumber(":11.2")
	require.NoError(t, err)
	require.Equal(t, "11", n)

	_, err = displayNumber(":")
	require.Error(t, err)
}

// startEchoUpstream starts a TCP listener that echoes every byte it
// receives back to the sender, standing in for a real X server for the
// purposes of exercising the proxy's forwarding path.
func startEchoUpstream(t *testing.T) net.Listener {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() {
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			go func(conn net.Conn) {
				defer func() { _ = conn.Close() }()
				buf := make([]byte, 4096)
				for {
					n, err := conn.Read(buf)
					if n > 0 {
						if _, werr := conn.Write(buf[:n]); werr != nil {
							return
						}
					}
					if err != nil {
						return
					}
				}
			}(c)
		}
	}()
	t.Cleanup(func() { _ = ln.Close() })
	return ln
}

func TestServeForwardsBytesBothWays(t *testing.T) {
	upstream := startEchoUpstream(t)

	var out bytes.Buffer
	srv := NewServer(Config{
		ListenNetwork: "tcp",
		ListenAddress: "127.0.0.1:0",
		Upstream:      upstream.Addr().String(),
		Formatter:     x11.NewFormatter(&out),
	})

	ctx, cancel := context.WithCancel(context.Background())
	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Serve(ctx) }()

	// Wait for the listener to be bound.
	require.Eventually(t, func() bool { return srv.Addr() != "" }, time.Second, time.Millisecond)

	client, err := net.Dial("tcp", srv.Addr())
	require.NoError(t, err)
	defer func() { _ = client.Close() }()

	payload := []byte("hello through the proxy")
	_, err = client.Write(payload)
	require.NoError(t, err)

	reply := make([]byte, len(payload))
	require.NoError(t, client.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, err = readFull(client, reply)
	require.NoError(t, err)
	require.Equal(t, payload, reply)

	cancel()
	require.NoError(t, <-serveErr)
}

func readFull(conn net.Conn, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := conn.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
