// Package proxy accepts client connections on a local display socket,
// forwards the raw bytes unchanged to the real upstream X server, and feeds
// a copy of each direction's bytes through an internal/x11.Session so the
// traffic is decoded as it passes through.
package proxy

import (
	"context"
	"fmt"
	"io"
	"net"
	"sync"

	"github.com/google/uuid"
	"github.com/xtrace11/xtrace/internal/logger"
	"github.com/xtrace11/xtrace/internal/x11"
)

// Config holds the parameters needed to run a proxy listener.
type Config struct {
	// ListenNetwork is "unix" or "tcp".
	ListenNetwork string
	// ListenAddress is the socket path (for "unix") or "host:port" (for "tcp").
	ListenAddress string

	// Upstream is the DISPLAY-style spec of the real X server to forward to.
	Upstream string

	// Formatter is shared by every accepted connection so the formatter's
	// interleaving and client-id prefixing work across simultaneous
	// connections, per the x11 package's design.
	Formatter *x11.Formatter
}

// Server listens for client connections and proxies/traces each one.
type Server struct {
	cfg      Config
	listener net.Listener

	shutdown     chan struct{}
	shutdownOnce sync.Once
	wg           sync.WaitGroup
}

// NewServer builds a Server from cfg. It does not start listening.
func NewServer(cfg Config) *Server {
	return &Server{cfg: cfg, shutdown: make(chan struct{})}
}

// Serve opens the listening socket and accepts connections until ctx is
// cancelled or Stop is called. It blocks until shutdown completes.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen(s.cfg.ListenNetwork, s.cfg.ListenAddress)
	if err != nil {
		return fmt.Errorf("proxy: listen %s %s: %w", s.cfg.ListenNetwork, s.cfg.ListenAddress, err)
	}
	s.listener = ln

	logger.Info("proxy: listening", "network", s.cfg.ListenNetwork, "address", s.cfg.ListenAddress, "upstream", s.cfg.Upstream)

	go func() {
		select {
		case <-ctx.Done():
			s.Stop()
		case <-s.shutdown:
		}
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-s.shutdown:
				return nil
			default:
				logger.Debug("proxy: accept error", "error", err)
				return err
			}
		}

		s.wg.Add(1)
		go func(c net.Conn) {
			defer s.wg.Done()
			s.handleConn(c)
		}(conn)
	}
}

// Stop closes the listener and waits for in-flight connections to drain.
func (s *Server) Stop() {
	s.shutdownOnce.Do(func() {
		close(s.shutdown)
		if s.listener != nil {
			_ = s.listener.Close()
		}
	})
	s.wg.Wait()
}

// Addr returns the listener's address, or "" before Serve has bound it.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *Server) handleConn(client net.Conn) {
	defer func() { _ = client.Close() }()

	connID := uuid.NewString()
	upstream, err := DialUpstream(s.cfg.Upstream)
	if err != nil {
		logger.Error("proxy: failed to dial upstream", "connection_id", connID, "upstream", s.cfg.Upstream, "error", err)
		return
	}
	defer func() { _ = upstream.Close() }()

	session := x11.New(connID, x11.ModeFull, s.cfg.Formatter)
	defer session.Close()

	logger.Info("proxy: connection accepted", "connection_id", connID, "client", client.RemoteAddr())

	// Both directions share one Session, so decoding is serialised.
	var decodeMu sync.Mutex
	feed := func(fn func([]byte) error) func([]byte) error {
		return func(b []byte) error {
			decodeMu.Lock()
			defer decodeMu.Unlock()
			return fn(b)
		}
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		pump(client, upstream, feed(session.FeedClientToServer))
	}()
	go func() {
		defer wg.Done()
		pump(upstream, client, feed(session.FeedServerToClient))
	}()
	wg.Wait()

	logger.Info("proxy: connection closed", "connection_id", connID)
}

// pump copies bytes from src to dst, handing each chunk to decode before
// forwarding it on so the decoded trace reflects exactly what crossed the
// wire. A decode error is logged but never breaks the forward path — a
// tracer must stay transparent even when it cannot make sense of what it
// sees.
func pump(src io.Reader, dst io.Writer, decode func([]byte) error) {
	buf := make([]byte, 64*1024)
	for {
		n, err := src.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			if decodeErr := decode(chunk); decodeErr != nil {
				logger.Debug("proxy: decode error", "error", decodeErr)
			}
			if _, werr := dst.Write(chunk); werr != nil {
				return
			}
		}
		if err != nil {
			return
		}
	}
}
