package metrics

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestCollectorObserveRequestIncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.ObserveRequest("InternAtom", "conn-1")
	c.ObserveRequest("InternAtom", "conn-1")
	c.ObserveReply("InternAtom", "conn-1")
	c.ObserveError("BadWindow", "conn-1")
	c.ObserveEvent("KeyPress", "conn-1")

	families, err := reg.Gather()
	require.NoError(t, err)

	counts := map[string]float64{}
	for _, fam := range families {
		for _, m := range fam.GetMetric() {
			counts[fam.GetName()] += m.GetCounter().GetValue()
		}
	}
	require.Equal(t, float64(2), counts["xtrace_requests_decoded_total"])
	require.Equal(t, float64(1), counts["xtrace_replies_decoded_total"])
	require.Equal(t, float64(1), counts["xtrace_errors_decoded_total"])
	require.Equal(t, float64(1), counts["xtrace_events_decoded_total"])
}

func TestCollectorNilIsSafeToCall(t *testing.T) {
	var c *Collector
	require.NotPanics(t, func() {
		c.ObserveRequest("x", "y")
		c.ObserveReply("x", "y")
		c.ObserveError("x", "y")
		c.ObserveEvent("x", "y")
	})
}

func TestServerServesHealthzAndMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.ObserveRequest("MapWindow", "conn-1")

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	srv := NewServerForRegistry(addr, reg)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe(ctx) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + srv.Addr() + "/healthz")
		if err != nil {
			return false
		}
		defer func() { _ = resp.Body.Close() }()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	resp, err := http.Get("http://" + srv.Addr() + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Contains(t, string(body), "xtrace_requests_decoded_total")

	cancel()
	require.NoError(t, <-errCh)
}
