package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/agent-mongo-exporter/pkg/config"
)

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

func newTestServer(t *testing.T, pinger Pinger) *httptest.Server {
	t.Helper()
	reg := prometheus.NewRegistry()
	c := prometheus.NewCounter(prometheus.CounterOpts{Name: "agent_test_total", Help: "test"})
	reg.MustRegister(c)
	c.Inc()

	cfg := config.ServerConfig{Addr: "127.0.0.1:0", ReadTimeout: time.Second, WriteTimeout: time.Second, IdleTimeout: time.Second}
	srv := NewHTTPServer(cfg, zap.NewNop(), reg, pinger)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name   string
		pinger Pinger
		status int
	}{
		{"no pinger", nil, http.StatusOK},
		{"mongodb up", fakePinger{}, http.StatusOK},
		{"mongodb down", fakePinger{err: errors.New("server selection timeout")}, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, tt.pinger)
			status, _ := get(t, ts.URL+"/health")
			assert.Equal(t, tt.status, status)
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t, nil)
	status, body := get(t, ts.URL+"/metrics")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "agent_test_total 1")
}

func TestIndexAndNotFound(t *testing.T) {
	ts := newTestServer(t, nil)

	status, body := get(t, ts.URL+"/")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "/metrics")

	status, _ = get(t, ts.URL+"/nope")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestStartAndShutdown(t *testing.T) {
	cfg := config.ServerConfig{Addr: "127.0.0.1:0", ReadTimeout: time.Second, WriteTimeout: time.Second, IdleTimeout: time.Second}
	srv := NewHTTPServer(cfg, zap.NewNop(), prometheus.NewRegistry(), nil)
	require.NoError(t, srv.Start())
	assert.NoError(t, srv.Shutdown())
}

func TestStartListenFailure(t *testing.T) {
	cfg := config.ServerConfig{Addr: "256.0.0.1:80", ReadTimeout: time.Second, WriteTimeout: time.Second, IdleTimeout: time.Second}
	srv := NewHTTPServer(cfg, zap.NewNop(), prometheus.NewRegistry(), nil)
	assert.Error(t, srv.Start())
}
