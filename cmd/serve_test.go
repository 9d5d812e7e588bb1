package cmd

import (
	"context"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ybathula707/flaskr/internal/app"
	"github.com/ybathula707/flaskr/internal/config"
)

func serveTestConfig(t *testing.T) (*config.Config, string) {
	t.Helper()

	instancePath := filepath.Join(t.TempDir(), "instance")
	cfg, err := loadConfig(&rootFlags{
		configPath:   filepath.Join(t.TempDir(), "none.yml"),
		debug:        true,
		instancePath: instancePath,
	})
	require.NoError(t, err)
	return cfg, instancePath
}

func TestServeOn_OpensDatabaseAndServesHello(t *testing.T) {
	cfg, instancePath := serveTestConfig(t)

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- serveOn(ctx, cfg, l) }()

	resp, err := http.Get("http://" + l.Addr().String() + app.HelloPath)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, app.Greeting, string(body))

	info, err := os.Stat(filepath.Join(instancePath, app.DatabaseFileName))
	require.NoError(t, err)
	assert.False(t, info.IsDir())

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("serve did not stop after context cancellation")
	}
}

func TestServeOn_MetricsBindFailureIsFatal(t *testing.T) {
	cfg, _ := serveTestConfig(t)

	taken, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer taken.Close()

	cfg.Service.Host = "127.0.0.1"
	cfg.Metrics.Enabled = true
	cfg.Metrics.Port = taken.Addr().(*net.TCPAddr).Port

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	err = serveOn(context.Background(), cfg, l)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listen metrics")
}
