package metrics_test

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ybathula707/flaskr/internal/infra/logger"
	"github.com/ybathula707/flaskr/internal/infra/metrics"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newRouter(m *metrics.Metrics) *gin.Engine {
	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/hello", func(c *gin.Context) {
		c.String(http.StatusOK, "hi")
	})
	return r
}

func TestMiddleware_CountsByRoute(t *testing.T) {
	t.Parallel()

	m := metrics.New()
	r := newRouter(m)

	for range 3 {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/hello", http.NoBody))
	}
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope/123", http.NoBody))

	assert.InDelta(t, 3, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/hello", "200")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "unmatched", "404")), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(m.InFlight), 0)
}

func TestHandler_ExposesCollectors(t *testing.T) {
	t.Parallel()

	m := metrics.New()
	newRouter(m).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/hello", http.NoBody))

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `flaskr_http_requests_total{method="GET",route="/hello",status="200"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestServe_UntilContextCancelled(t *testing.T) {
	t.Parallel()

	m := metrics.New()
	l, err := metrics.Listen("127.0.0.1", 0)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Serve(ctx, l, logger.NewNop()) }()

	resp, err := http.Get("http://" + l.Addr().String() + "/metrics")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("metrics server did not stop after context cancellation")
	}
}

func TestListen_AddressInUse(t *testing.T) {
	t.Parallel()

	taken, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer taken.Close()

	port := taken.Addr().(*net.TCPAddr).Port

	_, err = metrics.Listen("127.0.0.1", port)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listen metrics")
}
