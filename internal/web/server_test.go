package web

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func preflight(srv http.Handler, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodOptions, "/api/search-food", nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestCORSPreflightAllowedOrigin(t *testing.T) {
	srv := NewServer(&stubAnalyzer{}, "", slog.Default())
	srv.AllowOrigins("http://localhost:5173")

	rec := preflight(srv, "http://localhost:5173")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSPreflightOtherOrigin(t *testing.T) {
	srv := NewServer(&stubAnalyzer{}, "", slog.Default())
	srv.AllowOrigins("http://localhost:5173")

	rec := preflight(srv, "https://evil.example")

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSDisabledByDefault(t *testing.T) {
	srv := NewServer(&stubAnalyzer{}, "", slog.Default())

	rec := preflight(srv, "http://localhost:5173")

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func dialWithOrigin(t *testing.T, srv *Server, origin string) error {
	t.Helper()
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	header := http.Header{}
	header.Set("Origin", origin)
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err == nil {
		_ = conn.Close()
	}
	return err
}

func TestWebSocketRejectsCrossOriginByDefault(t *testing.T) {
	srv := NewServer(&stubAnalyzer{}, "", slog.Default())

	assert.Error(t, dialWithOrigin(t, srv, "http://localhost:5173"))
}

func TestWebSocketAcceptsAllowedOrigin(t *testing.T) {
	srv := NewServer(&stubAnalyzer{}, "", slog.Default())
	srv.AllowOrigins("http://localhost:5173")

	require.NoError(t, dialWithOrigin(t, srv, "http://localhost:5173"))
	assert.Error(t, dialWithOrigin(t, srv, "https://evil.example"))
}
