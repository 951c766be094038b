package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/pulseboard/pkg/config"
)

func TestSetupLog(t *testing.T) {
	// smoke test both modes, lgr setup must not panic
	setupLog(false)
	setupLog(true)
	setupLog(true, "secret-value")
}

func TestRun_ServerStartStop(t *testing.T) {
	// stub upstream intelligence API, empty but valid responses
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer upstream.Close()

	cfgPath := filepath.Join(t.TempDir(), "pulseboard.yml")
	cfgYaml := `
server:
  listen: "127.0.0.1:18765"
  timeout: 5s
intel:
  base_url: "` + upstream.URL + `"
`
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfgYaml), 0o600))

	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- run(ctx, cfg, false)
	}()

	// wait for the server to come up
	var resp *http.Response
	require.Eventually(t, func() bool {
		var pingErr error
		resp, pingErr = http.Get("http://127.0.0.1:18765/ping")
		return pingErr == nil
	}, 3*time.Second, 50*time.Millisecond, "server did not start")
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "pong", string(body))

	// the dashboard endpoint must respond even with an empty upstream
	dashResp, err := http.Get("http://127.0.0.1:18765/api/v1/dashboard")
	require.NoError(t, err)
	defer dashResp.Body.Close()
	assert.Equal(t, http.StatusOK, dashResp.StatusCode)

	cancel()
	select {
	case err := <-serverErr:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Error("server shutdown timeout")
	}
}
