package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tutorcall-signal/internal/config"
)

func TestHandlerServesHealth(t *testing.T) {
	cfg := config.Default()
	logger := zerolog.Nop()

	a := New(&cfg, &logger)

	resp := httptest.NewRecorder()
	a.Handler().ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, "ok", resp.Body.String())
}

func TestRunStopsOnCancel(t *testing.T) {
	cfg := config.Default()
	cfg.Addr = "127.0.0.1:0"
	cfg.ShutdownTimeout = time.Second
	logger := zerolog.Nop()

	a := New(&cfg, &logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
