package http

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/TalentScreen/internal/config"
	"github.com/turtacn/TalentScreen/internal/testutil"
)

func TestNewServer_AppliesConfiguredTimeouts(t *testing.T) {
	cfg := config.ServerConfig{
		Port:            18080,
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    10 * time.Second,
		ShutdownTimeout: time.Second,
	}
	handler := http.NewServeMux()
	srv := NewServer(cfg, handler, testutil.NewMockLogger())

	require.NotNil(t, srv)
	assert.Equal(t, ":18080", srv.srv.Addr)
	assert.Equal(t, 5*time.Second, srv.srv.ReadTimeout)
	assert.Equal(t, 10*time.Second, srv.srv.WriteTimeout)
	assert.Equal(t, http.Handler(handler), srv.Handler())
}

func TestServer_StopBeforeStartIsSafe(t *testing.T) {
	srv := NewServer(config.ServerConfig{Port: 18081, ShutdownTimeout: time.Second}, http.NewServeMux(), nil)
	assert.NoError(t, srv.Stop(context.Background()))
}
