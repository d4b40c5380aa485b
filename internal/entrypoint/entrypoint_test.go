package entrypoint

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/library/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.NewConfig()
	cfg.HTTP.Host = "127.0.0.1"
	cfg.HTTP.Port = 0
	cfg.Global.ShutdownTimeoutInSeconds = 2
	cfg.Database.Path = filepath.Join(t.TempDir(), "library.db")
	cfg.Database.LogLevel = "silent"
	return cfg
}

func get(t *testing.T, app *App, path string) int {
	t.Helper()
	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w.Code
}

func TestBuild_FullStack(t *testing.T) {
	cfg := testConfig(t)

	app, err := Build(cfg, "test")
	require.NoError(t, err)
	defer app.Close()

	assert.NotNil(t, app.taskClient)
	assert.NotNil(t, app.cleanup)
	assert.Equal(t, http.StatusOK, get(t, app, "/ping"))
	assert.Equal(t, http.StatusOK, get(t, app, "/authors"))
	assert.Equal(t, http.StatusOK, get(t, app, "/audit"))
	assert.Equal(t, http.StatusOK, get(t, app, "/tasks/types"))
}

func TestBuild_WithoutOptionalComponents(t *testing.T) {
	cfg := testConfig(t)
	cfg.Audit.Enabled = false
	cfg.Tasks.Enabled = false

	app, err := Build(cfg, "test")
	require.NoError(t, err)
	defer app.Close()

	assert.Nil(t, app.taskClient)
	assert.Nil(t, app.cleanup)
	assert.Equal(t, http.StatusOK, get(t, app, "/books"))
	assert.Equal(t, http.StatusNotFound, get(t, app, "/audit"))
	assert.Equal(t, http.StatusNotFound, get(t, app, "/tasks/types"))
}

func TestBuild_InvalidSchedule(t *testing.T) {
	cfg := testConfig(t)
	cfg.Audit.CleanupSchedule = "sometimes"

	_, err := Build(cfg, "test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AUDIT_CLEANUP_SCHEDULE")
}

func TestBuild_UnsupportedDriver(t *testing.T) {
	cfg := testConfig(t)
	cfg.Database.Driver = "oracle"

	_, err := Build(cfg, "test")
	require.Error(t, err)
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	cfg := testConfig(t)

	app, err := Build(cfg, "test")
	require.NoError(t, err)
	defer app.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Serve(ctx, cfg) }()

	require.Eventually(t, app.cleanup.IsRunning, 2*time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
	assert.False(t, app.cleanup.IsRunning())
}

func TestMigrate(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, Migrate(cfg))
}
