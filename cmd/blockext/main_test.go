package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/blockext/internal/extension"
)

// setupServer points the CLI at handler through a throwaway config file.
func setupServer(t *testing.T, handler http.HandlerFunc) string {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("BLOCKEXT_API_BASE", "")
	t.Setenv("BLOCKEXT_PUSH_URL", "")
	t.Setenv("BLOCKEXT_LOG_LEVEL", "")

	cfg := filepath.Join(dir, "config.toml")
	body := fmt.Sprintf("api_base = %q\nlog_file = %q\n", srv.URL, filepath.Join(dir, "blockext.log"))
	require.NoError(t, os.WriteFile(cfg, []byte(body), 0o600))
	return cfg
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestList_PrintsSnapshot(t *testing.T) {
	cfg := setupServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/extensions", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"fixed":["exe","js"],"custom":["sh","py"],"count":2,"type":"full"}}`))
	})

	out, err := execute(t, "--config", cfg, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "[x] exe")
	assert.Contains(t, out, "[ ] bat")
	assert.Contains(t, out, "Custom extensions (2/200):")
	assert.Contains(t, out, "sh, py")
}

func TestAdd_ValidationFailsWithoutConfig(t *testing.T) {
	_, err := execute(t, "--config", filepath.Join(t.TempDir(), "missing", "dir", "config.toml"), "add", "mp3")
	require.Error(t, err)
	assert.Equal(t, "Extensions cannot contain digits.", err.Error())
}

func TestAdd_ServerMessageSurfaces(t *testing.T) {
	cfg := setupServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "sh", r.FormValue("customExtension"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"code":"EXT_005","message":"Extension already exists."}`))
	})

	_, err := execute(t, "--config", cfg, "add", "sh")
	require.Error(t, err)
	assert.Equal(t, "Extension already exists.", err.Error())
}

func TestAdd_Success(t *testing.T) {
	cfg := setupServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.WriteHeader(http.StatusCreated)
	})

	out, err := execute(t, "--config", cfg, "add", "sh")
	require.NoError(t, err)
	assert.Equal(t, "Custom extension saved.\n", out)
}

func TestRm_FallbackMessage(t *testing.T) {
	cfg := setupServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/extensions/custom/sh", r.URL.Path)
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := execute(t, "--config", cfg, "rm", "sh")
	require.Error(t, err)
	assert.Equal(t, "Failed to delete.", err.Error())
}

func TestPrintSnapshot_Empty(t *testing.T) {
	var out bytes.Buffer
	printSnapshot(&out, extension.NewCatalog([]string{"exe"}), extension.Snapshot{})
	assert.Equal(t, "Fixed extensions:\n  [ ] exe\nCustom extensions (0/200):\n  (none)\n", out.String())
}

func TestLogs_FiltersLevel(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("BLOCKEXT_API_BASE", "")
	t.Setenv("BLOCKEXT_PUSH_URL", "")
	t.Setenv("BLOCKEXT_LOG_LEVEL", "")

	logPath := filepath.Join(dir, "blockext.log")
	require.NoError(t, os.WriteFile(logPath, []byte(
		"time=1 level=INFO msg=\"session started\"\n"+
			"time=2 level=WARN msg=\"push connection lost\"\n"), 0o644))
	cfg := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(cfg, []byte(fmt.Sprintf("log_file = %q\n", logPath)), 0o600))

	out, err := execute(t, "--config", cfg, "logs", "--level", "warn")
	require.NoError(t, err)
	assert.Equal(t, "time=2 level=WARN msg=\"push connection lost\"\n", out)
}
