package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/firebird-suite/heron/pkg/logger"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, ".", cfg.Project.Root)
	assert.Equal(t, "front-end", cfg.Project.Frontend)
	assert.True(t, cfg.Trace.FollowImports)
	assert.Equal(t, 3, cfg.Trace.MaxDepth)
	assert.True(t, cfg.Audit.IncludeServer)
	assert.True(t, cfg.Audit.IncludeFrontend)
	assert.Equal(t, logger.LevelInfo, cfg.LogLevel())
	assert.NoError(t, Validate(cfg))
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_WorkingDirectoryFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, `
project:
  frontend: web
trace:
  router: src/app/Router.tsx
  follow_imports: false
`)
	t.Chdir(dir)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "web", cfg.Project.Frontend)
	assert.Equal(t, ".", cfg.Project.Root, "unset keys keep defaults")
	assert.Equal(t, "src/app/Router.tsx", cfg.Trace.Router)
	assert.False(t, cfg.Trace.FollowImports)
	assert.Equal(t, 3, cfg.Trace.MaxDepth)
}

func TestLoad_ExplicitPath(t *testing.T) {
	path := writeFile(t, t.TempDir(), "custom.yaml", `
trace:
  menu_glob: "src/**/nav*.ts"
audit:
  include_server: false
log:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "src/**/nav*.ts", cfg.Trace.MenuGlob)
	assert.False(t, cfg.Audit.IncludeServer)
	assert.True(t, cfg.Audit.IncludeFrontend)
	assert.Equal(t, logger.LevelDebug, cfg.LogLevel())
}

func TestLoad_MissingExplicitPath(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HERON_TRACE_ROUTER", "src/Router.jsx")
	t.Setenv("HERON_TRACE_MAX_DEPTH", "5")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "src/Router.jsx", cfg.Trace.Router)
	assert.Equal(t, 5, cfg.Trace.MaxDepth)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".env", "HERON_PROJECT_FRONTEND=client\n")
	t.Chdir(dir)
	t.Cleanup(func() { os.Unsetenv("HERON_PROJECT_FRONTEND") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "client", cfg.Project.Frontend)
}

func TestLoad_InvalidValues(t *testing.T) {
	path := writeFile(t, t.TempDir(), FileName, `
trace:
  max_depth: 0
log:
  level: chatty
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "MaxDepth")
	assert.Contains(t, err.Error(), "Level")
}

func TestValidate_RequiredFields(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Project.Frontend = ""

	err := Validate(cfg)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "Frontend")
}

func TestSaveConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)

	cfg := DefaultConfig()
	cfg.Trace.Router = "src/routes/Router.tsx"
	cfg.Audit.IncludeServer = false
	require.NoError(t, SaveConfig(path, cfg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "router: src/routes/Router.tsx")
	assert.NotContains(t, string(data), "menu_glob", "empty optional keys are omitted")

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
