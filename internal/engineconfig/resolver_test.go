package engineconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_DefaultsOnly(t *testing.T) {
	resolved, err := Resolve(ResolveOptions{})
	require.NoError(t, err)
	assert.Equal(t, SourceDefault, resolved.Sources["timeout_ms"])
	assert.EqualValues(t, 30000, resolved.Config.TimeoutMS)
}

func TestResolve_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "engine.toml")
	require.NoError(t, os.WriteFile(path, []byte("max_concurrency = 7\n"), 0o644))

	resolved, err := Resolve(ResolveOptions{FilePath: path})
	require.NoError(t, err)
	assert.Equal(t, 7, resolved.Config.MaxConcurrency)
	assert.Equal(t, SourceFile, resolved.Sources["max_concurrency"])
}

func TestResolve_MissingFileIsSilentlyIgnored(t *testing.T) {
	resolved, err := Resolve(ResolveOptions{FilePath: filepath.Join(t.TempDir(), "absent.toml")})
	require.NoError(t, err)
	assert.Equal(t, SourceDefault, resolved.Sources["max_concurrency"])
}

func TestResolve_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "engine.toml")
	require.NoError(t, os.WriteFile(path, []byte("max_concurrency = 7\n"), 0o644))
	t.Setenv(EnvMaxConcurrency, "3")

	resolved, err := Resolve(ResolveOptions{FilePath: path})
	require.NoError(t, err)
	assert.Equal(t, 3, resolved.Config.MaxConcurrency)
	assert.Equal(t, SourceEnv, resolved.Sources["max_concurrency"])
}

func TestResolve_OverridesWinOverEverything(t *testing.T) {
	t.Setenv(EnvMaxConcurrency, "3")

	resolved, err := Resolve(ResolveOptions{Overrides: map[string]any{"max_concurrency": 9}})
	require.NoError(t, err)
	assert.Equal(t, 9, resolved.Config.MaxConcurrency)
	assert.Equal(t, SourceOverride, resolved.Sources["max_concurrency"])
}
