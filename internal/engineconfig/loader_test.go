package engineconfig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromString_DecodesKnownFields(t *testing.T) {
	t.Parallel()
	cfg, err := LoadFromString(`
max_concurrency = 4
timeout_ms = 5000
temp_root = "/tmp/jobs"
`, "inline")
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.MaxConcurrency)
	assert.EqualValues(t, 5000, cfg.TimeoutMS)
	assert.Equal(t, "/tmp/jobs", cfg.TempRoot)
}

func TestLoadFromString_UnknownKeysDoNotError(t *testing.T) {
	t.Parallel()
	cfg, err := LoadFromString(`future_field = "x"`, "inline")
	require.NoError(t, err)
	assert.NotNil(t, cfg)
}

func TestLoadFromString_InvalidTOMLErrors(t *testing.T) {
	t.Parallel()
	_, err := LoadFromString(`max_concurrency = [`, "inline")
	assert.Error(t, err)
}

func TestLoadFromFile_MissingFileErrors(t *testing.T) {
	t.Parallel()
	_, err := LoadFromFile("/nonexistent/engine.toml")
	assert.Error(t, err)
}
