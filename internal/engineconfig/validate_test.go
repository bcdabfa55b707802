package engineconfig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_DefaultConfigIsClean(t *testing.T) {
	t.Parallel()
	assert.Empty(t, Validate(DefaultEngineConfig()))
}

func TestValidate_NegativeConcurrencyIsError(t *testing.T) {
	t.Parallel()
	cfg := DefaultEngineConfig()
	cfg.MaxConcurrency = -1
	results := Validate(cfg)
	require.Len(t, results, 1)
	assert.Equal(t, "negative-concurrency", results[0].Code)
	assert.True(t, HasErrors(results))
}

func TestValidate_NonPositiveTimeoutIsWarningOnly(t *testing.T) {
	t.Parallel()
	cfg := DefaultEngineConfig()
	cfg.TimeoutMS = 0
	results := Validate(cfg)
	require.Len(t, results, 1)
	assert.Equal(t, "warning", results[0].Severity)
	assert.False(t, HasErrors(results))
}

func TestValidate_EmptyTempRootIsError(t *testing.T) {
	t.Parallel()
	cfg := DefaultEngineConfig()
	cfg.TempRoot = ""
	results := Validate(cfg)
	require.Len(t, results, 1)
	assert.Equal(t, "empty-temp-root", results[0].Code)
}
