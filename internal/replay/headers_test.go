package replay

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeHeaders_PerRequestOverridesGlobal(t *testing.T) {
	t.Parallel()
	h := mergeHeaders(map[string]string{"X-Env": "prod", "X-Keep": "yes"}, map[string]string{"x-env": "staging"})
	assert.Equal(t, "staging", h.Get("X-Env"))
	assert.Equal(t, "yes", h.Get("X-Keep"))
}

func TestMergeHeaders_NilMapsAreSafe(t *testing.T) {
	t.Parallel()
	h := mergeHeaders(nil, nil)
	assert.Empty(t, h)
}

func TestSanitizeRelPath_NeutralizesTraversal(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "a/_/_/etc/passwd", sanitizeRelPath("a/../../etc/passwd"))
}

func TestSanitizeRelPath_StripsLeadingSeparators(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "requests/1.json", sanitizeRelPath("/requests/1.json"))
}

func TestSanitizeRelPath_EmptyFallsBackToUnderscore(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "_", sanitizeRelPath(""))
}
