package replay

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T, dir, name, content string) {
	t.Helper()
	full := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func TestDiscoverPairs_ExcludesHeadersSidecarAndUnderscorePrefixed(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()

	writeFixture(t, dirA, "order.json", `{"Id":1}`)
	writeFixture(t, dirA, "order.headers.json", `{"headers":{"X-Test":"1"}}`)
	writeFixture(t, dirA, "_draft.json", `{"wip":true}`)
	writeFixture(t, dirB, "order.json", `{"Id":2}`)
	writeFixture(t, dirB, "order.headers.json", `{"headers":{"X-Test":"2"}}`)
	writeFixture(t, dirB, "_draft.json", `{"wip":false}`)

	pairs, err := discoverPairs(context.Background(), dirA, dirB, false)
	require.NoError(t, err)

	require.Len(t, pairs, 1)
	assert.Equal(t, "order.json", pairs[0].relPath)
}

func TestDiscoverPairs_OneSidedWithoutIncludeAllIsSkipped(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()

	writeFixture(t, dirA, "only_a.json", `{}`)
	writeFixture(t, dirA, "both.json", `{}`)
	writeFixture(t, dirB, "both.json", `{}`)

	pairs, err := discoverPairs(context.Background(), dirA, dirB, false)
	require.NoError(t, err)

	require.Len(t, pairs, 1)
	assert.Equal(t, "both.json", pairs[0].relPath)
}

func TestDiscoverPairs_OneSidedWithIncludeAllSurfacesPair(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()

	writeFixture(t, dirA, "only_a.json", `{}`)
	writeFixture(t, dirB, "only_b.json", `{}`)

	pairs, err := discoverPairs(context.Background(), dirA, dirB, true)
	require.NoError(t, err)

	require.Len(t, pairs, 2)
	assert.Equal(t, "only_a.json", pairs[0].relPath)
	assert.NotNil(t, pairs[0].fileA)
	assert.Nil(t, pairs[0].fileB)
	assert.Equal(t, "only_b.json", pairs[1].relPath)
	assert.Nil(t, pairs[1].fileA)
	assert.NotNil(t, pairs[1].fileB)
}
