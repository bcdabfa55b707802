package rawdiff

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiff_IdenticalBodiesProduceNoDiffs(t *testing.T) {
	t.Parallel()
	body := []byte("line1\nline2\nline3\n")
	assert.Empty(t, Diff(body, body))
}

func TestDiff_SingleChangedLineResyncsAsOnlyInAThenOnlyInB(t *testing.T) {
	t.Parallel()
	a := []byte("line1\nline2\nline3\n")
	b := []byte("line1\nCHANGED\nline3\n")
	diffs := Diff(a, b)
	require.Len(t, diffs, 2)
	assert.Equal(t, "ONLY_IN_A", diffs[0].Kind)
	assert.Equal(t, 2, diffs[0].LineA)
	assert.Equal(t, "ONLY_IN_B", diffs[1].Kind)
	assert.Equal(t, 2, diffs[1].LineB)
}

func TestDiff_InsertedLineInB(t *testing.T) {
	t.Parallel()
	a := []byte("line1\nline2\n")
	b := []byte("line1\nEXTRA\nline2\n")
	diffs := Diff(a, b)
	require.Len(t, diffs, 1)
	assert.Equal(t, "ONLY_IN_B", diffs[0].Kind)
	assert.Equal(t, "EXTRA", diffs[0].TextB)
}

func TestDiff_RemovedLineInA(t *testing.T) {
	t.Parallel()
	a := []byte("line1\nEXTRA\nline2\n")
	b := []byte("line1\nline2\n")
	diffs := Diff(a, b)
	require.Len(t, diffs, 1)
	assert.Equal(t, "ONLY_IN_A", diffs[0].Kind)
}

func TestDiff_CapsAtMaxDiffLines(t *testing.T) {
	t.Parallel()
	var aLines, bLines []string
	for i := 0; i < 200; i++ {
		aLines = append(aLines, "a")
		bLines = append(bLines, "b")
	}
	diffs := Diff([]byte(strings.Join(aLines, "\n")), []byte(strings.Join(bLines, "\n")))
	assert.LessOrEqual(t, len(diffs), maxDiffLines)
}

func TestDiffWithStatusMismatch_PrependsStatusEntry(t *testing.T) {
	t.Parallel()
	diffs := DiffWithStatusMismatch(200, 500, []byte("ok\n"), []byte("error\n"))
	require.NotEmpty(t, diffs)
	assert.Equal(t, "STATUS_MISMATCH", diffs[0].Kind)
}

func TestDiffWithStatusMismatch_NoEntryWhenStatusesMatch(t *testing.T) {
	t.Parallel()
	diffs := DiffWithStatusMismatch(200, 200, []byte("a\n"), []byte("b\n"))
	for _, d := range diffs {
		assert.NotEqual(t, "STATUS_MISMATCH", d.Kind)
	}
}

func TestDiff_TruncatesOversizedBody(t *testing.T) {
	t.Parallel()
	big := strings.Repeat("x", maxBodyBytes*2)
	diffs := Diff([]byte(big), []byte(big))
	assert.Empty(t, diffs)
}
