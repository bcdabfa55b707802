// Package rawdiff implements the raw-text fallback differ (C8), used for
// request-replay pairs that got a response from both endpoints but whose
// HTTP outcome is not BOTH_SUCCESS. A document the model registry cannot
// deserialize is reported as a parse error and gets no raw-text diff.
package rawdiff

import (
	"bufio"
	"strings"

	"github.com/tayzer/compareengine/internal/pipeline"
)

const (
	maxDiffLines  = 100
	maxBodyBytes  = 5 * 1024
	lookaheadSpan = 5
)

// Diff compares two text bodies line by line with a bounded-lookahead local
// match: when lines at the current position differ, it looks ahead up to
// lookaheadSpan lines on both sides for the nearest resynchronization point,
// emitting ONLY_IN_A/ONLY_IN_B for the skipped lines, or MODIFIED when no
// resync is found within range (spec §4.8). Output is capped at
// maxDiffLines entries; each side's input is truncated to maxBodyBytes
// before comparison.
func Diff(bodyA, bodyB []byte) []pipeline.RawTextDiff {
	linesA := splitLines(truncate(bodyA))
	linesB := splitLines(truncate(bodyB))

	var out []pipeline.RawTextDiff
	i, j := 0, 0

	for i < len(linesA) && j < len(linesB) {
		if len(out) >= maxDiffLines {
			break
		}
		if linesA[i] == linesB[j] {
			i++
			j++
			continue
		}

		if di, dj, ok := findResync(linesA, linesB, i, j); ok {
			for k := i; k < di && len(out) < maxDiffLines; k++ {
				out = append(out, pipeline.RawTextDiff{Kind: "ONLY_IN_A", LineA: k + 1, TextA: linesA[k]})
			}
			for k := j; k < dj && len(out) < maxDiffLines; k++ {
				out = append(out, pipeline.RawTextDiff{Kind: "ONLY_IN_B", LineB: k + 1, TextB: linesB[k]})
			}
			i, j = di, dj
			continue
		}

		out = append(out, pipeline.RawTextDiff{Kind: "MODIFIED", LineA: i + 1, LineB: j + 1, TextA: linesA[i], TextB: linesB[j]})
		i++
		j++
	}

	for ; i < len(linesA) && len(out) < maxDiffLines; i++ {
		out = append(out, pipeline.RawTextDiff{Kind: "ONLY_IN_A", LineA: i + 1, TextA: linesA[i]})
	}
	for ; j < len(linesB) && len(out) < maxDiffLines; j++ {
		out = append(out, pipeline.RawTextDiff{Kind: "ONLY_IN_B", LineB: j + 1, TextB: linesB[j]})
	}

	return out
}

// DiffWithStatusMismatch behaves like Diff but, when the two HTTP statuses
// differ, prepends a STATUS_MISMATCH entry as the first diff (spec §4.8,
// "A status-code mismatch, if present, is emitted as the first diff entry").
func DiffWithStatusMismatch(statusA, statusB int, bodyA, bodyB []byte) []pipeline.RawTextDiff {
	diffs := Diff(bodyA, bodyB)
	if statusA == statusB {
		return diffs
	}
	head := pipeline.RawTextDiff{
		Kind:  "STATUS_MISMATCH",
		TextA: statusText(statusA),
		TextB: statusText(statusB),
	}
	out := make([]pipeline.RawTextDiff, 0, len(diffs)+1)
	out = append(out, head)
	out = append(out, diffs...)
	if len(out) > maxDiffLines {
		out = out[:maxDiffLines]
	}
	return out
}

func statusText(status int) string {
	if status == 0 {
		return "no response"
	}
	return strings.TrimSpace(strings.Join([]string{"HTTP", itoa(status)}, " "))
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// findResync looks up to lookaheadSpan lines ahead on both sides for the
// nearest pair of indices whose lines match, returning the first such pair
// found by increasing total offset. Returns ok=false if no match exists
// within range, in which case the caller emits a single MODIFIED line.
func findResync(a, b []string, i, j int) (int, int, bool) {
	maxA := i + lookaheadSpan
	if maxA > len(a) {
		maxA = len(a)
	}
	maxB := j + lookaheadSpan
	if maxB > len(b) {
		maxB = len(b)
	}

	for offset := 0; offset <= lookaheadSpan*2; offset++ {
		for da := 0; da <= offset; da++ {
			db := offset - da
			ai, bj := i+da, j+db
			if ai >= maxA || bj >= maxB {
				continue
			}
			if a[ai] == b[bj] {
				return ai, bj, true
			}
		}
	}
	return 0, 0, false
}

func truncate(body []byte) []byte {
	if len(body) > maxBodyBytes {
		return body[:maxBodyBytes]
	}
	return body
}

func splitLines(body []byte) []string {
	var lines []string
	scanner := bufio.NewScanner(strings.NewReader(string(body)))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines
}
