package pipeline

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobError_ErrorWithUnderlying(t *testing.T) {
	t.Parallel()

	err := NewJobError("Parsing", "bad rule path", errors.New("unbalanced bracket"))
	assert.Equal(t, "Parsing: bad rule path: unbalanced bracket", err.Error())
}

func TestJobError_ErrorWithoutUnderlying(t *testing.T) {
	t.Parallel()

	err := NewJobError("Parsing", "directory missing", nil)
	assert.Equal(t, "Parsing: directory missing", err.Error())
}

func TestJobError_Unwrap(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("root cause")
	err := NewJobError("Initializing", "setup failed", sentinel)
	assert.True(t, errors.Is(err, sentinel))
	assert.Equal(t, sentinel, err.Unwrap())
}

func TestJobError_ErrorsAs(t *testing.T) {
	t.Parallel()

	jobErr := NewJobError("Executing", "endpoint unreachable", errors.New("dial tcp"))
	wrapped := fmt.Errorf("run failed: %w", jobErr)

	var target *JobError
	require.True(t, errors.As(wrapped, &target))
	assert.Equal(t, "Executing", target.Phase)
}

func TestPairError_KindsFormatted(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *PairError
		want string
	}{
		{"parse", NewPairError(ErrorKindParse, "malformed xml", errors.New("EOF")), "[parse] malformed xml: EOF"},
		{"transport", NewPairError(ErrorKindTransport, "timeout", nil), "[transport] timeout"},
		{"compare", NewPairError(ErrorKindCompare, "schema mismatch", errors.New("nil tree")), "[compare] schema mismatch: nil tree"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestPairError_Unwrap(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("underlying")
	err := NewPairError(ErrorKindParse, "failed", sentinel)
	assert.True(t, errors.Is(err, sentinel))
}

func TestInvariantViolation_Error(t *testing.T) {
	t.Parallel()

	err := NewInvariantViolation("I1", "file appears in two Category5 buckets")
	assert.Equal(t, "invariant I1 violated: file appears in two Category5 buckets", err.Error())
}

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		result *MultiFolderComparisonResult
		jobErr error
		want   ExitCode
	}{
		{"job failure wins", &MultiFolderComparisonResult{AllEqual: true}, errors.New("boom"), ExitOperationalFailure},
		{"nil result no error", nil, nil, ExitEqual},
		{"all equal", &MultiFolderComparisonResult{AllEqual: true}, nil, ExitEqual},
		{"differences found", &MultiFolderComparisonResult{AllEqual: false}, nil, ExitDifferencesFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ExitCodeFor(tt.result, tt.jobErr))
		})
	}
}

func TestExitCodeValues(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ExitCode(0), ExitEqual)
	assert.Equal(t, ExitCode(1), ExitOperationalFailure)
	assert.Equal(t, ExitCode(2), ExitDifferencesFound)
	assert.Equal(t, ExitCode(130), ExitCancelled)
}
