// Package pipeline - this file defines structured error types used across
// the comparison engine so that callers (CLI framing, report writers -- both
// out of scope here) can recover a process exit code from any error
// returned by a job, matching the taxonomy in spec §7.
package pipeline

import "fmt"

// ExitCode represents the process exit code a CLI collaborator should return
// for a finished comparison run (spec §6).
type ExitCode int

const (
	// ExitEqual indicates every pair compared equal.
	ExitEqual ExitCode = 0

	// ExitOperationalFailure indicates an input-shape error or another
	// failure that prevented the job from producing a result at all.
	ExitOperationalFailure ExitCode = 1

	// ExitDifferencesFound indicates the job completed but at least one pair
	// differed.
	ExitDifferencesFound ExitCode = 2

	// ExitCancelled indicates the job was cancelled before completion.
	ExitCancelled ExitCode = 130
)

// JobError is a fatal, whole-job error: an input-shape problem (spec §7.1)
// such as a missing directory, an unresolved model name, or a malformed
// rule path. A JobError always moves the job to Phase Failed. It implements
// the error interface and supports unwrapping via errors.Is and errors.As.
type JobError struct {
	// Phase is the lifecycle phase in which the error occurred.
	Phase string

	// Message is a human-readable description of what went wrong.
	Message string

	// Err is the underlying error that caused this JobError, if any.
	Err error
}

// Error returns the formatted error message, including the phase and, if
// present, the underlying error.
func (e *JobError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Phase, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Phase, e.Message)
}

// Unwrap returns the underlying error, enabling errors.Is and errors.As to
// traverse the error chain.
func (e *JobError) Unwrap() error {
	return e.Err
}

// NewJobError creates a JobError for the given phase.
func NewJobError(phase, msg string, err error) *JobError {
	return &JobError{Phase: phase, Message: msg, Err: err}
}

// Per-pair error kinds (spec §7).
const (
	ErrorKindParse     = "parse"
	ErrorKindTransport = "transport"
	ErrorKindCompare   = "compare"
)

// PairError is a per-pair error (spec §7.2-§7.4): a parse failure, a
// transport failure, or a compare failure. A PairError never aborts the
// job; it is attached to the offending FilePairResult and the job
// continues with the remaining pairs.
type PairError struct {
	// Kind is one of ErrorKindParse, ErrorKindTransport, or ErrorKindCompare.
	Kind string

	// Message is a short, human-readable description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

func (e *PairError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *PairError) Unwrap() error {
	return e.Err
}

// NewPairError creates a PairError of the given kind.
func NewPairError(kind, msg string, err error) *PairError {
	return &PairError{Kind: kind, Message: msg, Err: err}
}

// InvariantViolation signals a fatal internal-consistency bug (spec §7.6),
// e.g. a file appearing in more than one Category5 bucket (I1). Callers
// should treat it as non-recoverable: abort the job, do not retry. It
// indicates a defect in the engine itself, not a bad input.
type InvariantViolation struct {
	Invariant string
	Detail    string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("invariant %s violated: %s", e.Invariant, e.Detail)
}

// NewInvariantViolation creates an InvariantViolation for the named
// invariant (e.g. "I1", "I3").
func NewInvariantViolation(invariant, detail string) *InvariantViolation {
	return &InvariantViolation{Invariant: invariant, Detail: detail}
}

// ExitCodeFor derives the process exit code a CLI collaborator should use
// for a completed, non-cancelled run, per spec §6.
func ExitCodeFor(result *MultiFolderComparisonResult, jobErr error) ExitCode {
	if jobErr != nil {
		return ExitOperationalFailure
	}
	if result == nil || result.AllEqual {
		return ExitEqual
	}
	return ExitDifferencesFound
}
