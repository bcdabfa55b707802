package replay

import "github.com/tayzer/compareengine/internal/pipeline"

// classifyOutcome derives the HTTP-layer verdict for one executed request
// pair (spec §4.7, "Outcome classification"). Any transport failure on
// either side wins over status comparison.
func classifyOutcome(result pipeline.ExecutionResult) pipeline.PairOutcome {
	if !result.OK {
		return pipeline.OutcomeOneOrBothFailed
	}
	aOK := isSuccessStatus(result.StatusA)
	bOK := isSuccessStatus(result.StatusB)
	switch {
	case aOK && bOK:
		return pipeline.OutcomeBothSuccess
	case !aOK && !bOK:
		return pipeline.OutcomeBothNonSuccess
	default:
		return pipeline.OutcomeStatusCodeMismatch
	}
}

func isSuccessStatus(status int) bool {
	return status >= 200 && status < 300
}
