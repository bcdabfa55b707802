package engineconfig

// Validate checks cfg for values that would make a Job or Reaper behave
// unpredictably. It never mutates cfg; callers decide whether to treat
// "warning" results as fatal.
func Validate(cfg *EngineConfig) []LintResult {
	var results []LintResult

	if cfg.MaxConcurrency < 0 {
		results = append(results, LintResult{
			Code: "negative-concurrency",
			ValidationError: ValidationError{
				Severity: "error",
				Field:    "max_concurrency",
				Message:  "max_concurrency must not be negative",
				Suggest:  "set max_concurrency to 0 to use the runtime's CPU count, or a positive value",
			},
		})
	}

	if cfg.TimeoutMS <= 0 {
		results = append(results, LintResult{
			Code: "non-positive-timeout",
			ValidationError: ValidationError{
				Severity: "warning",
				Field:    "timeout_ms",
				Message:  "timeout_ms is zero or negative, the 30s built-in default will be used instead",
			},
		})
	}

	if cfg.ProgressThrottleMS < 0 {
		results = append(results, LintResult{
			Code: "negative-throttle",
			ValidationError: ValidationError{
				Severity: "error",
				Field:    "progress_throttle_ms",
				Message:  "progress_throttle_ms must not be negative",
			},
		})
	}

	if cfg.TempRoot == "" {
		results = append(results, LintResult{
			Code: "empty-temp-root",
			ValidationError: ValidationError{
				Severity: "error",
				Field:    "temp_root",
				Message:  "temp_root must not be empty",
				Suggest:  "use engineconfig.DefaultEngineConfig().TempRoot",
			},
		})
	}

	if cfg.ReaperMaxAgeMinutes < 0 {
		results = append(results, LintResult{
			Code: "negative-reaper-age",
			ValidationError: ValidationError{
				Severity: "error",
				Field:    "reaper_max_age_minutes",
				Message:  "reaper_max_age_minutes must not be negative",
			},
		})
	}

	return results
}

// HasErrors reports whether results contains any "error" severity entry.
func HasErrors(results []LintResult) bool {
	for _, r := range results {
		if r.Severity == "error" {
			return true
		}
	}
	return false
}
