package engineconfig

import (
	"os"
	"path/filepath"
	"runtime"
)

// DefaultEngineConfig returns a new EngineConfig populated with the built-in
// defaults. Callers receive a fresh copy each time; mutating the returned
// value does not affect subsequent calls.
func DefaultEngineConfig() *EngineConfig {
	return &EngineConfig{
		MaxConcurrency:      runtime.NumCPU(),
		TimeoutMS:           30000,
		ProgressThrottleMS:  250,
		TempRoot:            filepath.Join(os.TempDir(), "ComparisonToolJobs"),
		ReaperMaxAgeMinutes: 60,
	}
}
