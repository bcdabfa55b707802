// Package engineconfig resolves the engine-level operational configuration:
// worker pool sizing, HTTP timeouts, progress throttling, and the temp-file
// and reaper settings a Job and Reaper need before any per-run rules
// document is even read. Resolution follows the same layered precedence the
// teacher repo used for its own settings: compiled defaults, then a TOML
// file, then environment variables, then explicit caller overrides.
package engineconfig

// EngineConfig holds the operational defaults shared by every job run in
// this process. It is distinct from the per-run pipeline.RulesDocument,
// which arrives with each comparison request instead of being resolved once
// at process startup.
type EngineConfig struct {
	// MaxConcurrency bounds the worker pool used for request replay and
	// folder-compare fan-out when a job does not specify its own.
	MaxConcurrency int `toml:"max_concurrency"`

	// TimeoutMS is the default per-request HTTP client timeout, in
	// milliseconds, when a job does not specify its own.
	TimeoutMS int64 `toml:"timeout_ms"`

	// ProgressThrottleMS holds a progress throttle interval in milliseconds.
	// progress.Publisher does not read it; its throttle is a fixed 250ms.
	ProgressThrottleMS int64 `toml:"progress_throttle_ms"`

	// TempRoot is the directory under which per-job request/response bodies
	// are persisted during request replay.
	TempRoot string `toml:"temp_root"`

	// ReaperMaxAgeMinutes is how long a job's persisted directory survives
	// before the reaper removes it.
	ReaperMaxAgeMinutes int `toml:"reaper_max_age_minutes"`
}
