package engineconfig

import (
	"fmt"
	"log/slog"
	"os"

	koanf "github.com/knadh/koanf/v2"
	"github.com/knadh/koanf/providers/confmap"
)

// ResolveOptions configures the multi-source engine configuration
// resolution.
type ResolveOptions struct {
	// FilePath is a TOML engine config file to load. A missing file is
	// silently skipped; an unparsable one is an error.
	FilePath string

	// Overrides holds explicit caller values (highest precedence). Keys are
	// flat EngineConfig field names: "max_concurrency", "timeout_ms", etc.
	Overrides map[string]any
}

// ResolvedEngineConfig is the result of multi-source resolution.
type ResolvedEngineConfig struct {
	Config  *EngineConfig
	Sources SourceMap
}

// Resolve runs the 4-layer engine configuration resolution pipeline:
//  1. Built-in defaults
//  2. TOML config file (opts.FilePath)
//  3. Environment variables (COMPARE_* prefix)
//  4. Explicit caller overrides (opts.Overrides)
//
// A missing config file is silently ignored; an invalid one returns an
// error.
func Resolve(opts ResolveOptions) (*ResolvedEngineConfig, error) {
	k := koanf.New(".")
	sources := make(SourceMap)

	if err := loadLayer(k, flatten(DefaultEngineConfig()), sources, SourceDefault); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if opts.FilePath != "" {
		if _, err := os.Stat(opts.FilePath); err == nil {
			cfg, err := LoadFromFile(opts.FilePath)
			if err != nil {
				return nil, err
			}
			slog.Debug("loaded engine config file", "path", opts.FilePath)
			// A key the file leaves unset decodes as its zero value; drop it
			// so the defaults layer keeps its value and source.
			fileLayer := flatten(cfg)
			for key, v := range fileLayer {
				if v == 0 || v == int64(0) || v == "" {
					delete(fileLayer, key)
				}
			}
			if err := loadLayer(k, fileLayer, sources, SourceFile); err != nil {
				return nil, fmt.Errorf("merging file layer: %w", err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("stat %s: %w", opts.FilePath, err)
		}
	}

	if envMap := buildEnvMap(); len(envMap) > 0 {
		if err := loadLayer(k, envMap, sources, SourceEnv); err != nil {
			return nil, fmt.Errorf("loading env vars: %w", err)
		}
	}

	if len(opts.Overrides) > 0 {
		if err := loadLayer(k, opts.Overrides, sources, SourceOverride); err != nil {
			return nil, fmt.Errorf("loading overrides: %w", err)
		}
	}

	final := unflatten(k)
	return &ResolvedEngineConfig{Config: final, Sources: sources}, nil
}

func loadLayer(k *koanf.Koanf, m map[string]any, sources SourceMap, src Source) error {
	if err := k.Load(confmap.Provider(m, "."), nil); err != nil {
		return fmt.Errorf("merge layer %s: %w", src.String(), err)
	}
	for key := range m {
		sources[key] = src
	}
	return nil
}

func flatten(c *EngineConfig) map[string]any {
	return map[string]any{
		"max_concurrency":        c.MaxConcurrency,
		"timeout_ms":             c.TimeoutMS,
		"progress_throttle_ms":   c.ProgressThrottleMS,
		"temp_root":              c.TempRoot,
		"reaper_max_age_minutes": c.ReaperMaxAgeMinutes,
	}
}

func unflatten(k *koanf.Koanf) *EngineConfig {
	return &EngineConfig{
		MaxConcurrency:      k.Int("max_concurrency"),
		TimeoutMS:           k.Int64("timeout_ms"),
		ProgressThrottleMS:  k.Int64("progress_throttle_ms"),
		TempRoot:            k.String("temp_root"),
		ReaperMaxAgeMinutes: k.Int("reaper_max_age_minutes"),
	}
}
