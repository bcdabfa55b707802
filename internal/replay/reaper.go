package replay

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/tayzer/compareengine/internal/engineconfig"
)

// Reaper periodically removes stale job directories under its root,
// cleaning up responses a cancelled job left on disk (spec §5, "these are
// cleaned by a periodic reaper that removes job directories older than a
// configured age").
type Reaper struct {
	Root   string
	MaxAge time.Duration

	logger *slog.Logger
}

// NewReaper returns a Reaper rooted at the default ComparisonToolJobs
// directory under the OS temp dir.
func NewReaper(maxAge time.Duration) *Reaper {
	return &Reaper{
		Root:   filepath.Join(os.TempDir(), "ComparisonToolJobs"),
		MaxAge: maxAge,
		logger: slog.Default().With("component", "reaper"),
	}
}

// NewReaperFromEngineConfig builds a Reaper from a resolved engine config,
// so an operator's temp_root and reaper_max_age_minutes settings (spec
// ambient config) govern where and how aggressively stale job directories
// are swept.
func NewReaperFromEngineConfig(ec *engineconfig.EngineConfig) *Reaper {
	return &Reaper{
		Root:   ec.TempRoot,
		MaxAge: time.Duration(ec.ReaperMaxAgeMinutes) * time.Minute,
		logger: slog.Default().With("component", "reaper"),
	}
}

// Sweep removes every job directory under r.Root last modified before
// r.MaxAge ago, returning the number removed. A missing root is not an
// error -- no job has run yet.
func (r *Reaper) Sweep() (int, error) {
	entries, err := os.ReadDir(r.Root)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading job root %s: %w", r.Root, err)
	}

	cutoff := time.Now().Add(-r.MaxAge)
	removed := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(r.Root, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			r.logger.Warn("failed to remove stale job directory", "path", path, "error", err)
			continue
		}
		removed++
	}
	return removed, nil
}

// Run sweeps on the given interval until ctx is cancelled.
func (r *Reaper) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := r.Sweep()
			if err != nil {
				r.logger.Warn("reaper sweep failed", "error", err)
				continue
			}
			if n > 0 {
				r.logger.Info("reaped stale job directories", "count", n)
			}
		}
	}
}
