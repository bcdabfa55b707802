// Package discovery walks the two on-disk directories a folder-compare job
// pairs files from. It exists only to serve that one caller
// (internal/replay.discoverPairs): there is no gitignore-style ignore
// chain, pattern filtering, or git-tracked-only mode here, because nothing
// in this engine ever configures one. The only exclusion rule is the
// payload convention itself: files ending in ".headers.json" or whose
// base name starts with "_" are sidecars, not comparison payloads.
package discovery

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

// DiscoveredFile is one file surfaced by Walker.Walk, relative to the
// configured root. Content is loaded eagerly so that folder-compare pairing
// can deserialize it without a second filesystem pass.
type DiscoveredFile struct {
	Path    string
	AbsPath string
	Size    int64
	Content []byte
	Error   error
}

// Result is the outcome of one Walk call: the discovered files sorted by
// path, plus a count of skipped entries: non-payload sidecars and entries
// whose file info could not be read.
type Result struct {
	Files        []DiscoveredFile
	TotalSkipped int
}

// WalkerConfig holds configuration for one directory walk.
type WalkerConfig struct {
	// Root is the target directory to walk.
	Root string

	// Concurrency is the maximum number of parallel file-reading workers.
	// Defaults to runtime.NumCPU() if <= 0.
	Concurrency int
}

// Walker discovers payload files under a directory tree and reads their
// contents in parallel using bounded concurrency via errgroup.
type Walker struct {
	logger *slog.Logger
}

// NewWalker creates a new Walker instance.
func NewWalker() *Walker {
	return &Walker{
		logger: slog.Default().With("component", "walker"),
	}
}

// IsPayloadSidecar reports whether relPath is a non-payload sidecar file
// rather than a comparison payload: a ".headers.json" file, or a file whose
// base name starts with "_".
func IsPayloadSidecar(relPath string) bool {
	base := filepath.Base(relPath)
	return strings.HasSuffix(base, ".headers.json") || strings.HasPrefix(base, "_")
}

// Walk discovers payload files in the directory tree rooted at cfg.Root and
// reads their contents in parallel. It returns a Result with the discovered
// files sorted alphabetically by path.
//
// The walk proceeds in two phases:
//  1. Walking: filepath.WalkDir traverses the tree, skipping ".git" and any
//     non-payload sidecar file, and collects the remaining files.
//  2. Content loading: errgroup workers read file contents in parallel with
//     bounded concurrency. Per-file errors are captured in
//     DiscoveredFile.Error rather than aborting the entire walk.
//
// Context cancellation stops both phases promptly.
func (w *Walker) Walk(ctx context.Context, cfg WalkerConfig) (*Result, error) {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = runtime.NumCPU()
	}

	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("resolving root path %s: %w", cfg.Root, err)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root %s is not a directory", root)
	}

	var files []*DiscoveredFile
	totalSkipped := 0

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if walkErr != nil {
			w.logger.Debug("walk error", "path", path, "error", walkErr)
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		relPath = filepath.ToSlash(relPath)

		if relPath == "." {
			return nil
		}

		if d.IsDir() {
			if d.Name() == ".git" {
				return fs.SkipDir
			}
			return nil
		}

		if IsPayloadSidecar(relPath) {
			w.logger.Debug("skipping non-payload sidecar", "path", relPath)
			totalSkipped++
			return nil
		}

		fileInfo, err := d.Info()
		if err != nil {
			w.logger.Debug("stat error", "path", relPath, "error", err)
			totalSkipped++
			return nil
		}

		files = append(files, &DiscoveredFile{
			Path:    relPath,
			AbsPath: path,
			Size:    fileInfo.Size(),
		})
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("walking directory %s: %w", root, walkErr)
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Concurrency)

	for _, fd := range files {
		fd := fd
		g.Go(func() error {
			content, err := readFileBytes(gctx, fd.AbsPath)
			if err != nil {
				fd.Error = fmt.Errorf("reading %s: %w", fd.Path, err)
				w.logger.Debug("file read error", "path", fd.Path, "error", err)
				return nil
			}
			fd.Content = content
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("reading file contents: %w", err)
	}

	resultFiles := make([]DiscoveredFile, len(files))
	for i, fd := range files {
		resultFiles[i] = *fd
	}

	w.logger.Info("discovery complete",
		"files", len(resultFiles),
		"skipped", totalSkipped,
	)

	return &Result{Files: resultFiles, TotalSkipped: totalSkipped}, nil
}

// readFileBytes reads the entire content of a file, respecting context
// cancellation.
func readFileBytes(ctx context.Context, path string) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}
