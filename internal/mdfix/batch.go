// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mdfix

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/boldfix/internal/stars"
	"github.com/pdiddy/boldfix/pkg/types"
)

// BatchResult holds the outcome of a batch fix run.
type BatchResult struct {
	Fixed   int
	Clean   int
	Skipped int
	Failed  int
}

// Total returns the total number of files processed.
func (r BatchResult) Total() int {
	return r.Fixed + r.Clean + r.Skipped + r.Failed
}

// HasFailures reports whether any file failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// FixBatch fixes paths using up to opts.Workers goroutines, printing
// per-file status to w followed by a summary. Reports are returned in the
// order of paths. A cancelled context stops files that have not started;
// they are not counted.
func FixBatch(ctx context.Context, a *stars.Analyzer, paths []string, opts Options, w io.Writer) (BatchResult, []types.FileReport) {
	reports := make([]types.FileReport, len(paths))
	started := make([]bool, len(paths))
	out := &lockedWriter{w: w}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, opts.Workers))

	for i, path := range paths {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			started[i] = true
			// Per-file failures are reported, not propagated, so one bad
			// file does not cancel the rest of the batch.
			reports[i], _ = FixFile(a, path, opts, out)
			return nil
		})
	}
	_ = g.Wait()

	var result BatchResult
	done := reports[:0:0]
	for i, r := range reports {
		if !started[i] {
			continue
		}
		done = append(done, r)
		switch r.Status {
		case types.FileFixed:
			result.Fixed++
		case types.FileClean:
			result.Clean++
		case types.FileSkipped:
			result.Skipped++
		case types.FileFailed:
			result.Failed++
		}
	}

	fmt.Fprintf(w, "\nBatch summary: %d fixed, %d clean, %d skipped, %d failed (total: %d)\n",
		result.Fixed, result.Clean, result.Skipped, result.Failed, result.Total())
	return result, done
}

// lockedWriter serializes status lines written by concurrent workers.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

// FindFiles walks root and returns the files whose extension is in exts,
// sorted by path. Hidden directories below root are not entered. A root
// that is itself a matching file is returned as the only result.
func FindFiles(root string, exts []string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if slices.Contains(exts, filepath.Ext(path)) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}
	slices.Sort(paths)
	return paths, nil
}
