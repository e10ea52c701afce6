// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package mdfix applies the bold-marker fixer to Markdown files line by
// line, keeping a backup of each rewritten file.
package mdfix

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/boldfix/internal/stars"
	"github.com/pdiddy/boldfix/pkg/types"
)

const (
	// backupSuffix is appended to the original file name on rewrite.
	backupSuffix = ".orig"
	// bom is stripped from the start of files on read.
	bom = "\ufeff"
)

// Options controls a fix run.
type Options struct {
	// ReportBelow reports lines whose confidence after fixing is lower.
	ReportBelow int
	// Backup renames the original file to <name>.orig before the first rewrite.
	Backup bool
	// DryRun computes reports without writing anything.
	DryRun bool
	// Workers bounds the number of files processed at once.
	Workers int
	// Skip, when set, is consulted before reading a file. Returning true
	// marks the file as skipped.
	Skip func(path string, modTime time.Time) bool
	// Logger receives per-file diagnostics. Nil uses slog.Default().
	Logger *slog.Logger
}

// OptionsFromConfig builds Options from the fix section of the config.
func OptionsFromConfig(cfg types.FixConfig) Options {
	return Options{
		ReportBelow: cfg.ReportBelow,
		Backup:      cfg.Backup,
		DryRun:      cfg.DryRun,
		Workers:     cfg.Workers,
	}
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// FixLines runs the fixer over every line of content and returns the new
// content with reports for changed and low-confidence lines. Line endings
// are preserved and fenced code blocks are left alone. The returned report
// carries Lines, Changed, MinConfidence and Reports; Path on each line
// report is set to path.
func FixLines(a *stars.Analyzer, path, content string, reportBelow int) (string, types.FileReport) {
	report := types.FileReport{Path: path, MinConfidence: 100}
	content = strings.TrimPrefix(content, bom)
	if content == "" {
		return content, report
	}

	var out strings.Builder
	out.Grow(len(content))
	inFence := false

	for i, raw := range strings.SplitAfter(content, "\n") {
		if raw == "" {
			continue
		}
		report.Lines++
		line, ending := splitEnding(raw)

		if isFence(line) {
			inFence = !inFence
		}
		if inFence || isFence(line) {
			out.WriteString(raw)
			continue
		}

		before := a.Confidence(line)
		fixed := a.Fix(line)
		after := before
		if fixed != line {
			after = a.Confidence(fixed)
			report.Changed++
		}
		report.MinConfidence = min(report.MinConfidence, after)

		if fixed != line || after < reportBelow {
			report.Reports = append(report.Reports, types.LineReport{
				Path:     path,
				Line:     i + 1,
				Original: line,
				Fixed:    fixed,
				Before:   before,
				After:    after,
			})
		}

		out.WriteString(fixed)
		out.WriteString(ending)
	}

	return out.String(), report
}

// splitEnding separates a line from its "\n" or "\r\n" terminator.
func splitEnding(raw string) (string, string) {
	if line, ok := strings.CutSuffix(raw, "\r\n"); ok {
		return line, "\r\n"
	}
	if line, ok := strings.CutSuffix(raw, "\n"); ok {
		return line, "\n"
	}
	return raw, ""
}

func isFence(line string) bool {
	trimmed := strings.TrimLeft(line, " ")
	return strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~")
}

// FixFile fixes a single Markdown file in place and prints its status to w.
// Unless DryRun is set, a changed file is rewritten, after moving the
// original to <path>.orig when Backup is set and no backup exists yet.
func FixFile(a *stars.Analyzer, path string, opts Options, w io.Writer) (types.FileReport, error) {
	log := opts.logger().With("path", path)

	info, err := os.Stat(path)
	if err != nil {
		return failed(w, path, fmt.Errorf("stat: %w", err))
	}

	if opts.Skip != nil && opts.Skip(path, info.ModTime()) {
		fmt.Fprintf(w, "skipped: %s (unchanged since last scan)\n", path)
		log.Debug("skipping unchanged file")
		return types.FileReport{Path: path, Status: types.FileSkipped, ModTime: info.ModTime()}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return failed(w, path, fmt.Errorf("reading: %w", err))
	}

	content, report := FixLines(a, path, string(data), opts.ReportBelow)
	report.ModTime = info.ModTime()
	log.Debug("analyzed file", "lines", report.Lines, "changed", report.Changed, "min_confidence", report.MinConfidence)

	if report.Changed == 0 {
		report.Status = types.FileClean
		fmt.Fprintf(w, "clean:   %s\n", path)
		return report, nil
	}

	report.Status = types.FileFixed
	if opts.DryRun {
		fmt.Fprintf(w, "would fix: %s (%d lines)\n", path, report.Changed)
		return report, nil
	}

	if err := writeFixed(path, data, content, info.Mode().Perm(), opts.Backup); err != nil {
		return failed(w, path, err)
	}
	if st, err := os.Stat(path); err == nil {
		report.ModTime = st.ModTime()
	}

	fmt.Fprintf(w, "fixed:   %s (%d lines)\n", path, report.Changed)
	return report, nil
}

// writeFixed saves original to <path>.orig when backup is set and no backup
// exists yet, then replaces path with content through a temporary file in
// the same directory. path is never left missing.
func writeFixed(path string, original []byte, content string, perm fs.FileMode, backup bool) error {
	if backup {
		bakPath := path + backupSuffix
		if _, err := os.Stat(bakPath); errors.Is(err, fs.ErrNotExist) {
			if err := os.WriteFile(bakPath, original, perm); err != nil {
				return fmt.Errorf("backing up to %s: %w", bakPath, err)
			}
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return fmt.Errorf("writing: %w", err)
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return fmt.Errorf("setting mode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

func failed(w io.Writer, path string, err error) (types.FileReport, error) {
	fmt.Fprintf(w, "failed:  %s (%v)\n", path, err)
	return types.FileReport{Path: path, Status: types.FileFailed, Err: err.Error()}, fmt.Errorf("%s: %w", path, err)
}
