// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/boldfix/internal/history"
	"github.com/pdiddy/boldfix/internal/mdfix"
	"github.com/pdiddy/boldfix/internal/stars"
	"github.com/pdiddy/boldfix/pkg/types"
)

var scanCmd = &cobra.Command{
	Use:   "scan <dir|file>...",
	Short: "Fix bold markup in Markdown files and record the results",
	Long: `Scan walks each directory for Markdown files (by extension, skipping
hidden directories) and fixes every line in place. The first rewrite of a
file keeps the original as <name>.orig.

Results are recorded in the history database so that later runs skip
files whose modification time has not changed, and so that report can list
the lines that still score low. Use --dry-run to see what would change
without writing or recording anything.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runScan,
}

func runScan(cmd *cobra.Command, args []string) error {
	fixCfg := scanConfig(cmd, cfg.Fix)
	if err := (types.Config{Fix: fixCfg, History: cfg.History, Logging: cfg.Logging}).Validate(); err != nil {
		return err
	}
	noHistory, _ := cmd.Flags().GetBool("no-history")
	force, _ := cmd.Flags().GetBool("force")

	var paths []string
	for _, root := range args {
		found, err := mdfix.FindFiles(root, fixCfg.Extensions)
		if err != nil {
			return err
		}
		paths = append(paths, found...)
	}
	if len(paths) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No Markdown files found.")
		return nil
	}

	a, err := stars.NewAnalyzer(fixCfg.CacheSize)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	opts := mdfix.OptionsFromConfig(fixCfg)
	opts.Logger = logger

	var store *history.Store
	if !noHistory {
		store, err = history.NewStore(cfg.History)
		if err != nil {
			return err
		}
		defer store.Close()

		if !force {
			opts.Skip = func(path string, modTime time.Time) bool {
				unchanged, err := store.Unchanged(ctx, path, modTime)
				if err != nil {
					logger.Warn("history lookup failed", "path", path, "error", err)
					return false
				}
				return unchanged
			}
		}
	}

	out := cmd.OutOrStdout()
	result, reports := mdfix.FixBatch(ctx, a, paths, opts, out)

	// A dry run writes nothing, so recording it would make the next real
	// run skip files that were never fixed.
	if store != nil && !fixCfg.DryRun {
		recordReports(ctx, store, reports)
	}

	printLowConfidence(out, reports, fixCfg.ReportBelow)

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("scan interrupted after %d of %d file(s): %w", result.Total(), len(paths), err)
	}
	if result.HasFailures() {
		return fmt.Errorf("%d file(s) failed", result.Failed)
	}
	return nil
}

// recordReports saves every report to the history. Files rewritten before
// an interrupt are still recorded, so the next scan does not fix them again.
func recordReports(ctx context.Context, store *history.Store, reports []types.FileReport) int {
	ctx = context.WithoutCancel(ctx)
	recorded := 0
	for _, r := range reports {
		if err := store.Record(ctx, r); err != nil {
			logger.Warn("recording history failed", "path", r.Path, "error", err)
			continue
		}
		recorded++
	}
	return recorded
}

// scanConfig applies the scan flags the user set on top of the loaded
// fix configuration.
func scanConfig(cmd *cobra.Command, base types.FixConfig) types.FixConfig {
	fc := base
	flags := cmd.Flags()
	if flags.Changed("dry-run") {
		fc.DryRun, _ = flags.GetBool("dry-run")
	}
	if flags.Changed("no-backup") {
		noBackup, _ := flags.GetBool("no-backup")
		fc.Backup = !noBackup
	}
	if flags.Changed("workers") {
		fc.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("report-below") {
		fc.ReportBelow, _ = flags.GetInt("report-below")
	}
	if flags.Changed("ext") {
		fc.Extensions, _ = flags.GetStringSlice("ext")
	}
	return fc
}

func printLowConfidence(w io.Writer, reports []types.FileReport, below int) {
	var low []types.LineReport
	for _, r := range reports {
		for _, lr := range r.Reports {
			if lr.After < below {
				low = append(low, lr)
			}
		}
	}
	if len(low) == 0 {
		return
	}

	fmt.Fprintf(w, "\n%d line(s) below confidence %d:\n", len(low), below)
	for _, lr := range low {
		fmt.Fprintf(w, "  %s:%d [%d] %s\n", lr.Path, lr.Line, lr.After, lr.Fixed)
	}
}

func init() {
	scanCmd.Flags().Bool("dry-run", false, "report what would change without writing files or history")
	scanCmd.Flags().Bool("no-backup", false, "do not keep a .orig copy of rewritten files")
	scanCmd.Flags().Int("workers", 0, "number of files processed concurrently (default from config)")
	scanCmd.Flags().Int("report-below", 0, "report lines scoring below this confidence after fixing (default from config)")
	scanCmd.Flags().StringSlice("ext", nil, "file extensions to scan (default .md)")
	scanCmd.Flags().Bool("no-history", false, "neither consult nor update the history database")
	scanCmd.Flags().Bool("force", false, "process files even if history shows them unchanged")

	rootCmd.AddCommand(scanCmd)
}
