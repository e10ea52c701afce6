// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/boldfix/internal/history"
	"github.com/pdiddy/boldfix/pkg/types"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "List recorded lines that still score low",
	Long: `Report queries the history database written by scan and lists the
recorded lines, lowest confidence first. Filter by path substring, by a
maximum confidence, or to lines the fixer rewrote. Use --files for a
per-file summary instead.`,
	RunE: runReport,
}

func runReport(cmd *cobra.Command, args []string) error {
	store, err := history.NewStore(cfg.History)
	if err != nil {
		return err
	}
	defer store.Close()

	jsonOutput, _ := cmd.Flags().GetBool("json")
	out := cmd.OutOrStdout()

	if filesOnly, _ := cmd.Flags().GetBool("files"); filesOnly {
		files, err := store.Files(cmd.Context())
		if err != nil {
			return err
		}
		return formatFiles(out, files, jsonOutput)
	}

	lines, err := store.Query(cmd.Context(), queryOptsFromFlags(cmd))
	if err != nil {
		return err
	}
	return formatLines(out, lines, jsonOutput)
}

func queryOptsFromFlags(cmd *cobra.Command) history.QueryOptions {
	path, _ := cmd.Flags().GetString("path")
	changed, _ := cmd.Flags().GetBool("changed")
	limit, _ := cmd.Flags().GetInt("limit")
	opts := history.QueryOptions{
		Path:        path,
		ChangedOnly: changed,
		MaxResults:  limit,
	}
	if cmd.Flags().Changed("max-confidence") {
		maxConf, _ := cmd.Flags().GetInt("max-confidence")
		opts.MaxConfidence = &maxConf
	}
	return opts
}

func formatLines(w io.Writer, lines []types.LineReport, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(lines)
	}

	if len(lines) == 0 {
		fmt.Fprintln(w, "No results found.")
		return nil
	}

	fmt.Fprintf(w, "%-4s  %-4s  %-5s  %-30s  %-5s  %s\n", "Conf", "Was", "Fixed", "File", "Line", "Text")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for _, l := range lines {
		fixed := ""
		if l.Changed() {
			fixed = "yes"
		}
		fmt.Fprintf(w, "%-4d  %-4d  %-5s  %-30s  %-5d  %s\n",
			l.After, l.Before, fixed, truncate(l.Path, 30), l.Line, truncate(l.Fixed, 50))
	}

	fmt.Fprintf(w, "\n%d results\n", len(lines))
	return nil
}

func formatFiles(w io.Writer, files []history.FileSummary, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(files)
	}

	if len(files) == 0 {
		fmt.Fprintln(w, "No files recorded.")
		return nil
	}

	fmt.Fprintf(w, "%-4s  %-7s  %-7s  %-40s  %s\n", "Min", "Status", "Changed", "File", "Scanned")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for _, f := range files {
		fmt.Fprintf(w, "%-4d  %-7s  %-7d  %-40s  %s\n",
			f.MinConfidence, f.Status, f.Changed, truncate(f.Path, 40), f.ScannedAt)
	}

	fmt.Fprintf(w, "\n%d files\n", len(files))
	return nil
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// --- export subcommand ---

var reportExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the history to YAML or JSON",
	Long: `Export writes the recorded files and the line reports matching the
filter flags to <history dir>/export.yaml or export.json, or to --out.`,
	RunE: runReportExport,
}

func runReportExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	outPath, _ := cmd.Flags().GetString("out")

	store, err := history.NewStore(cfg.History)
	if err != nil {
		return err
	}
	defer store.Close()

	opts := queryOptsFromFlags(cmd)
	var path string
	switch format {
	case "yaml":
		path, err = store.ExportYAML(cmd.Context(), opts, outPath)
	case "json":
		path, err = store.ExportJSON(cmd.Context(), opts, outPath)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
	return nil
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("path", "", "only lines in files whose path contains this text")
	cmd.Flags().Int("max-confidence", 0, "only lines scoring at most this confidence after fixing")
	cmd.Flags().Bool("changed", false, "only lines the fixer rewrote")
	cmd.Flags().Int("limit", 0, "maximum number of lines (default from config)")
}

func init() {
	addFilterFlags(reportCmd)
	reportCmd.Flags().Bool("json", false, "output results as JSON")
	reportCmd.Flags().Bool("files", false, "list recorded files instead of lines")

	addFilterFlags(reportExportCmd)
	reportExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	reportExportCmd.Flags().String("out", "", "output file (default: <history dir>/export.<format>)")

	reportCmd.AddCommand(reportExportCmd)
	rootCmd.AddCommand(reportCmd)
}
