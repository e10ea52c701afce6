// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/boldfix/internal/stars"
)

// maxLineBytes bounds a single line read from stdin.
const maxLineBytes = 1 << 20

// --- score ---

var scoreCmd = &cobra.Command{
	Use:   "score [line...]",
	Short: "Print the bold-markup confidence of each line",
	Long: `Score prints a confidence from 0 to 100 for each line, followed by a tab
and the line itself. Lines come from the arguments or, with none, from stdin.
Use --below to print only lines scoring under a threshold.`,
	RunE: runScore,
}

func runScore(cmd *cobra.Command, args []string) error {
	below, _ := cmd.Flags().GetInt("below")
	a, err := stars.NewAnalyzer(cfg.Fix.CacheSize)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	return eachLine(cmd, args, func(line string) error {
		conf := a.Confidence(line)
		if below > 0 && conf >= below {
			return nil
		}
		_, err := fmt.Fprintf(out, "%3d\t%s\n", conf, line)
		return err
	})
}

// --- fix ---

var fixCmd = &cobra.Command{
	Use:   "fix [line...]",
	Short: "Print each line with its bold markup repaired",
	Long: `Fix rewrites each line when a reinterpretation of its stars scores
better than the original, and prints the result. Lines that already score
at or above the fix threshold are printed unchanged.`,
	RunE: runFix,
}

func runFix(cmd *cobra.Command, args []string) error {
	verbose, _ := cmd.Flags().GetBool("verbose")
	a, err := stars.NewAnalyzer(cfg.Fix.CacheSize)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	return eachLine(cmd, args, func(line string) error {
		fixed := a.Fix(line)
		if verbose && fixed != line {
			logger.Info("line rewritten",
				"before", a.Confidence(line), "after", a.Confidence(fixed), "original", line)
		}
		_, err := fmt.Fprintln(out, fixed)
		return err
	})
}

// --- dump ---

var dumpCmd = &cobra.Command{
	Use:   "dump [line...]",
	Short: "Print the star clusters found on each line",
	Long: `Dump prints every star cluster found on each line with its flags,
position and distances to its neighbours, followed by the line's confidence.
Lines without stars print nothing. With --json each line is written as one
JSON object holding its clusters and confidence.`,
	RunE: runDump,
}

// lineAnalysis is the JSON form of one dumped line.
type lineAnalysis struct {
	Line       string          `json:"line"`
	Confidence int             `json:"confidence"`
	Clusters   []stars.Cluster `json:"clusters"`
}

func runDump(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	a, err := stars.NewAnalyzer(cfg.Fix.CacheSize)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	enc := json.NewEncoder(out)
	return eachLine(cmd, args, func(line string) error {
		if !jsonOutput {
			return a.Dump(out, line)
		}
		clusters := a.Clusters(line)
		if len(clusters) == 0 {
			return nil
		}
		return enc.Encode(lineAnalysis{Line: line, Confidence: a.Confidence(line), Clusters: clusters})
	})
}

// eachLine calls fn for each argument, or for each line of stdin when
// there are no arguments.
func eachLine(cmd *cobra.Command, args []string, fn func(string) error) error {
	if len(args) > 0 {
		for _, line := range args {
			if err := fn(line); err != nil {
				return err
			}
		}
		return nil
	}
	return scanLines(cmd.InOrStdin(), fn)
}

func scanLines(r io.Reader, fn func(string) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for sc.Scan() {
		if err := fn(strings.TrimSuffix(sc.Text(), "\r")); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	return nil
}

func init() {
	scoreCmd.Flags().Int("below", 0, "only print lines scoring below this confidence")
	dumpCmd.Flags().Bool("json", false, "write each line's clusters as JSON")
	fixCmd.Flags().BoolP("verbose", "v", false, "log each rewritten line at info level")

	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(fixCmd)
	rootCmd.AddCommand(dumpCmd)
}
