// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/boldfix/internal/history"
	"github.com/pdiddy/boldfix/pkg/types"
)

func TestLoadConfigDefaults(t *testing.T) {
	c, err := loadConfig(viper.New())
	require.NoError(t, err)
	assert.Equal(t, types.DefaultConfig(), c)
}

func TestLoadConfigFromFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "boldfix.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
fix:
  workers: 2
  extensions: [".md", ".markdown"]
logging:
  level: DEBUG
`), 0o644))
	t.Setenv("BOLDFIX_HISTORY_DIR", "/tmp/boldfix-history")

	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("BOLDFIX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	require.NoError(t, v.ReadInConfig())

	c, err := loadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Fix.Workers)
	assert.Equal(t, []string{".md", ".markdown"}, c.Fix.Extensions)
	assert.Equal(t, 90, c.Fix.ReportBelow)
	assert.Equal(t, "debug", c.Logging.Level)
	assert.Equal(t, "/tmp/boldfix-history", c.History.Dir)
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	v := viper.New()
	v.Set("fix.workers", 0)
	_, err := loadConfig(v)
	assert.ErrorContains(t, err, "invalid configuration")
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(types.LoggingConfig{Level: "info", JSON: true}, &buf)
	l.Debug("hidden")
	l.Info("shown", "path", "a.md")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	buf.Reset()
	l = newLogger(types.LoggingConfig{Level: "warn"}, &buf)
	assert.False(t, l.Enabled(t.Context(), slog.LevelInfo))
	l.Warn("careful")
	assert.Contains(t, buf.String(), "msg=careful")
}

func TestScanLines(t *testing.T) {
	var got []string
	err := scanLines(strings.NewReader("one\r\ntwo\n\nthree"), func(s string) error {
		got = append(got, s)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two", "", "three"}, got)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "नमस्...", truncate("नमस्ते दुनिया", 7))
}

func TestScanConfig(t *testing.T) {
	cmd := &cobra.Command{Use: "scan"}
	cmd.Flags().Bool("dry-run", false, "")
	cmd.Flags().Bool("no-backup", false, "")
	cmd.Flags().Int("workers", 0, "")
	cmd.Flags().Int("report-below", 0, "")
	cmd.Flags().StringSlice("ext", nil, "")
	require.NoError(t, cmd.ParseFlags([]string{"--no-backup", "--workers", "8", "--ext", ".md,.txt"}))

	fc := scanConfig(cmd, types.DefaultConfig().Fix)
	assert.False(t, fc.Backup)
	assert.False(t, fc.DryRun)
	assert.Equal(t, 8, fc.Workers)
	assert.Equal(t, 90, fc.ReportBelow, "unset flags keep the configured value")
	assert.Equal(t, []string{".md", ".txt"}, fc.Extensions)
}

func TestPrintLowConfidence(t *testing.T) {
	reports := []types.FileReport{
		{Path: "a.md", Reports: []types.LineReport{
			{Path: "a.md", Line: 2, Fixed: "This is **bold** text", After: 100},
			{Path: "a.md", Line: 5, Fixed: "a ** b ** c d", After: 80},
		}},
		{Path: "b.md"},
	}

	var buf bytes.Buffer
	printLowConfidence(&buf, reports, 90)
	assert.Equal(t, "\n1 line(s) below confidence 90:\n  a.md:5 [80] a ** b ** c d\n", buf.String())

	buf.Reset()
	printLowConfidence(&buf, reports, 50)
	assert.Empty(t, buf.String())
}

// resetFlags restores every flag of cmd and its subcommands to its default
// so that rootCmd can be executed more than once in a test.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if !f.Changed {
			return
		}
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

// execute runs the CLI with args and returns what it printed.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	t.Cleanup(func() { resetFlags(rootCmd) })

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestScanHistoryLifecycle(t *testing.T) {
	dir := t.TempDir()
	notes := filepath.Join(dir, "notes")
	historyDir := filepath.Join(dir, "history")
	require.NoError(t, os.MkdirAll(notes, 0o755))
	note := filepath.Join(notes, "01.md")
	require.NoError(t, os.WriteFile(note, []byte("# Title\nThis is *bold* text\n"), 0o644))

	out, err := execute(t, "scan", "--history-dir", historyDir, "--dry-run", notes)
	require.NoError(t, err)
	assert.Contains(t, out, "would fix: "+note)

	out, err = execute(t, "report", "--history-dir", historyDir, "--files")
	require.NoError(t, err)
	assert.Contains(t, out, "No files recorded.", "dry runs are not recorded")

	data, err := os.ReadFile(note)
	require.NoError(t, err)
	assert.Equal(t, "# Title\nThis is *bold* text\n", string(data), "dry run leaves the file alone")

	out, err = execute(t, "scan", "--history-dir", historyDir, notes)
	require.NoError(t, err)
	assert.Contains(t, out, "fixed:   "+note)

	out, err = execute(t, "report", "--history-dir", historyDir, "--files")
	require.NoError(t, err)
	assert.Contains(t, out, note)
	assert.Contains(t, out, "1 files")

	out, err = execute(t, "report", "--history-dir", historyDir, "--changed", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"fixed": "This is **bold** text"`)

	out, err = execute(t, "scan", "--history-dir", historyDir, notes)
	require.NoError(t, err)
	assert.Contains(t, out, "skipped: "+note)

	out, err = execute(t, "scan", "--history-dir", historyDir, "--force", notes)
	require.NoError(t, err)
	assert.Contains(t, out, "clean:   "+note)
	assert.NotContains(t, out, "skipped:")

	exportPath := filepath.Join(dir, "history.json")
	out, err = execute(t, "report", "export", "--history-dir", historyDir, "--format", "json", "--out", exportPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported to "+exportPath)
	assert.FileExists(t, exportPath)
}

func TestReportMaxConfidenceZero(t *testing.T) {
	dir := t.TempDir()
	historyDir := filepath.Join(dir, "history")
	note := filepath.Join(dir, "plain.md")
	require.NoError(t, os.WriteFile(note, []byte("This is fine.\n"), 0o644))

	// Reporting below 101 records every line, including ones scoring 100.
	_, err := execute(t, "scan", "--history-dir", historyDir, "--report-below", "101", note)
	require.NoError(t, err)

	out, err := execute(t, "report", "--history-dir", historyDir)
	require.NoError(t, err)
	assert.Contains(t, out, "This is fine.")

	out, err = execute(t, "report", "--history-dir", historyDir, "--max-confidence", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "No results found.")
}

func TestRecordReportsAfterCancel(t *testing.T) {
	store, err := history.NewStore(types.HistoryConfig{Dir: t.TempDir(), MaxResults: 10})
	require.NoError(t, err)
	defer store.Close()

	modTime := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	reports := []types.FileReport{
		{Path: "a.md", Status: types.FileFixed, ModTime: modTime, Lines: 1, Changed: 1, MinConfidence: 100},
		{Path: "b.md", Status: types.FileSkipped, ModTime: modTime},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Equal(t, 2, recordReports(ctx, store, reports))

	unchanged, err := store.Unchanged(context.Background(), "a.md", modTime)
	require.NoError(t, err)
	assert.True(t, unchanged, "files fixed before an interrupt are recorded")
}

func TestDumpJSON(t *testing.T) {
	out, err := execute(t, "dump", "--json", "This is *bold* text", "no stars here")
	require.NoError(t, err)

	var got lineAnalysis
	require.NoError(t, json.Unmarshal([]byte(out), &got), "one object for the starred line only")
	assert.Equal(t, "This is *bold* text", got.Line)
	assert.Equal(t, 80, got.Confidence)
	require.Len(t, got.Clusters, 2)
	assert.True(t, got.Clusters[0].Lefty)
	assert.Equal(t, 7, got.Clusters[0].Start)
}
