// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/viper"

	"github.com/pdiddy/boldfix/pkg/types"
)

// setDefaults registers every configuration key with viper so that
// environment variables can override keys absent from the config file.
func setDefaults(v *viper.Viper) {
	d := types.DefaultConfig()
	v.SetDefault("fix.extensions", d.Fix.Extensions)
	v.SetDefault("fix.report_below", d.Fix.ReportBelow)
	v.SetDefault("fix.workers", d.Fix.Workers)
	v.SetDefault("fix.backup", d.Fix.Backup)
	v.SetDefault("fix.dry_run", d.Fix.DryRun)
	v.SetDefault("fix.cache_size", d.Fix.CacheSize)
	v.SetDefault("history.dir", d.History.Dir)
	v.SetDefault("history.max_results", d.History.MaxResults)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.json", d.Logging.JSON)
}

// loadConfig unmarshals and validates the configuration held by v.
func loadConfig(v *viper.Viper) (types.Config, error) {
	setDefaults(v)

	var c types.Config
	if err := v.Unmarshal(&c); err != nil {
		return types.Config{}, fmt.Errorf("parsing configuration: %w", err)
	}
	c.Logging.Level = strings.ToLower(c.Logging.Level)
	if err := c.Validate(); err != nil {
		return types.Config{}, err
	}
	return c, nil
}

// newLogger builds the diagnostic logger: text by default, JSON on request.
func newLogger(lc types.LoggingConfig, w io.Writer) *slog.Logger {
	var level slog.Level
	switch lc.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelWarn
	}

	opts := &slog.HandlerOptions{Level: level}
	if lc.JSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
