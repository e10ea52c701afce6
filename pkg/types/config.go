// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// FixConfig holds settings for fixing Markdown files.
type FixConfig struct {
	// Extensions lists the file extensions scanned (default [".md"]).
	Extensions []string `json:"extensions" yaml:"extensions" mapstructure:"extensions" validate:"min=1,dive,startswith=."`

	// ReportBelow reports lines whose confidence stays under this value
	// after fixing (default 90).
	ReportBelow int `json:"report_below" yaml:"report_below" mapstructure:"report_below" validate:"min=0,max=101"`

	// Workers is the number of files processed concurrently (default 4).
	Workers int `json:"workers" yaml:"workers" mapstructure:"workers" validate:"min=1,max=64"`

	// Backup keeps the original of each rewritten file as <name>.orig.
	Backup bool `json:"backup" yaml:"backup" mapstructure:"backup"`

	// DryRun reports what would change without writing files.
	DryRun bool `json:"dry_run" yaml:"dry_run" mapstructure:"dry_run"`

	// CacheSize is the number of line analyses each run remembers (default 1).
	CacheSize int `json:"cache_size" yaml:"cache_size" mapstructure:"cache_size" validate:"min=1"`
}

// HistoryConfig holds settings for the scan history database.
type HistoryConfig struct {
	// Dir contains the history database (default ".boldfix").
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir" validate:"required"`

	// MaxResults is the default maximum number of report rows (default 50).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results" validate:"min=1"`
}

// LoggingConfig controls diagnostic logging on stderr.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error (default "warn").
	Level string `json:"level" yaml:"level" mapstructure:"level" validate:"oneof=debug info warn error"`

	// JSON switches the log handler from text to JSON.
	JSON bool `json:"json" yaml:"json" mapstructure:"json"`
}

// Config groups all settings for the boldfix CLI.
type Config struct {
	Fix     FixConfig     `json:"fix" yaml:"fix" mapstructure:"fix"`
	History HistoryConfig `json:"history" yaml:"history" mapstructure:"history"`
	Logging LoggingConfig `json:"logging" yaml:"logging" mapstructure:"logging"`
}

// DefaultConfig returns the configuration used when no file or flag
// overrides a value.
func DefaultConfig() Config {
	return Config{
		Fix: FixConfig{
			Extensions:  []string{".md"},
			ReportBelow: 90,
			Workers:     4,
			Backup:      true,
			CacheSize:   1,
		},
		History: HistoryConfig{
			Dir:        ".boldfix",
			MaxResults: 50,
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}

// Validate checks the configuration against its field constraints.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
