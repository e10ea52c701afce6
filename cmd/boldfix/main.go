// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the boldfix CLI.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/boldfix/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// cfg holds the validated configuration loaded before each command runs.
var cfg = types.DefaultConfig()

// logger is the diagnostic logger configured from cfg.Logging.
var logger = slog.Default()

// rootCmd is the base command for the boldfix CLI.
var rootCmd = &cobra.Command{
	Use:   "boldfix",
	Short: "Check and repair asterisk bold markup in Markdown",
	Long: `boldfix scores how likely the asterisk bold markup on a line of Markdown
is well formed and repairs the common mistakes found in translated notes:
single stars used for bold, stars split by a space, and stray stars with no
partner.

score, fix and dump work on lines given as arguments or read from stdin.
scan walks a directory of Markdown files, fixes them in place (keeping a
.orig backup) and records the results; report reviews what scan recorded.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}
		cfg = loaded
		logger = newLogger(cfg.Logging, os.Stderr)
		slog.SetDefault(logger)
		logger.Debug("configuration loaded", "file", viper.ConfigFileUsed(), "history_dir", cfg.History.Dir)
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./boldfix.yaml or ~/.config/boldfix/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("history-dir", "", "directory holding the scan history database")

	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("history.dir", rootCmd.PersistentFlags().Lookup("history-dir"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("boldfix")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "boldfix"))
		}
	}

	viper.SetEnvPrefix("BOLDFIX")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
