package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	rulesFile string
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "sentinel",
	Short: "Sentinel - deterministic policy gate for agent plans",
	Long: `Sentinel evaluates candidate agent plans against declarative policy rules
and decides whether each plan is allowed, allowed with warnings, or blocked.

Rules are written in a small predicate DSL, fused through a strict priority
lattice (block beats warn beats allow), and every decision is recorded in a
redacted audit trail. Faults never soften an outcome: an unreadable rule
source degrades to a hard-coded fallback set and an evaluation fault blocks.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&rulesFile, "rules", "r", "rules.yaml", "rule file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// newLogger builds the process logger honoring the verbose flag.
func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
