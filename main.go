package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const banner = `
  __ _ _ __ ___ _ __   __ _
 / _' | '__/ _ \ '_ \ / _' |
| (_| | | |  __/ | | | (_| |
 \__,_|_|  \___|_| |_|\__,_|

Rule-Driven Arena Intelligence`

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "arena",
	Short: "Arena agent decision core",
	Long:  `arena picks an objective each tick, composes the moves to chase it, and steers around whatever is in the way.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// A missing .env is normal outside local development.
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load .env: %w", err)
		}
		applyEnv(cmd, "log-level", "ARENA_LOG_LEVEL")
		setupLogging(logLevel)
		return nil
	},
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(decideCmd)
}

func setupLogging(level string) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		lvl = slog.LevelInfo
	}
	// Logs go to stderr so decide and schema keep stdout clean.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: lvl,
	}))
	slog.SetDefault(logger)
}

// applyEnv fills a flag from the environment unless it was set on the
// command line.
func applyEnv(cmd *cobra.Command, name, env string) {
	f := cmd.Flags().Lookup(name)
	if f == nil || f.Changed {
		return
	}
	if v, ok := os.LookupEnv(env); ok {
		if err := cmd.Flags().Set(name, v); err != nil {
			slog.Warn("ignoring invalid environment value", "env", env, "error", err)
		}
	}
}
