// Package cli wires the resolution engine into a small command-line surface: apply a change request to a file, validate a proposed patch, or apply a patch
// directly. Commands read layered configuration (defaults, config file, environment) and log to stderr so stdout stays pipeable.
package cli

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "docmender",
	Short:         "Resolve fuzzy change requests against documentation files",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "path to config file (default: ~/.docmender/config.json)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log progress to stderr")

	rootCmd.AddCommand(applyCmd, validateCmd, patchCmd, versionCmd)
}

// Execute runs the CLI and returns any command error (already printed by cobra).
func Execute() error {
	return rootCmd.Execute()
}

func commandSetup(cmd *cobra.Command) (Config, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = DefaultConfigPath()
	}
	cfg, err := loadConfig(path)
	if err != nil {
		return Config{}, nil, err
	}

	var logger *slog.Logger
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return cfg, logger, nil
}

// readInput reads a file argument, with "-" meaning stdin.
func readInput(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
