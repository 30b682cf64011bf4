package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/plexdedupe/plexdedupe/pkg/config"
	"github.com/plexdedupe/plexdedupe/pkg/dedupe"
	"github.com/plexdedupe/plexdedupe/pkg/logging"
)

// GlobalFlags holds global flag values
type GlobalFlags struct {
	ConfigFile string
	Verbose    bool
	Quiet      bool
}

var globalFlags GlobalFlags

// AddGlobalFlags adds global flags to the root command
func AddGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(
		&globalFlags.ConfigFile,
		"config",
		"",
		"config file (default is $HOME/.config/plexdedupe/config.yaml)",
	)
	cmd.PersistentFlags().BoolVarP(
		&globalFlags.Verbose,
		"verbose",
		"v",
		false,
		"verbose output",
	)
	cmd.PersistentFlags().BoolVarP(
		&globalFlags.Quiet,
		"quiet",
		"q",
		false,
		"suppress non-error output",
	)
}

// loadConfig loads the configured or default config file.
func loadConfig() (*config.Config, error) {
	if globalFlags.ConfigFile != "" {
		return config.LoadFromFile(globalFlags.ConfigFile)
	}
	return config.LoadDefault()
}

// parseFilters parses repeatable --filter column=substring flags into a
// filter state.
func parseFilters(raw []string) (dedupe.FilterState, error) {
	state := make(dedupe.FilterState)
	for _, f := range raw {
		name, query, ok := strings.Cut(f, "=")
		if !ok {
			return nil, fmt.Errorf("invalid filter %q (expected column=substring)", f)
		}
		col, valid := dedupe.ValidColumn(name)
		if !valid {
			return nil, fmt.Errorf("unknown filter column %q (use: %s)", name, columnList())
		}
		state[col] = query
	}
	return state, nil
}

func columnList() string {
	names := make([]string, len(dedupe.Columns))
	for i, c := range dedupe.Columns {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

// newLogger builds the logger selected by the logging flags. No log file
// means the null logger.
func newLogger(file, format, level string) (logging.Logger, error) {
	if file == "" {
		return logging.NewNullLogger(), nil
	}

	f := logging.FormatText
	if format == "json" {
		f = logging.FormatJSON
	}

	return logging.NewFileLogger(logging.FileLoggerConfig{
		Path:   file,
		Format: f,
		Level:  logging.ParseLevel(level),
	})
}
