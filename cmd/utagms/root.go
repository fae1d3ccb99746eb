package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/utagms/internal/config"
)

var version = "dev"

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	debug      bool
}

func newRootCommand() *cobra.Command {
	flags := &globalFlags{}
	cmd := &cobra.Command{
		Use:   "utagms",
		Short: "UTA-GMS robust ordinal regression",
		Long: `utagms computes the necessary preference relation of a multiple criteria
decision problem over every additive value function compatible with the
decision maker's judgments, and derives its Hasse diagram, a representative
value function and a ranking.

Run it as a one-shot analysis on a problem file or as an HTTP service.`,
		Version:      version,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "Path to a YAML config file")
	cmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "Enable debug logging")

	cmd.AddCommand(newServeCommand(flags))
	for _, a := range analysisCommands {
		cmd.AddCommand(newAnalysisCommand(flags, a))
	}
	return cmd
}

func execute() error {
	return newRootCommand().Execute()
}

// loadConfig reads the config and applies --debug.
func (f *globalFlags) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}
	if f.debug {
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}

func newLogger(cfg config.LoggingConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}
