package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/utagms/internal/analysis"
	"github.com/MikeSquared-Agency/utagms/internal/problem"
)

type analysisCommand struct {
	use   string
	kind  analysis.Kind
	short string
}

var analysisCommands = []analysisCommand{
	{"hasse", analysis.KindHasse, "Print the Hasse diagram of the necessary relation"},
	{"rank", analysis.KindRanking, "Print a ranking under one compatible value function"},
	{"representative", analysis.KindRepresentative, "Print the representative value function and its ranking"},
	{"functions", analysis.KindFunctions, "Print the marginal utility functions of the representative value function"},
}

func newAnalysisCommand(flags *globalFlags, a analysisCommand) *cobra.Command {
	var problemPath string
	var samples int

	cmd := &cobra.Command{
		Use:   a.use,
		Short: a.short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			if samples > 0 {
				cfg.Sampler.Enabled = true
				cfg.Sampler.Samples = samples
			}
			cfg.Logging.Format = "text"
			logger := newLogger(cfg.Logging, cmd.ErrOrStderr())

			p, err := problem.Load(problemPath)
			if err != nil {
				return err
			}
			engine, err := newEngine(cfg, nil, logger)
			if err != nil {
				return err
			}

			svc := analysis.New(engine, nil, nil, nil, logger)
			res, err := svc.Run(cmd.Context(), analysis.Request{Kind: a.kind, Problem: p})
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(res.Payload(), "", "  ")
			if err != nil {
				return fmt.Errorf("encode result: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.Flags().StringVarP(&problemPath, "problem", "p", "", "Problem file (.yaml, .yml or .json)")
	_ = cmd.MarkFlagRequired("problem")
	if a.kind == analysis.KindRepresentative {
		cmd.Flags().IntVar(&samples, "samples", 0, "Draw this many sampler points for rank acceptability")
	}
	return cmd
}
