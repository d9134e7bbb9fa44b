package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gnolang/signai/analyze"
	"github.com/gnolang/signai/formatter"
	"github.com/gnolang/signai/internal/analysis/absint"
	"github.com/gnolang/signai/internal/check"
	"github.com/gnolang/signai/internal/concrete"
	"github.com/gnolang/signai/internal/program"
)

var (
	checkPrograms int
	checkSeed     int64
	checkDepth    int
	checkVars     int
	checkDumpDir  string
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Cross-check the analysis against concrete runs of random programs",
	Long: `Generates random programs and initial memories, runs both semantics and
reports every program whose concrete result escapes the abstract one.
Example) signai check --programs 1000 --seed 7`,
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := loadConfig()
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		if flags.Changed("programs") {
			config.Check.Programs = checkPrograms
		}
		if flags.Changed("seed") {
			config.Check.Seed = checkSeed
		}
		if flags.Changed("depth") {
			config.Check.Depth = checkDepth
		}
		if flags.Changed("vars") {
			config.Check.Vars = checkVars
		}
		if err := config.Validate(); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		checkConfig := check.Config{
			Concrete: concrete.Config{MaxSteps: config.MaxSteps},
			Abstract: absint.Config{MaxIterations: config.MaxIterations, Logger: logger},
		}
		bar := analyze.NewProgressBar(cmd.ErrOrStderr(), config.Check.Programs, "checking")
		report, err := check.Campaign(ctx, checkConfig, config.GenConfig(), config.Check.Programs, func(check.Case) {
			_ = bar.Add(1)
		})
		_ = bar.Finish()
		fmt.Fprintln(cmd.ErrOrStderr())

		out := cmd.OutOrStdout()
		fmt.Fprint(out, formatter.GenerateFormattedCases(report.UnsoundCases()))
		if verbose {
			fmt.Fprint(out, formatter.GenerateFormattedCases(report.InconclusiveCases()))
		}
		fmt.Fprintln(out, report.Summary())
		if err != nil {
			return err
		}

		if checkDumpDir != "" && report.Unsound > 0 {
			progs := make([]*program.Program, 0, report.Unsound)
			for _, c := range report.UnsoundCases() {
				progs = append(progs, program.FromCommand(fmt.Sprintf("case-%d", c.Index), c.Program, c.Initial))
			}
			if err := dumpPrograms(cmd, checkDumpDir, progs); err != nil {
				return err
			}
		}
		if report.Unsound > 0 {
			return errUnsound
		}
		return nil
	},
}

func init() {
	checkCmd.Flags().IntVar(&checkPrograms, "programs", 0, "Number of random programs (overrides the configuration)")
	checkCmd.Flags().Int64Var(&checkSeed, "seed", 0, "Generator seed (overrides the configuration)")
	checkCmd.Flags().IntVar(&checkDepth, "depth", 0, "Maximum nesting depth (overrides the configuration)")
	checkCmd.Flags().IntVar(&checkVars, "vars", 0, "Number of variables (overrides the configuration)")
	checkCmd.Flags().StringVar(&checkDumpDir, "dump", "", "Write unsound programs as documents into this directory")
}
