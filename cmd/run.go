package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/signai/analyze"
	"github.com/gnolang/signai/formatter"
	"github.com/gnolang/signai/internal/check"
)

var (
	runJSONOutput bool
	runOutPath    string
	runWatch      bool
	runInvariants bool
	runCacheDir   string
)

var runCmd = &cobra.Command{
	Use:   "run [paths...]",
	Short: "Analyse program documents and compare with concrete runs",
	Long: `Loads program documents (.yaml/.yml files or directories containing them),
runs the concrete interpreter and the sign analysis on each, and reports
whether the abstract result covers the concrete one.
Example) signai run --invariants examples/`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return errors.New("please provide file or directory paths")
		}

		config, err := loadConfig()
		if err != nil {
			return err
		}
		if runInvariants {
			config.RecordInvariants = true
		}
		engine, err := analyze.New(config, logger)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		var analyzer analyze.Analyzer = engine
		if runCacheDir != "" {
			cache, err := analyze.NewCache(runCacheDir, config)
			if err != nil {
				return err
			}
			analyzer = analyze.NewCachedAnalyzer(engine, cache)
		}

		results, err := analyze.ProcessPaths(ctx, logger, analyzer, args, cmd.ErrOrStderr())
		if perr := printResults(cmd.OutOrStdout(), results, runJSONOutput, runOutPath); perr != nil {
			return perr
		}
		if err != nil {
			return err
		}

		if runWatch {
			return watch(cmd, engine, config, args)
		}
		if hasUnsound(results) {
			return errUnsound
		}
		return nil
	},
}

func init() {
	runCmd.Flags().BoolVar(&runJSONOutput, "json", false, "Output results in JSON format")
	runCmd.Flags().StringVarP(&runOutPath, "output", "o", "", "Output path (when using JSON)")
	runCmd.Flags().BoolVar(&runWatch, "watch", false, "Re-run on file changes until interrupted")
	runCmd.Flags().BoolVar(&runInvariants, "invariants", false, "Print the environment recorded at each command")
	runCmd.Flags().StringVar(&runCacheDir, "cache", "", "Directory for cached results of unchanged files")
}

func printResults(w io.Writer, results []analyze.Result, isJSON bool, jsonOutput string) error {
	if !isJSON {
		fmt.Fprint(w, formatter.GenerateFormattedResults(results))
		fmt.Fprintln(w, formatter.Summary(results))
		return nil
	}
	if jsonOutput == "" {
		return formatter.WriteJSON(w, results)
	}
	f, err := os.Create(jsonOutput)
	if err != nil {
		return fmt.Errorf("error creating JSON output file: %w", err)
	}
	defer f.Close()
	return formatter.WriteJSON(f, results)
}

func hasUnsound(results []analyze.Result) bool {
	for _, r := range results {
		if r.Verdict == check.Unsound {
			return true
		}
	}
	return false
}

func watch(cmd *cobra.Command, engine *analyze.Engine, config analyze.Config, paths []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	// editors often write the same content more than once
	cache, err := analyze.NewCache("", config)
	if err != nil {
		return err
	}
	w, err := analyze.NewWatcher(analyze.NewCachedAnalyzer(engine, cache), logger)
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(paths); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "watching for changes, press Ctrl+C to stop")
	err = w.Run(ctx, func(r analyze.Result, err error) {
		if err != nil {
			logger.Error("Error analysing changed file", zap.Error(err))
			return
		}
		fmt.Fprint(out, formatter.GenerateFormattedResults([]analyze.Result{r}))
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
