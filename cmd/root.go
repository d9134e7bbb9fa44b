package cmd

import (
	"errors"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/signai/analyze"
)

const defaultTimeout = 5 * time.Minute

// errUnsound is returned when a run finds a program the analysis does not
// cover. The results themselves have already been printed.
var errUnsound = errors.New("unsound analysis results")

var (
	cfgFile string
	timeout time.Duration
	verbose bool

	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:              "signai [paths...]",
	Short:            "signai - sign analysis by abstract interpretation for a toy imperative language",
	Args:             cobra.ArbitraryArgs,
	SilenceUsage:     true,
	SilenceErrors:    true,
	TraverseChildren: true, // Prioritize subcommands
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if verbose {
			logger, err = zap.NewDevelopment()
		} else {
			logger, err = zap.NewProduction()
		}
		return err
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// no subcommand
		if len(args) == 0 {
			return cmd.Help()
		}
		// Format: signai [path1 path2 ...] => behaves like the run subcommand
		runCmd.SetContext(cmd.Context())
		return runCmd.RunE(runCmd, args)
	},
}

// Execute runs the command line and returns the error that should make the
// process exit with a non-zero status.
func Execute() error {
	err := rootCmd.Execute()
	_ = logger.Sync()
	return err
}

func loadConfig() (analyze.Config, error) {
	return analyze.LoadConfig(cfgFile)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", analyze.DefaultConfigPath, "Path to the configuration file")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", defaultTimeout, "Set a timeout for the analysis")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(examplesCmd)
	rootCmd.AddCommand(checkCmd)
}
