package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gnolang/signai/analyze"
	"github.com/gnolang/signai/internal/program"
)

var (
	examplesJSONOutput bool
	examplesInvariants bool
	examplesDumpDir    string
)

var examplesCmd = &cobra.Command{
	Use:   "examples",
	Short: "Analyse the built-in scenario programs",
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := loadConfig()
		if err != nil {
			return err
		}
		if examplesInvariants {
			config.RecordInvariants = true
		}
		engine, err := analyze.New(config, logger)
		if err != nil {
			return err
		}

		examples := program.Examples()
		if examplesDumpDir != "" {
			return dumpPrograms(cmd, examplesDumpDir, examples)
		}

		results := make([]analyze.Result, 0, len(examples))
		for _, p := range examples {
			r, err := engine.Analyze(p)
			if err != nil {
				return err
			}
			results = append(results, r)
		}
		if err := printResults(cmd.OutOrStdout(), results, examplesJSONOutput, ""); err != nil {
			return err
		}
		if hasUnsound(results) {
			return errUnsound
		}
		return nil
	},
}

func init() {
	examplesCmd.Flags().BoolVar(&examplesJSONOutput, "json", false, "Output results in JSON format")
	examplesCmd.Flags().BoolVar(&examplesInvariants, "invariants", false, "Print the environment recorded at each command")
	examplesCmd.Flags().StringVar(&examplesDumpDir, "dump", "", "Write the examples as program documents into this directory instead of running them")
}

func dumpPrograms(cmd *cobra.Command, dir string, progs []*program.Program) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, p := range progs {
		d, err := program.Marshal(p)
		if err != nil {
			return err
		}
		path := filepath.Join(dir, p.Name+".yaml")
		if err := os.WriteFile(path, d, 0o644); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	}
	return nil
}
