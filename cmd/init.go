package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gnolang/signai/analyze"
)

var initForce bool

// initCmd: signai init
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := initConfigurationFile(cfgFile, initForce); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Configuration file created: %s\n", cfgFile)
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing configuration file")
}

func initConfigurationFile(configurationPath string, force bool) error {
	if configurationPath == "" {
		configurationPath = analyze.DefaultConfigPath
	}
	if _, err := os.Stat(configurationPath); err == nil && !force {
		return fmt.Errorf("%s already exists, use --force to overwrite it", configurationPath)
	}
	return analyze.WriteConfig(configurationPath, analyze.DefaultConfig())
}
