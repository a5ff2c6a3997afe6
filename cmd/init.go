package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/navinject/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize navinject configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure navinject for your site and generates a .navinject.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		if _, err := os.Stat(cfgFile); err == nil && !force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", cfgFile)
		}

		yes, _ := cmd.Flags().GetBool("yes")
		if yes {
			if err := config.DefaultConfig().Save(cfgFile); err != nil {
				return err
			}
			fmt.Printf("Configuration saved to %s\n", cfgFile)
			return nil
		}

		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	initCmd.Flags().BoolP("yes", "y", false, "write the default configuration without prompting")
	initCmd.Flags().Bool("force", false, "overwrite an existing config file")
	rootCmd.AddCommand(initCmd)
}
