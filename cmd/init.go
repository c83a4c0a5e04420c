package cmd

import (
	"github.com/spf13/cobra"

	"github.com/adnanhb/flowrag/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize flowrag configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure flowrag and generates a .flowrag.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
