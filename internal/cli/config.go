package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/movdb-bootstrap/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the resolved configuration",
	Long:  `Show the configuration after flags, environment, config file and defaults are merged. Secrets are masked.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := config.Display()
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
}
