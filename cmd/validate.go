package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wangchingta/exam-site/internal/bank"
	"github.com/wangchingta/exam-site/internal/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate [bank]",
	Short: "Check a question bank",
	Long:  "Loads a question bank (path or URL, JSON or YAML) and reports problems.\nWith no argument the configured bank is checked.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		location := cfg.Bank
		if p, _ := cmd.Flags().GetString("bank"); cmd.Flags().Changed("bank") {
			location = p
		}
		if len(args) == 1 {
			location = args[0]
		}

		b, err := bank.NewLoader(cfg.FetchTimeout).Load(cmd.Context(), location)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d questions OK\n", location, b.Len())
		return nil
	},
}
