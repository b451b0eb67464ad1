package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wangchingta/exam-site/internal/store"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget the saved position",
	Long:  "Deletes the saved session position so the next run starts fresh.\nWith --counters, also deletes the show and wrong counts.",
	RunE: func(cmd *cobra.Command, args []string) error {
		counters, _ := cmd.Flags().GetBool("counters")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		if err := store.NewStateRepo(e.kv).Reset(cmd.Context(), counters); err != nil {
			return err
		}
		e.log.Info().Bool("counters", counters).Msg("state reset")

		if counters {
			fmt.Fprintln(cmd.OutOrStdout(), "Saved position and statistics deleted.")
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "Saved position deleted.")
		}
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("counters", false, "Also delete show and wrong counts")
}
