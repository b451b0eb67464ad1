package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"

	"github.com/wangchingta/exam-site/internal/stats"
	"github.com/wangchingta/exam-site/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show per-question statistics",
	Long:  "Prints show count, wrong count and selection weight for every question,\nhighest weight first. Nothing is written to storage.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		b, err := e.loadBank(ctx)
		if err != nil {
			return err
		}

		repo := store.NewStateRepo(e.kv)
		restored := make(map[string]map[string]any, 2)
		for _, key := range []string{store.KeyShowCounts, store.KeyWrongCounts} {
			m, err := repo.LoadCounts(ctx, key)
			if err != nil && !errors.Is(err, store.ErrMalformedState) {
				return err
			}
			restored[key] = m
		}

		// No sink: reading statistics must not rewrite them.
		counters := stats.Init(b.Questions(), restored[store.KeyShowCounts], restored[store.KeyWrongCounts], nil)
		rows := stats.Report(b.Questions(), counters)

		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("ID", "SHOWN", "WRONG", "WEIGHT", "QUESTION")
		for _, r := range rows {
			t.Row(string(r.ID), strconv.Itoa(r.Show), strconv.Itoa(r.Wrong),
				strconv.FormatFloat(r.Weight, 'f', 2, 64), r.Prompt)
		}

		out := cmd.OutOrStdout()
		lipgloss.Fprintln(out, t.Render())
		shown, wrong := stats.Totals(rows)
		fmt.Fprintf(out, "%d questions, %d shown, %d wrong\n", len(rows), shown, wrong)
		return nil
	},
}
