package cmd

import (
	"github.com/spf13/cobra"

	"github.com/wangchingta/exam-site/internal/app"
	"github.com/wangchingta/exam-site/internal/selection"
	"github.com/wangchingta/exam-site/internal/store"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the quiz (default command)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// runApp loads the bank, opens storage and launches the TUI. A bank that
// cannot be loaded stops here, before the terminal is taken over.
func runApp(cmd *cobra.Command) error {
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

	policy, err := selection.ByName(e.cfg.Policy, selection.NewRand(e.cfg.Seed))
	if err != nil {
		return err
	}

	return app.Run(ctx, app.Options{
		Bank:   b,
		Repo:   store.NewStateRepo(e.kv),
		Policy: policy,
		Logger: e.log,
	})
}
