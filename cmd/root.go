package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/wangchingta/exam-site/internal/bank"
	"github.com/wangchingta/exam-site/internal/config"
	"github.com/wangchingta/exam-site/internal/logging"
	"github.com/wangchingta/exam-site/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "examsite",
	Short: "Multiple-choice quiz runner",
	Long: "examsite serves questions from a question bank, remembers how often each one\n" +
		"was shown and answered wrong, and brings back the ones you struggle with.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	f := rootCmd.PersistentFlags()
	f.String("bank", "", "Question bank path or http(s) URL (overrides QUIZ_BANK)")
	f.String("storage", "", "Storage backend: sqlite, file, redis or memory (overrides QUIZ_STORAGE)")
	f.String("db", "", "SQLite database path (overrides QUIZ_DB)")
	f.String("state-dir", "", "Directory for the file backend (overrides QUIZ_STATE_DIR)")
	f.String("redis-url", "", "Redis URL for the redis backend (overrides QUIZ_REDIS_URL)")
	f.String("policy", "", "Selection policy: weighted or least-shown (overrides QUIZ_POLICY)")
	f.Int64("seed", 0, "Random seed, 0 for time-seeded (overrides QUIZ_SEED)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the environment and applies flags that were set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	f := cmd.Flags()
	for name, dst := range map[string]*string{
		"bank":      &cfg.Bank,
		"storage":   &cfg.Storage,
		"db":        &cfg.DB,
		"state-dir": &cfg.StateDir,
		"redis-url": &cfg.RedisURL,
		"policy":    &cfg.Policy,
	} {
		if f.Changed(name) {
			*dst, _ = f.GetString(name)
		}
	}
	if f.Changed("seed") {
		cfg.Seed, _ = f.GetInt64("seed")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// env bundles what every command that touches storage needs.
type env struct {
	cfg     *config.Config
	log     zerolog.Logger
	kv      store.KV
	closers []func() error
}

func openEnv(cmd *cobra.Command) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	log, closeLog, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}
	e := &env{cfg: cfg, log: log, closers: []func() error{closeLog}}

	kv, err := store.OpenKV(cmd.Context(), cfg.StoreOptions())
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("open %s storage: %w", cfg.Storage, err)
	}
	e.kv = kv
	e.closers = append(e.closers, kv.Close)

	log.Debug().Str("storage", cfg.Storage).Str("command", cmd.Name()).Msg("storage opened")
	return e, nil
}

// Close releases storage first, then the log.
func (e *env) Close() error {
	var errs []error
	for i := len(e.closers) - 1; i >= 0; i-- {
		errs = append(errs, e.closers[i]())
	}
	return errors.Join(errs...)
}

func (e *env) loadBank(ctx context.Context) (*bank.Bank, error) {
	b, err := bank.NewLoader(e.cfg.FetchTimeout).Load(ctx, e.cfg.Bank)
	if err != nil {
		e.log.Error().Err(err).Str("bank", e.cfg.Bank).Msg("question bank unavailable")
		return nil, err
	}
	e.log.Info().Str("bank", e.cfg.Bank).Int("questions", b.Len()).Msg("question bank loaded")
	return b, nil
}
