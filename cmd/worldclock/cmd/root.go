package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"worldclock/internal/env"
	"worldclock/internal/logging"
)

// Version is stamped by main.
var Version = "dev"

var (
	configFile string
	envFiles   []string

	cfg    env.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:           "worldclock",
	Short:         "worldclock shows the local time, date and a photo of any place.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		env.LoadEnv(envFiles...)

		var err error
		cfg, err = env.Load(configFile)
		if err != nil {
			return err
		}
		logger = logging.New(os.Stderr, cfg, Version)
		slog.SetDefault(logger)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "optional config file layered under WORLDCLOCK_* variables")
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, ".env files to load (default .env)")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
