package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	config "task-market.com/task-market/internal/configs"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "task-market",
	Short:         "Task and bid marketplace service",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a TOML config file")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap loads the configuration and installs the process logger.
func bootstrap() (config.Config, *slog.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, nil, err
	}

	logger := config.NewLogger(os.Stdout, cfg)
	slog.SetDefault(logger)
	return cfg, logger, nil
}
