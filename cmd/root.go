package cmd

import (
	"log/slog"
	"os"

	"github.com/gohye/cardtrade/tradebot"
	"github.com/gohye/cardtrade/tradebot/logger"
	"github.com/spf13/cobra"
)

var (
	configPath string
	cfg        *tradebot.Config

	version = "dev"
	commit  = "unknown"
)

var rootCmd = &cobra.Command{
	Use:           "cardtrade",
	Short:         "Card trading Discord bot",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		loaded, err := tradebot.LoadConfig(configPath)
		if err != nil {
			logger.LogError("Failed to load configuration", err)
			return err
		}
		cfg = loaded
		slog.SetDefault(slog.New(logger.NewHandler(logger.Options{
			Level:     cfg.Log.Level,
			AddSource: cfg.Log.AddSource,
		})))
		logger.LogSystem("Configuration loaded", slog.String("path", configPath))
		return nil
	},
	RunE: runBot,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.toml", "path to config")
	rootCmd.Flags().Bool("sync-commands", false, "whether to sync commands to discord")
}

// Execute runs the command line. Without a subcommand it starts the bot.
func Execute(v, c string) error {
	version, commit = v, c
	slog.SetDefault(slog.New(logger.NewHandler(logger.Options{Level: slog.LevelInfo, Writer: os.Stderr})))
	if err := rootCmd.Execute(); err != nil {
		logger.LogError("Command failed", err)
		return err
	}
	return nil
}
