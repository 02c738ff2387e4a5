package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/handler"
	"github.com/gohye/cardtrade/internal/domain/trading"
	"github.com/gohye/cardtrade/tradebot"
	"github.com/gohye/cardtrade/tradebot/commands"
	"github.com/gohye/cardtrade/tradebot/config"
	"github.com/gohye/cardtrade/tradebot/logger"
	"github.com/gohye/cardtrade/tradebot/services"
	"github.com/spf13/cobra"
)

func runBot(cmd *cobra.Command, _ []string) error {
	logger.LogSystem("Starting CardTrade bot",
		slog.String("version", version),
		slog.String("commit", commit))

	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
	defer cancel()

	backends, err := tradebot.OpenBackends(ctx, *cfg)
	if err != nil {
		return err
	}
	defer backends.Close()

	b := tradebot.New(*cfg, version, commit)
	b.DB = backends.DB

	h := handler.New()
	commands.Register(h, b)

	if err = b.SetupBot(h, bot.NewListenerFunc(b.OnReady)); err != nil {
		return fmt.Errorf("failed to setup bot: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()
		b.Client.Close(ctx)
	}()

	runCtx, stop := context.WithCancel(context.Background())
	defer stop()

	var notifier trading.Notifier = services.LogNotifier{}
	if cfg.Notify.Enabled {
		dm := services.NewDMNotifier(b.Client.Rest(), cfg.Notify.DMRate, cfg.Notify.DMBurst)
		dm.Start(runCtx)
		defer dm.Close()
		notifier = dm
	}
	if err = b.Wire(backends, notifier); err != nil {
		return err
	}

	if sync, _ := cmd.Flags().GetBool("sync-commands"); sync {
		logger.LogSystem("Syncing commands", slog.Any("guild_ids", cfg.Bot.DevGuilds))
		if err = handler.SyncCommands(b.Client, commands.Commands, cfg.Bot.DevGuilds); err != nil {
			logger.LogError("Failed to sync commands", err, slog.String("component", "command_sync"))
		}
	}

	gwCtx, gwCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer gwCancel()
	if err = b.Client.OpenGateway(gwCtx); err != nil {
		return fmt.Errorf("failed to open gateway: %w", err)
	}

	logger.LogSystem("Bot is running. Press CTRL-C to exit.")
	s := make(chan os.Signal, 1)
	signal.Notify(s, syscall.SIGINT, syscall.SIGTERM)
	<-s
	logger.LogSystem("Shutting down bot...")
	return nil
}
