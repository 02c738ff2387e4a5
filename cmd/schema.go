package cmd

import (
	"context"
	"errors"
	"time"

	"github.com/gohye/cardtrade/tradebot"
	"github.com/gohye/cardtrade/tradebot/logger"
	"github.com/spf13/cobra"
)

var schemaCMD = &cobra.Command{
	Use:   "schema",
	Short: "Create the postgres tables and indexes",
	RunE: func(cmd *cobra.Command, _ []string) error {
		start := time.Now()
		if cfg.Storage.Driver != tradebot.DriverPostgres {
			return errors.New("schema needs storage.driver postgres")
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
		defer cancel()

		// OpenBackends initializes the schema as part of connecting.
		backends, err := tradebot.OpenBackends(ctx, *cfg)
		logger.LogCommand("schema", time.Since(start), err)
		if err != nil {
			return err
		}
		backends.Close()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(schemaCMD)
}
