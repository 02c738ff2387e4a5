package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gohye/cardtrade/internal/importer"
	"github.com/gohye/cardtrade/tradebot"
	"github.com/gohye/cardtrade/tradebot/logger"
	"github.com/spf13/cobra"
)

var (
	cardsJSONPath    string
	cardsBSONPath    string
	holdingsBSONPath string
	importBatchSize  int
)

var importCMD = &cobra.Command{
	Use:   "import",
	Short: "Import the card catalog and legacy holdings from export files",
	RunE: func(cmd *cobra.Command, _ []string) error {
		start := time.Now()
		err := runImport(cmd.Context())
		logger.LogCommand("import", time.Since(start), err)
		return err
	},
}

func init() {
	importCMD.Flags().StringVar(&cardsJSONPath, "cards-json", "", "cards.json catalog export")
	importCMD.Flags().StringVar(&cardsBSONPath, "cards-bson", "", "cards.bson dump of the legacy catalog")
	importCMD.Flags().StringVar(&holdingsBSONPath, "holdings-bson", "", "usercards.bson dump of legacy holdings")
	importCMD.Flags().IntVar(&importBatchSize, "batch-size", 500, "cards written per batch")
	rootCmd.AddCommand(importCMD)
}

func runImport(ctx context.Context) error {
	if cardsJSONPath == "" && cardsBSONPath == "" && holdingsBSONPath == "" {
		return errors.New("nothing to import: pass --cards-json, --cards-bson or --holdings-bson")
	}
	if cfg.Storage.Driver != tradebot.DriverPostgres {
		return errors.New("import needs storage.driver postgres; the memory store does not outlive the process")
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Minute)
	defer cancel()

	backends, err := tradebot.OpenBackends(ctx, *cfg)
	if err != nil {
		return err
	}
	defer backends.Close()

	im := importer.New(backends.Importer, backends.Granter)
	im.SetBatchSize(importBatchSize)

	if cardsJSONPath != "" {
		if _, err := im.ImportCardsJSON(ctx, cardsJSONPath); err != nil {
			return err
		}
	}
	if cardsBSONPath != "" {
		if err := importFile(cardsBSONPath, func(f *os.File) error {
			_, err := im.ImportCardsBSON(ctx, f)
			return err
		}); err != nil {
			return err
		}
	}
	if holdingsBSONPath != "" {
		if err := importFile(holdingsBSONPath, func(f *os.File) error {
			_, err := im.ImportHoldingsBSON(ctx, f)
			return err
		}); err != nil {
			return err
		}
	}
	return nil
}

func importFile(path string, fn func(f *os.File) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return fn(f)
}
