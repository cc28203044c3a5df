package main

import (
	"fmt"
	"os"

	"github.com/jonathan/monotributo-historico/internal/fetch"
	"github.com/jonathan/monotributo-historico/internal/ingestion"
	"github.com/jonathan/monotributo-historico/internal/logging"
	"github.com/jonathan/monotributo-historico/internal/observability"
	"github.com/jonathan/monotributo-historico/internal/store"
	"github.com/jonathan/monotributo-historico/internal/types"
	"github.com/spf13/cobra"
)

var scrapeHistoryCmd = &cobra.Command{
	Use:   "scrape-history",
	Short: "Download the historical category tables and build the store",
	Long: "Downloads every historical AFIP category document (reusing local copies), extracts its " +
		"tables and writes a fresh store. With --merge the records replace their periods in the existing store instead.",
	Args: cobra.NoArgs,
	RunE: runScrapeHistory,
}

var (
	historyStore   string
	historyDocsDir string
	historyMerge   bool
)

func init() {
	scrapeHistoryCmd.Flags().StringVar(&historyStore, "store", "", "Store file (defaults to store_path)")
	scrapeHistoryCmd.Flags().StringVar(&historyDocsDir, "docs-dir", "", "Directory for downloaded documents (defaults to docs_dir)")
	scrapeHistoryCmd.Flags().BoolVar(&historyMerge, "merge", false, "Merge into the existing store instead of overwriting it")

	rootCmd.AddCommand(scrapeHistoryCmd)
}

func runScrapeHistory(cmd *cobra.Command, _ []string) error {
	log := logging.ForRun("scrape-history")
	storePath := orDefault(historyStore, cfg.StorePath)

	cache := fetch.NewFileCache(&fetch.FileCacheConfig{
		Dir:      orDefault(historyDocsDir, cfg.DocsDir),
		Interval: cfg.DownloadInterval,
		Options:  fetchOptions(),
	})

	result, err := ingestion.ScrapeHistory(cmd.Context(), ingestion.HistoryOptions{
		BaseURL: cfg.HistoryBaseURL,
		Cache:   cache,
		Logger:  log,
	})
	if err != nil {
		return fmt.Errorf("failed to scrape historical documents: %w", err)
	}
	if failed := result.Failed(); failed > 0 {
		log.Warnf("%d of %d document(s) skipped", failed, len(result.Documents))
	}

	var ds *types.Dataset
	if historyMerge {
		ds, _, err = store.LoadOrNew(storePath)
		if err != nil {
			return err
		}
		if _, err := store.Merge(ds, result.Records); err != nil {
			return err
		}
	} else {
		ds, err = store.NewHistorical(result.Records, cfg.HistorySourceURL, len(ingestion.Documents))
		if err != nil {
			return err
		}
	}

	if err := store.Save(storePath, ds); err != nil {
		return err
	}
	log.WithField("store", storePath).Infof("saved %d record(s)", ds.Metadata.TotalRecords)

	outcomes := make([]observability.DocumentOutcome, 0, len(result.Documents))
	for _, d := range result.Documents {
		outcomes = append(outcomes, observability.DocumentOutcome{
			Period:  d.Document.Period,
			File:    d.File,
			Records: len(d.Records),
			Err:     d.Err,
		})
	}
	observability.NewPrinter(os.Stdout).PrintHistory(outcomes, ds)
	return nil
}
