package main

import (
	"fmt"
	"os"

	"github.com/jonathan/monotributo-historico/internal/config"
	"github.com/jonathan/monotributo-historico/internal/fetch"
	"github.com/jonathan/monotributo-historico/internal/ingestion"
	"github.com/jonathan/monotributo-historico/internal/logging"
	"github.com/jonathan/monotributo-historico/internal/observability"
	"github.com/jonathan/monotributo-historico/internal/store"
	"github.com/spf13/cobra"
)

var scrapeCurrentCmd = &cobra.Command{
	Use:   "scrape-current",
	Short: "Scrape the live categories page and merge it into the store",
	Long: "Fetches the current AFIP categories table, builds one record per category and activity type " +
		"for the current validity period, and merges them into the store replacing that period.",
	Args: cobra.NoArgs,
	RunE: runScrapeCurrent,
}

var (
	currentStore      string
	currentStart      string
	currentEnd        string
	currentURL        string
	currentUseBrowser bool
)

func init() {
	scrapeCurrentCmd.Flags().StringVar(&currentStore, "store", "", "Store file (defaults to store_path)")
	scrapeCurrentCmd.Flags().StringVar(&currentStart, "start", "", "Validity start date YYYY-MM-DD (disables detection from the page, as does a configured current_start)")
	scrapeCurrentCmd.Flags().StringVar(&currentEnd, "end", "", "Validity end date YYYY-MM-DD")
	scrapeCurrentCmd.Flags().StringVar(&currentURL, "url", "", "Categories page URL (defaults to current_url)")
	scrapeCurrentCmd.Flags().BoolVar(&currentUseBrowser, "use-browser", false, "Render the page in a headless browser when it has no table")

	rootCmd.AddCommand(scrapeCurrentCmd)
}

func runScrapeCurrent(cmd *cobra.Command, _ []string) error {
	log := logging.ForRun("scrape-current")

	storePath := orDefault(currentStore, cfg.StorePath)
	opts := ingestion.CurrentOptions{
		URL:         orDefault(currentURL, cfg.CurrentURL),
		StartDate:   orDefault(currentStart, cfg.CurrentStart),
		EndDate:     orDefault(currentEnd, cfg.CurrentEnd),
		DetectStart: detectStart(currentStart, cfg),
		UseBrowser:  currentUseBrowser,
		Fetch:       fetchOptions(),
		Logger:      log,
	}
	if err := checkDate("start", opts.StartDate); err != nil {
		return err
	}
	if err := checkDate("end", opts.EndDate); err != nil {
		return err
	}

	result, err := ingestion.ScrapeCurrent(cmd.Context(), opts)
	if err != nil {
		return fmt.Errorf("failed to scrape current categories: %w", err)
	}

	ds, existed, err := store.LoadOrNew(storePath)
	if err != nil {
		return err
	}
	if !existed {
		log.Warnf("store %s does not exist, starting a new dataset", storePath)
	}

	merged, err := store.Merge(ds, result.Records)
	if err != nil {
		return err
	}
	if err := store.Save(storePath, ds); err != nil {
		return err
	}
	log.WithFields(logging.Fields{
		"store":   storePath,
		"removed": merged.RemovedRecords,
		"added":   merged.AddedRecords,
	}).Infof("store updated")

	observability.NewPrinter(os.Stdout).PrintMerge(result.Period(), len(result.Records), merged, ds)
	return nil
}

func fetchOptions() *fetch.Options {
	opts := fetch.DefaultOptions()
	opts.Timeout = cfg.HTTPTimeout
	return opts
}

// detectStart reports whether the page's validity phrase may move the start date; an
// explicit --start or a configured current_start pins it.
func detectStart(flagStart string, c *config.Config) bool {
	return flagStart == "" && !c.CurrentStartPinned
}

func orDefault(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}
