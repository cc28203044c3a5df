// Package ingestion turns the AFIP sources into dataset records: the live categories page
// and the fixed list of historical documents.
package ingestion

import (
	"context"
	"fmt"

	"github.com/jonathan/monotributo-historico/internal/extraction"
	"github.com/jonathan/monotributo-historico/internal/fetch"
	"github.com/jonathan/monotributo-historico/internal/logging"
	"github.com/jonathan/monotributo-historico/internal/types"
)

// Page sources reported in CurrentResult
const (
	SourceHTTP    = "http"
	SourceBrowser = "browser"
)

// RenderFunc renders a page in a browser and returns its HTML.
type RenderFunc func(ctx context.Context, url string) (string, error)

// CurrentOptions configures a scrape of the live categories page.
type CurrentOptions struct {
	URL       string
	StartDate string
	EndDate   string
	// DetectStart lets a validity phrase on the page move StartDate to the month it names
	DetectStart bool
	// UseBrowser re-renders the page when the HTTP body has no table
	UseBrowser bool
	Fetch      *fetch.Options
	Render     RenderFunc
	Logger     logging.Logger
}

// CurrentResult is the outcome of scraping the live page.
type CurrentResult struct {
	StartDate string
	EndDate   string
	// DetectedStart is the validity start found on the page, if any
	DetectedStart string
	Source        string
	Records       []types.CategoryPeriodRecord
}

// Period returns the "start → end" label printed in summaries.
func (r *CurrentResult) Period() string {
	return r.StartDate + " → " + r.EndDate
}

// ScrapeCurrent fetches the live page and builds records for the current period.
func ScrapeCurrent(ctx context.Context, opts CurrentOptions) (*CurrentResult, error) {
	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}
	log = log.WithField("url", opts.URL)

	page, err := fetch.URL(ctx, opts.URL, opts.Fetch)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrHTTPRequestFailed, err)
	}
	log.Debugf("fetched page: %d bytes", len(page.Body))

	html := page.HTML
	source := SourceHTTP
	if !extraction.HasTable(html) && opts.UseBrowser {
		render := opts.Render
		if render == nil {
			render = func(ctx context.Context, url string) (string, error) {
				return fetch.WithBrowser(ctx, url, fetch.DefaultWaitSelector, fetch.DefaultBrowserTimeout)
			}
		}
		log.Infof("page has no table, rendering with browser")
		rendered, err := render(ctx, opts.URL)
		if err != nil {
			return nil, err
		}
		html = rendered
		source = SourceBrowser
	}

	rows, err := extraction.ParseCurrentTable(html)
	if err != nil {
		return nil, err
	}

	result := &CurrentResult{
		StartDate: opts.StartDate,
		EndDate:   opts.EndDate,
		Source:    source,
	}

	if text, err := fetch.ExtractMainText(html); err == nil {
		if start, ok := extraction.DetectValidityStart(text); ok {
			result.DetectedStart = start
			if opts.DetectStart && start != result.StartDate {
				log.Infof("page states validity from %s (configured %s)", start, result.StartDate)
				result.StartDate = start
			}
		}
	}
	if result.EndDate < result.StartDate {
		return nil, fmt.Errorf("validity start %s is after end %s", result.StartDate, result.EndDate)
	}

	records, err := extraction.BuildRecords(rows, result.StartDate, result.EndDate)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w from %s", ErrNoRecords, opts.URL)
	}
	result.Records = records

	log.WithFields(logging.Fields{
		"rows":    len(rows),
		"records": len(records),
		"source":  source,
	}).Infof("extracted current categories for %s", result.Period())
	return result, nil
}
