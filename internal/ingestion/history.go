package ingestion

import (
	"context"
	"fmt"
	"net/url"
	"path"

	"github.com/jonathan/monotributo-historico/internal/extraction"
	"github.com/jonathan/monotributo-historico/internal/fetch"
	"github.com/jonathan/monotributo-historico/internal/logging"
	"github.com/jonathan/monotributo-historico/internal/parsing"
	"github.com/jonathan/monotributo-historico/internal/types"
)

// Document is one historical category table published by AFIP.
type Document struct {
	Period string // YYYY-MM_YYYY-MM
	Path   string // relative to the history base URL
}

// FileName returns the name the document is cached under.
func (d Document) FileName() string {
	return path.Base(d.Path)
}

// Documents lists the historical tables, newest first.
var Documents = []Document{
	{"2025-02_2025-07", "documentos/categorias/monotributo-categorias-febrero-julio-2025.pdf"},
	{"2024-08_2025-01", "documentos/categorias/monotributo-categorias-agosto-2024-enero-2025-1.pdf"},
	{"2024-01_2024-07", "documentos/categorias/monotributo-categorias-enero-julio-2024.pdf"},
	{"2023-07_2023-12", "documentos/categorias/monotributo-categorias-julio-diciembre-2023.pdf"},
	{"2023-01_2023-06", "documentos/categorias/monotributo-categorias-enero-junio-2023.pdf"},
	{"2022-07_2022-12", "documentos/categorias/monotributo-categorias-julio-diciembre-2022.pdf"},
	{"2022-01_2022-06", "documentos/categorias/monotributo-categorias-enero-junio-2022.pdf"},
	{"2021-07_2021-12", "documentos/categorias/monotributo-categorias-julio-diciembre-2021.pdf"},
	{"2021-01_2021-06", "documentos/categorias/monotributo-categorias-enero-junio-2021.pdf"},
	{"2020-01_2020-12", "documentos/categorias/monotributo-categorias-enero-diciembre-2020.pdf"},
	{"2019-01_2019-12", "documentos/categorias/monotributo-categorias-enero-diciembre-2019.pdf"},
	{"2018-01_2018-12", "documentos/categorias/monotributo-categorias-enero-diciembre-2018.pdf"},
	{"2017-01_2017-12", "documentos/categorias/monotributo-categorias-enero-diciembre-2017.pdf"},
	{"2016-06_2016-12", "documentos/categorias/monotributo-categorias-junio-diciembre-2016.pdf"},
	{"2015-07_2016-05", "documentos/categorias/monotributo-categorias-julio-2015-mayo-2016.pdf"},
	{"2014-09_2015-06", "documentos/categorias/monotributo-categorias-septiembre-2014-junio-2015.pdf"},
	{"2013-11_2014-08", "documentos/categorias/monotributo-categorias-noviembre-2013-agosto-2014.pdf"},
	{"2013-09_2013-10", "documentos/categorias/monotributo-categorias-septiembre-octubre-2013.pdf"},
	{"2012-07_2013-08", "documentos/categorias/monotributo-categorias-julio-2012-agosto-2013.pdf"},
	{"2010-01_2012-06", "documentos/categorias/monotributo-categorias-enero-2010-junio-2012.pdf"},
}

// TableExtractor returns the tables of a local document as rows of cell strings.
type TableExtractor func(path string) ([][][]string, error)

// HistoryOptions configures a historical run.
type HistoryOptions struct {
	BaseURL   string
	Documents []Document // defaults to Documents
	Cache     *fetch.FileCache
	Extract   TableExtractor // defaults to extraction.ExtractPDFTables
	Logger    logging.Logger
}

// DocumentResult is the outcome of one document. Err is set when it was skipped.
type DocumentResult struct {
	Document    Document
	File        string
	FromCache   bool
	Tables      int
	CompactRows int
	Records     []types.CategoryPeriodRecord
	Err         error
}

// HistoryResult collects every document outcome and the combined records.
type HistoryResult struct {
	Documents []DocumentResult
	Records   []types.CategoryPeriodRecord
}

// Failed returns the number of skipped documents.
func (r *HistoryResult) Failed() int {
	n := 0
	for _, d := range r.Documents {
		if d.Err != nil {
			n++
		}
	}
	return n
}

// ScrapeHistory downloads (or reuses) every document and extracts its records. A
// document that fails is logged and skipped; the run fails only when it is cancelled or
// when no document yields records.
func ScrapeHistory(ctx context.Context, opts HistoryOptions) (*HistoryResult, error) {
	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}
	docs := opts.Documents
	if docs == nil {
		docs = Documents
	}
	extract := opts.Extract
	if extract == nil {
		extract = extraction.ExtractPDFTables
	}
	cache := opts.Cache
	if cache == nil {
		cache = fetch.NewFileCache(nil)
	}

	base, err := url.Parse(opts.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid history base URL %q", opts.BaseURL)
	}

	result := &HistoryResult{}
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		docLog := log.WithField("period", doc.Period)
		outcome := processDocument(ctx, base, cache, extract, doc)
		if outcome.Err != nil {
			docLog.WithError(outcome.Err).Warnf("skipping document %s", doc.FileName())
		} else {
			if outcome.CompactRows > 0 {
				docLog.Warnf("%d row(s) read with the four-number layout", outcome.CompactRows)
			}
			docLog.WithFields(logging.Fields{
				"tables":     outcome.Tables,
				"from_cache": outcome.FromCache,
			}).Infof("extracted %d record(s)", len(outcome.Records))
			result.Records = append(result.Records, outcome.Records...)
		}
		result.Documents = append(result.Documents, outcome)
	}

	if len(result.Records) == 0 {
		return result, fmt.Errorf("%w from %d document(s)", ErrNoRecords, len(docs))
	}
	return result, nil
}

func processDocument(ctx context.Context, base *url.URL, cache *fetch.FileCache, extract TableExtractor, doc Document) DocumentResult {
	outcome := DocumentResult{Document: doc}

	startDate, endDate, err := parsing.ResolvePeriod(doc.Period)
	if err != nil {
		outcome.Err = &DocumentError{Period: doc.Period, Stage: "period", Cause: err}
		return outcome
	}

	ref, err := url.Parse(doc.Path)
	if err != nil {
		outcome.Err = &DocumentError{Period: doc.Period, Stage: "download", Cause: err}
		return outcome
	}
	cached, err := cache.Fetch(ctx, base.ResolveReference(ref).String(), doc.FileName())
	if err != nil {
		outcome.Err = &DocumentError{Period: doc.Period, Stage: "download", Cause: err}
		return outcome
	}
	outcome.File = cached.Path
	outcome.FromCache = cached.FromCache

	tables, err := extract(cached.Path)
	if err != nil {
		outcome.Err = &DocumentError{Period: doc.Period, Stage: "extract", Cause: err}
		return outcome
	}

	for _, table := range tables {
		parsed := extraction.ParseDocumentTable(table)
		if len(parsed.Rows) == 0 {
			continue
		}
		records, err := extraction.BuildRecords(parsed.Rows, startDate, endDate)
		if err != nil {
			outcome.Err = &DocumentError{Period: doc.Period, Stage: "build", Cause: err}
			outcome.Records = nil
			return outcome
		}
		outcome.Tables++
		outcome.CompactRows += parsed.CompactRows
		outcome.Records = append(outcome.Records, records...)
	}
	return outcome
}
