package store

import (
	"errors"
	"os"
	"path/filepath"
	"sort"

	jsoniter "github.com/json-iterator/go"
	"github.com/jonathan/monotributo-historico/internal/types"
)

// json keeps non-ASCII text as-is and indents output for review in diffs.
var json = jsoniter.Config{
	EscapeHTML:             false,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
}.Froze()

// New returns an empty dataset with the default source metadata.
func New() *types.Dataset {
	return &types.Dataset{
		Metadata: types.Metadata{
			Source:           types.DefaultSource,
			URL:              types.DefaultSourceURL,
			UniqueCategories: []string{},
		},
		Data: []types.CategoryPeriodRecord{},
	}
}

// Load reads the dataset at path.
func Load(path string) (*types.Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &StoreError{Path: path, Message: "failed to read dataset", Cause: err}
	}

	var ds types.Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, &StoreError{Path: path, Message: "failed to decode dataset", Cause: err}
	}
	if ds.Data == nil {
		ds.Data = []types.CategoryPeriodRecord{}
	}
	return &ds, nil
}

// LoadOrNew reads the dataset at path, returning an empty dataset when the file does not exist.
func LoadOrNew(path string) (*types.Dataset, bool, error) {
	ds, err := Load(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return New(), false, nil
		}
		return nil, false, err
	}
	return ds, true, nil
}

// Save writes the dataset to path as indented JSON, replacing the file atomically.
func Save(path string, ds *types.Dataset) error {
	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return &StoreError{Path: path, Message: "failed to encode dataset", Cause: err}
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &StoreError{Path: path, Message: "failed to create directory", Cause: err}
	}

	tmp, err := os.CreateTemp(dir, ".dataset-*.json")
	if err != nil {
		return &StoreError{Path: path, Message: "failed to create temp file", Cause: err}
	}
	tmpName := tmp.Name()
	_, writeErr := tmp.Write(data)
	closeErr := tmp.Close()
	if err := errors.Join(writeErr, closeErr); err != nil {
		_ = os.Remove(tmpName)
		return &StoreError{Path: path, Message: "failed to write dataset", Cause: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return &StoreError{Path: path, Message: "failed to replace dataset", Cause: err}
	}
	return nil
}

// MergeResult reports what a merge changed.
type MergeResult struct {
	ReplacedPeriods []types.PeriodKey
	RemovedRecords  int
	AddedRecords    int
}

// Merge replaces every period present in batch: stored records sharing a batch record's
// exact start/end pair are removed, the batch is appended, and records are re-sorted by
// start date. Metadata record count and date range are recomputed afterwards.
func Merge(ds *types.Dataset, batch []types.CategoryPeriodRecord) (*MergeResult, error) {
	if len(batch) == 0 {
		return nil, ErrEmptyBatch
	}
	for i := range batch {
		if err := types.ValidateRecord(&batch[i]); err != nil {
			return nil, err
		}
	}

	incoming := make(map[types.PeriodKey]bool)
	for _, key := range types.Periods(batch) {
		incoming[key] = true
	}

	result := &MergeResult{AddedRecords: len(batch)}
	replaced := make(map[types.PeriodKey]bool)
	kept := make([]types.CategoryPeriodRecord, 0, len(ds.Data)+len(batch))
	for _, r := range ds.Data {
		key := r.Period()
		if incoming[key] {
			result.RemovedRecords++
			if !replaced[key] {
				replaced[key] = true
				result.ReplacedPeriods = append(result.ReplacedPeriods, key)
			}
			continue
		}
		kept = append(kept, r)
	}

	kept = append(kept, batch...)
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].StartDate < kept[j].StartDate })
	ds.Data = kept

	refreshMetadata(ds)
	return result, nil
}

// refreshMetadata keeps the source fields and first date, recomputing the derived ones.
func refreshMetadata(ds *types.Dataset) {
	from, to := types.DateBounds(ds.Data)
	ds.Metadata.TotalRecords = len(ds.Data)
	ds.Metadata.DateRange.To = to
	if ds.Metadata.DateRange.From == "" || from < ds.Metadata.DateRange.From {
		ds.Metadata.DateRange.From = from
	}
	if ds.Metadata.Source == "" {
		ds.Metadata.Source = types.DefaultSource
	}
	if ds.Metadata.URL == "" {
		ds.Metadata.URL = types.DefaultSourceURL
	}
	ds.Metadata.UniqueCategories = types.UniqueCategories(ds.Data)
	if periods := len(types.Periods(ds.Data)); periods > ds.Metadata.TotalPeriods {
		ds.Metadata.TotalPeriods = periods
	}
}

// NewHistorical builds a fresh dataset from the records of a full historical run.
// totalPeriods is the number of configured source documents.
func NewHistorical(records []types.CategoryPeriodRecord, sourceURL string, totalPeriods int) (*types.Dataset, error) {
	if len(records) == 0 {
		return nil, ErrEmptyBatch
	}
	data := make([]types.CategoryPeriodRecord, len(records))
	copy(data, records)

	from, to := types.DateBounds(data)
	if sourceURL == "" {
		sourceURL = types.DefaultSourceURL
	}
	return &types.Dataset{
		Metadata: types.Metadata{
			Source:           types.DefaultSource,
			URL:              sourceURL,
			TotalRecords:     len(data),
			TotalPeriods:     totalPeriods,
			UniqueCategories: types.UniqueCategories(data),
			DateRange:        types.DateRange{From: from, To: to},
		},
		Data: data,
	}, nil
}

// CheckConsistency reports metadata fields that disagree with the records.
func CheckConsistency(ds *types.Dataset) []string {
	var problems []string
	if ds.Metadata.TotalRecords != len(ds.Data) {
		problems = append(problems, "total_records does not match the number of records")
	}
	if len(ds.Data) > 0 {
		_, to := types.DateBounds(ds.Data)
		if ds.Metadata.DateRange.To != to {
			problems = append(problems, "date_range.to is not the latest end_date ("+to+")")
		}
	}
	return problems
}
