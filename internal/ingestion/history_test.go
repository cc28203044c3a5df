package ingestion

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/jonathan/monotributo-historico/internal/fetch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDocuments = []Document{
	{"2025-02_2025-07", "documentos/categorias/febrero-julio-2025.pdf"},
	{"2024-02_2024-07", "documentos/categorias/missing.pdf"},
	{"2010-01_2012-06", "documentos/categorias/enero-2010-junio-2012.pdf"},
}

func documentServer(t *testing.T, hits *int32) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		if strings.HasSuffix(r.URL.Path, "missing.pdf") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4 " + r.URL.Path))
	}))
	t.Cleanup(server.Close)
	return server
}

func documentTable() [][]string {
	return [][]string{
		{"Categoría", "Ingresos", "Sup.", "Energía", "Alquileres", "Precio", "Imp. S", "Imp. V", "SIPA", "OS", "Total S", "Total V"},
		{"", "", "", "", "", "", "Servicios", "Ventas", "", "", "Servicios", "Ventas"},
		{"A", "$ 2.108.288,01", "Hasta 30 m2", "Hasta 3330 Kw", "$ 494.148,44", "$ 536.767,47", "$ 4.182,60", "$ 4.182,60", "$ 15.616,17", "$ 19.341,51", "$ 39.140,28", "$ 39.140,28"},
		{"B", "$ 3.133.941,63", "Hasta 45 m2", "Hasta 5000 Kw", "$ 494.148,44", "$ 536.767,47", "$ 7.946,95", "$ 7.946,95", "$ 17.177,79", "$ 19.341,51", "$ 44.466,25", "$ 44.466,25"},
		{"C", "$ 4.387.518,23", "Hasta 60 m2", "Hasta 6700 Kw", "$ 988.296,90", "$ 536.767,47", "$ 13.663,17", "$ 12.547,81", "$ 18.895,57", "$ 19.341,51", "$ 51.900,25", "$ 50.784,89"},
	}
}

func TestScrapeHistory_SkipsFailedDocuments(t *testing.T) {
	var hits int32
	server := documentServer(t, &hits)

	var extracted []string
	result, err := ScrapeHistory(context.Background(), HistoryOptions{
		BaseURL:   server.URL + "/monotributo/",
		Documents: testDocuments,
		Cache:     fetch.NewFileCache(&fetch.FileCacheConfig{Dir: t.TempDir()}),
		Extract: func(path string) ([][][]string, error) {
			extracted = append(extracted, path)
			return [][][]string{{{"Nota"}}, documentTable()}, nil
		},
	})
	require.NoError(t, err)

	require.Len(t, result.Documents, 3)
	assert.Equal(t, 1, result.Failed())
	assert.Len(t, extracted, 2)

	ok := result.Documents[0]
	assert.NoError(t, ok.Err)
	assert.Equal(t, 1, ok.Tables)
	assert.False(t, ok.FromCache)
	// A and B have equal totals, C differs
	assert.Len(t, ok.Records, 4)
	assert.Equal(t, "2025-02-01", ok.Records[0].StartDate)
	assert.Equal(t, "2025-07-31", ok.Records[0].EndDate)

	failed := result.Documents[1]
	var docErr *DocumentError
	require.True(t, errors.As(failed.Err, &docErr))
	assert.Equal(t, "download", docErr.Stage)
	assert.Contains(t, failed.Err.Error(), "HTTP status 404")

	assert.Equal(t, "2012-06-30", result.Documents[2].Records[0].EndDate)
	assert.Len(t, result.Records, 8)
}

func TestScrapeHistory_ReusesCachedDocuments(t *testing.T) {
	var hits int32
	server := documentServer(t, &hits)
	cache := fetch.NewFileCache(&fetch.FileCacheConfig{Dir: t.TempDir()})
	opts := HistoryOptions{
		BaseURL:   server.URL + "/monotributo/",
		Documents: testDocuments[:1],
		Cache:     cache,
		Extract: func(string) ([][][]string, error) {
			return [][][]string{documentTable()}, nil
		},
	}

	_, err := ScrapeHistory(context.Background(), opts)
	require.NoError(t, err)
	result, err := ScrapeHistory(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
	assert.True(t, result.Documents[0].FromCache)
	assert.True(t, cache.Has("febrero-julio-2025.pdf"))
}

func TestScrapeHistory_NoRecords(t *testing.T) {
	var hits int32
	server := documentServer(t, &hits)

	result, err := ScrapeHistory(context.Background(), HistoryOptions{
		BaseURL:   server.URL + "/",
		Documents: testDocuments,
		Cache:     fetch.NewFileCache(&fetch.FileCacheConfig{Dir: t.TempDir()}),
		Extract: func(string) ([][][]string, error) {
			return nil, errors.New("broken document")
		},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoRecords)
	assert.Equal(t, 3, result.Failed())
}

func TestScrapeHistory_InvalidBaseURL(t *testing.T) {
	_, err := ScrapeHistory(context.Background(), HistoryOptions{BaseURL: "monotributo/"})
	assert.Error(t, err)
}

func TestScrapeHistory_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ScrapeHistory(ctx, HistoryOptions{
		BaseURL:   "https://example.com/",
		Documents: testDocuments,
		Cache:     fetch.NewFileCache(&fetch.FileCacheConfig{Dir: t.TempDir()}),
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDocuments(t *testing.T) {
	require.Len(t, Documents, 20)
	assert.Equal(t, "2025-02_2025-07", Documents[0].Period)
	assert.Equal(t, "2010-01_2012-06", Documents[len(Documents)-1].Period)
	assert.Equal(t, "monotributo-categorias-enero-2010-junio-2012.pdf", Documents[len(Documents)-1].FileName())

	seen := make(map[string]bool)
	for _, d := range Documents {
		assert.False(t, seen[d.Period], "duplicate period %s", d.Period)
		seen[d.Period] = true
		assert.True(t, strings.HasPrefix(d.Path, "documentos/categorias/"))
	}
}
