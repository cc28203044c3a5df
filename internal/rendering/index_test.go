package rendering

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
}

func TestWriteIndex_ListsChartsOnDisk(t *testing.T) {
	root := t.TempDir()
	charts := filepath.Join(root, "graficos")
	touch(t, filepath.Join(charts, "monotributo_ventas_total_real.png"))
	touch(t, filepath.Join(charts, "monotributo_servicios_total_nominal.png"))
	touch(t, filepath.Join(charts, "notas.txt"))

	store := filepath.Join(root, "data", "monotributo_historico.json")
	touch(t, store)
	mtime := time.Date(2025, 8, 3, 14, 5, 9, 0, time.Local)
	require.NoError(t, os.Chtimes(store, mtime, mtime))

	indexPath := filepath.Join(root, "index.html")
	data, err := WriteIndex(IndexOptions{
		ChartsDir: charts,
		IndexPath: indexPath,
		StorePath: store,
		Now:       func() time.Time { return mtime },
	})
	require.NoError(t, err)

	require.Len(t, data.Charts, 2)
	assert.Equal(t, "graficos/monotributo_servicios_total_nominal.png", data.Charts[0].Href)
	assert.Equal(t, "Ventas - Total - Real", data.Charts[1].Title)
	assert.Equal(t, "03/08/2025 14:05:09", data.DataDate)

	page, err := os.ReadFile(indexPath)
	require.NoError(t, err)
	assert.Contains(t, string(page), `src="graficos/monotributo_ventas_total_real.png"`)
	assert.Contains(t, string(page), "Datos actualizados: 03/08/2025 14:05:09")
	assert.NotContains(t, string(page), "notas.txt")
}

func TestWriteIndex_NoChartsAndMissingStore(t *testing.T) {
	root := t.TempDir()
	indexPath := filepath.Join(root, "site", "index.html")

	data, err := WriteIndex(IndexOptions{
		ChartsDir: filepath.Join(root, "graficos"),
		IndexPath: indexPath,
		StorePath: filepath.Join(root, "missing.json"),
	})
	require.NoError(t, err)
	assert.Empty(t, data.Charts)
	assert.Equal(t, DataDateUnavailable, data.DataDate)

	page, err := os.ReadFile(indexPath)
	require.NoError(t, err)
	assert.Contains(t, string(page), "No hay gráficos generados todavía.")
}

func TestWriteIndex_CustomTemplate(t *testing.T) {
	root := t.TempDir()
	tmpl := filepath.Join(root, "index.tmpl")
	require.NoError(t, os.WriteFile(tmpl, []byte(`{{ range .Charts }}{{ .Title }};{{ end }}`), 0644))
	touch(t, filepath.Join(root, "monotributo_servicios_total_heatmap.png"))

	indexPath := filepath.Join(root, "index.html")
	_, err := WriteIndex(IndexOptions{ChartsDir: root, IndexPath: indexPath, TemplatePath: tmpl})
	require.NoError(t, err)

	page, err := os.ReadFile(indexPath)
	require.NoError(t, err)
	assert.Equal(t, "Servicios - Total - Mapa de Calor;", string(page))
}

func TestWriteIndex_TemplateErrors(t *testing.T) {
	root := t.TempDir()

	_, err := WriteIndex(IndexOptions{ChartsDir: root, IndexPath: filepath.Join(root, "i.html"), TemplatePath: filepath.Join(root, "nope.tmpl")})
	var tmplErr *TemplateError
	require.ErrorAs(t, err, &tmplErr)
	assert.Contains(t, err.Error(), "not found")
	assert.Equal(t, filepath.Join(root, "nope.tmpl"), tmplErr.Template)

	bad := filepath.Join(root, "bad.tmpl")
	require.NoError(t, os.WriteFile(bad, []byte(`{{ .Charts `), 0644))
	_, err = WriteIndex(IndexOptions{ChartsDir: root, IndexPath: filepath.Join(root, "i.html"), TemplatePath: bad})
	require.ErrorAs(t, err, &tmplErr)
}

func TestWriteIndex_PageError(t *testing.T) {
	root := t.TempDir()
	blocker := filepath.Join(root, "site")
	require.NoError(t, os.WriteFile(blocker, []byte("file, not a directory"), 0644))

	indexPath := filepath.Join(blocker, "index.html")
	_, err := WriteIndex(IndexOptions{ChartsDir: root, IndexPath: indexPath})
	var pageErr *PageError
	require.ErrorAs(t, err, &pageErr)
	assert.Equal(t, indexPath, pageErr.Path)
	assert.Contains(t, err.Error(), "failed to create directory")
}
