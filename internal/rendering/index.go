package rendering

import (
	"bytes"
	"embed"
	"html/template"
	"os"
	"path/filepath"
	"sort"
	"time"
)

//go:embed templates/index.html.tmpl
var templateFS embed.FS

// DataDateLayout formats the dataset modification time.
const DataDateLayout = "02/01/2006 15:04:05"

// DataDateUnavailable is shown when the dataset file cannot be read.
const DataDateUnavailable = "No disponible"

// ChartPattern matches the chart files listed on the page.
const ChartPattern = "monotributo_*.png"

// ChartLink is one chart entry on the landing page.
type ChartLink struct {
	Href        string // relative to the page
	Title       string
	Description string
}

// IndexData is the data passed to the page template.
type IndexData struct {
	DataDate    string
	GeneratedAt string
	Charts      []ChartLink
}

// IndexOptions configures WriteIndex.
type IndexOptions struct {
	ChartsDir    string
	IndexPath    string
	StorePath    string
	TemplatePath string // empty uses the embedded template
	Now          func() time.Time
}

// WriteIndex regenerates the landing page from the chart files currently in ChartsDir.
func WriteIndex(opts IndexOptions) (*IndexData, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}

	charts, err := CollectCharts(opts.ChartsDir, filepath.Dir(opts.IndexPath))
	if err != nil {
		return nil, err
	}

	data := &IndexData{
		DataDate:    DataDate(opts.StorePath),
		GeneratedAt: opts.Now().Format(DataDateLayout),
		Charts:      charts,
	}

	tmpl, err := loadTemplate(opts.TemplatePath)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, &TemplateError{Template: templateName(opts.TemplatePath), Message: "failed to execute", Cause: err}
	}

	if dir := filepath.Dir(opts.IndexPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, &PageError{Path: opts.IndexPath, Message: "failed to create directory", Cause: err}
		}
	}
	if err := os.WriteFile(opts.IndexPath, buf.Bytes(), 0644); err != nil {
		return nil, &PageError{Path: opts.IndexPath, Message: "failed to write", Cause: err}
	}
	return data, nil
}

// CollectCharts lists the chart files in dir, sorted by name, with links relative to pageDir.
func CollectCharts(dir, pageDir string) ([]ChartLink, error) {
	matches, err := filepath.Glob(filepath.Join(dir, ChartPattern))
	if err != nil {
		return nil, &PageError{Path: dir, Message: "invalid charts directory pattern", Cause: err}
	}
	sort.Strings(matches)

	charts := make([]ChartLink, 0, len(matches))
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		href, err := filepath.Rel(pageDir, path)
		if err != nil {
			href = path
		}
		charts = append(charts, ChartLink{
			Href:        filepath.ToSlash(href),
			Title:       ChartTitle(path),
			Description: ChartDescription(path),
		})
	}
	return charts, nil
}

// DataDate returns the dataset file's modification time, or DataDateUnavailable.
func DataDate(storePath string) string {
	info, err := os.Stat(storePath)
	if err != nil {
		return DataDateUnavailable
	}
	return info.ModTime().Format(DataDateLayout)
}

func templateName(path string) string {
	if path == "" {
		return embeddedTemplate
	}
	return path
}

func loadTemplate(path string) (*template.Template, error) {
	if path == "" {
		tmpl, err := template.ParseFS(templateFS, "templates/index.html.tmpl")
		if err != nil {
			return nil, &TemplateError{Template: embeddedTemplate, Message: "failed to parse", Cause: err}
		}
		return tmpl, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &TemplateError{Template: path, Message: "not found", Cause: err}
		}
		return nil, &TemplateError{Template: path, Message: "failed to read", Cause: err}
	}
	tmpl, err := template.New("index").Parse(string(content))
	if err != nil {
		return nil, &TemplateError{Template: path, Message: "failed to parse", Cause: err}
	}
	return tmpl, nil
}
