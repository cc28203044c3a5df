package charts

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/monotributo-historico/internal/analysis"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Chart kinds, also used as file name suffixes
const (
	KindNominal    = "nominal"
	KindReal       = "real"
	KindIncrement  = "incremento"
	KindHeatmap    = "heatmap"
	FilePrefix     = "monotributo_"
	FileExtension  = ".png"
	chartWidth     = 14 * vg.Inch
	chartHeight    = 7 * vg.Inch
	heatmapColours = 12
)

// Kinds lists the charts rendered per analysis, in output order.
var Kinds = []string{KindNominal, KindReal, KindIncrement, KindHeatmap}

// FileName returns the chart file name for an activity type, component and chart kind.
func FileName(tipo string, component analysis.Component, kind string) string {
	return fmt.Sprintf("%s%s_%s_%s%s", FilePrefix, tipo, component, kind, FileExtension)
}

// RenderAll writes the four charts for result into dir and returns their paths.
// baseLabel names the month real amounts are expressed in.
func RenderAll(result *analysis.Result, dir, baseLabel string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, &ChartError{Chart: dir, Message: "failed to create output directory", Cause: err}
	}

	renderers := map[string]func(*analysis.Result, string) (*plot.Plot, error){
		KindNominal:   func(r *analysis.Result, _ string) (*plot.Plot, error) { return Nominal(r) },
		KindReal:      Real,
		KindIncrement: func(r *analysis.Result, _ string) (*plot.Plot, error) { return Increment(r) },
		KindHeatmap:   Heatmap,
	}

	paths := make([]string, 0, len(Kinds))
	for _, kind := range Kinds {
		path := filepath.Join(dir, FileName(result.Tipo, result.Component, kind))
		p, err := renderers[kind](result, baseLabel)
		if err != nil {
			return paths, &ChartError{Chart: path, Message: "failed to build chart", Cause: err}
		}
		if err := p.Save(chartWidth, chartHeight, path); err != nil {
			return paths, &ChartError{Chart: path, Message: "failed to save chart", Cause: err}
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// Nominal plots each category's nominal amount over time.
func Nominal(result *analysis.Result) (*plot.Plot, error) {
	title := fmt.Sprintf("%s - Monotributo %s - VALORES NOMINALES", result.Component.Label(), titleCase(result.Tipo))
	return timeSeries(result, title, "Monto ($)", func(o analysis.Observation) float64 {
		return o.Nominal.InexactFloat64()
	})
}

// Real plots each category's inflation-adjusted amount over time.
func Real(result *analysis.Result, baseLabel string) (*plot.Plot, error) {
	title := fmt.Sprintf("%s - Monotributo %s - VALORES REALES (pesos de %s)", result.Component.Label(), titleCase(result.Tipo), baseLabel)
	return timeSeries(result, title, "Monto ($ constantes)", func(o analysis.Observation) float64 {
		return o.Real.InexactFloat64()
	})
}

func timeSeries(result *analysis.Result, title, yLabel string, value func(analysis.Observation) float64) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = "Período"
	p.Y.Label.Text = yLabel
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01"}
	p.Legend.Top = true
	p.Legend.Left = true
	p.Add(plotter.NewGrid())

	for i, cat := range result.Categories {
		obs := result.Series[cat]
		points := make(plotter.XYs, len(obs))
		for j, o := range obs {
			points[j].X = float64(o.StartDate.Unix())
			points[j].Y = value(o)
		}

		line, err := plotter.NewLine(points)
		if err != nil {
			return nil, fmt.Errorf("category %s: %w", cat, err)
		}
		line.Color = plotutil.Color(i)
		line.Width = vg.Points(2)

		markers, err := plotter.NewScatter(points)
		if err != nil {
			return nil, fmt.Errorf("category %s: %w", cat, err)
		}
		markers.GlyphStyle.Color = plotutil.Color(i)
		markers.GlyphStyle.Radius = vg.Points(3)
		markers.GlyphStyle.Shape = draw.CircleGlyph{}

		p.Add(line, markers)
		p.Legend.Add("Categoría "+cat, line, markers)
	}
	return p, nil
}

// Increment compares first-to-last percentage change and CAGR per category, nominal
// against real. Undefined values are drawn as zero-height bars.
func Increment(result *analysis.Result) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s - Incremento Porcentual (%s) - Nominal vs Real", result.Component.Label(), titleCase(result.Tipo))
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = "Categoría"
	p.Y.Label.Text = "Incremento (%)"
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	series := []struct {
		name  string
		value func(analysis.Growth) float64
	}{
		{"Incremento Nominal", func(g analysis.Growth) float64 { return g.NominalPct }},
		{"Incremento Real (ajustado por inflación)", func(g analysis.Growth) float64 { return g.RealPct }},
		{"CAGR Nominal", func(g analysis.Growth) float64 { return g.NominalCAGR }},
		{"CAGR Real", func(g analysis.Growth) float64 { return g.RealCAGR }},
	}

	width := vg.Points(14)
	for i, s := range series {
		values := make(plotter.Values, len(result.Growth))
		for j, g := range result.Growth {
			values[j] = finiteOrZero(s.value(g))
		}
		bars, err := plotter.NewBarChart(values, width)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.name, err)
		}
		bars.LineStyle.Width = vg.Length(0)
		bars.Color = plotutil.Color(i)
		bars.Offset = width * vg.Length(2*i-len(series)+1) / 2

		p.Add(bars)
		p.Legend.Add(s.name, bars)
	}

	p.NominalX(result.Categories...)
	return p, nil
}

// Heatmap draws real amounts on a category by period grid.
func Heatmap(result *analysis.Result, baseLabel string) (*plot.Plot, error) {
	m := result.RealMatrix()
	if len(m.Categories) == 0 || len(m.Periods) == 0 {
		return nil, fmt.Errorf("no data to plot")
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s - Mapa de Calor (%s, pesos de %s)", result.Component.Label(), titleCase(result.Tipo), baseLabel)
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = "Período"
	p.Y.Label.Text = "Categoría"

	heat := plotter.NewHeatMap(grid{m}, palette.Heat(heatmapColours, 1))
	lo, hi := m.Range()
	if lo == hi {
		hi = lo + 1
	}
	heat.Min, heat.Max = lo, hi
	p.Add(heat)

	p.NominalX(m.Periods...)
	p.NominalY(m.Categories...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	return p, nil
}

// grid adapts the matrix to plotter.GridXYZ: columns are periods, rows are categories.
type grid struct {
	m *analysis.Matrix
}

func (g grid) Dims() (c, r int)   { return len(g.m.Periods), len(g.m.Categories) }
func (g grid) Z(c, r int) float64 { return g.m.Values[r][c] }
func (g grid) X(c int) float64    { return float64(c) }
func (g grid) Y(r int) float64    { return float64(r) }

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
