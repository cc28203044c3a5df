package extraction

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/dslipak/pdf"
)

// Layout tolerances, expressed as fractions of the glyph font size
const (
	rowTolerance = 0.5  // glyphs whose baselines differ by less than this share a row
	cellGap      = 1.0  // a horizontal gap wider than this starts a new cell
	wordGap      = 0.15 // a gap wider than this inside a cell becomes a space
)

// ExtractPDFTables reads a PDF document and returns one table per page, each table being
// rows of cell strings rebuilt from glyph positions.
func ExtractPDFTables(path string) ([][][]string, error) {
	reader, err := pdf.Open(path)
	if err != nil {
		return nil, &ExtractionError{Source: path, Message: "failed to open document", Cause: err}
	}

	var tables [][][]string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		texts, err := pageTexts(page)
		if err != nil {
			return tables, &ExtractionError{Source: fmt.Sprintf("%s page %d", path, i), Message: "failed to read page content", Cause: err}
		}
		if table := GroupGlyphs(texts); len(table) > 0 {
			tables = append(tables, table)
		}
	}
	return tables, nil
}

// pageTexts reads the positioned glyphs of a page; the pdf package panics on malformed
// content streams.
func pageTexts(page pdf.Page) (texts []pdf.Text, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed content stream: %v", r)
		}
	}()
	return page.Content().Text, nil
}

// GroupGlyphs rebuilds table rows from positioned glyphs: glyphs are grouped into rows by
// baseline, split into text clusters on wide horizontal gaps, and each cluster is placed
// in a column. Every row has one cell per column, with "" where a column has no text.
func GroupGlyphs(texts []pdf.Text) [][]string {
	glyphs := make([]pdf.Text, 0, len(texts))
	for _, t := range texts {
		if strings.TrimSpace(t.S) != "" || t.S == " " {
			glyphs = append(glyphs, t)
		}
	}
	if len(glyphs) == 0 {
		return nil
	}

	// top of the page first
	sort.SliceStable(glyphs, func(i, j int) bool {
		if glyphs[i].Y != glyphs[j].Y {
			return glyphs[i].Y > glyphs[j].Y
		}
		return glyphs[i].X < glyphs[j].X
	})

	var lines [][]cluster
	var current []pdf.Text
	baseline := glyphs[0].Y
	flush := func() {
		if found := splitClusters(current); len(found) > 0 {
			lines = append(lines, found)
		}
		current = nil
	}
	for _, g := range glyphs {
		if len(current) > 0 && math.Abs(g.Y-baseline) > tolerance(g.FontSize, rowTolerance) {
			flush()
		}
		if len(current) == 0 {
			baseline = g.Y
		}
		current = append(current, g)
	}
	flush()
	if len(lines) == 0 {
		return nil
	}

	columns := columnBands(lines)
	table := make([][]string, 0, len(lines))
	for _, line := range lines {
		table = append(table, placeCells(line, columns))
	}
	return table
}

// cluster is a run of glyphs on one row with no wide gap inside it.
type cluster struct {
	text   string
	x0, x1 float64
}

func (c cluster) overlap(b band) float64 {
	return math.Min(c.x1, b.x1) - math.Max(c.x0, b.x0)
}

// band is the horizontal extent of a table column.
type band struct {
	x0, x1 float64
}

func splitClusters(line []pdf.Text) []cluster {
	sort.SliceStable(line, func(i, j int) bool { return line[i].X < line[j].X })

	var found []cluster
	var text strings.Builder
	var x0 float64
	end := math.Inf(-1)
	emit := func() {
		if s := strings.Join(strings.Fields(text.String()), " "); s != "" {
			found = append(found, cluster{text: s, x0: x0, x1: end})
		}
		text.Reset()
	}
	for _, g := range line {
		gap := g.X - end
		switch {
		case text.Len() > 0 && gap > tolerance(g.FontSize, cellGap):
			emit()
		case text.Len() > 0 && gap > tolerance(g.FontSize, wordGap):
			text.WriteByte(' ')
		}
		if text.Len() == 0 {
			x0 = g.X
		}
		text.WriteString(g.S)
		end = math.Max(end, g.X+g.W)
	}
	emit()
	return found
}

// columnBands derives the table columns. Rows with the most clusters set the columns
// first; a cluster from a narrower row that overlaps no column yet adds one. Single
// cluster rows, usually titles, never add columns.
func columnBands(lines [][]cluster) []band {
	order := make([]int, len(lines))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool { return len(lines[order[i]]) > len(lines[order[j]]) })

	var bands []band
	for n, idx := range order {
		line := lines[idx]
		if len(line) < 2 && n > 0 {
			continue
		}
		var added []band
		for _, c := range line {
			overlaps := false
			for _, b := range bands {
				if c.overlap(b) > 0 {
					overlaps = true
					break
				}
			}
			if !overlaps {
				added = append(added, band{x0: c.x0, x1: c.x1})
			}
		}
		bands = append(bands, added...)
	}

	sort.Slice(bands, func(i, j int) bool { return bands[i].x0 < bands[j].x0 })
	return bands
}

// placeCells assigns each cluster to the column it overlaps most, or to the nearest
// column when it overlaps none.
func placeCells(line []cluster, columns []band) []string {
	cells := make([]string, len(columns))
	for _, c := range line {
		best, bestOverlap, bestDistance := 0, math.Inf(-1), math.Inf(1)
		center := (c.x0 + c.x1) / 2
		for i, b := range columns {
			if o := c.overlap(b); o > 0 {
				if o > bestOverlap {
					best, bestOverlap = i, o
				}
				continue
			}
			if bestOverlap > 0 {
				continue
			}
			if d := math.Abs(center - (b.x0+b.x1)/2); d < bestDistance {
				best, bestDistance = i, d
			}
		}
		if cells[best] == "" {
			cells[best] = c.text
		} else {
			cells[best] += " " + c.text
		}
	}
	return cells
}

func tolerance(fontSize, factor float64) float64 {
	if fontSize <= 0 {
		fontSize = 10
	}
	return fontSize * factor
}
