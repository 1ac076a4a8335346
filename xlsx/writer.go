// Package xlsx serializes the tables of a compose.Document to an Excel
// (.xlsx) workbook using unioffice.  Each table becomes one sheet, named
// after the nearest preceding heading when there is one.  Blocks without a
// spreadsheet representation (paragraphs, lists, page breaks) are skipped;
// the projection is deterministic and documented here rather than an error,
// since the renderer's no-drop guarantee covers the Document, not what a
// given container format can express.
package xlsx

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/unidoc/unioffice/color"
	"github.com/unidoc/unioffice/measurement"
	"github.com/unidoc/unioffice/schema/soo/sml"
	"github.com/unidoc/unioffice/spreadsheet"

	"github.com/aerissecure/compose"
)

// Write serializes the document's tables to w.  A document with no tables
// yields a workbook with a single empty sheet, which keeps the output a
// valid container.
func Write(src *compose.Document, w io.Writer) error {
	ss, err := build(src)
	if err != nil {
		return &compose.SerializationError{Format: "xlsx", Err: err}
	}
	if err := ss.Save(w); err != nil {
		return &compose.SerializationError{Format: "xlsx", Err: err}
	}
	return nil
}

// WriteFile serializes the document's tables to a file at path.
func WriteFile(src *compose.Document, path string) error {
	ss, err := build(src)
	if err != nil {
		return &compose.SerializationError{Format: "xlsx", Err: err}
	}
	if err := ss.SaveToFile(path); err != nil {
		return &compose.SerializationError{Format: "xlsx", Err: err}
	}
	return nil
}

func build(src *compose.Document) (*spreadsheet.Workbook, error) {
	ss := spreadsheet.New()
	cache := newStyleCache(ss)
	used := map[string]bool{}

	var pendingName string
	count := 0
	for _, b := range src.Blocks {
		switch {
		case b.Paragraph != nil && b.Paragraph.Style.HeadingLevel > 0:
			pendingName = b.Paragraph.Text()
		case b.Table != nil:
			count++
			name := sheetName(pendingName, count, used)
			pendingName = ""
			addSheet(ss, cache, name, b.Table)
		}
	}
	if count == 0 {
		ss.AddSheet()
	}

	if err := ss.Validate(); err != nil {
		return nil, fmt.Errorf("workbook validation: %w", err)
	}
	return ss, nil
}

func addSheet(ss *spreadsheet.Workbook, cache *styleCache, name string, t *compose.RenderTable) {
	sheet := ss.AddSheet()
	sheet.SetName(name)

	for _, row := range t.Rows {
		r := sheet.AddRow()
		for _, c := range row.Cells {
			cell := r.AddCell()
			setValue(cell, c.Text, row.IsHeader)
			if cs, ok := cache.get(c.Style); ok {
				cell.SetStyle(cs)
			}
		}
	}

	// Column widths follow the historical generator: widest value plus two
	// characters of padding, using Excel's ~8.3px-per-character metric.
	for col := 0; col < t.Columns; col++ {
		max := 0
		for _, row := range t.Rows {
			if n := len([]rune(row.Cells[col].Text)); n > max {
				max = n
			}
		}
		widthIn := float64(max+2) * 8.3 / 96.0
		sheet.Column(uint32(col + 1)).SetWidth(measurement.Distance(widthIn) * measurement.Inch)
	}

	if t.Columns > 0 && len(t.Rows) > 1 {
		sheet.SetAutoFilter(fmt.Sprintf("A1:%s%d", columnName(t.Columns-1), len(t.Rows)))
	}
}

// setValue writes a cell value, coercing data cells that parse as numbers to
// numeric cells.  Headers stay strings, as do values with leading zeros
// (identifiers like "007"), so nothing is lost in the coercion.
func setValue(cell spreadsheet.Cell, text string, header bool) {
	if !header {
		if n, err := parseNumber(text); err == nil {
			cell.SetNumber(n)
			return
		}
	}
	cell.SetString(text)
}

var errNotNumeric = fmt.Errorf("not a plain numeric value")

// parseNumber accepts plain decimal values only.  Values with leading zeros
// (identifiers like "007") stay strings so nothing is lost in the coercion.
func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if hasLeadingZero(s) {
		return 0, errNotNumeric
	}
	return strconv.ParseFloat(s, 64)
}

func hasLeadingZero(s string) bool {
	s = strings.TrimPrefix(s, "-")
	return len(s) > 1 && s[0] == '0' && s[1] != '.'
}

// sheetName sanitizes a candidate sheet name against Excel's constraints
// (31 chars, no []:*?/\) and deduplicates within the workbook.
func sheetName(candidate string, n int, used map[string]bool) string {
	name := strings.TrimSpace(candidate)
	if name == "" {
		name = fmt.Sprintf("Sheet %d", n)
	}
	name = strings.Map(func(r rune) rune {
		switch r {
		case '[', ']', ':', '*', '?', '/', '\\':
			return '_'
		}
		return r
	}, name)
	if runes := []rune(name); len(runes) > 31 {
		name = string(runes[:31])
	}
	base := name
	for i := 2; used[name]; i++ {
		suffix := fmt.Sprintf(" %d", i)
		runes := []rune(base)
		if len(runes)+len(suffix) > 31 {
			runes = runes[:31-len(suffix)]
		}
		name = string(runes) + suffix
	}
	used[name] = true
	return name
}

// columnName converts a zero-based column index to an A1-style column label.
func columnName(idx int) string {
	name := ""
	for idx >= 0 {
		name = string(rune('A'+idx%26)) + name
		idx = idx/26 - 1
	}
	return name
}

// -----------------------------------------------------------------------------
// Style resolution
// -----------------------------------------------------------------------------

// styleCache deduplicates workbook cell styles: unioffice styles are
// registered on the stylesheet, so identical IR styles must map to one
// registration rather than one per cell.
type styleCache struct {
	ss     *spreadsheet.Workbook
	styles map[string]spreadsheet.CellStyle
}

func newStyleCache(ss *spreadsheet.Workbook) *styleCache {
	return &styleCache{ss: ss, styles: make(map[string]spreadsheet.CellStyle)}
}

// get returns a registered style for the IR cell style.  Fully default
// styles return ok=false so unstyled cells stay unstyled.
func (c *styleCache) get(s compose.CellStyle) (spreadsheet.CellStyle, bool) {
	if s.BackgroundColor == "" && !s.Run.Bold && !s.Run.Italic && s.Run.FontColor == "" && s.Alignment == compose.AlignDefault {
		return spreadsheet.CellStyle{}, false
	}

	key := fmt.Sprintf("%t|%t|%s|%s|%s", s.Run.Bold, s.Run.Italic, s.Run.FontColor, s.BackgroundColor, s.Alignment)
	if cs, ok := c.styles[key]; ok {
		return cs, true
	}

	cs := c.ss.StyleSheet.AddCellStyle()
	if s.Run.Bold || s.Run.Italic || s.Run.FontColor != "" {
		font := c.ss.StyleSheet.AddFont()
		if s.Run.FontFamily != "" {
			font.SetName(s.Run.FontFamily)
		}
		if s.Run.FontSizePt > 0 {
			font.SetSize(s.Run.FontSizePt)
		}
		font.SetBold(s.Run.Bold)
		font.SetItalic(s.Run.Italic)
		if clr, ok := hexColor(s.Run.FontColor); ok {
			font.SetColor(clr)
		}
		cs.SetFont(font)
	}
	if clr, ok := hexColor(s.BackgroundColor); ok {
		fill := c.ss.StyleSheet.Fills().AddFill()
		pf := fill.SetPatternFill()
		pf.SetFgColor(clr)
		cs.SetFill(fill)
	}
	switch s.Alignment {
	case compose.AlignCenter:
		cs.SetHorizontalAlignment(sml.ST_HorizontalAlignmentCenter)
		cs.SetVerticalAlignment(sml.ST_VerticalAlignmentCenter)
	case compose.AlignRight:
		cs.SetHorizontalAlignment(sml.ST_HorizontalAlignmentRight)
	case compose.AlignLeft:
		cs.SetHorizontalAlignment(sml.ST_HorizontalAlignmentLeft)
	}

	c.styles[key] = cs
	return cs, true
}

// hexColor parses a 6-digit RGB hex string into a unioffice colour.
func hexColor(s string) (color.Color, bool) {
	if len(s) != 6 {
		return color.Color{}, false
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err != nil {
		return color.Color{}, false
	}
	return color.RGB(r, g, b), true
}
