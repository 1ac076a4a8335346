// Package compose turns ordered sequences of typed content blocks into a
// normalized in-memory document tree ready for serialization to DOCX, XLSX,
// or HTML.  Rendering is a pure transformation: no file I/O, no retained
// state, and fail-fast all-or-nothing validation.
package compose

// Options configures a single Render call.
type Options struct {
	// Properties become the output document's core properties.
	Properties DocProperties
	// Theme supplies the style defaults blocks inherit.  A zero Theme is
	// replaced with DefaultTheme.
	Theme Theme
	// PadShortRows pads table rows shorter than the header with empty cells
	// instead of failing.  Rows longer than the header always fail; values
	// are never silently truncated.
	PadShortRows bool
}

// DefaultOptions returns Options with the built-in theme and empty
// properties.
func DefaultOptions() Options {
	return Options{Theme: DefaultTheme()}
}

// Render transforms content blocks into a Document.  The result preserves
// input order exactly: no blocks are dropped, reordered, or merged, and an
// empty input yields a valid document with zero blocks.
//
// Validation is eager: the first invalid block aborts the render with a
// typed error (UnsupportedBlockKindError, InvalidHeadingLevelError,
// RowLengthMismatchError) identifying the offending index.
func Render(blocks []Block, opts Options) (*Document, error) {
	theme := opts.Theme
	if theme.isZero() {
		theme = DefaultTheme()
	}
	// Partially specified themes fall back to the built-in defaults for the
	// attributes every render needs.
	if theme.FontFamily == "" {
		theme.FontFamily = DefaultTheme().FontFamily
	}
	if theme.FontSizePt <= 0 {
		theme.FontSizePt = DefaultTheme().FontSizePt
	}
	if err := theme.validate(); err != nil {
		return nil, err
	}

	doc := &Document{
		Properties: opts.Properties,
		Theme:      theme,
		Blocks:     make([]RenderBlock, 0, len(blocks)),
	}

	for i, b := range blocks {
		switch {
		case b.Heading != nil:
			if b.Heading.Level < 1 || b.Heading.Level > 6 {
				return nil, &InvalidHeadingLevelError{Index: i, Level: b.Heading.Level}
			}
			doc.Blocks = append(doc.Blocks, RenderBlock{Paragraph: renderHeading(b.Heading, theme)})
		case b.Paragraph != nil:
			doc.Blocks = append(doc.Blocks, RenderBlock{Paragraph: renderParagraph(b.Paragraph, theme)})
		case b.List != nil:
			doc.Blocks = append(doc.Blocks, RenderBlock{List: renderList(b.List, theme)})
		case b.Table != nil:
			tbl, err := renderTable(i, b.Table, theme, opts.PadShortRows)
			if err != nil {
				return nil, err
			}
			doc.Blocks = append(doc.Blocks, RenderBlock{Table: tbl})
		case b.PageBreak != nil:
			doc.Blocks = append(doc.Blocks, RenderBlock{PageBreak: true})
		default:
			return nil, &UnsupportedBlockKindError{Index: i, Kind: b.Kind()}
		}
	}

	return doc, nil
}

// resolveRun merges an authoring-side style over the theme defaults.
func resolveRun(s Style, theme Theme) RunStyle {
	rs := RunStyle{
		FontFamily: theme.FontFamily,
		FontSizePt: theme.FontSizePt,
		FontColor:  s.Color,
		Bold:       s.Bold,
		Italic:     s.Italic,
		Underline:  s.Underline,
	}
	if s.FontSizePt > 0 {
		rs.FontSizePt = s.FontSizePt
	}
	return rs
}

func renderHeading(h *Heading, theme Theme) *RenderParagraph {
	rs := resolveRun(h.Style, theme)
	// Headings are bold at their level's size unless the author overrides.
	rs.Bold = true
	if h.Style.FontSizePt <= 0 {
		rs.FontSizePt = theme.HeadingSize(h.Level)
	}
	return &RenderParagraph{
		Runs:  []RenderRun{{Text: h.Text, Style: rs}},
		Style: ParagraphStyle{Alignment: h.Style.Alignment, HeadingLevel: h.Level},
	}
}

func renderParagraph(p *Paragraph, theme Theme) *RenderParagraph {
	return &RenderParagraph{
		Runs:  []RenderRun{{Text: p.Text, Style: resolveRun(p.Style, theme)}},
		Style: ParagraphStyle{Alignment: p.Style.Alignment},
	}
}

func renderList(l *List, theme Theme) *RenderList {
	rl := &RenderList{Ordered: l.Ordered, Items: make([]RenderParagraph, 0, len(l.Items))}
	for _, item := range l.Items {
		rl.Items = append(rl.Items, RenderParagraph{
			Runs: []RenderRun{{Text: item, Style: resolveRun(Style{}, theme)}},
		})
	}
	return rl
}

func renderTable(index int, t *Table, theme Theme, padShort bool) (*RenderTable, error) {
	cols := len(t.Headers)
	rt := &RenderTable{Columns: cols, Rows: make([]RenderTableRow, 0, len(t.Rows)+1)}

	headerStyle := CellStyle{
		Run: RunStyle{
			FontFamily: theme.FontFamily,
			FontSizePt: theme.FontSizePt,
			FontColor:  theme.HeaderFontColor,
			Bold:       true,
		},
		BackgroundColor: theme.HeaderFill,
		Alignment:       AlignCenter,
	}
	header := RenderTableRow{IsHeader: true, Cells: make([]RenderTableCell, 0, cols)}
	for _, h := range t.Headers {
		header.Cells = append(header.Cells, RenderTableCell{Text: h, Style: headerStyle})
	}
	rt.Rows = append(rt.Rows, header)

	for ri, row := range t.Rows {
		if len(row) > cols || (len(row) < cols && !padShort) {
			return nil, &RowLengthMismatchError{Index: index, Row: ri, Got: len(row), Want: cols}
		}
		style := CellStyle{Run: resolveRun(Style{}, theme)}
		// Data rows alternate between the theme's band fill and plain,
		// starting banded: the first data row sits on an even worksheet row.
		if ri%2 == 0 {
			style.BackgroundColor = theme.BandFill
		}
		rr := RenderTableRow{Cells: make([]RenderTableCell, cols)}
		for ci := 0; ci < cols; ci++ {
			var val string
			if ci < len(row) {
				val = row[ci]
			}
			rr.Cells[ci] = RenderTableCell{Text: val, Style: style}
		}
		rt.Rows = append(rt.Rows, rr)
	}

	return rt, nil
}

// Content reparses the rendered document back into authoring-side blocks.
// The reconstruction is structural: block order, text, heading levels, list
// items, and table shape survive exactly (padded table rows come back at
// their padded length), while inherited style attributes are not re-derived.
func (d *Document) Content() []Block {
	blocks := make([]Block, 0, len(d.Blocks))
	for _, rb := range d.Blocks {
		switch {
		case rb.Paragraph != nil && rb.Paragraph.Style.HeadingLevel > 0:
			blocks = append(blocks, NewHeading(rb.Paragraph.Style.HeadingLevel, rb.Paragraph.Text()))
		case rb.Paragraph != nil:
			blocks = append(blocks, NewParagraph(rb.Paragraph.Text()))
		case rb.List != nil:
			items := make([]string, 0, len(rb.List.Items))
			for _, it := range rb.List.Items {
				items = append(items, it.Text())
			}
			blocks = append(blocks, Block{List: &List{Items: items, Ordered: rb.List.Ordered}})
		case rb.Table != nil:
			var headers []string
			var rows [][]string
			for _, row := range rb.Table.Rows {
				vals := make([]string, 0, len(row.Cells))
				for _, c := range row.Cells {
					vals = append(vals, c.Text)
				}
				if row.IsHeader {
					headers = vals
					continue
				}
				rows = append(rows, vals)
			}
			blocks = append(blocks, NewTable(headers, rows))
		case rb.PageBreak:
			blocks = append(blocks, NewPageBreak())
		}
	}
	return blocks
}
