package compose

import (
	"fmt"
	"time"
)

// Intermediate representation (IR) for rendered documents.
//
// The purpose of these types is to provide a Go-native structure that sits
// between authoring-side content blocks and the concrete output formats.
// Render resolves every inherited style attribute eagerly, so serializers
// (docx, xlsx, HTML) can translate the IR without consulting the Theme or
// making styling decisions of their own.
//
// All colours are expressed as 6-character RGB hex strings without the
// leading "#" (e.g. "FF0000" for red).

// -----------------------------------------------------------------------------
// Document-level information
// -----------------------------------------------------------------------------

// DocProperties captures the common document properties that users typically
// care about (title, author, …).  The field list can be expanded later if we
// need deeper metadata.
type DocProperties struct {
	Title       string
	Subject     string
	Author      string
	Keywords    string
	Description string
	Created     time.Time
	Modified    time.Time
}

func (p DocProperties) String() string {
	return fmt.Sprintf("Title: %q, Subject: %q, Author: %q, Keywords: %q, Description: %q, Created: %s, Modified: %s",
		p.Title, p.Subject, p.Author, p.Keywords, p.Description, p.Created.Format(time.RFC3339), p.Modified.Format(time.RFC3339))
}

// -----------------------------------------------------------------------------
// Run-level information
// -----------------------------------------------------------------------------

// RunStyle captures the fully resolved character formatting for a run of
// text.  Unlike Style, nothing here is inherited: FontFamily and FontSizePt
// are always populated by Render.
type RunStyle struct {
	FontFamily string  // e.g. "Calibri"
	FontSizePt float64 // size in points
	FontColor  string  // "RRGGBB"; empty means the format's automatic colour
	Bold       bool
	Italic     bool
	Underline  bool
}

func (s RunStyle) String() string {
	return fmt.Sprintf("FontFamily: %s, FontSizePt: %f, FontColor: %s, Bold: %t, Italic: %t, Underline: %t",
		s.FontFamily, s.FontSizePt, s.FontColor, s.Bold, s.Italic, s.Underline)
}

// RenderRun represents a single styled run of text within a paragraph.
type RenderRun struct {
	Text  string   // text content for the run
	Style RunStyle // resolved run style
}

func (r RenderRun) String() string {
	return fmt.Sprintf("Text: %q, Style: [%s]", r.Text, r.Style.String())
}

// -----------------------------------------------------------------------------
// Paragraph-level information
// -----------------------------------------------------------------------------

// ParagraphStyle captures resolved paragraph-level formatting.
type ParagraphStyle struct {
	Alignment    Alignment // resolved; AlignDefault means the format default
	HeadingLevel int       // 0 means normal paragraph, 1-6 for headings
}

func (s ParagraphStyle) String() string {
	return fmt.Sprintf("Alignment: %s, HeadingLevel: %d", s.Alignment, s.HeadingLevel)
}

// RenderParagraph is the IR for a paragraph or heading (headings are
// paragraphs with Style.HeadingLevel in 1-6).
type RenderParagraph struct {
	Runs  []RenderRun    // constituent runs
	Style ParagraphStyle // resolved paragraph style
}

// Text returns the concatenated run text.
func (p RenderParagraph) Text() string {
	var out string
	for _, r := range p.Runs {
		out += r.Text
	}
	return out
}

func (p RenderParagraph) String() string {
	return fmt.Sprintf("Runs: %d, Style: [%s]", len(p.Runs), p.Style.String())
}

// -----------------------------------------------------------------------------
// List-level information
// -----------------------------------------------------------------------------

// RenderList is the IR for a bullet or numbered list; items in order.
type RenderList struct {
	Items   []RenderParagraph
	Ordered bool
}

func (l RenderList) String() string {
	return fmt.Sprintf("Items: %d, Ordered: %t", len(l.Items), l.Ordered)
}

// -----------------------------------------------------------------------------
// Table-level information
// -----------------------------------------------------------------------------

// CellStyle captures the resolved style of a table cell.
type CellStyle struct {
	Run             RunStyle  // text formatting within the cell
	BackgroundColor string    // fill colour "RRGGBB"; empty means none
	Alignment       Alignment // horizontal alignment
}

func (s CellStyle) String() string {
	return fmt.Sprintf("Run: [%s], BackgroundColor: %s, Alignment: %s", s.Run.String(), s.BackgroundColor, s.Alignment)
}

// RenderTableCell is the IR for a single table cell.  Values are kept as
// verbatim strings; any numeric coercion is a serializer concern (the xlsx
// writer coerces values that parse as numbers, nothing else does).
type RenderTableCell struct {
	Text  string
	Style CellStyle
}

func (c RenderTableCell) String() string {
	return fmt.Sprintf("Text: %q, Style: [%s]", c.Text, c.Style.String())
}

// RenderTableRow represents a row within a table.
type RenderTableRow struct {
	Cells    []RenderTableCell // length equals the column count of the parent table
	IsHeader bool
}

func (r RenderTableRow) String() string {
	return fmt.Sprintf("Cells: %d, IsHeader: %t", len(r.Cells), r.IsHeader)
}

// RenderTable is the IR for a table.  The header row is first with IsHeader
// set; every row has exactly Columns cells.
type RenderTable struct {
	Columns int
	Rows    []RenderTableRow
}

func (t RenderTable) String() string {
	return fmt.Sprintf("Columns: %d, Rows: %d", t.Columns, len(t.Rows))
}

// -----------------------------------------------------------------------------
// Block ordering
// -----------------------------------------------------------------------------

// RenderBlock represents one rendered block in document order.  Exactly one
// of Paragraph/List/Table will be non-nil, or PageBreak is set.
type RenderBlock struct {
	Paragraph *RenderParagraph
	List      *RenderList
	Table     *RenderTable
	PageBreak bool
}

// Kind returns the canonical tag for the rendered block.
func (b RenderBlock) Kind() string {
	switch {
	case b.Paragraph != nil && b.Paragraph.Style.HeadingLevel > 0:
		return "heading"
	case b.Paragraph != nil:
		return "paragraph"
	case b.List != nil && b.List.Ordered:
		return "numbered"
	case b.List != nil:
		return "bullet"
	case b.Table != nil:
		return "table"
	case b.PageBreak:
		return "break"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Top-level document model
// -----------------------------------------------------------------------------

// Document is the rendered document tree.  It is created by one Render call,
// never mutated afterward, and handed to a serializer exactly once; renders
// share no state, so independent documents may be produced concurrently.
type Document struct {
	Properties DocProperties
	Theme      Theme // resolved document defaults (page size, banding colours)
	Blocks     []RenderBlock
}

func (d *Document) String() string {
	return fmt.Sprintf("Blocks: %d, Properties: [%s]", len(d.Blocks), d.Properties.String())
}

// Tables returns the document's tables in order.
func (d *Document) Tables() []*RenderTable {
	var tables []*RenderTable
	for _, b := range d.Blocks {
		if b.Table != nil {
			tables = append(tables, b.Table)
		}
	}
	return tables
}
