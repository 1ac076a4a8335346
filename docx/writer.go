// Package docx serializes a compose.Document to a Word (.docx) container
// using unioffice.  It translates the resolved IR one block at a time:
// headings become styled paragraphs carrying the matching HeadingN style
// name, lists get a numbering definition per block so ordered lists restart
// at 1, and tables are emitted with full borders and the IR's cell shading.
package docx

import (
	"fmt"
	"io"

	"github.com/unidoc/unioffice"
	"github.com/unidoc/unioffice/color"
	"github.com/unidoc/unioffice/document"
	"github.com/unidoc/unioffice/measurement"
	"github.com/unidoc/unioffice/schema/soo/ofc/sharedTypes"
	"github.com/unidoc/unioffice/schema/soo/wml"

	"github.com/aerissecure/compose"
)

// Write serializes the document to w.
func Write(src *compose.Document, w io.Writer) error {
	out, err := build(src)
	if err != nil {
		return &compose.SerializationError{Format: "docx", Err: err}
	}
	if err := out.Save(w); err != nil {
		return &compose.SerializationError{Format: "docx", Err: err}
	}
	return nil
}

// WriteFile serializes the document to a file at path.
func WriteFile(src *compose.Document, path string) error {
	out, err := build(src)
	if err != nil {
		return &compose.SerializationError{Format: "docx", Err: err}
	}
	if err := out.SaveToFile(path); err != nil {
		return &compose.SerializationError{Format: "docx", Err: err}
	}
	return nil
}

func build(src *compose.Document) (*document.Document, error) {
	out := document.New()
	applyProperties(out, src.Properties)
	applyPageSize(out, src.Theme.PageSize)

	for i, b := range src.Blocks {
		switch {
		case b.Paragraph != nil:
			addParagraph(out, *b.Paragraph)
		case b.List != nil:
			addList(out, *b.List)
		case b.Table != nil:
			addTable(out, *b.Table)
		case b.PageBreak:
			out.AddParagraph().AddRun().AddPageBreak()
		default:
			// Render guarantees this cannot happen; fail loudly if the IR
			// was constructed by hand.
			return nil, fmt.Errorf("block %d: empty render block", i)
		}
	}
	return out, nil
}

func applyProperties(out *document.Document, p compose.DocProperties) {
	if p.Title != "" {
		out.CoreProperties.SetTitle(p.Title)
	}
	if p.Author != "" {
		out.CoreProperties.SetAuthor(p.Author)
	}
	if !p.Created.IsZero() {
		out.CoreProperties.SetCreated(p.Created)
	}
	if !p.Modified.IsZero() {
		out.CoreProperties.SetModified(p.Modified)
	}
}

func applyPageSize(out *document.Document, size string) {
	switch size {
	case compose.PageSizeA4:
		setPageSizeAndOrientation(out.BodySection(), 210*measurement.Millimeter, 297*measurement.Millimeter, wml.ST_PageOrientationPortrait)
	case compose.PageSizeLetter:
		setPageSizeAndOrientation(out.BodySection(), 8.5*measurement.Inch, 11*measurement.Inch, wml.ST_PageOrientationPortrait)
	}
}

// setPageSizeAndOrientation sets the page size and orientation for a section.
// The pinned unioffice fork does not expose Section.SetPageSizeAndOrientation,
// so this sets CT_SectPr.PgSz directly with the same twips measurements.
func setPageSizeAndOrientation(s document.Section, w, h measurement.Distance, orientation wml.ST_PageOrientation) {
	sectPr := s.X()
	if sectPr.PgSz == nil {
		sectPr.PgSz = wml.NewCT_PageSz()
	}
	sectPr.PgSz.OrientAttr = orientation
	if orientation == wml.ST_PageOrientationLandscape {
		w, h = h, w
	}
	sectPr.PgSz.WAttr = &sharedTypes.ST_TwipsMeasure{ST_UnsignedDecimalNumber: unioffice.Uint64(uint64(w / measurement.Twips))}
	sectPr.PgSz.HAttr = &sharedTypes.ST_TwipsMeasure{ST_UnsignedDecimalNumber: unioffice.Uint64(uint64(h / measurement.Twips))}
}

func addParagraph(out *document.Document, p compose.RenderParagraph) {
	para := out.AddParagraph()
	if lvl := p.Style.HeadingLevel; lvl > 0 {
		// The style name keeps navigation/TOC behavior in Word; the run
		// formatting below carries the resolved look regardless of whether
		// the consuming application defines the style.
		para.SetStyle(fmt.Sprintf("Heading%d", lvl))
	}
	if jc, ok := alignmentTo(p.Style.Alignment); ok {
		para.Properties().SetAlignment(jc)
	}
	for _, r := range p.Runs {
		addRun(para, r)
	}
}

func addList(out *document.Document, l compose.RenderList) {
	nd := out.Numbering.AddDefinition()
	lvl := nd.AddLevel()
	if l.Ordered {
		lvl.SetFormat(wml.ST_NumberFormatDecimal)
		lvl.SetText("%1.")
	} else {
		lvl.SetFormat(wml.ST_NumberFormatBullet)
		lvl.SetText("•")
	}
	lvl.SetAlignment(wml.ST_JcLeft)
	lvl.Properties().SetLeftIndent(0.5 * measurement.Inch)

	for _, item := range l.Items {
		para := out.AddParagraph()
		para.SetNumberingDefinition(nd)
		para.SetNumberingLevel(0)
		for _, r := range item.Runs {
			addRun(para, r)
		}
	}
}

func addTable(out *document.Document, t compose.RenderTable) {
	tbl := out.AddTable()
	tbl.Properties().SetWidthPercent(100)
	tbl.Properties().Borders().SetAll(wml.ST_BorderSingle, color.Auto, 0.5*measurement.Point)

	for _, row := range t.Rows {
		tr := tbl.AddRow()
		for _, c := range row.Cells {
			cell := tr.AddCell()
			if bg, ok := hexColor(c.Style.BackgroundColor); ok {
				cell.Properties().SetShading(wml.ST_ShdSolid, bg, color.Auto)
			}
			para := cell.AddParagraph()
			if jc, ok := alignmentTo(c.Style.Alignment); ok {
				para.Properties().SetAlignment(jc)
			}
			addRun(para, compose.RenderRun{Text: c.Text, Style: c.Style.Run})
		}
	}
}

func addRun(para document.Paragraph, r compose.RenderRun) {
	run := para.AddRun()
	run.AddText(r.Text)

	props := run.Properties()
	if r.Style.FontFamily != "" {
		props.SetFontFamily(r.Style.FontFamily)
	}
	if r.Style.FontSizePt > 0 {
		props.SetSize(measurement.Distance(r.Style.FontSizePt) * measurement.Point)
	}
	if r.Style.Bold {
		props.SetBold(true)
	}
	if r.Style.Italic {
		props.SetItalic(true)
	}
	if r.Style.Underline {
		props.SetUnderline(wml.ST_UnderlineSingle, color.Auto)
	}
	if c, ok := hexColor(r.Style.FontColor); ok {
		props.SetColor(c)
	}
}

func alignmentTo(a compose.Alignment) (wml.ST_Jc, bool) {
	switch a {
	case compose.AlignLeft:
		return wml.ST_JcLeft, true
	case compose.AlignCenter:
		return wml.ST_JcCenter, true
	case compose.AlignRight:
		return wml.ST_JcRight, true
	case compose.AlignJustify:
		return wml.ST_JcBoth, true
	default:
		return wml.ST_JcUnset, false
	}
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
