package docx

import (
	"io"
	"strconv"
	"strings"

	"github.com/unidoc/unioffice/document"
	"github.com/unidoc/unioffice/schema/soo/wml"

	"github.com/aerissecure/compose"
)

// Read parses a DOCX document back into content blocks.  The reader is the
// inverse of Write on document structure: headings, paragraphs, lists,
// tables, and page breaks come back in order.  Run-level styling is not
// recovered.
func Read(r io.ReaderAt, size int64) ([]compose.Block, error) {
	doc, err := document.Read(r, size)
	if err != nil {
		return nil, err
	}
	return convert(doc)
}

// ReadFile parses the DOCX file at path into content blocks.
func ReadFile(path string) ([]compose.Block, error) {
	doc, err := document.Open(path)
	if err != nil {
		return nil, err
	}
	return convert(doc)
}

func convert(doc *document.Document) ([]compose.Block, error) {
	// Lookup maps from underlying XML ptr to high-level wrapper, so the
	// body can be walked in element order.
	pMap := make(map[*wml.CT_P]document.Paragraph)
	for _, p := range doc.Paragraphs() {
		pMap[p.X()] = p
	}
	tMap := make(map[*wml.CT_Tbl]document.Table)
	for _, tbl := range doc.Tables() {
		tMap[tbl.X()] = tbl
	}

	ordered := orderedNumIDs(doc)

	var blocks []compose.Block
	var list *compose.List

	flush := func() {
		if list != nil {
			blocks = append(blocks, compose.Block{List: list})
			list = nil
		}
	}

	body := doc.X().Body
	if body == nil {
		return nil, nil
	}

	for _, bl := range body.EG_BlockLevelElts {
		for _, c := range bl.EG_ContentBlockContent {
			for _, cp := range c.P {
				par, ok := pMap[cp]
				if !ok {
					continue
				}
				if hasPageBreak(par) {
					flush()
					blocks = append(blocks, compose.NewPageBreak())
					continue
				}
				text := paragraphText(par)
				if id, isItem := listNumID(par); isItem {
					isOrdered := ordered[id]
					if list != nil && list.Ordered != isOrdered {
						flush()
					}
					if list == nil {
						list = &compose.List{Ordered: isOrdered}
					}
					list.Items = append(list.Items, text)
					continue
				}
				flush()
				if level := headingLevel(par.Style()); level > 0 {
					blocks = append(blocks, compose.NewHeading(level, text))
				} else {
					blocks = append(blocks, compose.NewParagraph(text))
				}
			}
			for _, ct := range c.Tbl {
				tbl, ok := tMap[ct]
				if !ok {
					continue
				}
				flush()
				blocks = append(blocks, compose.Block{Table: convertTable(tbl)})
			}
		}
	}
	flush()

	return blocks, nil
}

func paragraphText(p document.Paragraph) string {
	var b strings.Builder
	for _, run := range p.Runs() {
		b.WriteString(run.Text())
	}
	return b.String()
}

// headingLevel extracts the level from a HeadingN style id, or 0.
func headingLevel(style string) int {
	n, err := strconv.Atoi(strings.TrimPrefix(style, "Heading"))
	if err != nil || n < 1 || n > 6 {
		return 0
	}
	return n
}

// hasPageBreak reports whether any run in the paragraph carries an
// explicit page break.
func hasPageBreak(p document.Paragraph) bool {
	for _, run := range p.Runs() {
		for _, ic := range run.X().EG_RunInnerContent {
			if ic.Br != nil && ic.Br.TypeAttr == wml.ST_BrTypePage {
				return true
			}
		}
	}
	return false
}

// listNumID returns the numbering definition id of a list item paragraph.
func listNumID(p document.Paragraph) (int64, bool) {
	ppr := p.X().PPr
	if ppr == nil || ppr.NumPr == nil || ppr.NumPr.NumId == nil {
		return 0, false
	}
	return ppr.NumPr.NumId.ValAttr, true
}

// orderedNumIDs maps numbering definition ids to whether their first level
// uses a decimal format, i.e. the list is numbered rather than bulleted.
func orderedNumIDs(doc *document.Document) map[int64]bool {
	abstract := make(map[int64]bool)
	for _, an := range doc.Numbering.X().AbstractNum {
		if len(an.Lvl) > 0 && an.Lvl[0].NumFmt != nil {
			abstract[an.AbstractNumIdAttr] = an.Lvl[0].NumFmt.ValAttr == wml.ST_NumberFormatDecimal
		}
	}
	out := make(map[int64]bool)
	for _, num := range doc.Numbering.X().Num {
		if num.AbstractNumId != nil {
			out[num.NumIdAttr] = abstract[num.AbstractNumId.ValAttr]
		}
	}
	return out
}

func convertTable(t document.Table) *compose.Table {
	out := &compose.Table{}
	for i, row := range t.Rows() {
		var cells []string
		for _, cell := range row.Cells() {
			var b strings.Builder
			for _, p := range cell.Paragraphs() {
				b.WriteString(paragraphText(p))
			}
			cells = append(cells, b.String())
		}
		if i == 0 {
			out.Headers = cells
		} else {
			out.Rows = append(out.Rows, cells)
		}
	}
	return out
}
