// Package htmldoc renders a compose.Document to self-contained HTML, which
// is mostly useful for previewing content before committing to a binary
// container format.
package htmldoc

import (
	"fmt"
	"html"
	"io"
	"regexp"
	"strings"

	"github.com/aerissecure/compose"
)

// Debug controls whether extra data attributes with raw style info are
// included in the rendered HTML output.
var Debug bool

// -----------------------------------------------------------------------------
// Helpers for sanitising CSS values
// -----------------------------------------------------------------------------

var (
	fontFamilySafeRe = regexp.MustCompile(`[^a-zA-Z0-9 ,_-]+`)
	hexColorRe       = regexp.MustCompile(`^[0-9a-fA-F]{3}([0-9a-fA-F]{3})?$`)
)

// sanitizeFontFamily strips any characters that are not considered safe for a
// CSS font-family declaration.  This prevents breaking out of the CSS context
// and injecting arbitrary directives.
func sanitizeFontFamily(s string) string {
	return fontFamilySafeRe.ReplaceAllString(s, "")
}

// sanitizeColor ensures the value is a valid 3- or 6-digit hexadecimal string.
// Any invalid input results in an empty string, preventing potential CSS or
// markup injection.
func sanitizeColor(s string) string {
	if hexColorRe.MatchString(s) {
		return s
	}
	return ""
}

// -----------------------------------------------------------------------------
// Run-level helpers
// -----------------------------------------------------------------------------

func runStyleToCSS(s compose.RunStyle) string {
	var b strings.Builder
	if s.FontFamily != "" {
		b.WriteString(fmt.Sprintf("font-family:'%s';", sanitizeFontFamily(s.FontFamily)))
	}
	if s.FontSizePt > 0 {
		b.WriteString(fmt.Sprintf("font-size:%.1fpt;", s.FontSizePt))
	}
	if s.FontColor != "" {
		if safe := sanitizeColor(s.FontColor); safe != "" {
			b.WriteString(fmt.Sprintf("color:#%s;", safe))
		}
	}
	if s.Bold {
		b.WriteString("font-weight:bold;")
	}
	if s.Italic {
		b.WriteString("font-style:italic;")
	}
	if s.Underline {
		b.WriteString("text-decoration:underline;")
	}
	return b.String()
}

func alignToCSS(a compose.Alignment) string {
	switch a {
	case compose.AlignCenter:
		return "text-align:center;"
	case compose.AlignRight:
		return "text-align:right;"
	case compose.AlignJustify:
		return "text-align:justify;"
	default:
		return ""
	}
}

func writeRun(b *strings.Builder, r compose.RenderRun) {
	css := runStyleToCSS(r.Style)
	if css == "" {
		b.WriteString(html.EscapeString(r.Text))
		return
	}
	b.WriteString(fmt.Sprintf(`<span style="%s"`, css))
	if Debug {
		b.WriteString(fmt.Sprintf(` data-style="%s"`, html.EscapeString(r.Style.String())))
	}
	b.WriteString(">")
	b.WriteString(html.EscapeString(r.Text))
	b.WriteString("</span>")
}

// -----------------------------------------------------------------------------
// Block rendering
// -----------------------------------------------------------------------------

func writeParagraph(b *strings.Builder, p compose.RenderParagraph) {
	tag := "p"
	if lvl := p.Style.HeadingLevel; lvl >= 1 && lvl <= 6 {
		tag = fmt.Sprintf("h%d", lvl)
	}
	if css := alignToCSS(p.Style.Alignment); css != "" {
		b.WriteString(fmt.Sprintf(`<%s style="%s">`, tag, css))
	} else {
		b.WriteString("<" + tag + ">")
	}
	for _, r := range p.Runs {
		writeRun(b, r)
	}
	b.WriteString("</" + tag + ">\n")
}

func writeList(b *strings.Builder, l compose.RenderList) {
	tag := "ul"
	if l.Ordered {
		tag = "ol"
	}
	b.WriteString("<" + tag + ">\n")
	for _, item := range l.Items {
		b.WriteString("<li>")
		for _, r := range item.Runs {
			writeRun(b, r)
		}
		b.WriteString("</li>\n")
	}
	b.WriteString("</" + tag + ">\n")
}

func writeTable(b *strings.Builder, t compose.RenderTable) {
	b.WriteString(`<table style="border-collapse:collapse;">` + "\n")
	for _, row := range t.Rows {
		b.WriteString("<tr>")
		tag := "td"
		if row.IsHeader {
			tag = "th"
		}
		for _, c := range row.Cells {
			var css strings.Builder
			css.WriteString("border:1px solid #333;padding:2px 6px;")
			css.WriteString(runStyleToCSS(c.Style.Run))
			css.WriteString(alignToCSS(c.Style.Alignment))
			if safe := sanitizeColor(c.Style.BackgroundColor); safe != "" {
				css.WriteString(fmt.Sprintf("background-color:#%s;", safe))
			}
			b.WriteString(fmt.Sprintf(`<%s style="%s">%s</%s>`, tag, css.String(), html.EscapeString(c.Text), tag))
		}
		b.WriteString("</tr>\n")
	}
	b.WriteString("</table>\n")
}

// Render converts the document to an HTML string.
func Render(doc *compose.Document) string {
	var b strings.Builder
	b.WriteString("<html><head>")
	if doc.Properties.Title != "" {
		b.WriteString("<title>" + html.EscapeString(doc.Properties.Title) + "</title>")
	}
	b.WriteString("</head><body>\n")

	for _, blk := range doc.Blocks {
		switch {
		case blk.Paragraph != nil:
			writeParagraph(&b, *blk.Paragraph)
		case blk.List != nil:
			writeList(&b, *blk.List)
		case blk.Table != nil:
			writeTable(&b, *blk.Table)
		case blk.PageBreak:
			b.WriteString(`<div style="page-break-after:always;"></div>` + "\n")
		}
	}

	b.WriteString("</body></html>\n")
	return b.String()
}

// Write renders the document to w.
func Write(doc *compose.Document, w io.Writer) error {
	if _, err := io.WriteString(w, Render(doc)); err != nil {
		return &compose.SerializationError{Format: "html", Err: err}
	}
	return nil
}
