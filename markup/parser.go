// Package markup parses a small line-oriented markup into content blocks,
// giving authors a friendlier input format than raw JSON:
//
//	# Heading            one to six # set the level
//	plain text           one paragraph per non-blank line
//	- item               bullet list item
//	1. item              numbered list item
//	| A | B |            table row; the first row is the header row and
//	|---|---|            separator rows are ignored
//	---                  page break
//
// The first token of a line decides its kind.  Consecutive list items group
// into one list block and consecutive table rows into one table block.
// Empty table cells need a single space between the pipes; adjacent pipes
// collapse.
package markup

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/aerissecure/compose"
)

var (
	markupLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Newline", Pattern: `\r?\n`},
		{Name: "Rule", Pattern: `---+`},
		{Name: "Hashes", Pattern: `#{1,6}[ \t]+`},
		{Name: "BulletMark", Pattern: `-[ \t]+`},
		{Name: "NumberMark", Pattern: `\d+\.[ \t]+`},
		{Name: "Pipe", Pattern: `\|`},
		{Name: "Text", Pattern: `[^|\r\n]+`},
	})

	fileParser = participle.MustBuild[sourceFile](
		participle.Lexer(markupLexer),
	)
)

// -----------------------------------------------------------------------------
// Line AST
// -----------------------------------------------------------------------------

// The lexer has no notion of line position, so marker tokens (Rule, list
// marks, heading hashes) can also appear mid-line; every "rest of the line"
// capture therefore accepts them alongside plain Text and rejoins the parts.

type sourceFile struct {
	Lines []*line `parser:"( @@ | Newline )*"`
}

type line struct {
	Pos     lexer.Position
	Heading *headingLine `parser:"  @@"`
	Bullet  *bulletLine  `parser:"| @@"`
	Number  *numberLine  `parser:"| @@"`
	Row     *rowLine     `parser:"| @@"`
	Break   *breakLine   `parser:"| @@"`
	Text    *textLine    `parser:"| @@"`
}

type headingLine struct {
	Marker string   `parser:"@Hashes"`
	Parts  []string `parser:"@( Text | Rule | Hashes | BulletMark | NumberMark | Pipe )* Newline?"`
}

type bulletLine struct {
	Marker string   `parser:"@BulletMark"`
	Parts  []string `parser:"@( Text | Rule | Hashes | BulletMark | NumberMark | Pipe )* Newline?"`
}

type numberLine struct {
	Marker string   `parser:"@NumberMark"`
	Parts  []string `parser:"@( Text | Rule | Hashes | BulletMark | NumberMark | Pipe )* Newline?"`
}

type rowLine struct {
	Cells []*rowCell `parser:"( Pipe @@? )+ Newline?"`
}

type rowCell struct {
	Parts []string `parser:"@( Text | Rule | Hashes | BulletMark | NumberMark )+"`
}

type breakLine struct {
	Marker string `parser:"@Rule Newline?"`
}

type textLine struct {
	First string   `parser:"@Text"`
	Parts []string `parser:"@( Text | Rule | Hashes | BulletMark | NumberMark | Pipe )* Newline?"`
}

func joined(first string, parts []string) string {
	return strings.TrimSpace(first + strings.Join(parts, ""))
}

// -----------------------------------------------------------------------------
// Block building
// -----------------------------------------------------------------------------

// separatorRow reports whether all cells look like |---| divider content.
func separatorRow(cells []string) bool {
	for _, c := range cells {
		if c == "" || strings.Trim(c, ":-") != "" {
			return false
		}
	}
	return len(cells) > 0
}

// build groups the parsed lines into content blocks.
func build(f *sourceFile) ([]compose.Block, error) {
	var blocks []compose.Block

	var list *compose.List
	var table *compose.Table

	flush := func() {
		if list != nil {
			blocks = append(blocks, compose.Block{List: list})
			list = nil
		}
		if table != nil {
			blocks = append(blocks, compose.Block{Table: table})
			table = nil
		}
	}

	for _, ln := range f.Lines {
		switch {
		case ln.Heading != nil:
			flush()
			level := len(strings.TrimRight(ln.Heading.Marker, " \t"))
			blocks = append(blocks, compose.NewHeading(level, joined("", ln.Heading.Parts)))

		case ln.Bullet != nil:
			if table != nil || (list != nil && list.Ordered) {
				flush()
			}
			if list == nil {
				list = &compose.List{}
			}
			list.Items = append(list.Items, joined("", ln.Bullet.Parts))

		case ln.Number != nil:
			if table != nil || (list != nil && !list.Ordered) {
				flush()
			}
			if list == nil {
				list = &compose.List{Ordered: true}
			}
			list.Items = append(list.Items, joined("", ln.Number.Parts))

		case ln.Row != nil:
			if list != nil {
				flush()
			}
			cells := make([]string, 0, len(ln.Row.Cells))
			for _, c := range ln.Row.Cells {
				cells = append(cells, joined("", c.Parts))
			}
			if separatorRow(cells) {
				continue
			}
			if table == nil {
				table = &compose.Table{Headers: cells}
				continue
			}
			if len(cells) != len(table.Headers) {
				return nil, fmt.Errorf("%s: table row has %d cells, header has %d",
					ln.Pos, len(cells), len(table.Headers))
			}
			table.Rows = append(table.Rows, cells)

		case ln.Break != nil:
			flush()
			blocks = append(blocks, compose.NewPageBreak())

		case ln.Text != nil:
			flush()
			blocks = append(blocks, compose.NewParagraph(joined(ln.Text.First, ln.Text.Parts)))
		}
	}
	flush()

	return blocks, nil
}

// Parse reads markup content from an io.Reader.
func Parse(r io.Reader) ([]compose.Block, error) {
	f, err := fileParser.Parse("", r)
	if err != nil {
		return nil, err
	}
	return build(f)
}

// ParseString parses markup content from a string.
func ParseString(input string) ([]compose.Block, error) {
	f, err := fileParser.ParseString("", input)
	if err != nil {
		return nil, err
	}
	return build(f)
}
