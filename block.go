package compose

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Content blocks are the authoring-side input to the renderer.  They carry
// the semantic structure of a document (headings, paragraphs, lists, tables,
// page breaks) without any knowledge of the output container format.
//
// The JSON vocabulary matches the wire format used by callers of the file
// generation service: {"type":"heading","level":1,"text":...},
// {"type":"paragraph",...}, {"type":"bullet","items":[...]},
// {"type":"table","headers":[...],"rows":[[...]]}, {"type":"break"}.
// The shorthand tags "heading1".."heading6" decode to a heading with the
// corresponding level, and "numbered" decodes to an ordered list.

// -----------------------------------------------------------------------------
// Block variants
// -----------------------------------------------------------------------------

// Heading is a section heading with a level bounded 1-6.
type Heading struct {
	Level int
	Text  string
	Style Style
}

// Paragraph is a run of body text.
type Paragraph struct {
	Text  string
	Style Style
}

// List is an ordered or unordered sequence of item strings.
type List struct {
	Items   []string
	Ordered bool
}

// Table is a header row plus data rows.  Every row is expected to have
// len(Headers) values; the renderer enforces this (see Options.PadShortRows).
type Table struct {
	Headers []string
	Rows    [][]string
}

// PageBreak forces a page boundary in paginated output formats.
type PageBreak struct{}

// Block is a tagged union over the content variants.  Exactly one of the
// variant pointers is non-nil for a recognized block; a block decoded from an
// unrecognized tag keeps all pointers nil and preserves the tag for
// diagnostics.
type Block struct {
	Heading   *Heading
	Paragraph *Paragraph
	List      *List
	Table     *Table
	PageBreak *PageBreak

	// unknownTag holds the original type tag when decoding did not recognize
	// it, and unrecognized records that this happened.  The flag is separate
	// because an absent or empty tag is unrecognized too, and the diagnostic
	// must report what was actually received.  Render surfaces the tag in
	// UnsupportedBlockKindError.
	unknownTag   string
	unrecognized bool
}

// Kind returns the canonical type tag for the block.
func (b Block) Kind() string {
	switch {
	case b.Heading != nil:
		return "heading"
	case b.Paragraph != nil:
		return "paragraph"
	case b.List != nil && b.List.Ordered:
		return "numbered"
	case b.List != nil:
		return "bullet"
	case b.Table != nil:
		return "table"
	case b.PageBreak != nil:
		return "break"
	case b.unrecognized:
		return b.unknownTag
	default:
		return "unknown"
	}
}

func (b Block) String() string {
	switch {
	case b.Heading != nil:
		return fmt.Sprintf("heading%d: %q", b.Heading.Level, b.Heading.Text)
	case b.Paragraph != nil:
		return fmt.Sprintf("paragraph: %q", b.Paragraph.Text)
	case b.List != nil:
		return fmt.Sprintf("%s: %d items", b.Kind(), len(b.List.Items))
	case b.Table != nil:
		return fmt.Sprintf("table: %d cols, %d rows", len(b.Table.Headers), len(b.Table.Rows))
	case b.PageBreak != nil:
		return "break"
	default:
		return fmt.Sprintf("unknown: %q", b.unknownTag)
	}
}

// -----------------------------------------------------------------------------
// Constructors
// -----------------------------------------------------------------------------

// NewHeading builds a heading block.  Level is validated at render time, not
// here, so callers can construct blocks from untrusted input and report all
// failures through one path.
func NewHeading(level int, text string) Block {
	return Block{Heading: &Heading{Level: level, Text: text}}
}

// NewParagraph builds a paragraph block.
func NewParagraph(text string) Block {
	return Block{Paragraph: &Paragraph{Text: text}}
}

// NewBulletList builds an unordered list block.
func NewBulletList(items ...string) Block {
	return Block{List: &List{Items: items}}
}

// NewNumberedList builds an ordered list block.
func NewNumberedList(items ...string) Block {
	return Block{List: &List{Items: items, Ordered: true}}
}

// NewTable builds a table block.
func NewTable(headers []string, rows [][]string) Block {
	return Block{Table: &Table{Headers: headers, Rows: rows}}
}

// NewPageBreak builds a page break block.
func NewPageBreak() Block {
	return Block{PageBreak: &PageBreak{}}
}

// -----------------------------------------------------------------------------
// JSON codec
// -----------------------------------------------------------------------------

// blockEnvelope is the flat wire shape shared by all block variants.
type blockEnvelope struct {
	Type    string     `json:"type"`
	Level   int        `json:"level,omitempty"`
	Text    string     `json:"text,omitempty"`
	Items   []string   `json:"items,omitempty"`
	Headers []string   `json:"headers,omitempty"`
	Rows    [][]string `json:"rows,omitempty"`
	Style
}

// UnmarshalJSON decodes a block from the service wire format.  Unrecognized
// type tags do not fail here; they produce a block that Render rejects with
// UnsupportedBlockKindError so the caller sees the offending index too.
func (b *Block) UnmarshalJSON(data []byte) error {
	var env blockEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}

	*b = Block{}
	tag := strings.ToLower(strings.TrimSpace(env.Type))
	switch tag {
	case "heading":
		b.Heading = &Heading{Level: env.Level, Text: env.Text, Style: env.Style}
	case "heading1", "heading2", "heading3", "heading4", "heading5", "heading6":
		lvl, _ := strconv.Atoi(strings.TrimPrefix(tag, "heading"))
		b.Heading = &Heading{Level: lvl, Text: env.Text, Style: env.Style}
	case "paragraph":
		b.Paragraph = &Paragraph{Text: env.Text, Style: env.Style}
	case "bullet", "list":
		b.List = &List{Items: env.Items}
	case "numbered":
		b.List = &List{Items: env.Items, Ordered: true}
	case "table":
		b.Table = &Table{Headers: env.Headers, Rows: env.Rows}
	case "break", "pagebreak":
		b.PageBreak = &PageBreak{}
	default:
		b.unknownTag = env.Type
		b.unrecognized = true
	}
	return nil
}

// MarshalJSON encodes the block using the canonical tags ("heading" with an
// explicit level, "bullet"/"numbered", "table", "break").
func (b Block) MarshalJSON() ([]byte, error) {
	env := blockEnvelope{Type: b.Kind()}
	switch {
	case b.Heading != nil:
		env.Type = "heading"
		env.Level = b.Heading.Level
		env.Text = b.Heading.Text
		env.Style = b.Heading.Style
	case b.Paragraph != nil:
		env.Text = b.Paragraph.Text
		env.Style = b.Paragraph.Style
	case b.List != nil:
		env.Items = b.List.Items
	case b.Table != nil:
		env.Headers = b.Table.Headers
		env.Rows = b.Table.Rows
	case b.PageBreak != nil:
		// type tag only
	default:
		return nil, fmt.Errorf("cannot marshal block with unknown tag %q", b.unknownTag)
	}
	return json.Marshal(env)
}

// DecodeBlocks parses a JSON array of content blocks.
func DecodeBlocks(data []byte) ([]Block, error) {
	var blocks []Block
	if err := json.Unmarshal(data, &blocks); err != nil {
		return nil, fmt.Errorf("decoding content blocks: %w", err)
	}
	return blocks, nil
}
