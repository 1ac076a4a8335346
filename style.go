package compose

import "fmt"

// Alignment is the horizontal alignment of a paragraph or table cell.
type Alignment string

const (
	AlignDefault Alignment = ""
	AlignLeft    Alignment = "left"
	AlignCenter  Alignment = "center"
	AlignRight   Alignment = "right"
	AlignJustify Alignment = "justify"
)

// Valid reports whether the alignment is one of the recognized values.
func (a Alignment) Valid() bool {
	switch a {
	case AlignDefault, AlignLeft, AlignCenter, AlignRight, AlignJustify:
		return true
	}
	return false
}

// Style is the optional per-block styling carried on authoring-side blocks.
// Zero values mean "inherit the document default" from the Theme; Bold and
// Italic are independent flags with no precedence between them.
//
// All colours are 6-character RGB hex strings without the leading "#"
// (e.g. "FF0000" for red), matching the convention used across this module.
type Style struct {
	Bold       bool      `json:"bold,omitempty"`
	Italic     bool      `json:"italic,omitempty"`
	Underline  bool      `json:"underline,omitempty"`
	FontSizePt float64   `json:"size,omitempty"`
	Color      string    `json:"color,omitempty"`
	Alignment  Alignment `json:"align,omitempty"`
}

// IsZero reports whether every attribute inherits the document default.
func (s Style) IsZero() bool {
	return s == Style{}
}

func (s Style) String() string {
	return fmt.Sprintf("Bold: %t, Italic: %t, Underline: %t, FontSizePt: %f, Color: %s, Alignment: %s",
		s.Bold, s.Italic, s.Underline, s.FontSizePt, s.Color, s.Alignment)
}
