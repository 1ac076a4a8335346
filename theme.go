package compose

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Theme holds the document-wide style defaults that blocks inherit when their
// own Style leaves an attribute unset.  The built-in defaults reproduce the
// look of the documents the generation service historically produced: Calibri
// body text, a #4472C4 table header band with white bold text, and #F2F2F2
// banded data rows.
type Theme struct {
	// FontFamily is the default font for all text.
	FontFamily string `yaml:"font"`
	// FontSizePt is the default body text size in points.
	FontSizePt float64 `yaml:"size"`
	// HeadingSizesPt maps heading levels 1-6 to font sizes in points.
	// Shorter slices fall back to the built-in sizes for missing levels.
	HeadingSizesPt []float64 `yaml:"headingSizes"`
	// HeaderFill is the table header background colour ("RRGGBB").
	HeaderFill string `yaml:"headerFill"`
	// HeaderFontColor is the table header text colour ("RRGGBB").
	HeaderFontColor string `yaml:"headerFontColor"`
	// BandFill is the background of even data rows ("RRGGBB"); empty
	// disables row banding.
	BandFill string `yaml:"bandFill"`
	// PageSize selects the page dimensions for paginated formats:
	// "A4" or "Letter".
	PageSize string `yaml:"pageSize"`
}

// Page size identifiers accepted by Theme.PageSize.
const (
	PageSizeA4     = "A4"
	PageSizeLetter = "Letter"
)

var defaultHeadingSizes = []float64{20, 16, 14, 13, 12, 11}

// DefaultTheme returns the built-in theme.
func DefaultTheme() Theme {
	return Theme{
		FontFamily:      "Calibri",
		FontSizePt:      11,
		HeadingSizesPt:  append([]float64(nil), defaultHeadingSizes...),
		HeaderFill:      "4472C4",
		HeaderFontColor: "FFFFFF",
		BandFill:        "F2F2F2",
		PageSize:        PageSizeLetter,
	}
}

// HeadingSize returns the font size for a heading level, falling back to the
// built-in sizes and finally the body size for out-of-range input.
func (t Theme) HeadingSize(level int) float64 {
	if level >= 1 && level <= len(t.HeadingSizesPt) && t.HeadingSizesPt[level-1] > 0 {
		return t.HeadingSizesPt[level-1]
	}
	if level >= 1 && level <= len(defaultHeadingSizes) {
		return defaultHeadingSizes[level-1]
	}
	return t.FontSizePt
}

// isZero reports whether no attribute was specified at all, distinguishing
// "no theme given" from a deliberately sparse theme.
func (t Theme) isZero() bool {
	return t.FontFamily == "" && t.FontSizePt == 0 && t.HeadingSizesPt == nil &&
		t.HeaderFill == "" && t.HeaderFontColor == "" && t.BandFill == "" && t.PageSize == ""
}

// validate checks attributes that would otherwise fail deep inside a
// serializer, so theme errors surface with a useful message instead.
func (t Theme) validate() error {
	switch t.PageSize {
	case "", PageSizeA4, PageSizeLetter:
	default:
		return fmt.Errorf("unknown page size %q", t.PageSize)
	}
	return nil
}

// LoadTheme reads a YAML theme and merges it over the built-in defaults:
// attributes absent from the file keep their default values.
func LoadTheme(r io.Reader) (Theme, error) {
	theme := DefaultTheme()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&theme); err != nil && err != io.EOF {
		return Theme{}, fmt.Errorf("decoding theme: %w", err)
	}
	if err := theme.validate(); err != nil {
		return Theme{}, err
	}
	return theme, nil
}

// LoadThemeFile reads a YAML theme from disk.
func LoadThemeFile(path string) (Theme, error) {
	f, err := os.Open(path)
	if err != nil {
		return Theme{}, err
	}
	defer f.Close()
	theme, err := LoadTheme(f)
	if err != nil {
		return Theme{}, fmt.Errorf("%s: %w", path, err)
	}
	return theme, nil
}
