package compose

import (
	"strings"
	"testing"
)

func TestLoadThemeMergesOverDefaults(t *testing.T) {
	theme, err := LoadTheme(strings.NewReader("font: Georgia\nheaderFill: \"1F4E79\"\n"))
	if err != nil {
		t.Fatalf("LoadTheme failed: %v", err)
	}
	if theme.FontFamily != "Georgia" {
		t.Errorf("font = %q, want Georgia", theme.FontFamily)
	}
	if theme.HeaderFill != "1F4E79" {
		t.Errorf("headerFill = %q, want 1F4E79", theme.HeaderFill)
	}
	// Unspecified attributes keep the built-in defaults.
	def := DefaultTheme()
	if theme.FontSizePt != def.FontSizePt || theme.BandFill != def.BandFill || theme.PageSize != def.PageSize {
		t.Errorf("defaults not preserved: %+v", theme)
	}
}

func TestLoadThemeEmpty(t *testing.T) {
	theme, err := LoadTheme(strings.NewReader(""))
	if err != nil {
		t.Fatalf("LoadTheme failed: %v", err)
	}
	if theme.FontFamily != DefaultTheme().FontFamily {
		t.Errorf("empty theme should equal defaults, got %+v", theme)
	}
}

func TestLoadThemeRejectsUnknownFields(t *testing.T) {
	if _, err := LoadTheme(strings.NewReader("fontt: Typo\n")); err == nil {
		t.Error("expected error for unknown field")
	}
}

func TestLoadThemeRejectsBadPageSize(t *testing.T) {
	if _, err := LoadTheme(strings.NewReader("pageSize: Tabloid\n")); err == nil {
		t.Error("expected error for unknown page size")
	}
}

func TestHeadingSizeFallback(t *testing.T) {
	theme := Theme{FontSizePt: 10, HeadingSizesPt: []float64{30}}
	if got := theme.HeadingSize(1); got != 30 {
		t.Errorf("level 1 = %v, want 30", got)
	}
	// Missing levels fall back to the built-in table.
	if got := theme.HeadingSize(2); got != defaultHeadingSizes[1] {
		t.Errorf("level 2 = %v, want %v", got, defaultHeadingSizes[1])
	}
	if got := theme.HeadingSize(9); got != 10 {
		t.Errorf("out of range level = %v, want body size 10", got)
	}
}
