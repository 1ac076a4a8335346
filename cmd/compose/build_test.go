package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectFormat(t *testing.T) {
	cases := []struct {
		format, output string
		want           string
		wantErr        bool
	}{
		{"", "", "docx", false},
		{"xlsx", "", "xlsx", false},
		{"", "report.html", "html", false},
		{"", "report.XLSX", "xlsx", false},
		{"docx", "report.html", "docx", false}, // flag wins over extension
		{"pdf", "", "", true},
		{"", "report.txt", "", true},
	}
	for _, c := range cases {
		got, err := detectFormat(c.format, c.output)
		if c.wantErr {
			assert.Error(t, err, "format=%q output=%q", c.format, c.output)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, c.want, got, "format=%q output=%q", c.format, c.output)
	}
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, "out.docx", outputPath("in.json", "out.docx", "docx"))
	assert.Equal(t, "report.docx", outputPath("report.json", "", "docx"))
	assert.Equal(t, "notes.html", outputPath("notes.md", "", "html"))
	assert.Equal(t, "dir/data.xlsx", outputPath("dir/data.json", "", "xlsx"))
}

func TestLoadBlocksJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"type": "heading1", "text": "Title"},
		{"type": "paragraph", "text": "Body"}
	]`), 0o644))

	blocks, err := loadBlocks(path)
	require.NoError(t, err)
	require.Len(t, blocks, 2)
	assert.Equal(t, "heading", blocks[0].Kind())
	assert.Equal(t, "paragraph", blocks[1].Kind())
}

func TestLoadBlocksContentWrapper(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"content": [
		{"type": "bullet", "items": ["a", "b"]}
	]}`), 0o644))

	blocks, err := loadBlocks(path)
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, []string{"a", "b"}, blocks[0].List.Items)
}

func TestLoadBlocksMarkup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.md")
	require.NoError(t, os.WriteFile(path, []byte("# Title\n- item\n"), 0o644))

	blocks, err := loadBlocks(path)
	require.NoError(t, err)
	require.Len(t, blocks, 2)
	assert.Equal(t, "heading", blocks[0].Kind())
	assert.Equal(t, "bullet", blocks[1].Kind())
}

func TestLoadBlocksMissingFile(t *testing.T) {
	_, err := loadBlocks(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
