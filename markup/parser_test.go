package markup

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aerissecure/compose"
)

func TestParseDocument(t *testing.T) {
	src := `# Climate Change
## Key Indicators

Scientific evidence shows human activity is the main driver.

- Rising global temperatures
- Melting ice caps

1. Reduce emissions
2. Protect forests

---

| Product ID | Price |
|------------|-------|
| P001       | 45    |
| P002       | 23    |
`

	blocks, err := ParseString(src)
	require.NoError(t, err)

	kinds := make([]string, len(blocks))
	for i, b := range blocks {
		kinds[i] = b.Kind()
	}
	assert.Equal(t, []string{"heading", "heading", "paragraph", "bullet", "numbered", "break", "table"}, kinds)

	assert.Equal(t, 1, blocks[0].Heading.Level)
	assert.Equal(t, "Climate Change", blocks[0].Heading.Text)
	assert.Equal(t, 2, blocks[1].Heading.Level)

	assert.Equal(t, []string{"Rising global temperatures", "Melting ice caps"}, blocks[3].List.Items)
	assert.False(t, blocks[3].List.Ordered)
	assert.Equal(t, []string{"Reduce emissions", "Protect forests"}, blocks[4].List.Items)
	assert.True(t, blocks[4].List.Ordered)

	tbl := blocks[6].Table
	require.NotNil(t, tbl)
	assert.Equal(t, []string{"Product ID", "Price"}, tbl.Headers)
	assert.Equal(t, [][]string{{"P001", "45"}, {"P002", "23"}}, tbl.Rows)
}

func TestParseEmpty(t *testing.T) {
	blocks, err := ParseString("")
	require.NoError(t, err)
	assert.Empty(t, blocks)

	blocks, err = ParseString("\n\n\n")
	require.NoError(t, err)
	assert.Empty(t, blocks)
}

func TestParseEachLineIsAParagraph(t *testing.T) {
	blocks, err := ParseString("first line\nsecond line\n")
	require.NoError(t, err)
	require.Len(t, blocks, 2)
	assert.Equal(t, "first line", blocks[0].Paragraph.Text)
	assert.Equal(t, "second line", blocks[1].Paragraph.Text)
}

func TestParseHeadingLevels(t *testing.T) {
	blocks, err := ParseString("###### deep\n")
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, 6, blocks[0].Heading.Level)

	// Seven hashes is not a heading marker, so the line is plain text.
	blocks, err = ParseString("####### too deep\n")
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, "paragraph", blocks[0].Kind())
}

func TestParseAdjacentListsSplitByKind(t *testing.T) {
	blocks, err := ParseString("- a\n1. b\n- c\n")
	require.NoError(t, err)
	require.Len(t, blocks, 3)
	assert.Equal(t, "bullet", blocks[0].Kind())
	assert.Equal(t, "numbered", blocks[1].Kind())
	assert.Equal(t, "bullet", blocks[2].Kind())
}

func TestParseTableRowMismatch(t *testing.T) {
	_, err := ParseString("| A | B |\n| 1 |\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "table row has 1 cells")
}

func TestParseMissingTrailingNewline(t *testing.T) {
	blocks, err := ParseString("# Title")
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, "Title", blocks[0].Heading.Text)
}

func TestParseReader(t *testing.T) {
	blocks, err := Parse(strings.NewReader("- x\n"))
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, "bullet", blocks[0].Kind())
}

func TestParsedBlocksRender(t *testing.T) {
	blocks, err := ParseString("# T\nbody\n")
	require.NoError(t, err)
	doc, err := compose.Render(blocks, compose.DefaultOptions())
	require.NoError(t, err)
	assert.Len(t, doc.Blocks, 2)
}
