package xlsx

import (
	"bytes"
	"testing"

	"github.com/aerissecure/compose"
)

func TestReadRecoversTables(t *testing.T) {
	in := []compose.Block{
		compose.NewHeading(1, "Inventory"),
		compose.NewTable([]string{"Product ID", "Stock"}, [][]string{
			{"P001", "45"},
			{"P002", "23"},
		}),
	}
	doc := render(t, in)
	var buf bytes.Buffer
	if err := Write(doc, &buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	out, err := Read(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if len(out) != 2 {
		t.Fatalf("got %d blocks, want 2", len(out))
	}
	if out[0].Heading == nil || out[0].Heading.Text != "Inventory" {
		t.Fatalf("want sheet-name heading, got %v", out[0])
	}
	tbl := out[1].Table
	if tbl == nil {
		t.Fatalf("want table block, got %v", out[1])
	}
	if tbl.Headers[0] != "Product ID" || tbl.Headers[1] != "Stock" {
		t.Errorf("headers = %v", tbl.Headers)
	}
	// Numbers written as numeric cells format back to the same text.
	if len(tbl.Rows) != 2 || tbl.Rows[0][1] != "45" {
		t.Errorf("rows = %v", tbl.Rows)
	}
}

func TestReadFileRoundTrip(t *testing.T) {
	path := t.TempDir() + "/roundtrip.xlsx"
	doc := render(t, []compose.Block{
		compose.NewTable([]string{"A"}, [][]string{{"x"}}),
	})
	if err := WriteFile(doc, path); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	blocks, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if len(blocks) != 2 || blocks[1].Table == nil {
		t.Fatalf("unexpected blocks: %v", blocks)
	}
	if blocks[1].Table.Rows[0][0] != "x" {
		t.Errorf("cell = %q", blocks[1].Table.Rows[0][0])
	}
}
