package xlsx

import (
	"io"

	"github.com/unidoc/unioffice/spreadsheet"

	"github.com/aerissecure/compose"
)

// Read parses a workbook back into content blocks.  Each sheet yields a
// level-1 heading carrying the sheet name followed by a table whose first
// row is the header row.  Cell values come back as their formatted text,
// so numbers written by Write read back as the original strings.
func Read(r io.ReaderAt, size int64) ([]compose.Block, error) {
	wb, err := spreadsheet.Read(r, size)
	if err != nil {
		return nil, err
	}
	return convert(wb)
}

// ReadFile parses the workbook file at path into content blocks.
func ReadFile(path string) ([]compose.Block, error) {
	wb, err := spreadsheet.Open(path)
	if err != nil {
		return nil, err
	}
	return convert(wb)
}

func convert(wb *spreadsheet.Workbook) ([]compose.Block, error) {
	var blocks []compose.Block
	for _, sheet := range wb.Sheets() {
		tbl := &compose.Table{}
		for i, row := range sheet.Rows() {
			var cells []string
			for _, cell := range row.Cells() {
				cells = append(cells, cell.GetFormattedValue())
			}
			if i == 0 {
				tbl.Headers = cells
			} else {
				tbl.Rows = append(tbl.Rows, cells)
			}
		}
		blocks = append(blocks, compose.NewHeading(1, sheet.Name()))
		if len(tbl.Headers) > 0 {
			blocks = append(blocks, compose.Block{Table: tbl})
		}
	}
	return blocks, nil
}
