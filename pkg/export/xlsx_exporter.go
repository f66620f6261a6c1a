package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// XLSXExporter renders datasets into a single-sheet workbook.
type XLSXExporter struct {
	sheetName string
}

// NewXLSXExporter constructs an XLSX exporter writing to sheetName ("Results" when empty).
func NewXLSXExporter(sheetName string) *XLSXExporter {
	if sheetName == "" {
		sheetName = "Results"
	}
	return &XLSXExporter{sheetName: sheetName}
}

// Render writes headers in row 1, data from row 2 and summary lines after one blank row.
func (e *XLSXExporter) Render(data Dataset) ([]byte, error) {
	if err := data.validate("xlsx"); err != nil {
		return nil, err
	}
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), e.sheetName); err != nil {
		return nil, fmt.Errorf("name sheet: %w", err)
	}

	if err := e.writeRow(f, 1, data.Headers); err != nil {
		return nil, err
	}
	for i, row := range data.Rows {
		if err := e.writeRow(f, i+2, data.record(row)); err != nil {
			return nil, err
		}
	}
	next := len(data.Rows) + 3
	for i, line := range data.Summary {
		if err := e.writeRow(f, next+i, []string{line.Label, line.Value}); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *XLSXExporter) writeRow(f *excelize.File, rowNumber int, values []string) error {
	for col, value := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, rowNumber)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		if err := f.SetCellValue(e.sheetName, cell, value); err != nil {
			return fmt.Errorf("set cell %s: %w", cell, err)
		}
	}
	return nil
}

// ReadXLSX loads the first sheet of a workbook. Header cells are lower-cased and trimmed;
// blank rows are skipped.
func ReadXLSX(r io.Reader) (Dataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Dataset{}, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Dataset{}, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return Dataset{}, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) == 0 {
		return Dataset{}, fmt.Errorf("sheet %s is empty", sheets[0])
	}

	headers := make([]string, len(rows[0]))
	for i, header := range rows[0] {
		headers[i] = strings.ToLower(strings.TrimSpace(header))
	}
	data := Dataset{Headers: headers}
	for _, row := range rows[1:] {
		values := make(map[string]string, len(headers))
		blank := true
		for i, header := range headers {
			if header == "" || i >= len(row) {
				continue
			}
			value := strings.TrimSpace(row[i])
			if value != "" {
				blank = false
			}
			values[header] = value
		}
		if !blank {
			data.Rows = append(data.Rows, values)
		}
	}
	return data, nil
}
