package ingest

import (
	"bytes"
	"fmt"
	"io"

	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"

	"github.com/rakeshkanojia96-rgb/gst-report-generator/internal/domain"
)

// ReadWorkbook decodes the first sheet of a binary workbook into rows.
// It tries the OOXML reader first and falls back to the legacy BIFF reader,
// since sellers occasionally re-save exports in the old format.
func ReadWorkbook(r io.Reader) ([]domain.RawRow, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	reader := bytes.NewReader(data)

	if f, err := excelize.OpenReader(reader); err == nil {
		defer f.Close()
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook contains no sheets")
		}
		rows, err := f.GetRows(sheets[0])
		if err != nil {
			return nil, err
		}
		return zipRows(rows, false), nil
	}

	reader.Seek(0, io.SeekStart)
	workbook, err := xls.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("unsupported workbook file format")
	}
	if len(workbook.GetSheets()) == 0 {
		return nil, fmt.Errorf("workbook contains no sheets")
	}
	sheet, err := workbook.GetSheet(0)
	if err != nil {
		return nil, fmt.Errorf("reading first sheet of .xls workbook: %w", err)
	}

	var allRows [][]string
	for _, row := range sheet.GetRows() {
		var cells []string
		for _, cell := range row.GetCols() {
			cells = append(cells, cell.GetString())
		}
		allRows = append(allRows, cells)
	}
	return zipRows(allRows, false), nil
}
