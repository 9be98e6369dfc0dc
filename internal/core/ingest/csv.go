// Package ingest decodes marketplace export files into ordered header-keyed
// rows. Two paths share one contract: delimited text and binary workbooks
// both yield one RawRow per data row, with the header row consumed.
package ingest

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/rakeshkanojia96-rgb/gst-report-generator/internal/domain"
)

// Rows decodes an uploaded file by extension: .xlsx/.xls go through the
// workbook path, everything else is treated as delimited text.
func Rows(file domain.UploadedFile) ([]domain.RawRow, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	switch ext {
	case ".xlsx", ".xls":
		rows, err := ReadWorkbook(file.Reader)
		if err != nil {
			return nil, fmt.Errorf("decoding workbook %s: %w", file.Filename, err)
		}
		return rows, nil
	default:
		rows, err := ReadCSV(file.Reader)
		if err != nil {
			return nil, fmt.Errorf("decoding %s: %w", file.Filename, err)
		}
		return rows, nil
	}
}

// ReadCSV reads delimited text and zips each data row against the header
// row. Inputs with fewer than two non-blank lines yield no rows, not an
// error: an empty export contributes nothing.
func ReadCSV(r io.Reader) ([]domain.RawRow, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	text := strings.TrimPrefix(string(data), "\ufeff")
	return zipRows(parseDelimited(text), true), nil
}

// parseDelimited splits text into records. A double quote toggles in-field
// mode so commas inside quotes are not separators; every cell is trimmed.
// Marketplace exports never carry embedded newlines, so records are lines.
func parseDelimited(text string) [][]string {
	var records [][]string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		var row []string
		var cell strings.Builder
		inQuotes := false
		for _, r := range line {
			switch {
			case r == '"':
				inQuotes = !inQuotes
			case r == ',' && !inQuotes:
				row = append(row, strings.TrimSpace(cell.String()))
				cell.Reset()
			default:
				cell.WriteRune(r)
			}
		}
		row = append(row, strings.TrimSpace(cell.String()))
		records = append(records, row)
	}
	return records
}

// zipRows pairs each data row positionally with the header row. Short rows
// read as empty cells; cells beyond the header width are dropped. Header
// cells are trimmed only on the delimited path; workbook headers arrive
// clean and are preserved as-is.
func zipRows(records [][]string, trimHeaders bool) []domain.RawRow {
	if len(records) < 2 {
		return nil
	}

	headers := records[0]
	if trimHeaders {
		for i, h := range headers {
			headers[i] = strings.TrimSpace(h)
		}
	}

	rows := make([]domain.RawRow, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(domain.RawRow, len(headers))
		for i, h := range headers {
			if i < len(record) {
				row[h] = record[i]
			} else {
				row[h] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows
}
