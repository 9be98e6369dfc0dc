package ingest

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/rakeshkanojia96-rgb/gst-report-generator/internal/domain"
)

func TestReadCSV(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []domain.RawRow
	}{
		{
			name:  "plain rows",
			input: "a,b\n1,2\n3,4\n",
			want: []domain.RawRow{
				{"a": "1", "b": "2"},
				{"a": "3", "b": "4"},
			},
		},
		{
			name:  "quoted comma stays in the cell",
			input: "name,amount\n\"Mumbai, MH\",10\n",
			want:  []domain.RawRow{{"name": "Mumbai, MH", "amount": "10"}},
		},
		{
			name:  "byte order mark stripped from first header",
			input: "\ufeffa,b\n1,2\n",
			want:  []domain.RawRow{{"a": "1", "b": "2"}},
		},
		{
			name:  "short row reads as empty cells",
			input: "a,b,c\n1\n",
			want:  []domain.RawRow{{"a": "1", "b": "", "c": ""}},
		},
		{
			name:  "extra cells beyond header are dropped",
			input: "a,b\n1,2,3\n",
			want:  []domain.RawRow{{"a": "1", "b": "2"}},
		},
		{
			name:  "blank lines and CRLF endings ignored",
			input: "a,b\r\n\r\n1,2\r\n",
			want:  []domain.RawRow{{"a": "1", "b": "2"}},
		},
		{
			name:  "header only yields no rows",
			input: "a,b\n",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := ReadCSV(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, rows)
		})
	}
}

func TestRowsDispatchesWorkbookByExtension(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"hsn_code", "gst_rate"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"620821", "5"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())

	rows, err := Rows(domain.UploadedFile{
		Filename: "tcs_sales.xlsx",
		Reader:   bytes.NewReader(buf.Bytes()),
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "620821", rows[0]["hsn_code"])
	assert.Equal(t, "5", rows[0]["gst_rate"])
}

func TestRowsWrapsFilenameOnError(t *testing.T) {
	_, err := Rows(domain.UploadedFile{
		Filename: "broken.xlsx",
		Reader:   strings.NewReader("not a workbook"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.xlsx")
}
