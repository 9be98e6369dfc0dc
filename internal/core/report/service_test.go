package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rakeshkanojia96-rgb/gst-report-generator/internal/domain"
)

const amazonCSV = "Transaction Type,Ship To State,Tax Exclusive Gross,Cgst Rate,Sgst Rate,Igst Rate,Invoice Number,Quantity,Hsn/sac\n" +
	"Shipment,MAHARASHTRA,500,0.025,0.025,,IN-9,1,620821\n" +
	"Shipment,DELHI,400,,,0.12,IN-32,1,620821\n" +
	"Refund,MAHARASHTRA,-200,0.025,0.025,,IN-5,1,620821\n"

const meeshoSalesCSV = "end_customer_state_new,total_taxable_sale_value,gst_rate,hsn_code\n" +
	"DELHI,400,12,620821\n" +
	"MAHARASHTRA,100,5,620821\n"

func testInput() domain.ReportInput {
	return domain.ReportInput{
		Period: domain.FilingPeriod{Year: 2025, Month: time.August},
		AmazonFiles: []domain.UploadedFile{
			{Filename: "amazon_mtr_b2c.csv", Reader: strings.NewReader(amazonCSV)},
		},
		MeeshoFiles: []domain.UploadedFile{
			{Filename: "tcs_sales_july.csv", Reader: strings.NewReader(meeshoSalesCSV)},
		},
	}
}

func TestSummarizeCountsRecords(t *testing.T) {
	svc := newTestService()

	summary, err := svc.Summarize(testInput())
	require.NoError(t, err)

	assert.NotEmpty(t, summary.RunID)
	assert.Equal(t, "August 2025", summary.FilingPeriod)
	assert.Equal(t, 3, summary.AmazonRecords)
	assert.Equal(t, 2, summary.MeeshoRecords)
	assert.Equal(t, 5, summary.TotalRecords)
}

func TestGenerateWorkbookFilename(t *testing.T) {
	svc := newTestService()

	data, filename, err := svc.GenerateWorkbook(testInput())
	require.NoError(t, err)
	assert.Equal(t, "August 2025 GSTR1.xlsx", filename)
	assert.NotEmpty(t, data)
}

func TestGenerateFilingPayloadFilename(t *testing.T) {
	svc := newTestService()

	data, filename, err := svc.GenerateFilingPayload(testInput())
	require.NoError(t, err)
	assert.Equal(t, "August_2025_GSTR1.json", filename)
	assert.Contains(t, string(data), `"fp":"082025"`)
}

func TestRunRejectsUnknownMeeshoFile(t *testing.T) {
	svc := newTestService()
	input := domain.ReportInput{
		Period: domain.FilingPeriod{Year: 2025, Month: time.August},
		MeeshoFiles: []domain.UploadedFile{
			{Filename: "orders_july.csv", Reader: strings.NewReader("a,b\n1,2\n")},
		},
	}

	_, err := svc.Summarize(input)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "orders_july.csv")
}

func TestRunIsDeterministic(t *testing.T) {
	svc := newTestService()

	first, _, err := svc.GenerateFilingPayload(testInput())
	require.NoError(t, err)
	second, _, err := svc.GenerateFilingPayload(testInput())
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}
