package report

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rakeshkanojia96-rgb/gst-report-generator/internal/domain"
)

func meeshoRow(state, value, rate, hsn string) domain.RawRow {
	return domain.RawRow{
		"end_customer_state_new":   state,
		"total_taxable_sale_value": value,
		"gst_rate":                 rate,
		"hsn_code":                 hsn,
	}
}

func TestClassifyMeeshoFile(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     domain.MeeshoCategory
	}{
		{name: "sales export", filename: "July_TCS_Sales.csv", want: domain.MeeshoSales},
		{name: "return export wins over sales substring", filename: "tcs_sales_return_july.csv", want: domain.MeeshoReturns},
		{name: "invoice details", filename: "Tax_Invoice_Details.xlsx", want: domain.MeeshoInvoiceDetails},
		{name: "anything else is unknown", filename: "orders_july.csv", want: domain.MeeshoUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyMeeshoFile(tt.filename))
		})
	}
}

func TestAggregateMeeshoStateAndSplit(t *testing.T) {
	svc := newTestService()
	batch := meeshoBatch{
		Sales: svc.normalizeMeeshoRows([]domain.RawRow{
			meeshoRow("DELHI", "400", "12", "620821"),
			meeshoRow("MAHARASHTRA", "100", "5", "620821"),
		}, domain.KindSale, noWarn),
	}

	tables := svc.aggregateMeesho(batch)

	require.Len(t, tables.States, 2)
	assert.Equal(t, "07", tables.States[0].StateCode)
	assert.True(t, tables.States[0].TaxableValue.Equal(decimal.NewFromInt(400)))
	assert.Equal(t, "27", tables.States[1].StateCode)
	assert.True(t, tables.States[1].TaxableValue.Equal(decimal.NewFromInt(100)))

	require.Len(t, tables.HSN, 1)
	hsn := tables.HSN[0]
	// Delhi: 400 at 12% lands in integrated. Maharashtra: 100 at 5% splits
	// half into central and half into state.
	assert.True(t, hsn.IntegratedTax.Equal(decimal.NewFromInt(48)), "igst %s", hsn.IntegratedTax)
	assert.True(t, hsn.CentralTax.Equal(decimal.RequireFromString("2.5")), "cgst %s", hsn.CentralTax)
	assert.True(t, hsn.StateTax.Equal(decimal.RequireFromString("2.5")), "sgst %s", hsn.StateTax)
}

func TestAggregateMeeshoReturnSignPolicies(t *testing.T) {
	svc := newTestService()
	batch := meeshoBatch{
		Sales: svc.normalizeMeeshoRows([]domain.RawRow{
			meeshoRow("MAHARASHTRA", "500", "5", "640110"),
		}, domain.KindSale, noWarn),
		Returns: svc.normalizeMeeshoRows([]domain.RawRow{
			meeshoRow("MAHARASHTRA", "-50", "5", ""),
		}, domain.KindReturn, noWarn),
	}

	tables := svc.aggregateMeesho(batch)

	// The state table subtracts by absolute value: a negatively signed
	// return still reduces the total.
	require.Len(t, tables.States, 1)
	assert.True(t, tables.States[0].TaxableValue.Equal(decimal.NewFromInt(450)), "got %s", tables.States[0].TaxableValue)

	// The HSN table subtracts the raw signed amount into the fallback
	// bucket, a deliberately different policy.
	var fallback *domain.HSNBucket
	for i := range tables.HSN {
		if tables.HSN[i].HSNCode == svc.cfg.FallbackHSNCode {
			fallback = &tables.HSN[i]
		}
	}
	require.NotNil(t, fallback)
	assert.True(t, fallback.TaxableValue.Equal(decimal.NewFromInt(50)), "got %s", fallback.TaxableValue)
}

func TestAggregateMeeshoQuantityIsSalesRowCount(t *testing.T) {
	svc := newTestService()
	batch := meeshoBatch{
		Sales: svc.normalizeMeeshoRows([]domain.RawRow{
			meeshoRow("DELHI", "100", "5", "620821"),
			meeshoRow("DELHI", "100", "5", "640110"),
			meeshoRow("DELHI", "100", "5", "640110"),
		}, domain.KindSale, noWarn),
	}

	tables := svc.aggregateMeesho(batch)

	require.Len(t, tables.HSN, 2)
	for _, hsn := range tables.HSN {
		assert.True(t, hsn.Quantity.Equal(decimal.NewFromInt(3)), "bucket %s got %s", hsn.HSNCode, hsn.Quantity)
	}
}

func TestMeeshoDocSeries(t *testing.T) {
	svc := newTestService()
	batch := meeshoBatch{
		Sales: make([]domain.SalesRecord, 57),
		InvoiceDetails: []domain.InvoiceDetail{
			{Number: "534p926195", Type: "INVOICE"},
			{Number: "534p926121", Type: "Invoice"},
			{Number: "534p926C108", Type: "CREDIT NOTE"},
			{Number: "534p926C99", Type: "credit note"},
			{Number: "", Type: "INVOICE"},
		},
	}

	series := svc.meeshoDocSeries(batch)

	assert.Equal(t, "534p926121", series.From)
	assert.Equal(t, "534p926C108", series.To)
	assert.Equal(t, 57, series.TotalCount)
	assert.Zero(t, series.CancelledCount)
}

func TestMeeshoDocSeriesPlaceholders(t *testing.T) {
	svc := newTestService()

	series := svc.meeshoDocSeries(meeshoBatch{})

	assert.Equal(t, svc.cfg.MeeshoSeriesFrom, series.From)
	assert.Equal(t, svc.cfg.MeeshoSeriesTo, series.To)
	assert.Zero(t, series.TotalCount)
}

func TestSortInvoiceIDs(t *testing.T) {
	ids := []string{"534p926C108", "534p926195", "534p926121", "534p926C99"}
	sortInvoiceIDs(ids)
	assert.Equal(t, []string{"534p926121", "534p926195", "534p926C99", "534p926C108"}, ids)
}
