package report

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rakeshkanojia96-rgb/gst-report-generator/internal/config"
	"github.com/rakeshkanojia96-rgb/gst-report-generator/internal/domain"
)

func newTestService() *service {
	return &service{cfg: config.Default(), logger: zap.NewNop()}
}

func noWarn(string) {}

func amazonRow(txType, state, gross, invoice string) domain.RawRow {
	return domain.RawRow{
		"Transaction Type":    txType,
		"Ship To State":       state,
		"Tax Exclusive Gross": gross,
		"Cgst Rate":           "0.025",
		"Sgst Rate":           "0.025",
		"Invoice Number":      invoice,
		"Quantity":            "1",
	}
}

func TestAmazonRateDerivation(t *testing.T) {
	svc := newTestService()

	tests := []struct {
		name string
		row  domain.RawRow
		want string
	}{
		{
			name: "intra state sums central and state rates",
			row:  domain.RawRow{"Cgst Rate": "0.025", "Sgst Rate": "0.025"},
			want: "5",
		},
		{
			name: "inter state uses integrated rate",
			row:  domain.RawRow{"Igst Rate": "0.12"},
			want: "12",
		},
		{
			name: "no usable rate falls back to default",
			row:  domain.RawRow{"Cgst Rate": "0", "Sgst Rate": "0"},
			want: "5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := svc.amazonRate(tt.row)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s", got)
		})
	}
}

func TestAggregateAmazonExcludesCancellations(t *testing.T) {
	svc := newTestService()
	records := svc.normalizeAmazonRows([]domain.RawRow{
		amazonRow("Shipment", "MAHARASHTRA", "500", "IN-9"),
		amazonRow("Shipment", "MAHARASHTRA", "500", "IN-32"),
		amazonRow("Refund", "MAHARASHTRA", "-200", "IN-5"),
		amazonRow("Cancel", "MAHARASHTRA", "300", "IN-7"),
	}, noWarn)

	tables := svc.aggregateAmazon(records)

	require.Len(t, tables.States, 1)
	bucket := tables.States[0]
	assert.Equal(t, "27", bucket.StateCode)
	assert.True(t, bucket.TaxableValue.Equal(decimal.NewFromInt(800)), "got %s", bucket.TaxableValue)

	require.Len(t, tables.HSN, 1)
	assert.Equal(t, svc.cfg.FallbackHSNCode, tables.HSN[0].HSNCode)
	assert.True(t, tables.HSN[0].TaxableValue.Equal(decimal.NewFromInt(800)))
}

func TestAmazonDocSeriesOrdering(t *testing.T) {
	svc := newTestService()
	records := svc.normalizeAmazonRows([]domain.RawRow{
		amazonRow("Shipment", "MAHARASHTRA", "100", "IN-9"),
		amazonRow("Shipment", "MAHARASHTRA", "100", "IN-32"),
		amazonRow("Refund", "MAHARASHTRA", "-50", "IN-5"),
		amazonRow("Cancel", "MAHARASHTRA", "100", "IN-40"),
	}, noWarn)

	series := svc.amazonDocSeries(records)

	// Ids order by the first digit run, not lexically. Cancelled rows take
	// part in the range scan but not in the totals.
	assert.Equal(t, "IN-5", series.From)
	assert.Equal(t, "IN-40", series.To)
	assert.Equal(t, 3, series.TotalCount)
	// The reported cancelled figure is the refund count.
	assert.Equal(t, 1, series.CancelledCount)
}

func TestAmazonDocSeriesPlaceholders(t *testing.T) {
	svc := newTestService()

	series := svc.amazonDocSeries(nil)

	assert.Equal(t, svc.cfg.AmazonSeriesFrom, series.From)
	assert.Equal(t, svc.cfg.AmazonSeriesTo, series.To)
	assert.Zero(t, series.TotalCount)
}

func TestNormalizeAmazonRowDefaults(t *testing.T) {
	svc := newTestService()

	records := svc.normalizeAmazonRows([]domain.RawRow{{
		"Transaction Type":    "Shipment",
		"Tax Exclusive Gross": "250",
	}}, noWarn)

	require.Len(t, records, 1)
	rec := records[0]
	assert.Equal(t, svc.cfg.DefaultStateName, rec.StateName)
	assert.Equal(t, "27", rec.StateCode)
	assert.Equal(t, svc.cfg.FallbackHSNCode, rec.HSNCode)
	assert.True(t, rec.Quantity.Equal(decimal.NewFromInt(1)))
	assert.True(t, rec.TaxRatePercent.Equal(decimal.NewFromInt(5)))
}
