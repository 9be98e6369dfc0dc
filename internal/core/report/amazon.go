package report

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rakeshkanojia96-rgb/gst-report-generator/internal/domain"
)

// Column names of the Amazon MTR B2C export.
const (
	amzColTransactionType = "Transaction Type"
	amzColShipToState     = "Ship To State"
	amzColTaxExclGross    = "Tax Exclusive Gross"
	amzColCgstRate        = "Cgst Rate"
	amzColSgstRate        = "Sgst Rate"
	amzColIgstRate        = "Igst Rate"
	amzColIgstTax         = "Igst Tax"
	amzColCgstTax         = "Cgst Tax"
	amzColSgstTax         = "Sgst Tax"
	amzColHSN             = "Hsn/sac"
	amzColQuantity        = "Quantity"
	amzColInvoiceNumber   = "Invoice Number"
)

var firstDigitRun = regexp.MustCompile(`\d+`)

// normalizeAmazonRows converts pooled MTR rows into canonical records. Every
// row becomes a record, including cancellations; the kind decides later which
// tables it may enter.
func (svc *service) normalizeAmazonRows(rows []domain.RawRow, warn func(string)) []domain.SalesRecord {
	records := make([]domain.SalesRecord, 0, len(rows))
	for _, row := range rows {
		stateName := cellOr(row, amzColShipToState, svc.cfg.DefaultStateName)
		records = append(records, domain.SalesRecord{
			Source:         domain.SourceAmazon,
			Kind:           amazonKind(row[amzColTransactionType]),
			StateName:      stateName,
			StateCode:      svc.resolveState(stateName, warn),
			TaxableAmount:  parseAmount(row[amzColTaxExclGross]),
			TaxRatePercent: svc.amazonRate(row),
			IntegratedTax:  parseAmount(row[amzColIgstTax]),
			CentralTax:     parseAmount(row[amzColCgstTax]),
			StateTax:       parseAmount(row[amzColSgstTax]),
			HSNCode:        cellOr(row, amzColHSN, svc.cfg.FallbackHSNCode),
			Quantity:       parseAmountOr(row[amzColQuantity], decimal.NewFromInt(1)),
			InvoiceNumber:  strings.TrimSpace(row[amzColInvoiceNumber]),
		})
	}
	return records
}

func amazonKind(transactionType string) domain.TransactionKind {
	switch strings.TrimSpace(transactionType) {
	case "Cancel":
		return domain.KindCancel
	case "Refund":
		return domain.KindReturn
	default:
		return domain.KindSale
	}
}

// amazonRate derives the GST rate percentage from the fractional rate
// columns. Intra-state rows carry CGST+SGST, inter-state rows IGST; rows with
// neither fall back to the configured default.
func (svc *service) amazonRate(row domain.RawRow) decimal.Decimal {
	cgst := parseAmount(row[amzColCgstRate])
	sgst := parseAmount(row[amzColSgstRate])
	if cgst.IsPositive() && sgst.IsPositive() {
		return cgst.Add(sgst).Mul(oneHundred)
	}
	if igst := parseAmount(row[amzColIgstRate]); igst.IsPositive() {
		return igst.Mul(oneHundred)
	}
	return decimal.NewFromFloat(svc.cfg.DefaultRatePercent)
}

// aggregateAmazon folds normalized records into the Amazon output tables.
// Cancelled rows are excluded from every monetary bucket; refunds enter with
// their native negative amounts, so sums net out without explicit sign logic.
func (svc *service) aggregateAmazon(records []domain.SalesRecord) sourceTables {
	stateIdx := make(map[string]*domain.StateBucket)
	hsnIdx := make(map[string]*domain.HSNBucket)
	platform := domain.PlatformSummary{Platform: "Amazon"}

	for _, rec := range records {
		if rec.Kind == domain.KindCancel {
			continue
		}

		sb, ok := stateIdx[rec.StateCode]
		if !ok {
			sb = &domain.StateBucket{StateName: rec.StateName, StateCode: rec.StateCode}
			stateIdx[rec.StateCode] = sb
		}
		sb.TaxableValue = sb.TaxableValue.Add(rec.TaxableAmount)
		sb.RatePercent = rec.TaxRatePercent

		hb, ok := hsnIdx[rec.HSNCode]
		if !ok {
			hb = &domain.HSNBucket{HSNCode: rec.HSNCode}
			hsnIdx[rec.HSNCode] = hb
		}
		hb.Quantity = hb.Quantity.Add(rec.Quantity)
		hb.TaxableValue = hb.TaxableValue.Add(rec.TaxableAmount)
		hb.RatePercent = rec.TaxRatePercent
		hb.IntegratedTax = hb.IntegratedTax.Add(rec.IntegratedTax)
		hb.CentralTax = hb.CentralTax.Add(rec.CentralTax)
		hb.StateTax = hb.StateTax.Add(rec.StateTax)

		platform.TaxableValue = platform.TaxableValue.Add(rec.TaxableAmount)
		platform.IntegratedTax = platform.IntegratedTax.Add(rec.IntegratedTax)
		platform.CentralTax = platform.CentralTax.Add(rec.CentralTax)
		platform.StateTax = platform.StateTax.Add(rec.StateTax)
	}

	tables := sourceTables{
		Docs:     []domain.DocSeries{svc.amazonDocSeries(records)},
		Platform: &platform,
	}
	for _, sb := range stateIdx {
		tables.States = append(tables.States, *sb)
	}
	for _, hb := range hsnIdx {
		tables.HSN = append(tables.HSN, *hb)
	}
	sortStateBuckets(tables.States)
	sortHSNBuckets(tables.HSN)
	return tables
}

// amazonDocSeries derives the documents-issued line. Cancelled rows count
// toward the range scan but not toward the totals; the reported cancelled
// figure is the refund count, as the filing template expects.
func (svc *service) amazonDocSeries(records []domain.SalesRecord) domain.DocSeries {
	seen := make(map[string]bool)
	var ids []string
	shipments, refunds := 0, 0

	for _, rec := range records {
		switch rec.Kind {
		case domain.KindSale:
			shipments++
		case domain.KindReturn:
			refunds++
		}
		if rec.InvoiceNumber != "" && !seen[rec.InvoiceNumber] {
			seen[rec.InvoiceNumber] = true
			ids = append(ids, rec.InvoiceNumber)
		}
	}

	series := domain.DocSeries{
		From:           svc.cfg.AmazonSeriesFrom,
		To:             svc.cfg.AmazonSeriesTo,
		TotalCount:     shipments + refunds,
		CancelledCount: refunds,
	}
	if len(ids) > 0 {
		sort.SliceStable(ids, func(i, j int) bool {
			return invoiceOrdinal(ids[i]) < invoiceOrdinal(ids[j])
		})
		series.From = ids[0]
		series.To = ids[len(ids)-1]
	}
	return series
}

// invoiceOrdinal extracts the first digit run of an invoice id as its sort
// key, so "IN-9" orders before "IN-32".
func invoiceOrdinal(id string) int {
	digits := firstDigitRun.FindString(id)
	if digits == "" {
		return 0
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return n
}
