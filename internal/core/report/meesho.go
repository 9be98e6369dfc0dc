package report

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rakeshkanojia96-rgb/gst-report-generator/internal/domain"
)

// Column names of the Meesho TCS exports and the tax invoice details file.
const (
	meeColState        = "end_customer_state_new"
	meeColTaxableValue = "total_taxable_sale_value"
	meeColGSTRate      = "gst_rate"
	meeColHSN          = "hsn_code"
	meeColInvoiceNo    = "Invoice No."
	meeColInvoiceType  = "Type"
)

// ClassifyMeeshoFile routes a Meesho upload by filename substring. The
// return pattern is checked first because "tcs_sales" is a substring of
// "tcs_sales_return".
func ClassifyMeeshoFile(name string) domain.MeeshoCategory {
	n := strings.ToLower(name)
	switch {
	case strings.Contains(n, "tcs_sales_return"):
		return domain.MeeshoReturns
	case strings.Contains(n, "tcs_sales"):
		return domain.MeeshoSales
	case strings.Contains(n, "tax_invoice_details"):
		return domain.MeeshoInvoiceDetails
	default:
		return domain.MeeshoUnknown
	}
}

// normalizeMeeshoRows converts TCS rows into canonical records. Amounts keep
// the sign the export carries; the aggregator decides how returns subtract.
func (svc *service) normalizeMeeshoRows(rows []domain.RawRow, kind domain.TransactionKind, warn func(string)) []domain.SalesRecord {
	records := make([]domain.SalesRecord, 0, len(rows))
	for _, row := range rows {
		stateName := cellOr(row, meeColState, svc.cfg.DefaultStateName)
		records = append(records, domain.SalesRecord{
			Source:         domain.SourceMeesho,
			Kind:           kind,
			StateName:      stateName,
			StateCode:      svc.resolveState(stateName, warn),
			TaxableAmount:  parseAmount(row[meeColTaxableValue]),
			TaxRatePercent: parseAmountOr(row[meeColGSTRate], decimal.NewFromFloat(svc.cfg.DefaultRatePercent)),
			HSNCode:        cellOr(row, meeColHSN, svc.cfg.FallbackHSNCode),
			Quantity:       decimal.NewFromInt(1),
		})
	}
	return records
}

// parseInvoiceDetails extracts the document id and type columns of a tax
// invoice details file.
func parseInvoiceDetails(rows []domain.RawRow) []domain.InvoiceDetail {
	details := make([]domain.InvoiceDetail, 0, len(rows))
	for _, row := range rows {
		details = append(details, domain.InvoiceDetail{
			Number: strings.TrimSpace(row[meeColInvoiceNo]),
			Type:   strings.TrimSpace(row[meeColInvoiceType]),
		})
	}
	return details
}

// aggregateMeesho folds the pooled Meesho batch into its output tables.
// Returns subtract by absolute value in the state table (a return always
// reduces the state's total no matter how the export signed it), while the
// HSN table subtracts the raw signed amount. The two policies differ in the
// upstream contract and must not be unified.
func (svc *service) aggregateMeesho(batch meeshoBatch) sourceTables {
	stateIdx := make(map[string]*domain.StateBucket)
	hsnIdx := make(map[string]*domain.HSNBucket)

	for _, rec := range batch.Sales {
		sb := ensureStateBucket(stateIdx, rec)
		sb.TaxableValue = sb.TaxableValue.Add(rec.TaxableAmount)
		sb.RatePercent = rec.TaxRatePercent

		hb, ok := hsnIdx[rec.HSNCode]
		if !ok {
			hb = &domain.HSNBucket{HSNCode: rec.HSNCode, RatePercent: rec.TaxRatePercent}
			hsnIdx[rec.HSNCode] = hb
		}
		hb.TaxableValue = hb.TaxableValue.Add(rec.TaxableAmount)
		addSplit(hb, rec, svc.cfg.HomeStateCode, false)
	}

	for _, rec := range batch.Returns {
		sb := ensureStateBucket(stateIdx, rec)
		sb.TaxableValue = sb.TaxableValue.Sub(rec.TaxableAmount.Abs())
		sb.RatePercent = rec.TaxRatePercent

		// Every return lands in the fallback HSN bucket; the export has no
		// usable classification column.
		hb, ok := hsnIdx[svc.cfg.FallbackHSNCode]
		if !ok {
			hb = &domain.HSNBucket{HSNCode: svc.cfg.FallbackHSNCode, RatePercent: rec.TaxRatePercent}
			hsnIdx[svc.cfg.FallbackHSNCode] = hb
		}
		hb.Quantity = hb.Quantity.Sub(decimal.NewFromInt(1))
		hb.TaxableValue = hb.TaxableValue.Sub(rec.TaxableAmount)
		addSplit(hb, rec, svc.cfg.HomeStateCode, true)
	}

	// Quantity in this table means "sales document count", not summed units:
	// every bucket is overwritten with the same batch-level scalar.
	salesCount := decimal.NewFromInt(int64(len(batch.Sales)))
	tables := sourceTables{
		Docs: []domain.DocSeries{svc.meeshoDocSeries(batch)},
	}
	for _, sb := range stateIdx {
		tables.States = append(tables.States, *sb)
	}
	for _, hb := range hsnIdx {
		hb.Quantity = salesCount
		tables.HSN = append(tables.HSN, *hb)
	}
	sortStateBuckets(tables.States)
	sortHSNBuckets(tables.HSN)
	return tables
}

func ensureStateBucket(idx map[string]*domain.StateBucket, rec domain.SalesRecord) *domain.StateBucket {
	sb, ok := idx[rec.StateCode]
	if !ok {
		sb = &domain.StateBucket{StateName: rec.StateName, StateCode: rec.StateCode}
		idx[rec.StateCode] = sb
	}
	return sb
}

// addSplit derives the tax components from rate and jurisdiction, since the
// TCS exports carry no component columns. Only positive amounts contribute;
// subtract flips the direction for return rows.
func addSplit(hb *domain.HSNBucket, rec domain.SalesRecord, homeCode string, subtract bool) {
	if !rec.TaxableAmount.IsPositive() {
		return
	}
	amount := rec.TaxableAmount.Mul(rec.TaxRatePercent).Div(oneHundred)
	if subtract {
		amount = amount.Neg()
	}
	if rec.StateCode == homeCode {
		half := amount.Div(decimal.NewFromInt(2))
		hb.CentralTax = hb.CentralTax.Add(half)
		hb.StateTax = hb.StateTax.Add(half)
	} else {
		hb.IntegratedTax = hb.IntegratedTax.Add(amount)
	}
}

// meeshoDocSeries derives the documents-issued line from the tax invoice
// details file: the range opens at the first invoice and closes at the last
// credit note, with the total taken from the sales batch. Credit notes are
// not cancellations, so the cancelled figure is fixed at zero.
func (svc *service) meeshoDocSeries(batch meeshoBatch) domain.DocSeries {
	var invoices, creditNotes []string
	for _, d := range batch.InvoiceDetails {
		if d.Number == "" {
			continue
		}
		switch strings.ToUpper(d.Type) {
		case "INVOICE":
			invoices = append(invoices, d.Number)
		case "CREDIT NOTE":
			creditNotes = append(creditNotes, d.Number)
		}
	}
	sortInvoiceIDs(invoices)
	sortInvoiceIDs(creditNotes)

	series := domain.DocSeries{
		From:           svc.cfg.MeeshoSeriesFrom,
		To:             svc.cfg.MeeshoSeriesTo,
		TotalCount:     len(batch.Sales),
		CancelledCount: 0,
	}
	if len(invoices) > 0 {
		series.From = invoices[0]
	}
	if len(creditNotes) > 0 {
		series.To = creditNotes[len(creditNotes)-1]
	}
	return series
}

var invoiceIDPattern = regexp.MustCompile(`^(.+?)([A-Z]*)(\d+)$`)

// sortInvoiceIDs orders ids like 534p926195 and 534p926C108 by the tuple
// (prefix, letter suffix, number): prefixes compare lexically, an empty
// letter suffix sorts before any letters, and the trailing number compares
// numerically so 195 orders after 108.
func sortInvoiceIDs(ids []string) {
	sort.SliceStable(ids, func(i, j int) bool {
		a, b := ids[i], ids[j]
		ma := invoiceIDPattern.FindStringSubmatch(a)
		mb := invoiceIDPattern.FindStringSubmatch(b)
		if ma == nil || mb == nil {
			return a < b
		}
		if ma[1] != mb[1] {
			return ma[1] < mb[1]
		}
		if ma[2] != mb[2] {
			if ma[2] == "" {
				return true
			}
			if mb[2] == "" {
				return false
			}
			return ma[2] < mb[2]
		}
		na, _ := strconv.Atoi(ma[3])
		nb, _ := strconv.Atoi(mb[3])
		return na < nb
	})
}
