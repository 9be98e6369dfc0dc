package report

import (
	"github.com/shopspring/decimal"

	"github.com/rakeshkanojia96-rgb/gst-report-generator/internal/domain"
)

// merge combines both sources into one consolidated report. State and HSN
// buckets re-group by their key and sum across sources; document ranges
// concatenate, one row per source. The Amazon platform summary passes
// through as aggregated; the Meesho one is re-derived here from the raw
// batch so the platform-level split never depends on per-bucket rounding.
func (svc *service) merge(amazon, meesho sourceTables, batch meeshoBatch) domain.ConsolidatedReport {
	report := domain.ConsolidatedReport{
		StateWise: mergeStateBuckets(amazon.States, meesho.States),
		HSNWise:   mergeHSNBuckets(amazon.HSN, meesho.HSN),
		DocSeries: append(append([]domain.DocSeries{}, amazon.Docs...), meesho.Docs...),
	}

	if amazon.Platform != nil {
		report.Platforms = append(report.Platforms, *amazon.Platform)
	}
	if meeshoPlatform := svc.meeshoPlatformSummary(batch); meeshoPlatform != nil {
		report.Platforms = append(report.Platforms, *meeshoPlatform)
	}
	return report
}

func mergeStateBuckets(groups ...[]domain.StateBucket) []domain.StateBucket {
	idx := make(map[string]*domain.StateBucket)

	for _, group := range groups {
		for _, b := range group {
			existing, ok := idx[b.StateCode]
			if !ok {
				bucket := b
				idx[b.StateCode] = &bucket
				continue
			}
			// First source seen keeps the display name and rate.
			existing.TaxableValue = existing.TaxableValue.Add(b.TaxableValue)
		}
	}

	merged := make([]domain.StateBucket, 0, len(idx))
	for _, b := range idx {
		merged = append(merged, *b)
	}
	sortStateBuckets(merged)
	return merged
}

func mergeHSNBuckets(groups ...[]domain.HSNBucket) []domain.HSNBucket {
	idx := make(map[string]*domain.HSNBucket)

	for _, group := range groups {
		for _, b := range group {
			existing, ok := idx[b.HSNCode]
			if !ok {
				bucket := b
				idx[b.HSNCode] = &bucket
				continue
			}
			existing.Quantity = existing.Quantity.Add(b.Quantity)
			existing.TaxableValue = existing.TaxableValue.Add(b.TaxableValue)
			existing.IntegratedTax = existing.IntegratedTax.Add(b.IntegratedTax)
			existing.CentralTax = existing.CentralTax.Add(b.CentralTax)
			existing.StateTax = existing.StateTax.Add(b.StateTax)
		}
	}

	merged := make([]domain.HSNBucket, 0, len(idx))
	for _, b := range idx {
		merged = append(merged, *b)
	}
	sortHSNBuckets(merged)
	return merged
}

// meeshoPlatformSummary re-walks the raw Meesho records and derives the
// platform-level split once: sales add their split, returns subtract theirs
// by absolute value, matching the sign policy of the state table. A batch
// that nets to zero produces no row.
func (svc *service) meeshoPlatformSummary(batch meeshoBatch) *domain.PlatformSummary {
	summary := domain.PlatformSummary{Platform: "Meesho"}

	for _, rec := range batch.Sales {
		summary.TaxableValue = summary.TaxableValue.Add(rec.TaxableAmount)
		svc.addPlatformSplit(&summary, rec, false)
	}
	for _, rec := range batch.Returns {
		summary.TaxableValue = summary.TaxableValue.Sub(rec.TaxableAmount.Abs())
		svc.addPlatformSplit(&summary, rec, true)
	}

	if summary.TaxableValue.IsZero() {
		return nil
	}
	return &summary
}

func (svc *service) addPlatformSplit(summary *domain.PlatformSummary, rec domain.SalesRecord, subtract bool) {
	amount := rec.TaxableAmount.Mul(rec.TaxRatePercent).Div(oneHundred)
	if subtract {
		amount = amount.Abs().Neg()
	}
	if rec.StateCode == svc.cfg.HomeStateCode {
		half := amount.Div(decimal.NewFromInt(2))
		summary.CentralTax = summary.CentralTax.Add(half)
		summary.StateTax = summary.StateTax.Add(half)
	} else {
		summary.IntegratedTax = summary.IntegratedTax.Add(amount)
	}
}
