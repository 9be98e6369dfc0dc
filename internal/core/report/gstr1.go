package report

import (
	"encoding/json"

	"github.com/rakeshkanojia96-rgb/gst-report-generator/internal/domain"
)

// emitFilingPayload renders the consolidated tables as the GSTR1 JSON
// document. Section arrays are always present, empty or not; the portal
// rejects payloads with missing keys.
func (svc *service) emitFilingPayload(report domain.ConsolidatedReport, input domain.ReportInput) ([]byte, error) {
	gstin := input.GSTIN
	if gstin == "" {
		gstin = svc.cfg.DefaultGSTIN
	}

	payload := domain.GSTR1{
		GSTIN:        gstin,
		FilingPeriod: input.Period.MMYYYY(),
		Version:      svc.cfg.PayloadVersion,
		Hash:         "hash",
		B2CS:         svc.b2csEntries(report.StateWise),
		HSN:          domain.HSNSection{B2C: svc.hsnEntries(report.HSNWise)},
		Supeco:       domain.SupecoSection{CollectTax: svc.supecoEntries(report.Platforms)},
		DocIssue: domain.DocIssueSection{
			Details: []domain.DocDetail{{
				DocNum:  1,
				DocType: "Invoices for outward supply",
				Docs:    docEntries(report.DocSeries),
			}},
		},
	}
	return json.Marshal(payload)
}

// b2csEntries builds the state-wise lines. An intra-state line splits the tax
// half into central and half into state at rate/200 each; an inter-state line
// carries the full rate as integrated tax. The portal rejects lines carrying
// both kinds.
func (svc *service) b2csEntries(buckets []domain.StateBucket) []domain.B2CSEntry {
	entries := make([]domain.B2CSEntry, 0, len(buckets))
	for _, b := range buckets {
		taxable := b.TaxableValue.Round(2)
		entry := domain.B2CSEntry{
			Rate:         round2(b.RatePercent),
			Type:         "OE",
			Pos:          b.StateCode,
			TaxableValue: taxable.InexactFloat64(),
		}
		if b.StateCode == svc.cfg.HomeStateCode {
			entry.SupplyType = "INTRA"
			half := round2(taxable.Mul(b.RatePercent).Div(twoHundred))
			entry.CentralTax = &half
			samt := half
			entry.StateTax = &samt
		} else {
			entry.SupplyType = "INTER"
			full := round2(taxable.Mul(b.RatePercent).Div(oneHundred))
			entry.IntegratedTax = &full
		}
		entries = append(entries, entry)
	}
	return entries
}

func (svc *service) hsnEntries(buckets []domain.HSNBucket) []domain.HSNEntry {
	entries := make([]domain.HSNEntry, 0, len(buckets))
	for i, b := range buckets {
		entries = append(entries, domain.HSNEntry{
			Num:           i + 1,
			HSNCode:       b.HSNCode,
			Description:   svc.cfg.HSNDescription,
			UQC:           "PCS",
			Quantity:      b.Quantity.IntPart(),
			Rate:          round2(b.RatePercent),
			TaxableValue:  round2(b.TaxableValue),
			IntegratedTax: round2(b.IntegratedTax),
			StateTax:      round2(b.StateTax),
			CentralTax:    round2(b.CentralTax),
			Cess:          0,
		})
	}
	return entries
}

func (svc *service) supecoEntries(platforms []domain.PlatformSummary) []domain.SupecoEntry {
	entries := make([]domain.SupecoEntry, 0, len(platforms))
	for _, p := range platforms {
		entries = append(entries, domain.SupecoEntry{
			ETIN:          svc.operatorGSTIN(p.Platform),
			SupplyValue:   round2(p.TaxableValue),
			IntegratedTax: round2(p.IntegratedTax),
			CentralTax:    round2(p.CentralTax),
			StateTax:      round2(p.StateTax),
			Cess:          0,
			Flag:          "N",
		})
	}
	return entries
}

func docEntries(series []domain.DocSeries) []domain.DocEntry {
	entries := make([]domain.DocEntry, 0, len(series))
	for i, d := range series {
		entries = append(entries, domain.DocEntry{
			Num:        i + 1,
			From:       d.From,
			To:         d.To,
			TotalCount: d.TotalCount,
			Cancelled:  d.CancelledCount,
			NetIssued:  d.TotalCount - d.CancelledCount,
		})
	}
	return entries
}
