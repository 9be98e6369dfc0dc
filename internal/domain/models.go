// internal/domain/models.go
package domain

import (
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
)

// Source identifies the marketplace a record came from.
type Source string

// Supported marketplaces.
const (
	SourceAmazon Source = "AMAZON"
	SourceMeesho Source = "MEESHO"
)

// TransactionKind determines the sign a record carries in aggregation.
type TransactionKind string

// Constants for transaction kinds.
const (
	KindSale   TransactionKind = "SALE"
	KindReturn TransactionKind = "RETURN"
	KindCancel TransactionKind = "CANCEL"
)

// MeeshoCategory tags a Meesho upload by its file category.
type MeeshoCategory string

// Constants for Meesho file categories.
const (
	MeeshoSales          MeeshoCategory = "SALES"
	MeeshoReturns        MeeshoCategory = "RETURNS"
	MeeshoInvoiceDetails MeeshoCategory = "INVOICE_DETAILS"
	MeeshoUnknown        MeeshoCategory = "UNKNOWN"
)

// RawRow maps a column header to the cell value of one ingested row.
type RawRow map[string]string

// UploadedFile is an in-memory file handle received from the API layer.
type UploadedFile struct {
	Filename string
	Reader   io.Reader
}

// SalesRecord is the canonical unit the pipeline reasons about. It is built
// once per input row by a normalizer and never mutated afterwards.
type SalesRecord struct {
	Source         Source
	Kind           TransactionKind
	StateName      string
	StateCode      string
	TaxableAmount  decimal.Decimal
	TaxRatePercent decimal.Decimal
	IntegratedTax  decimal.Decimal
	CentralTax     decimal.Decimal
	StateTax       decimal.Decimal
	HSNCode        string
	Quantity       decimal.Decimal
	InvoiceNumber  string
}

// InvoiceDetail is one row of a Meesho tax-invoice-details file.
type InvoiceDetail struct {
	Number string
	Type   string
}

// StateBucket accumulates taxable value per state code. Sums are kept at full
// precision; rounding happens only when a bucket is emitted.
type StateBucket struct {
	StateName    string
	StateCode    string
	TaxableValue decimal.Decimal
	RatePercent  decimal.Decimal
}

// HSNBucket accumulates quantity, taxable value and the tax component split
// per HSN classification code.
type HSNBucket struct {
	HSNCode       string
	Quantity      decimal.Decimal
	TaxableValue  decimal.Decimal
	RatePercent   decimal.Decimal
	IntegratedTax decimal.Decimal
	CentralTax    decimal.Decimal
	StateTax      decimal.Decimal
}

// DocSeries summarizes the invoice numbers a source issued in the period.
// CancelledCount follows the filing template's contract: for Amazon it holds
// the refund count, not the count of cancelled transactions (a labeling
// artifact of the external format that must be preserved as-is).
type DocSeries struct {
	From           string
	To             string
	TotalCount     int
	CancelledCount int
}

// PlatformSummary holds the e-commerce-operator totals for one marketplace.
type PlatformSummary struct {
	Platform      string
	TaxableValue  decimal.Decimal
	IntegratedTax decimal.Decimal
	CentralTax    decimal.Decimal
	StateTax      decimal.Decimal
}

// ConsolidatedReport is the merged cross-platform result both emitters read.
// Slices are sorted by their key so repeated runs emit identical bytes.
type ConsolidatedReport struct {
	StateWise []StateBucket
	HSNWise   []HSNBucket
	DocSeries []DocSeries
	Platforms []PlatformSummary
}

// ReportInput carries everything one report-generation run needs.
type ReportInput struct {
	GSTIN       string
	Period      FilingPeriod
	AmazonFiles []UploadedFile
	MeeshoFiles []UploadedFile
}

// ReportSummary is returned by the summary endpoint after a dry run.
type ReportSummary struct {
	RunID         string   `json:"run_id"`
	FilingPeriod  string   `json:"filing_period"`
	AmazonRecords int      `json:"amazon_records"`
	MeeshoRecords int      `json:"meesho_records"`
	TotalRecords  int      `json:"total_records"`
	Warnings      []string `json:"warnings,omitempty"`
}

// FilingPeriod is the year-month a return is filed for.
type FilingPeriod struct {
	Year  int
	Month time.Month
}

// ParsePeriod parses the "YYYY-MM" value of the period form field.
func ParsePeriod(s string) (FilingPeriod, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return FilingPeriod{}, fmt.Errorf("invalid filing period %q: %w", s, err)
	}
	return FilingPeriod{Year: t.Year(), Month: t.Month()}, nil
}

// MonthName returns the English month name, e.g. "August".
func (p FilingPeriod) MonthName() string {
	return p.Month.String()
}

// MMYYYY returns the period in the filing format, e.g. "082025".
func (p FilingPeriod) MMYYYY() string {
	return fmt.Sprintf("%02d%d", int(p.Month), p.Year)
}

// Display returns the human-readable period, e.g. "August 2025".
func (p FilingPeriod) Display() string {
	return fmt.Sprintf("%s %d", p.MonthName(), p.Year)
}

// --- GSTR1 filing payload ---

// GSTR1 is the root of the filing payload submitted to the GST portal.
type GSTR1 struct {
	GSTIN        string          `json:"gstin"`
	FilingPeriod string          `json:"fp"`
	Version      string          `json:"version"`
	Hash         string          `json:"hash"`
	B2CS         []B2CSEntry     `json:"b2cs"`
	HSN          HSNSection      `json:"hsn"`
	Supeco       SupecoSection   `json:"supeco"`
	DocIssue     DocIssueSection `json:"doc_issue"`
}

// B2CSEntry is one state-wise summary line. The tax amount fields are
// pointers: an INTRA line carries camt/samt, an INTER line carries iamt, and
// the portal rejects lines carrying both.
type B2CSEntry struct {
	SupplyType    string   `json:"sply_ty"`
	Rate          float64  `json:"rt"`
	Type          string   `json:"typ"`
	Pos           string   `json:"pos"`
	TaxableValue  float64  `json:"txval"`
	IntegratedTax *float64 `json:"iamt,omitempty"`
	CentralTax    *float64 `json:"camt,omitempty"`
	StateTax      *float64 `json:"samt,omitempty"`
	Cess          float64  `json:"csamt"`
}

// HSNSection wraps the B2C HSN lines.
type HSNSection struct {
	B2C []HSNEntry `json:"hsn_b2c"`
}

// HSNEntry is one HSN-wise summary line, numbered sequentially from 1.
type HSNEntry struct {
	Num           int     `json:"num"`
	HSNCode       string  `json:"hsn_sc"`
	Description   string  `json:"desc"`
	UQC           string  `json:"uqc"`
	Quantity      int64   `json:"qty"`
	Rate          float64 `json:"rt"`
	TaxableValue  float64 `json:"txval"`
	IntegratedTax float64 `json:"iamt"`
	StateTax      float64 `json:"samt"`
	CentralTax    float64 `json:"camt"`
	Cess          float64 `json:"csamt"`
}

// SupecoSection wraps the supplies-through-e-commerce-operator lines.
type SupecoSection struct {
	CollectTax []SupecoEntry `json:"clttx"`
}

// SupecoEntry is one operator line, keyed by the operator's GSTIN (etin).
type SupecoEntry struct {
	ETIN          string  `json:"etin"`
	SupplyValue   float64 `json:"suppval"`
	IntegratedTax float64 `json:"igst"`
	CentralTax    float64 `json:"cgst"`
	StateTax      float64 `json:"sgst"`
	Cess          float64 `json:"cess"`
	Flag          string  `json:"flag"`
}

// DocIssueSection wraps the documents-issued block.
type DocIssueSection struct {
	Details []DocDetail `json:"doc_det"`
}

// DocDetail groups document lines of one document type.
type DocDetail struct {
	DocNum  int        `json:"doc_num"`
	DocType string     `json:"doc_typ"`
	Docs    []DocEntry `json:"docs"`
}

// DocEntry is one issued-document range line.
type DocEntry struct {
	Num        int    `json:"num"`
	From       string `json:"from"`
	To         string `json:"to"`
	TotalCount int    `json:"totnum"`
	Cancelled  int    `json:"cancel"`
	NetIssued  int    `json:"net_issue"`
}
