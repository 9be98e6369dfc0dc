// Package report implements the GSTR1 transformation pipeline: marketplace
// export rows are normalized into canonical sales records, folded into
// state-wise, HSN-wise, document-series and platform tables, merged across
// platforms, and emitted as the filing spreadsheet and the filing payload.
// Every run rebuilds all tables from the uploaded bytes; nothing persists
// between runs, so identical inputs yield identical outputs.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rakeshkanojia96-rgb/gst-report-generator/internal/config"
	"github.com/rakeshkanojia96-rgb/gst-report-generator/internal/core/ingest"
	"github.com/rakeshkanojia96-rgb/gst-report-generator/internal/core/states"
	"github.com/rakeshkanojia96-rgb/gst-report-generator/internal/domain"
)

// Service defines the report-generation operations exposed to the API layer.
type Service interface {
	GenerateWorkbook(input domain.ReportInput) ([]byte, string, error)
	GenerateFilingPayload(input domain.ReportInput) ([]byte, string, error)
	Summarize(input domain.ReportInput) (domain.ReportSummary, error)
}

type service struct {
	cfg    config.Config
	logger *zap.Logger
}

// NewService creates a report service with the given filing configuration.
func NewService(cfg config.Config, logger *zap.Logger) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{cfg: cfg, logger: logger}
}

// sourceTables holds one marketplace's aggregated output tables. Slices are
// sorted by their key so merging and emission stay deterministic.
type sourceTables struct {
	States   []domain.StateBucket
	HSN      []domain.HSNBucket
	Docs     []domain.DocSeries
	Platform *domain.PlatformSummary
}

// meeshoBatch pools the normalized rows of all uploaded Meesho files by
// category. Records keep the raw signed amount from the source; sign policy
// is applied at aggregation time.
type meeshoBatch struct {
	Sales          []domain.SalesRecord
	Returns        []domain.SalesRecord
	InvoiceDetails []domain.InvoiceDetail
}

// pipelineResult is everything one run produces before emission.
type pipelineResult struct {
	Consolidated  domain.ConsolidatedReport
	AmazonRecords int
	MeeshoRecords int
	Warnings      []string
}

// run executes the ingest, normalize, aggregate and merge stages over the
// input files.
// Decode and classification failures abort the whole run; emission is left
// to the callers so one output's failure never blocks the other.
func (svc *service) run(input domain.ReportInput) (*pipelineResult, error) {
	var warnings []string
	warn := func(msg string) {
		warnings = append(warnings, msg)
		svc.logger.Warn(msg)
	}

	// Amazon files are pooled before normalization; per-file boundaries
	// carry no meaning for this source.
	var amazonRows []domain.RawRow
	for _, file := range input.AmazonFiles {
		rows, err := ingest.Rows(file)
		if err != nil {
			return nil, fmt.Errorf("reading Amazon file: %w", err)
		}
		amazonRows = append(amazonRows, rows...)
	}

	batch, meeshoRows, err := svc.poolMeeshoFiles(input.MeeshoFiles, warn)
	if err != nil {
		return nil, err
	}

	amazonRecords := svc.normalizeAmazonRows(amazonRows, warn)
	amazonTables := svc.aggregateAmazon(amazonRecords)
	meeshoTables := svc.aggregateMeesho(batch)

	return &pipelineResult{
		Consolidated:  svc.merge(amazonTables, meeshoTables, batch),
		AmazonRecords: len(amazonRecords),
		MeeshoRecords: meeshoRows,
		Warnings:      warnings,
	}, nil
}

// GenerateWorkbook runs the pipeline and renders the nine-sheet filing
// spreadsheet. Returns the artifact bytes and its download filename.
func (svc *service) GenerateWorkbook(input domain.ReportInput) ([]byte, string, error) {
	result, err := svc.run(input)
	if err != nil {
		return nil, "", err
	}
	data, err := svc.emitWorkbook(result.Consolidated)
	if err != nil {
		return nil, "", fmt.Errorf("rendering workbook: %w", err)
	}
	name := fmt.Sprintf("%s %d GSTR1.xlsx", input.Period.MonthName(), input.Period.Year)
	return data, name, nil
}

// GenerateFilingPayload runs the pipeline and renders the GSTR1 JSON
// document, serialized without extraneous whitespace.
func (svc *service) GenerateFilingPayload(input domain.ReportInput) ([]byte, string, error) {
	result, err := svc.run(input)
	if err != nil {
		return nil, "", err
	}
	data, err := svc.emitFilingPayload(result.Consolidated, input)
	if err != nil {
		return nil, "", fmt.Errorf("rendering filing payload: %w", err)
	}
	name := fmt.Sprintf("%s_%d_GSTR1.json", input.Period.MonthName(), input.Period.Year)
	return data, name, nil
}

// Summarize runs the pipeline and reports record counts without emitting
// either artifact.
func (svc *service) Summarize(input domain.ReportInput) (domain.ReportSummary, error) {
	result, err := svc.run(input)
	if err != nil {
		return domain.ReportSummary{}, err
	}
	return domain.ReportSummary{
		RunID:         uuid.NewString(),
		FilingPeriod:  input.Period.Display(),
		AmazonRecords: result.AmazonRecords,
		MeeshoRecords: result.MeeshoRecords,
		TotalRecords:  result.AmazonRecords + result.MeeshoRecords,
		Warnings:      result.Warnings,
	}, nil
}

// poolMeeshoFiles classifies and ingests every Meesho upload. An
// unclassifiable filename is a reported error, not a silent drop.
func (svc *service) poolMeeshoFiles(files []domain.UploadedFile, warn func(string)) (meeshoBatch, int, error) {
	var batch meeshoBatch
	total := 0

	for _, file := range files {
		category := ClassifyMeeshoFile(file.Filename)
		if category == domain.MeeshoUnknown {
			return batch, 0, fmt.Errorf("unrecognized Meesho file %q: expected a tcs_sales, tcs_sales_return or tax_invoice_details export", file.Filename)
		}

		rows, err := ingest.Rows(file)
		if err != nil {
			return batch, 0, fmt.Errorf("reading Meesho file: %w", err)
		}
		total += len(rows)

		switch category {
		case domain.MeeshoSales:
			batch.Sales = append(batch.Sales, svc.normalizeMeeshoRows(rows, domain.KindSale, warn)...)
		case domain.MeeshoReturns:
			batch.Returns = append(batch.Returns, svc.normalizeMeeshoRows(rows, domain.KindReturn, warn)...)
		case domain.MeeshoInvoiceDetails:
			batch.InvoiceDetails = append(batch.InvoiceDetails, parseInvoiceDetails(rows)...)
		}
	}
	return batch, total, nil
}

// resolveState maps a state name to its code, logging a suggestion when the
// name is unknown. The fallback code itself is policy, not an error.
func (svc *service) resolveState(name string, warn func(string)) string {
	code, ok := states.Lookup(name)
	if ok {
		return code
	}
	if suggestion, found := states.Suggest(name); found {
		warn(fmt.Sprintf("unknown state %q resolved to home state %s (closest known: %q)", name, states.HomeCode, suggestion))
	} else if strings.TrimSpace(name) != "" {
		warn(fmt.Sprintf("unknown state %q resolved to home state %s", name, states.HomeCode))
	}
	return states.HomeCode
}

// --- shared numeric helpers ---

var (
	oneHundred = decimal.NewFromInt(100)
	twoHundred = decimal.NewFromInt(200)
)

// parseAmount parses a cell into a decimal, treating blank or unparseable
// cells as zero, the way the export columns behave in practice.
func parseAmount(s string) decimal.Decimal {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// parseAmountOr is parseAmount with a fallback for blank cells only.
func parseAmountOr(s string, fallback decimal.Decimal) decimal.Decimal {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return parseAmount(s)
}

// cellOr returns the trimmed cell value or a fallback when blank.
func cellOr(row domain.RawRow, column, fallback string) string {
	if v := strings.TrimSpace(row[column]); v != "" {
		return v
	}
	return fallback
}

// round2 rounds a full-precision sum to the 2-decimal emission value.
func round2(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func sortStateBuckets(buckets []domain.StateBucket) {
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].StateCode < buckets[j].StateCode })
}

func sortHSNBuckets(buckets []domain.HSNBucket) {
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].HSNCode < buckets[j].HSNCode })
}
