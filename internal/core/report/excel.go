package report

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/rakeshkanojia96-rgb/gst-report-generator/internal/core/states"
	"github.com/rakeshkanojia96-rgb/gst-report-generator/internal/domain"
)

// Sheet names of the GSTR1 filing template, in template order. Only b2cs,
// hsn(b2c), eco and docs carry data; the rest are structural placeholders
// the template requires.
var sheetOrder = []string{
	"b2b,sez,de", "b2cl", "b2cs", "cdnr", "hsn(b2c)",
	"hsn(b2b)", "exemp", "eco", "docs",
}

// Filing template colors.
const (
	colorTitleBlue = "4F81BD"
	colorLabelBlue = "D9E1F2"
	colorHeaderGry = "F2F2F2"
)

// sheetStyles holds the style ids shared by all sheets of one workbook.
type sheetStyles struct {
	title       int
	label       int
	labelRight  int
	header      int
	headerLeft  int
	headerRight int
	center      int
	left        int
	right       int
}

func newSheetStyles(f *excelize.File) (sheetStyles, error) {
	var s sheetStyles
	var err error

	align := func(horizontal string) *excelize.Alignment {
		return &excelize.Alignment{Horizontal: horizontal, Vertical: "middle"}
	}
	fill := func(color string) excelize.Fill {
		return excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}}
	}

	if s.title, err = f.NewStyle(&excelize.Style{
		Fill:      fill(colorTitleBlue),
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Alignment: align("center"),
	}); err != nil {
		return s, err
	}
	if s.label, err = f.NewStyle(&excelize.Style{
		Fill:      fill(colorLabelBlue),
		Font:      &excelize.Font{Bold: true},
		Alignment: align("center"),
	}); err != nil {
		return s, err
	}
	if s.labelRight, err = f.NewStyle(&excelize.Style{
		Fill:      fill(colorLabelBlue),
		Font:      &excelize.Font{Bold: true},
		Alignment: align("right"),
	}); err != nil {
		return s, err
	}
	if s.header, err = f.NewStyle(&excelize.Style{
		Fill:      fill(colorHeaderGry),
		Font:      &excelize.Font{Bold: true},
		Alignment: align("center"),
	}); err != nil {
		return s, err
	}
	if s.headerLeft, err = f.NewStyle(&excelize.Style{
		Fill:      fill(colorHeaderGry),
		Font:      &excelize.Font{Bold: true},
		Alignment: align("left"),
	}); err != nil {
		return s, err
	}
	if s.headerRight, err = f.NewStyle(&excelize.Style{
		Fill:      fill(colorHeaderGry),
		Font:      &excelize.Font{Bold: true},
		Alignment: align("right"),
	}); err != nil {
		return s, err
	}
	if s.center, err = f.NewStyle(&excelize.Style{Alignment: align("center")}); err != nil {
		return s, err
	}
	if s.left, err = f.NewStyle(&excelize.Style{Alignment: align("left")}); err != nil {
		return s, err
	}
	s.right, err = f.NewStyle(&excelize.Style{Alignment: align("right")})
	return s, err
}

// sheetWriter accumulates writes to one sheet, keeping the first error so the
// sheet builders stay linear.
type sheetWriter struct {
	f     *excelize.File
	sheet string
	err   error
}

func (w *sheetWriter) row(n int, values []interface{}) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetSheetRow(w.sheet, cell, &values)
}

// style applies one style id to the cell range [from, to] of a row.
func (w *sheetWriter) style(n, from, to, styleID int) {
	if w.err != nil {
		return
	}
	start, err := excelize.CoordinatesToCellName(from, n)
	if err != nil {
		w.err = err
		return
	}
	end, err := excelize.CoordinatesToCellName(to, n)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetCellStyle(w.sheet, start, end, styleID)
}

func (w *sheetWriter) styleCells(n int, cols []int, styleID int) {
	for _, col := range cols {
		w.style(n, col, col, styleID)
	}
}

func (w *sheetWriter) widths(widths []float64) {
	if w.err != nil {
		return
	}
	for i, width := range widths {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			w.err = err
			return
		}
		if err := w.f.SetColWidth(w.sheet, name, name, width); err != nil {
			w.err = err
			return
		}
	}
}

// emitWorkbook renders the consolidated tables into the nine-sheet filing
// template.
func (svc *service) emitWorkbook(report domain.ConsolidatedReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName(f.GetSheetName(0), sheetOrder[0])
	for _, name := range sheetOrder[1:] {
		if _, err := f.NewSheet(name); err != nil {
			return nil, err
		}
	}

	styles, err := newSheetStyles(f)
	if err != nil {
		return nil, err
	}

	writers := make(map[string]*sheetWriter, len(sheetOrder))
	for _, name := range sheetOrder {
		writers[name] = &sheetWriter{f: f, sheet: name}
	}

	writeB2BSheet(writers["b2b,sez,de"], styles)
	writeB2CLSheet(writers["b2cl"], styles)
	svc.writeB2CSSheet(writers["b2cs"], styles, report.StateWise)
	writeCDNRSheet(writers["cdnr"], styles)
	svc.writeHSNSheet(writers["hsn(b2c)"], styles, report.HSNWise)
	writeHSNB2BSheet(writers["hsn(b2b)"], styles)
	writeEXEMPSheet(writers["exemp"], styles)
	svc.writeECOSheet(writers["eco"], styles, report.Platforms)
	writeDOCSSheet(writers["docs"], styles, report.DocSeries)

	for _, name := range sheetOrder {
		if writers[name].err != nil {
			return nil, writers[name].err
		}
	}

	f.SetActiveSheet(0)
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeB2BSheet(w *sheetWriter, s sheetStyles) {
	w.row(1, []interface{}{"Summary For B2B, SEZ, DE (4A, 4B, 4B, 6C)", "", "", "", "", "", "", "", "", "", "", "", "HELP"})
	w.row(2, []interface{}{"No. of Recipients", "", "No. of Invoices", "", "Total Invoice Value", "", "", "", "", "", "", "Total Taxable Value", "Total Cess"})
	w.row(3, []interface{}{"", "", "", "", "", "", "", "", "", "", "", "", ""})
	w.row(4, []interface{}{"GSTIN/UIN of Recipient", "Receiver Name", "Invoice Number", "Invoice date", "Invoice Value", "Place Of Supply", "Reverse Charge", "Applicable % of Tax Rate", "Invoice Type", "E-Commerce GSTIN", "Rate", "Taxable Value", "Cess Amount"})

	for row := 1; row <= 4; row++ {
		w.style(row, 1, 13, s.center)
	}
	w.styleCells(1, []int{1, 13}, s.title)
	w.styleCells(2, []int{1, 3, 5, 12, 13}, s.label)
	w.style(4, 1, 13, s.header)
	w.widths([]float64{15, 20, 15, 12, 15, 15, 12, 18, 12, 15, 8, 15, 12})
}

func writeB2CLSheet(w *sheetWriter, s sheetStyles) {
	w.row(1, []interface{}{"Summary For B2CL(5)", "", "", "", "", "", "", "", "HELP"})
	w.row(2, []interface{}{"No. of Invoices", "", "", "", "", "", "", "", ""})
	w.row(3, []interface{}{"", "", "", "", "", "", "", "", ""})
	w.row(4, []interface{}{"Invoice Number", "Invoice date", "Invoice Value", "Place Of Supply", "Applicable % of Tax Rate", "Rate", "Taxable Value", "Cess Amount", "E-Commerce GSTIN"})

	for row := 1; row <= 4; row++ {
		w.style(row, 1, 9, s.center)
	}
	w.styleCells(1, []int{1, 9}, s.title)
	w.styleCells(2, []int{1}, s.label)
	w.style(4, 1, 9, s.header)
	w.widths([]float64{15, 15, 15, 15, 20, 8, 15, 12, 18})
}

func (svc *service) writeB2CSSheet(w *sheetWriter, s sheetStyles, buckets []domain.StateBucket) {
	total := decimal.Zero
	for _, b := range buckets {
		total = total.Add(b.TaxableValue.Round(2))
	}

	w.row(1, []interface{}{"Summary For B2CS(7)", "", "", "", "", "", "HELP"})
	w.row(2, []interface{}{"", "", "", "", "Total Taxable  Value", "Total Cess", ""})
	w.row(3, []interface{}{"", "", "", "", round2(total), "", ""})
	w.row(4, []interface{}{"Type", "Place Of Supply", "Applicable % of Tax Rate", "Rate", "Taxable Value", "Cess Amount", "E-Commerce GSTIN"})

	for row := 1; row <= 3; row++ {
		w.style(row, 1, 7, s.center)
	}
	w.styleCells(1, []int{1, 7}, s.title)
	w.styleCells(2, []int{5, 6}, s.label)
	w.style(4, 1, 7, s.header)

	for i, b := range buckets {
		row := 5 + i
		place := b.StateCode + "-" + states.Title(b.StateName)
		w.row(row, []interface{}{"OE", place, "", round2(b.RatePercent), round2(b.TaxableValue), "0", ""})
		w.style(row, 1, 2, s.left)
		w.style(row, 3, 3, s.center)
		w.style(row, 4, 6, s.right)
		w.style(row, 7, 7, s.center)
	}
	w.widths([]float64{12, 20, 20, 8, 15, 12, 15})
}

func writeCDNRSheet(w *sheetWriter, s sheetStyles) {
	w.row(1, []interface{}{"Summary For CDNR(9A)", "", "", "", "", "", "", "", "", "", "", "", "HELP"})
	w.row(2, []interface{}{"No. of Recipients", "", "No. of Notes", "", "", "", "", "", "Total Note Value", "", "", "Total Taxable Value", "Total Cess"})
	w.row(3, []interface{}{"", "", "", "", "", "", "", "", "", "", "", "", ""})
	w.row(4, []interface{}{"GSTIN/UIN of Recipient", "Receiver Name", "Note Number", "Note Date", "Note Type", "Place Of Supply", "Reverse Charge", "Note Supply Type", "Note Value", "Applicable % of Tax Rate", "Rate", "Taxable Value", "Cess Amount"})

	for row := 1; row <= 4; row++ {
		w.style(row, 1, 13, s.center)
	}
	w.styleCells(1, []int{1, 13}, s.title)
	w.styleCells(2, []int{1, 3, 9, 12, 13}, s.label)
	w.style(4, 1, 13, s.header)
	w.widths([]float64{15, 20, 15, 12, 15, 15, 12, 15, 12, 20, 8, 15, 12})
}

func (svc *service) writeHSNSheet(w *sheetWriter, s sheetStyles, buckets []domain.HSNBucket) {
	var totalValue, totalIgst, totalCgst, totalSgst decimal.Decimal
	for _, b := range buckets {
		totalValue = totalValue.Add(b.TaxableValue.Round(2))
		totalIgst = totalIgst.Add(b.IntegratedTax.Round(2))
		totalCgst = totalCgst.Add(b.CentralTax.Round(2))
		totalSgst = totalSgst.Add(b.StateTax.Round(2))
	}

	w.row(1, []interface{}{"Summary For HSN(12)", "", "", "", "", "", "", "", "", "", "HELP"})
	w.row(2, []interface{}{"No. of HSN", "", "", "", "Total Value", "", "Total Taxable Value", "Total Integrated Tax", "Total Central Tax", "Total State/UT Tax", "Total Cess"})
	w.row(3, []interface{}{len(buckets), "", "", "", round2(totalValue), "", round2(totalValue), round2(totalIgst), round2(totalCgst), round2(totalSgst), ""})
	w.row(4, []interface{}{"HSN", "Description", "UQC", "Total Quantity", "Total Value", "Rate", "Taxable Value", "Integrated Tax Amount", "Central Tax Amount", "State/UT Tax Amount", "Cess Amount"})

	w.style(1, 1, 11, s.center)
	w.styleCells(1, []int{1, 11}, s.title)
	w.style(2, 1, 4, s.center)
	w.style(2, 5, 11, s.right)
	w.styleCells(2, []int{1}, s.label)
	w.styleCells(2, []int{5, 7, 8, 9, 10, 11}, s.labelRight)
	w.style(3, 1, 4, s.center)
	w.style(3, 5, 11, s.right)
	w.style(4, 1, 3, s.header)
	w.style(4, 4, 10, s.headerRight)
	w.style(4, 11, 11, s.header)

	// The fixed goods description is carried in the filing payload but left
	// blank in the sheet, matching the portal's exported template.
	for i, b := range buckets {
		row := 5 + i
		w.row(row, []interface{}{b.HSNCode, "", "PCS-PIECES", round2(b.Quantity), round2(b.TaxableValue), round2(b.RatePercent), round2(b.TaxableValue), round2(b.IntegratedTax), round2(b.CentralTax), round2(b.StateTax), ""})
		w.style(row, 1, 1, s.right)
		w.style(row, 2, 3, s.center)
		w.style(row, 4, 10, s.right)
		w.style(row, 11, 11, s.center)
	}
	w.widths([]float64{10, 20, 8, 12, 12, 8, 12, 12, 12, 12, 10})
}

func writeHSNB2BSheet(w *sheetWriter, s sheetStyles) {
	w.row(1, []interface{}{"Summary For HSN(12)", "", "", "", "", "", "", "", "", "", "HELP"})
	w.row(2, []interface{}{"No. of HSN", "", "", "", "Total Value", "", "Total Taxable Value", "Total Integrated Tax", "Total Central Tax", "Total State/UT Tax", "Total Cess"})
	w.row(3, []interface{}{"", "", "", "", "", "", "", "", "", "", ""})
	w.row(4, []interface{}{"HSN", "Description", "UQC", "Total Quantity", "Total Value", "Rate", "Taxable Value", "Integrated Tax Amount", "Central Tax Amount", "State/UT Tax Amount", "Cess Amount"})

	for row := 1; row <= 4; row++ {
		w.style(row, 1, 11, s.center)
	}
	w.styleCells(1, []int{1, 11}, s.title)
	w.styleCells(2, []int{1, 5, 7, 8, 9, 10, 11}, s.label)
	w.style(4, 1, 11, s.header)
	w.widths([]float64{10, 20, 8, 12, 12, 8, 12, 12, 12, 12, 10})
}

func writeEXEMPSheet(w *sheetWriter, s sheetStyles) {
	w.row(1, []interface{}{"Summary For Nil rated, exempted and non GST outward supplies (8)", "", "", "HELP"})
	w.row(2, []interface{}{"", "Total Nil Rated Supplies", "Total Exempted Supplies", "Total Non-GST Supplies"})
	w.row(3, []interface{}{"", "", "", ""})
	w.row(4, []interface{}{"Description", "Nil Rated Supplies", "Exempted(other than nil rated/non GST supply)", "Non-GST Supplies"})
	w.row(5, []interface{}{"Inter-State supplies to registered persons", "", "", ""})
	w.row(6, []interface{}{"Intra-State supplies to registered persons", "", "", ""})
	w.row(7, []interface{}{"Inter-State supplies to unregistered persons", "", "", ""})
	w.row(8, []interface{}{"Intra-State supplies to unregistered persons", "", "", ""})

	for row := 1; row <= 4; row++ {
		w.style(row, 1, 4, s.center)
	}
	w.styleCells(1, []int{1, 4}, s.title)
	w.styleCells(2, []int{2, 3, 4}, s.label)
	w.style(4, 1, 4, s.header)
	for row := 5; row <= 8; row++ {
		w.style(row, 1, 1, s.left)
		w.style(row, 2, 4, s.center)
	}
	w.widths([]float64{40, 20, 30, 20})
}

func (svc *service) writeECOSheet(w *sheetWriter, s sheetStyles, platforms []domain.PlatformSummary) {
	var totalValue, totalIgst, totalCgst, totalSgst decimal.Decimal
	for _, p := range platforms {
		totalValue = totalValue.Add(p.TaxableValue.Round(2))
		totalIgst = totalIgst.Add(p.IntegratedTax.Round(2))
		totalCgst = totalCgst.Add(p.CentralTax.Round(2))
		totalSgst = totalSgst.Add(p.StateTax.Round(2))
	}

	w.row(1, []interface{}{"Summary For Supplies through ECO-14", "", "", "", "", "", "", "HELP"})
	w.row(2, []interface{}{"", "No. of E-Commerce Operator", "", "Total Net Value of Supplies", "Total Integrated Tax", "Total Central Tax", "Total State/UT Tax", "Total Cess"})
	w.row(3, []interface{}{"", len(platforms), "", round2(totalValue), round2(totalIgst), round2(totalCgst), round2(totalSgst), ""})
	w.row(4, []interface{}{"Nature of Supply", "GSTIN of E-Commerce Operator", "E-Commerce Operator Name", "Net value of supplies", "Integrated tax", "Central tax", "State/UT tax", "Cess"})

	w.style(1, 1, 8, s.center)
	w.styleCells(1, []int{1, 8}, s.title)
	w.style(2, 1, 8, s.center)
	w.styleCells(2, []int{2, 4, 5, 6, 7, 8}, s.label)
	w.style(3, 1, 3, s.center)
	w.style(3, 4, 7, s.right)
	w.style(3, 8, 8, s.center)
	w.style(4, 1, 8, s.header)

	for i, p := range platforms {
		row := 5 + i
		w.row(row, []interface{}{"Liable to collect tax u/s 52(TCS)", svc.operatorGSTIN(p.Platform), strings.ToLower(p.Platform), round2(p.TaxableValue), round2(p.IntegratedTax), round2(p.CentralTax), round2(p.StateTax), ""})
		w.style(row, 1, 3, s.left)
		w.style(row, 4, 7, s.right)
		w.style(row, 8, 8, s.center)
	}
	w.widths([]float64{20, 15, 20, 15, 12, 12, 12, 10})
}

func writeDOCSSheet(w *sheetWriter, s sheetStyles, series []domain.DocSeries) {
	totalDocs, totalCancelled := 0, 0
	for _, d := range series {
		totalDocs += d.TotalCount
		totalCancelled += d.CancelledCount
	}

	w.row(1, []interface{}{"Summary of documents issued during the tax period (13)", "", "", "", "HELP"})
	w.row(2, []interface{}{"", "", "", "Total Number", "Total Cancelled"})
	w.row(3, []interface{}{"", "", "", totalDocs, totalCancelled})
	w.row(4, []interface{}{"Nature of Document", "Sr. No. From", "Sr. No. To", "Total Number", "Cancelled"})

	w.style(1, 1, 5, s.center)
	w.styleCells(1, []int{1, 5}, s.title)
	w.style(2, 1, 3, s.left)
	w.style(2, 4, 5, s.right)
	w.styleCells(2, []int{4, 5}, s.label)
	w.style(3, 1, 3, s.left)
	w.style(3, 4, 5, s.right)
	w.style(4, 1, 3, s.headerLeft)
	w.style(4, 4, 5, s.headerRight)

	for i, d := range series {
		row := 5 + i
		w.row(row, []interface{}{"Invoices for outward supply", d.From, d.To, d.TotalCount, d.CancelledCount})
		w.style(row, 1, 3, s.left)
		w.style(row, 4, 5, s.right)
	}
	w.widths([]float64{25, 15, 15, 12, 12})
}

// operatorGSTIN substitutes the collecting operator's registration for the
// platform display name.
func (svc *service) operatorGSTIN(platform string) string {
	if platform == "Amazon" {
		return svc.cfg.AmazonOperatorGSTIN
	}
	return svc.cfg.MeeshoOperatorGSTIN
}
