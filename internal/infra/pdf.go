package infra

// pdf.go — printable rate-history report using go-pdf/fpdf.
// One A4 page set per product: a header with name and unit, the current
// quotation, then the history table newest-first.

import (
	"bytes"
	"fmt"

	"github.com/Gopal274/Ssdn/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerateHistoryPDF renders a product's rate ledger as a PDF document and
// returns the raw bytes for the handler to stream.
func GenerateHistoryPDF(p *model.Product) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, "Rate History Report", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(contentW, 8, fmt.Sprintf("%s (%s)", p.ProductName, p.Unit), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// ── Current quotation ─────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW, 6, "Current Rate", "B", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	writeRateRow := func(r model.Rate) {
		col := contentW / 5
		pdf.CellFormat(col, 6, r.UpdatedAt.Format("02/01/2006"), "", 0, "L", false, 0, "")
		pdf.CellFormat(col*1.5, 6, truncate(r.PartyName, 30), "", 0, "L", false, 0, "")
		pdf.CellFormat(col*0.8, 6, r.Rate.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(col*0.7, 6, r.GST.StringFixed(0)+"%", "", 0, "R", false, 0, "")
		pdf.CellFormat(col, 6, r.FinalRate.StringFixed(2), "", 1, "R", false, 0, "")
	}
	writeRateRow(p.CurrentRate)
	pdf.Ln(4)

	// ── History table ─────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW, 6, fmt.Sprintf("History (%d entries, newest first)", len(p.RateHistory)), "B", 1, "L", false, 0, "")

	col := contentW / 5
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col, 6, "Date", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col*1.5, 6, "Party", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col*0.8, 6, "Rate", "B", 0, "R", false, 0, "")
	pdf.CellFormat(col*0.7, 6, "GST", "B", 0, "R", false, 0, "")
	pdf.CellFormat(col, 6, "Final", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	if len(p.RateHistory) == 0 {
		pdf.CellFormat(contentW, 6, "No superseded rates.", "", 1, "L", false, 0, "")
	}
	for _, r := range p.RateHistory {
		writeRateRow(r)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render report: %w", err)
	}
	return buf.Bytes(), nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
