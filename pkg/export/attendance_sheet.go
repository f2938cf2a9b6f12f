package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// SheetRow is one roster line on an attendance sheet.
type SheetRow struct {
	FullName string
	Rank     string
	Outcome  string
	Notes    string
}

// Sheet carries the printable attendance roll for a single event.
type Sheet struct {
	Title    string
	Date     string
	Time     string
	Location string
	Rows     []SheetRow
}

var sheetHeaders = []string{"Firefighter", "Rank", "Attendance", "Notes"}

// RenderCSV produces the attendance sheet as CSV bytes.
func RenderCSV(sheet Sheet) ([]byte, error) {
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	if err := writer.Write(sheetHeaders); err != nil {
		return nil, fmt.Errorf("write sheet headers: %w", err)
	}
	for _, row := range sheet.Rows {
		if err := writer.Write([]string{row.FullName, row.Rank, row.Outcome, row.Notes}); err != nil {
			return nil, fmt.Errorf("write sheet row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush sheet: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderPDF produces the attendance sheet as a tabular PDF document.
func RenderPDF(sheet Sheet) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, strings.ToUpper(sheet.Title), "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	meta := fmt.Sprintf("%s %s - %s", sheet.Date, sheet.Time, sheet.Location)
	pdf.CellFormat(0, 8, meta, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	widths := []float64{70, 35, 30, 55}
	pdf.SetFont("Arial", "B", 10)
	for i, header := range sheetHeaders {
		pdf.CellFormat(widths[i], 8, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, row := range sheet.Rows {
		cells := []string{row.FullName, row.Rank, row.Outcome, row.Notes}
		for i, cell := range cells {
			pdf.CellFormat(widths[i], 7, cell, "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render attendance sheet pdf: %w", err)
	}
	return buf.Bytes(), nil
}
