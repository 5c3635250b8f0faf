package interfaces

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	reports "storewatch/internal/reports/domain"
)

// BuildReportXLSX renders a minimal XLSX for a report.
func BuildReportXLSX(reportID string, rows []reports.Row) ([]byte, error) {
	f := excelize.NewFile()
	sheet := "uptime"
	f.SetSheetName("Sheet1", sheet)

	for col, name := range reports.Header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		_ = f.SetCellValue(sheet, cell, name)
	}
	for i, row := range rows {
		for col, value := range row.Record() {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}
			_ = f.SetCellValue(sheet, cell, value)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildReportPDF renders a minimal PDF for a report.
func BuildReportPDF(reportID string, rows []reports.Row) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Store Uptime Report")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 9)
	pdf.Cell(0, 6, fmt.Sprintf("Report: %s", reportID))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Stores: %d", len(rows)))
	pdf.Ln(8)

	widths := []float64{55, 24, 24, 20, 24, 24, 20, 24, 24, 20}
	pdf.SetFont("Arial", "B", 8)
	for i, name := range reports.Header {
		pdf.CellFormat(widths[i], 6, name, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 8)
	for _, row := range rows {
		for i, value := range row.Record() {
			pdf.CellFormat(widths[i], 6, value, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
