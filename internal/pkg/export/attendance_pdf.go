package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-admin-go/internal/domain/attendance"
	"github.com/go-pdf/fpdf"
)

var weekdayHeaders = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

const (
	gridColumnWidth = 26.0
	gridRowHeight   = 14.0
)

// MonthPDF renders the displayed attendance month as a one-page A4 document.
func MonthPDF(state attendance.ViewState, generatedAt time.Time) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Attendance %s", state.MonthLabel), false)
	pdf.AddPage()

	name := state.EmployeeName
	if name == "" {
		name = "Employee"
	}

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Attendance Report")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Employee: %s", name))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("Month: %s", state.MonthLabel))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 8, "Summary")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	summary := []struct {
		label string
		value int
	}{
		{"Present", state.Stats.Present},
		{"Absent", state.Stats.Absent},
		{"Late", state.Stats.Late},
		{"WFH", state.Stats.WFH},
		{"Total", state.Stats.Total},
	}
	for _, s := range summary {
		pdf.CellFormat(36, 7, s.label, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(7)
	for _, s := range summary {
		pdf.CellFormat(36, 7, fmt.Sprintf("%d", s.value), "1", 0, "C", false, 0, "")
	}
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for _, h := range weekdayHeaders {
		pdf.CellFormat(gridColumnWidth, 8, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 9)
	for i, cell := range state.Cells {
		pdf.CellFormat(gridColumnWidth, gridRowHeight, cellText(cell), "1", 0, "C", false, 0, "")
		if (i+1)%7 == 0 {
			pdf.Ln(gridRowHeight)
		}
	}
	if rem := len(state.Cells) % 7; rem != 0 {
		for i := rem; i < 7; i++ {
			pdf.CellFormat(gridColumnWidth, gridRowHeight, "", "1", 0, "C", false, 0, "")
		}
		pdf.Ln(gridRowHeight)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.Cell(0, 6, fmt.Sprintf("Generated %s", generatedAt.Format("02 January 2006 15:04")))

	var buffer bytes.Buffer
	if err := pdf.Output(&buffer); err != nil {
		return nil, fmt.Errorf("render attendance pdf: %w", err)
	}
	return buffer.Bytes(), nil
}

func cellText(cell attendance.CellView) string {
	switch {
	case cell.Blank:
		return ""
	case cell.Status != "":
		return fmt.Sprintf("%d %s", cell.Day, cell.Status)
	case cell.NotMarked:
		return fmt.Sprintf("%d -", cell.Day)
	default:
		return fmt.Sprintf("%d", cell.Day)
	}
}

// MonthFilename is the download name of a month export.
func MonthFilename(state attendance.ViewState) string {
	return fmt.Sprintf("attendance-%s-%04d-%02d.pdf", state.EmployeeID, state.Year, state.Month)
}
