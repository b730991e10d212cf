// Package report turns the task list into a printable daily report.
package report

import (
	"clementus360/doit/types"
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"
)

const (
	StatusDone    = "Done"
	StatusPending = "Pending"
)

// Renderer writes a report document for rows to w.
type Renderer interface {
	Render(w io.Writer, title string, rows []types.ReportRow) error
}

// Rows converts tasks in list order into report rows numbered from 1.
func Rows(tasks []types.Task) []types.ReportRow {
	rows := make([]types.ReportRow, len(tasks))
	for i, t := range tasks {
		status := StatusPending
		if t.Completed {
			status = StatusDone
		}
		rows[i] = types.ReportRow{
			Index:    i + 1,
			Text:     t.Text,
			Category: t.Category,
			Status:   status,
		}
	}
	return rows
}

// PDFRenderer lays the rows out as an A4 table.
type PDFRenderer struct {
	Now func() time.Time
}

func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{Now: time.Now}
}

const (
	taskColumn = 1
	lineHeight = 7.0
)

var columns = []struct {
	header string
	width  float64
	align  string
}{
	{"#", 12, "C"},
	{"Task", 108, "L"},
	{"Category", 35, "L"},
	{"Status", 25, "C"},
}

func (p *PDFRenderer) Render(w io.Writer, title string, rows []types.ReportRow) error {
	now := time.Now()
	if p.Now != nil {
		now = p.Now()
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetCreationDate(now)
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, tr(title), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(100, 100, 100)
	pdf.CellFormat(0, 6, "Generated "+now.Format("2006-01-02 15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(4)
	pdf.SetTextColor(0, 0, 0)
	tableHeader(pdf)

	_, pageHeight := pdf.GetPageSize()
	_, bottom := pdf.GetAutoPageBreak()
	left, _, _, _ := pdf.GetMargins()

	done := 0
	for _, row := range rows {
		if row.Status == StatusDone {
			done++
		}
		lines := wrapText(pdf, tr(row.Text), columns[taskColumn].width)
		h := lineHeight * float64(len(lines))
		if pdf.GetY()+h > pageHeight-bottom {
			pdf.AddPage()
			tableHeader(pdf)
		}

		cells := []string{fmt.Sprint(row.Index), "", tr(row.Category), row.Status}
		x, y := left, pdf.GetY()
		for i, c := range columns {
			pdf.SetXY(x, y)
			if i == taskColumn {
				pdf.Rect(x, y, c.width, h, "D")
				for j, line := range lines {
					pdf.SetXY(x, y+float64(j)*lineHeight)
					pdf.CellFormat(c.width, lineHeight, line, "", 0, c.align, false, 0, "")
				}
			} else {
				pdf.CellFormat(c.width, h, cells[i], "1", 0, c.align, false, 0, "")
			}
			x += c.width
		}
		pdf.SetXY(left, y+h)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("%d of %d tasks done", done, len(rows)), "", 1, "L", false, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}

func tableHeader(pdf *fpdf.Fpdf) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(230, 232, 240)
	for _, c := range columns {
		pdf.CellFormat(c.width, 8, c.header, "1", 0, c.align, true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 10)
}

// wrapText splits already translated text into lines that fit width with
// the current font. It always returns at least one line.
func wrapText(pdf *fpdf.Fpdf, text string, width float64) []string {
	split := pdf.SplitLines([]byte(text), width)
	if len(split) == 0 {
		return []string{""}
	}
	lines := make([]string, len(split))
	for i, l := range split {
		lines[i] = string(l)
	}
	return lines
}
