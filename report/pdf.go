package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-pdf/fpdf"

	"mealroute/models"
	"mealroute/services"
)

const (
	pdfMargin   = 14.0
	pdfLineH    = 5.0
	pdfCellPad  = 1.5
	pdfFontSize = 9.0
)

// Column widths in mm; they sum to the A4 body width.
var (
	pdfHeaders = []string{"Client", "Phone", "Address", "Deliver", "Add-ons", "Collect"}
	pdfWidths  = []float64{36, 28, 66, 16, 20, 16}
)

// WritePDF writes one page per driver group that has items. Long tables
// continue on a new page with the header row repeated.
func WritePDF(w io.Writer, tasks models.DailyTasks, opts Options) error {
	pdf := buildPDF(tasks, opts)
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return pdf.Output(w)
}

func buildPDF(tasks models.DailyTasks, opts Options) *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, pdfMargin)
	pdf.SetTitle(Filename(tasks.Date, FormatPDF), true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pages := 0
	tasks.Each(func(g *models.DriverTaskGroup) {
		if len(g.Items) == 0 {
			return
		}
		pages++
		pdf.AddPage()
		pdfGroupHeader(pdf, tr, tasks.Date, g, opts)
		pdfTableHeader(pdf)
		for _, it := range g.Items {
			cells := []string{
				tr(it.ClientName),
				tr(it.ClientPhone),
				tr(it.Address),
				strconv.Itoa(it.ToDeliver),
				services.AddonLabel(it),
				strconv.Itoa(it.ToPickup),
			}
			pdfRow(pdf, cells)
		}
	})
	if pages == 0 {
		pdf.AddPage()
		pdf.SetFont("Helvetica", "B", 14)
		pdf.CellFormat(0, 10, "Delivery List - "+tasks.Date.String(), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 8, "No deliveries for this date.", "", 1, "L", false, 0, "")
	}
	return pdf
}

func pdfGroupHeader(pdf *fpdf.Fpdf, tr func(string) string, day models.Date, g *models.DriverTaskGroup, opts Options) {
	if opts.BusinessName != "" {
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(0, 6, tr(opts.BusinessName), "", 1, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	}
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 9, "Delivery List - "+day.String(), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 7, tr("Driver: "+g.BoyName), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Summary: Deliver %d | Collect %d", g.Summary.Tiffins, g.Summary.EmptyBoxes), "", 1, "L", false, 0, "")
	pdf.Ln(3)
}

func pdfTableHeader(pdf *fpdf.Fpdf) {
	pdf.SetFont("Helvetica", "B", pdfFontSize)
	pdf.SetFillColor(255, 107, 0)
	pdf.SetTextColor(255, 255, 255)
	for i, h := range pdfHeaders {
		pdf.CellFormat(pdfWidths[i], pdfLineH+2*pdfCellPad, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "", pdfFontSize)
}

// pdfRow draws one grid row, wrapping each cell and breaking the page first
// when the row would not fit.
func pdfRow(pdf *fpdf.Fpdf, cells []string) {
	lines := make([][]string, len(cells))
	maxLines := 1
	for i, c := range cells {
		l := pdf.SplitText(c, pdfWidths[i]-2*pdfCellPad)
		if len(l) == 0 {
			l = []string{""}
		}
		lines[i] = l
		if len(l) > maxLines {
			maxLines = len(l)
		}
	}
	h := float64(maxLines)*pdfLineH + 2*pdfCellPad

	_, pageH := pdf.GetPageSize()
	if pdf.GetY()+h > pageH-pdfMargin {
		pdf.AddPage()
		pdfTableHeader(pdf)
	}

	x0, y := pdf.GetX(), pdf.GetY()
	x := x0
	for i, l := range lines {
		pdf.Rect(x, y, pdfWidths[i], h, "D")
		align := "L"
		if i >= 3 {
			align = "C"
		}
		for j, line := range l {
			pdf.SetXY(x+pdfCellPad, y+pdfCellPad+float64(j)*pdfLineH)
			pdf.CellFormat(pdfWidths[i]-2*pdfCellPad, pdfLineH, line, "", 0, align, false, 0, "")
		}
		x += pdfWidths[i]
	}
	pdf.SetXY(x0, y+h)
}
