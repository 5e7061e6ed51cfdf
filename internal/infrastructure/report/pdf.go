// Package report renders profile reports as PDF documents.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-pdf/fpdf"

	"github.com/salmannsharif/User-Profile-Manager/internal/core/domain"
)

const (
	rowHeight    = 8.0
	borderInset  = 5.0
	ellipsis     = "..."
	cellPadding  = 2.0
	titleSize    = 18
	subtitleSize = 12
	bodySize     = 10
)

type column struct {
	title  string
	weight float64
	value  func(domain.ReportRow) string
}

var columns = []column{
	{"S.No", 1, func(r domain.ReportRow) string { return strconv.Itoa(r.Serial) }},
	{"Name", 3, func(r domain.ReportRow) string { return r.Name }},
	{"Email", 3, func(r domain.ReportRow) string { return r.Email }},
	{"Address", 3, func(r domain.ReportRow) string { return r.Address }},
	{"Role", 2, func(r domain.ReportRow) string { return r.Role }},
}

// PDFRenderer draws a bordered A4 page with a title, the total count and
// one table row per profile.
type PDFRenderer struct {
	compress bool
}

type Option func(*PDFRenderer)

// WithCompression toggles stream compression. Tests turn it off to read
// the text back.
func WithCompression(on bool) Option {
	return func(r *PDFRenderer) { r.compress = on }
}

func NewPDFRenderer(opts ...Option) *PDFRenderer {
	r := &PDFRenderer{compress: true}
	for _, o := range opts {
		o(r)
	}
	return r
}

func (r *PDFRenderer) ContentType() string { return "application/pdf" }

func (r *PDFRenderer) Render(w io.Writer, rep domain.ProfileReport) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(r.compress)
	pdf.SetTitle(rep.Title, true)
	pdf.SetCreator("profiled", true)

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	widths := columnWidths(pdf)

	pdf.SetHeaderFunc(func() {
		pageW, pageH := pdf.GetPageSize()
		pdf.SetDrawColor(0, 0, 0)
		pdf.SetLineWidth(0.5)
		pdf.Rect(borderInset, borderInset, pageW-2*borderInset, pageH-2*borderInset, "D")
		pdf.SetLineWidth(0.2)
		if pdf.PageNo() > 1 {
			drawHeaderRow(pdf, widths)
		}
	})

	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", titleSize)
	pdf.CellFormat(0, 12, tr(rep.Title), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", subtitleSize)
	pdf.CellFormat(0, 8, fmt.Sprintf("Total Users: %d", rep.Total), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	drawHeaderRow(pdf, widths)

	pdf.SetFont("Helvetica", "", bodySize)
	for _, row := range rep.Rows {
		for i, col := range columns {
			text := fit(pdf, tr, col.value(row), widths[i]-cellPadding)
			pdf.CellFormat(widths[i], rowHeight, text, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

func columnWidths(pdf *fpdf.Fpdf) []float64 {
	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	usable := pageW - left - right

	var total float64
	for _, c := range columns {
		total += c.weight
	}
	widths := make([]float64, len(columns))
	for i, c := range columns {
		widths[i] = usable * c.weight / total
	}
	return widths
}

func drawHeaderRow(pdf *fpdf.Fpdf, widths []float64) {
	pdf.SetFont("Helvetica", "B", bodySize)
	pdf.SetFillColor(230, 230, 230)
	for i, c := range columns {
		pdf.CellFormat(widths[i], rowHeight, c.title, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", bodySize)
}

// fit shortens s with a trailing ellipsis until its translated form fits
// in width. s is UTF-8; the result is already translated for the core fonts.
func fit(pdf *fpdf.Fpdf, tr func(string) string, s string, width float64) string {
	if out := tr(s); pdf.GetStringWidth(out) <= width {
		return out
	}
	runes := []rune(s)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := tr(string(runes) + ellipsis)
		if pdf.GetStringWidth(candidate) <= width {
			return candidate
		}
	}
	return ellipsis
}
