// Package report renders a Summary into the PDF document sent back to the
// user. The textual layout is shared between the PDF and TextContent so the
// document stays machine-parseable by summary.Parse.
package report

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-pdf/fpdf"

	"expensebot/internal/summary"
)

const (
	pageWidth  = 210.0
	pageHeight = 297.0
)

// Renderer turns summaries into PDF bytes.
type Renderer struct {
	// FontDir holds NotoSans-Regular.ttf, NotoSans-Bold.ttf and Gargi.ttf.
	// When empty the built-in Helvetica is used; cell text is already
	// sanitized so nothing outside its coverage reaches the page.
	FontDir string
	// TemplateImage, when set, is composited behind every page.
	TemplateImage string
}

// TextContent returns the document's textual content: the title, the intro,
// and the category and description tables, one row per line. summary.Parse
// recovers the dates and category totals from exactly this layout.
func TextContent(s *summary.Summary) string {
	var b strings.Builder
	b.WriteString(s.Title() + "\n")
	b.WriteString(s.Intro() + "\n")
	b.WriteString("Top-Level Breakdown\n")
	b.WriteString("Category | Total Amount\n")
	for _, c := range s.SortedCategories() {
		fmt.Fprintf(&b, "%s  %d\n", summary.Clean(c), s.CategoryTotals[c])
	}
	b.WriteString("Detailed Breakdown by Category\n")
	for _, c := range s.SortedCategories() {
		b.WriteString(summary.Clean(c) + "\n")
		for _, d := range s.SortedDescriptions(c) {
			fmt.Fprintf(&b, "%s  %d\n", summary.Clean(d), s.DescriptionTotals[c][d])
		}
	}
	return b.String()
}

// Render lays the summary out as a PDF and composites it onto the template
// image, one page at a time.
func (r *Renderer) Render(s *summary.Summary) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")

	family := s.FontFamily()
	if r.FontDir != "" {
		pdf.AddUTF8Font("NotoSans", "", filepath.Join(r.FontDir, "NotoSans-Regular.ttf"))
		pdf.AddUTF8Font("NotoSans", "B", filepath.Join(r.FontDir, "NotoSans-Bold.ttf"))
		pdf.AddUTF8Font("Gargi", "", filepath.Join(r.FontDir, "Gargi.ttf"))
		pdf.AddUTF8Font("Gargi", "B", filepath.Join(r.FontDir, "Gargi.ttf"))
	} else {
		family = "Helvetica"
	}

	if r.TemplateImage != "" {
		// Header runs on every page, which keeps the template behind page
		// breaks triggered by long tables.
		pdf.SetHeaderFunc(func() {
			pdf.ImageOptions(r.TemplateImage, 0, 0, pageWidth, pageHeight, false,
				fpdf.ImageOptions{}, 0, "")
			pdf.SetY(10)
		})
	}
	pdf.AddPage()

	pdf.SetFont(family, "B", 16)
	pdf.CellFormat(0, 10, s.Title(), "", 1, "C", false, 0, "")
	pdf.Ln(10)

	pdf.SetFont(family, "", 12)
	pdf.MultiCell(0, 10, s.Intro(), "1", "J", false)

	pdf.SetFont(family, "B", 14)
	pdf.CellFormat(0, 10, "Top-Level Breakdown", "", 1, "C", false, 0, "")
	pdf.Ln(5)

	r.categoryTable(pdf, s, family)

	pdf.Ln(10)
	pdf.SetFont(family, "B", 14)
	pdf.CellFormat(0, 10, "Detailed Breakdown by Category", "", 1, "C", false, 0, "")
	pdf.Ln(5)

	r.descriptionTables(pdf, s, family)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render summary pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) categoryTable(pdf *fpdf.Fpdf, s *summary.Summary, family string) {
	pdf.SetFont(family, "B", 12)
	pdf.SetFillColor(200, 220, 255)
	pdf.CellFormat(95, 10, "Category", "1", 0, "C", true, 0, "")
	pdf.CellFormat(95, 10, "Total Amount", "1", 1, "C", true, 0, "")

	pdf.SetFont(family, "", 12)
	fill := false
	for _, c := range s.SortedCategories() {
		if fill {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		pdf.CellFormat(95, 10, summary.Clean(c), "1", 0, "C", true, 0, "")
		pdf.CellFormat(95, 10, strconv.Itoa(s.CategoryTotals[c]), "1", 1, "C", true, 0, "")
		fill = !fill
	}
}

func (r *Renderer) descriptionTables(pdf *fpdf.Fpdf, s *summary.Summary, family string) {
	for _, c := range s.SortedCategories() {
		pdf.SetFillColor(220, 240, 255)
		pdf.SetFont(family, "B", 12)
		pdf.CellFormat(190, 10, summary.Clean(c), "1", 1, "C", true, 0, "")

		pdf.SetFont(family, "", 12)
		fill := false
		for _, d := range s.SortedDescriptions(c) {
			if fill {
				pdf.SetFillColor(245, 245, 245)
			} else {
				pdf.SetFillColor(255, 255, 255)
			}
			pdf.CellFormat(95, 10, summary.Clean(d), "1", 0, "C", true, 0, "")
			pdf.CellFormat(95, 10, strconv.Itoa(s.DescriptionTotals[c][d]), "1", 1, "C", true, 0, "")
			fill = !fill
		}
		pdf.Ln(5)
	}
}
