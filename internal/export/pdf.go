package export

import (
	"bytes"
	"strconv"

	"github.com/go-pdf/fpdf"

	"github.com/csheth/lingonotes/internal/settings"
)

// Layout units are millimetres on an A4 page.
const (
	pageMarginX    = 20.0
	titleY         = 20.0
	timestampY     = 28.0
	firstLineY     = 40.0
	lineStep       = 10.0
	pageBreakAfter = 270.0
	continuationY  = 20.0
)

// Placement positions one entry line.
type Placement struct {
	Page int
	Y    float64
	Text string
}

// Paginate lays lines out top to bottom. Before each line, a cursor past
// pageBreakAfter moves to a new page at continuationY.
func Paginate(lines []string) []Placement {
	out := make([]Placement, 0, len(lines))
	page, y := 1, firstLineY
	for _, line := range lines {
		if y > pageBreakAfter {
			page++
			y = continuationY
		}
		out = append(out, Placement{Page: page, Y: y, Text: line})
		y += lineStep
	}
	return out
}

func pdfLines(doc Document) []string {
	lines := make([]string, 0, len(doc.Entries))
	for i, e := range doc.Entries {
		lines = append(lines, strconv.Itoa(i+1)+". "+entryLine(e))
	}
	return lines
}

func renderPDF(doc Document) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(doc.ExportedAt)
	pdf.SetTitle(doc.Title(), true)
	pdf.SetAutoPageBreak(false, 0)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	family, style := pdfFont(doc.Editor)

	pdf.AddPage()
	pdf.SetFont(family, "B", 20)
	pdf.Text(pageMarginX, titleY, tr(doc.Title()))
	pdf.SetFont(family, "", 10)
	pdf.Text(pageMarginX, timestampY, tr("Exported on: "+doc.Timestamp()))

	pdf.SetFont(family, style, 12)
	page := 1
	for _, p := range Paginate(pdfLines(doc)) {
		for page < p.Page {
			pdf.AddPage()
			pdf.SetFont(family, style, 12)
			page++
		}
		pdf.Text(pageMarginX, p.Y, tr(p.Text))
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// pdfFont maps the editor font to a PDF core font and style string.
func pdfFont(e settings.Editor) (family, style string) {
	switch e.FontFamily {
	case settings.FontSerif:
		family = "Times"
	case settings.FontMono:
		family = "Courier"
	default:
		family = "Helvetica"
	}
	if e.Bold {
		style += "B"
	}
	if e.Italic {
		style += "I"
	}
	return family, style
}
