package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/iksnae/mychatbot/internal"
)

// Page geometry in millimetres
const (
	pdfMargin         = 20.0
	pdfTitleY         = 30.0
	pdfExportedY      = 40.0
	pdfFirstEntryY    = 60.0
	pdfContinuationY  = 30.0
	pdfLineHeight     = 6.0
	pdfMessageSpacing = 12.0
	// a header starting below pageHeight-pdfHeaderReserve goes to a new page
	pdfHeaderReserve = 40.0
	// a body line starting below pageHeight-pdfBodyReserve goes to a new page
	pdfBodyReserve = 20.0
)

type pdfStyle int

const (
	styleTitle pdfStyle = iota
	styleExported
	styleHeader
	styleBody
)

func (s pdfStyle) font() (style string, size float64) {
	switch s {
	case styleTitle:
		return "B", 16
	case styleHeader:
		return "B", 9
	default:
		return "", 10
	}
}

// pdfLine is one positioned line of text. Pages are numbered from 1.
type pdfLine struct {
	Page  int
	Y     float64
	Style pdfStyle
	Text  string
}

type pdfLayout struct {
	Pages int
	Lines []pdfLine
}

type pdfEntry struct {
	Header string
	Body   string
}

// planPDF positions every line before anything is drawn. measure returns the
// rendered width of body text; bodyWidth is the printable width.
func planPDF(title, exported string, entries []pdfEntry, pageHeight, bodyWidth float64, measure func(string) float64) pdfLayout {
	layout := pdfLayout{Pages: 1}
	add := func(y float64, style pdfStyle, text string) {
		layout.Lines = append(layout.Lines, pdfLine{Page: layout.Pages, Y: y, Style: style, Text: text})
	}

	add(pdfTitleY, styleTitle, title)
	add(pdfExportedY, styleExported, exported)

	y := pdfFirstEntryY
	for _, entry := range entries {
		if y > pageHeight-pdfHeaderReserve {
			layout.Pages++
			y = pdfContinuationY
		}
		add(y, styleHeader, entry.Header)
		y += pdfLineHeight

		for _, line := range wrapText(entry.Body, bodyWidth, measure) {
			if y > pageHeight-pdfBodyReserve {
				layout.Pages++
				y = pdfContinuationY
			}
			add(y, styleBody, line)
			y += pdfLineHeight
		}
		y += pdfMessageSpacing
	}
	return layout
}

// wrapText breaks text into lines no wider than width. Explicit newlines are
// kept; a word wider than a whole line is split. Text is expected in the
// single-byte encoding of the core fonts.
func wrapText(text string, width float64, measure func(string) float64) []string {
	var lines []string
	for _, para := range strings.Split(strings.ReplaceAll(text, "\r", ""), "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}

		current := ""
		for _, word := range words {
			candidate := word
			if current != "" {
				candidate = current + " " + word
			}
			if measure(candidate) <= width {
				current = candidate
				continue
			}
			if current != "" {
				lines = append(lines, current)
				current = ""
			}
			for measure(word) > width {
				cut := fitPrefix(word, width, measure)
				lines = append(lines, word[:cut])
				word = word[cut:]
			}
			current = word
		}
		lines = append(lines, current)
	}
	return lines
}

// fitPrefix returns the longest prefix length of word that fits width, at
// least one byte
func fitPrefix(word string, width float64, measure func(string) float64) int {
	n := 1
	for n < len(word) && measure(word[:n+1]) <= width {
		n++
	}
	return n
}

// PDFExporter renders sessions as an A4 document
type PDFExporter struct {
	opts Options
}

// Export lays out the whole document, then draws it page by page
func (e *PDFExporter) Export(session *internal.Session, w io.Writer) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(e.opts.Now)
	pdf.SetTitle("Chat Export: "+session.Name, true)
	pdf.SetCreator("mychatbot", false)
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, 0)

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pageWidth, pageHeight := pdf.GetPageSize()
	bodyWidth := pageWidth - 2*pdfMargin

	entries := make([]pdfEntry, len(session.Messages))
	for i, msg := range session.Messages {
		entries[i] = pdfEntry{
			Header: tr(fmt.Sprintf("[%s] %s:", localTimestamp(msg.Timestamp, e.opts.Location), msg.Sender.Label())),
			Body:   tr(msg.Text),
		}
	}

	bodyStyle, bodySize := styleBody.font()
	pdf.SetFont("Helvetica", bodyStyle, bodySize)
	layout := planPDF(
		tr("Chat Export: "+session.Name),
		tr("Exported: "+localTimestamp(e.opts.Now, e.opts.Location)),
		entries, pageHeight, bodyWidth, pdf.GetStringWidth,
	)

	page := 0
	for _, line := range layout.Lines {
		for page < line.Page {
			pdf.AddPage()
			page++
		}
		style, size := line.Style.font()
		pdf.SetFont("Helvetica", style, size)
		pdf.Text(pdfMargin, line.Y, line.Text)
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("failed to render pdf: %w", err)
	}
	return pdf.Output(w)
}

// Extension returns the file extension for this format
func (e *PDFExporter) Extension() string {
	return "pdf"
}

// MIMEType returns the media type for this format
func (e *PDFExporter) MIMEType() string {
	return "application/pdf"
}
