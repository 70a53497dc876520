package export

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/go-pdf/fpdf"
)

const (
	pdfMargin   = 10.0
	pdfFontSize = 8.0
	pdfLineH    = 3.5
	pdfPadY     = 1.5
	pdfLineW    = 0.1
	pdfHeadFill = 200
	pdfFont     = "regdash"
)

//go:embed fonts/DejaVuSansCondensed.ttf
var defaultFont []byte

// PDF writes an A4 landscape table. Long cell text wraps inside its column,
// rows taller than the free space continue on the next page, and the header
// row is redrawn at the top of every page.
type PDF struct {
	compress bool
	font     []byte
}

type PDFOption func(p *PDF)

// WithFont replaces the embedded DejaVu Sans with another TrueType font, for
// scripts DejaVu has no glyphs for.
func WithFont(ttf []byte) PDFOption {
	return func(p *PDF) {
		p.font = ttf
	}
}

func NewPDF(opts ...PDFOption) *PDF {
	p := &PDF{compress: true}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// WithPDFFontFile registers a PDF encoder using the TrueType font at path.
// An empty path keeps the default encoder.
func WithPDFFontFile(path string) (Option, error) {
	if path == "" {
		return func(*Exporter) {}, nil
	}
	ttf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pdf font: %w", err)
	}
	return WithEncoder(NewPDF(WithFont(ttf))), nil
}

func (*PDF) Format() Format      { return FormatPDF }
func (*PDF) Label() string       { return "PDF" }
func (*PDF) FileName() string    { return "registrations.pdf" }
func (*PDF) ContentType() string { return "application/pdf" }

func (p *PDF) Encode(w io.Writer, t Table) error {
	doc, err := p.render(t)
	if err != nil {
		return err
	}
	if err := doc.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func (p *PDF) render(t Table) (*fpdf.Fpdf, error) {
	doc := fpdf.New("L", "mm", "A4", "")
	doc.SetCompression(p.compress)
	doc.SetTitle(SheetName, true)
	doc.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	doc.SetAutoPageBreak(false, pdfMargin)
	font := p.font
	if font == nil {
		font = defaultFont
	}
	doc.AddUTF8FontFromBytes(pdfFont, "", font)
	doc.SetFont(pdfFont, "", pdfFontSize)
	doc.SetTextColor(0, 0, 0)
	doc.SetDrawColor(0, 0, 0)
	doc.SetLineWidth(pdfLineW)
	if err := doc.Error(); err != nil {
		return nil, fmt.Errorf("load pdf font: %w", err)
	}

	_, pageH := doc.GetPageSize()
	limit := pageH - pdfMargin

	header := p.layout(doc, t.Columns, t.Header)
	newPage := func() float64 {
		doc.AddPage()
		p.drawRow(doc, t.Columns, header, pdfHeadFill)
		return doc.GetY()
	}
	bodyTop := newPage()
	perPage := linesFit(limit - bodyTop)
	if perPage < 1 {
		return nil, errors.New("render pdf: header leaves no room for rows")
	}

	for _, row := range t.Rows {
		lines := p.layout(doc, t.Columns, row)
		for {
			need, fit := lineCount(lines), linesFit(limit-doc.GetY())
			if need <= fit {
				p.drawRow(doc, t.Columns, lines, 255)
				break
			}
			fresh := doc.GetY() == bodyTop
			if fit < 1 || (need <= perPage && !fresh) {
				newPage()
				continue
			}
			var head [][]string
			head, lines = splitRow(lines, fit)
			p.drawRow(doc, t.Columns, head, 255)
			newPage()
		}
	}
	if err := doc.Error(); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return doc, nil
}

// layout wraps each cell to its column width.
func (p *PDF) layout(doc *fpdf.Fpdf, cols []Column, cells []string) [][]string {
	out := make([][]string, len(cells))
	for i, c := range cells {
		lines := doc.SplitText(pdfSafe(c), cols[i].Width)
		if len(lines) == 0 {
			lines = []string{""}
		}
		out[i] = lines
	}
	return out
}

// pdfSafe replaces what the font tables cannot index: invalid UTF-8 and runes
// outside the Basic Multilingual Plane.
func pdfSafe(s string) string {
	s = strings.ToValidUTF8(s, string(utf8.RuneError))
	return strings.Map(func(r rune) rune {
		if r > 0xFFFF {
			return utf8.RuneError
		}
		return r
	}, s)
}

func lineCount(cells [][]string) int {
	n := 1
	for _, lines := range cells {
		n = max(n, len(lines))
	}
	return n
}

func linesFit(h float64) int {
	return int(math.Floor((h-2*pdfPadY)/pdfLineH + 1e-9))
}

func rowHeight(cells [][]string) float64 {
	return float64(lineCount(cells))*pdfLineH + 2*pdfPadY
}

// splitRow cuts every cell after n lines.
func splitRow(cells [][]string, n int) (head, rest [][]string) {
	head = make([][]string, len(cells))
	rest = make([][]string, len(cells))
	for i, lines := range cells {
		k := min(n, len(lines))
		head[i], rest[i] = lines[:k], lines[k:]
	}
	return head, rest
}

func (p *PDF) drawRow(doc *fpdf.Fpdf, cols []Column, cells [][]string, fill int) {
	h := rowHeight(cells)
	left, _, _, _ := doc.GetMargins()
	x, y := left, doc.GetY()
	doc.SetFillColor(fill, fill, fill)
	for i, lines := range cells {
		width := cols[i].Width
		doc.Rect(x, y, width, h, "FD")
		for j, line := range lines {
			doc.SetXY(x, y+pdfPadY+float64(j)*pdfLineH)
			doc.CellFormat(width, pdfLineH, line, "", 0, "L", false, 0, "")
		}
		x += width
	}
	doc.SetXY(left, y+h)
}
