package export

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
)

const (
	wordNS = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

	// A4 landscape in twentieths of a point.
	pageWidthTwips  = 16838
	pageHeightTwips = 11906
	marginTwips     = 720

	headerShade = "D3D3D3"
)

const contentTypesXML = xml.Header + `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
	`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
	`<Default Extension="xml" ContentType="application/xml"/>` +
	`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
	`</Types>`

const relsXML = xml.Header + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
	`</Relationships>`

// Document writes a WordprocessingML package holding one landscape section
// with a single full-width table.
type Document struct{}

func NewDocument() *Document { return &Document{} }

func (*Document) Format() Format   { return FormatDocument }
func (*Document) Label() string    { return "Word" }
func (*Document) FileName() string { return "registrations.docx" }
func (*Document) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
}

func (d *Document) Encode(w io.Writer, t Table) error {
	body, err := xml.Marshal(buildDocument(t))
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	zw := zip.NewWriter(w)
	parts := []struct {
		name string
		data []byte
	}{
		{"[Content_Types].xml", []byte(contentTypesXML)},
		{"_rels/.rels", []byte(relsXML)},
		{"word/document.xml", append([]byte(xml.Header), body...)},
	}
	for _, p := range parts {
		fw, err := zw.Create(p.name)
		if err != nil {
			return fmt.Errorf("create %s: %w", p.name, err)
		}
		if _, err := fw.Write(p.data); err != nil {
			return fmt.Errorf("write %s: %w", p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("close package: %w", err)
	}
	return nil
}

func buildDocument(t Table) wDocument {
	usable := pageWidthTwips - 2*marginTwips
	var total float64
	for _, c := range t.Columns {
		total += c.Width
	}

	grid := make([]wGridCol, len(t.Columns))
	for i, c := range t.Columns {
		grid[i] = wGridCol{W: int(float64(usable) * c.Width / total)}
	}

	border := wBorder{Val: "single", Sz: 4, Space: 0, Color: "000000"}
	tbl := wTable{
		Props: wTablePr{
			Width: wWidth{W: "5000", Type: "pct"},
			Borders: wBorders{
				Top: border, Left: border, Bottom: border, Right: border,
				InsideH: border, InsideV: border,
			},
		},
		Grid: wGrid{Cols: grid},
		Rows: make([]wRow, 0, len(t.Rows)+1),
	}
	tbl.Rows = append(tbl.Rows, buildRow(t.Header, grid, true))
	for _, r := range t.Rows {
		tbl.Rows = append(tbl.Rows, buildRow(r, grid, false))
	}

	return wDocument{
		NS: wordNS,
		Body: wBody{
			Table: tbl,
			Section: wSection{
				Size: wPageSize{W: pageWidthTwips, H: pageHeightTwips, Orient: "landscape"},
				Margins: wPageMargins{
					Top: marginTwips, Right: marginTwips, Bottom: marginTwips, Left: marginTwips,
				},
			},
		},
	}
}

func buildRow(cells []string, grid []wGridCol, header bool) wRow {
	row := wRow{Cells: make([]wCell, len(cells))}
	if header {
		row.Props = &wRowPr{Header: &struct{}{}}
	}
	for i, v := range cells {
		c := wCell{
			Props: wCellPr{Width: wWidth{W: fmt.Sprint(grid[i].W), Type: "dxa"}},
			Para:  wPara{Run: wRun{Text: wText{Space: "preserve", Value: v}}},
		}
		if header {
			c.Props.Shading = &wShading{Val: "clear", Color: "auto", Fill: headerShade}
			c.Para.Run.Props = &wRunPr{Bold: &struct{}{}}
		}
		row.Cells[i] = c
	}
	return row
}

type wDocument struct {
	XMLName xml.Name `xml:"w:document"`
	NS      string   `xml:"xmlns:w,attr"`
	Body    wBody    `xml:"w:body"`
}

type wBody struct {
	Table   wTable   `xml:"w:tbl"`
	Section wSection `xml:"w:sectPr"`
}

type wTable struct {
	Props wTablePr `xml:"w:tblPr"`
	Grid  wGrid    `xml:"w:tblGrid"`
	Rows  []wRow   `xml:"w:tr"`
}

type wTablePr struct {
	Width   wWidth   `xml:"w:tblW"`
	Borders wBorders `xml:"w:tblBorders"`
}

type wWidth struct {
	W    string `xml:"w:w,attr"`
	Type string `xml:"w:type,attr"`
}

type wBorders struct {
	Top     wBorder `xml:"w:top"`
	Left    wBorder `xml:"w:left"`
	Bottom  wBorder `xml:"w:bottom"`
	Right   wBorder `xml:"w:right"`
	InsideH wBorder `xml:"w:insideH"`
	InsideV wBorder `xml:"w:insideV"`
}

type wBorder struct {
	Val   string `xml:"w:val,attr"`
	Sz    int    `xml:"w:sz,attr"`
	Space int    `xml:"w:space,attr"`
	Color string `xml:"w:color,attr"`
}

type wGrid struct {
	Cols []wGridCol `xml:"w:gridCol"`
}

type wGridCol struct {
	W int `xml:"w:w,attr"`
}

type wRow struct {
	Props *wRowPr `xml:"w:trPr,omitempty"`
	Cells []wCell `xml:"w:tc"`
}

type wRowPr struct {
	Header *struct{} `xml:"w:tblHeader,omitempty"`
}

type wCell struct {
	Props wCellPr `xml:"w:tcPr"`
	Para  wPara   `xml:"w:p"`
}

type wCellPr struct {
	Width   wWidth    `xml:"w:tcW"`
	Shading *wShading `xml:"w:shd,omitempty"`
}

type wShading struct {
	Val   string `xml:"w:val,attr"`
	Color string `xml:"w:color,attr"`
	Fill  string `xml:"w:fill,attr"`
}

type wPara struct {
	Run wRun `xml:"w:r"`
}

type wRun struct {
	Props *wRunPr `xml:"w:rPr,omitempty"`
	Text  wText   `xml:"w:t"`
}

type wRunPr struct {
	Bold *struct{} `xml:"w:b,omitempty"`
}

type wText struct {
	Space string `xml:"xml:space,attr"`
	Value string `xml:",chardata"`
}

type wSection struct {
	Size    wPageSize    `xml:"w:pgSz"`
	Margins wPageMargins `xml:"w:pgMar"`
}

type wPageSize struct {
	W      int    `xml:"w:w,attr"`
	H      int    `xml:"w:h,attr"`
	Orient string `xml:"w:orient,attr"`
}

type wPageMargins struct {
	Top    int `xml:"w:top,attr"`
	Right  int `xml:"w:right,attr"`
	Bottom int `xml:"w:bottom,attr"`
	Left   int `xml:"w:left,attr"`
}
