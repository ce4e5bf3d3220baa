package export

import (
	"io"
	"strings"

	"github.com/go-pdf/fpdf"

	"songsmith/backend/models"
)

// A4 portrait layout in millimetres.
const (
	marginX      = 20.0
	topY         = 20.0
	blockBreakY  = 270.0
	lineBreakY   = 280.0
	contentWidth = 170.0
)

type pdfWriter struct {
	doc *fpdf.Fpdf
	tr  func(string) string
	y   float64
}

func (p *pdfWriter) text(s string) {
	p.doc.Text(marginX, p.y, p.tr(s))
}

func (p *pdfWriter) newPage() {
	p.doc.AddPage()
	p.y = topY
}

// WritePDF lays the song out on A4 pages, starting a new page before a block
// once y passes 270mm and before a lyric line once it passes 280mm.
func WritePDF(w io.Writer, song *models.Song) error {
	return render(song).Output(w)
}

func render(song *models.Song) *fpdf.Fpdf {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetTitle(song.Title, true)
	if song.Artist != "" {
		doc.SetAuthor(song.Artist, true)
	}
	doc.SetAutoPageBreak(false, 0)

	p := &pdfWriter{doc: doc, tr: doc.UnicodeTranslatorFromDescriptor("")}
	p.newPage()

	doc.SetFont("Helvetica", "", 20)
	p.text(song.Title)
	p.y += 10

	if song.Artist != "" {
		doc.SetFontSize(12)
		p.text("by " + song.Artist)
		p.y += 10
	}

	doc.SetFontSize(10)
	p.text("Genre: " + song.Genre)
	p.y += 15

	if cp := song.ChordProgression; cp != nil {
		p.text("Global Chords: " + chordLine(cp))
		p.y += 5
		p.text("Key: " + string(cp.Key) + " " + string(cp.Mode))
		p.y += 15
	}

	for _, b := range song.Blocks {
		if p.y > blockBreakY {
			p.newPage()
		}

		doc.SetFont("Helvetica", "B", 12)
		p.text("[" + blockLabel(b) + "]")
		p.y += 7

		if b.ChordProgression != nil {
			doc.SetFont("Helvetica", "I", 9)
			p.text(chordLine(b.ChordProgression))
			p.y += 5
		}

		doc.SetFont("Helvetica", "", 10)
		for _, line := range wrap(doc, p.tr(b.Content)) {
			if p.y > lineBreakY {
				p.newPage()
			}
			doc.Text(marginX, p.y, line)
			p.y += 5
		}
		p.y += 10
	}
	return doc
}

// wrap splits already-translated text into lines no wider than contentWidth.
// Hard line breaks are kept, blank lines included.
func wrap(doc *fpdf.Fpdf, s string) []string {
	var out []string
	for _, para := range strings.Split(s, "\n") {
		if strings.TrimSpace(para) == "" {
			out = append(out, "")
			continue
		}
		for _, line := range doc.SplitLines([]byte(para), contentWidth) {
			out = append(out, string(line))
		}
	}
	return out
}
