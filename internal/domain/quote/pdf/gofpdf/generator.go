package gofpdf

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"cotizador/go_backend/internal/domain/quote"
	"cotizador/go_backend/internal/domain/quote/pdf"
	"cotizador/go_backend/internal/platform/logger"
)

const (
	regularFont = "DejaVuSans.ttf"
	boldFont    = "DejaVuSans-Bold.ttf"

	validityNote = "Este presupuesto posee validez de 7 días a partir de su emisión."
)

var _ pdf.Generator = (*Generator)(nil)

type Generator struct {
	fontDir string
	layout  Layout
	log     *logger.Logger
}

// New returns a generator using the DejaVu fonts in fontDir, or the core
// Helvetica font when fontDir is empty.
func New(fontDir string, layout Layout, log *logger.Logger) *Generator {
	if log == nil {
		log = logger.Nop()
	}
	return &Generator{fontDir: fontDir, layout: layout, log: log}
}

func (g *Generator) RowsPerPage() int { return g.layout.RowsPerPage() }

// Generate draws one PDF page per document page. Everything it allocates
// belongs to this call.
func (g *Generator) Generate(doc quote.Document) ([]byte, error) {
	if len(doc.Pages) == 0 {
		return nil, quote.ErrEmptyQuote
	}

	f := gofpdf.New("P", "mm", "A4", "")
	f.SetMargins(g.layout.Margin, g.layout.Margin, g.layout.Margin)
	f.SetAutoPageBreak(false, 0)
	f.AliasNbPages("")
	f.SetTitle("Presupuesto "+doc.Meta.Number, true)
	f.SetCreator("cotizador", true)

	r, err := g.newRender(f)
	if err != nil {
		return nil, err
	}
	for _, p := range doc.Pages {
		r.page(doc, p)
	}

	var buf bytes.Buffer
	if err := f.Output(&buf); err != nil {
		g.log.Error("quote pdf: output failed", "number", doc.Meta.Number, "error", err)
		return nil, err
	}
	g.log.Debug("quote pdf: generated", "number", doc.Meta.Number, "pages", len(doc.Pages), "bytes", buf.Len())
	return buf.Bytes(), nil
}

type render struct {
	f      *gofpdf.Fpdf
	l      Layout
	family string
	tr     func(string) string
	p      *message.Printer
}

func (g *Generator) newRender(f *gofpdf.Fpdf) (*render, error) {
	r := &render{
		f:      f,
		l:      g.layout,
		family: "Helvetica",
		tr:     f.UnicodeTranslatorFromDescriptor(""),
		p:      message.NewPrinter(language.MustParse("es-AR")),
	}
	if g.fontDir == "" {
		return r, nil
	}

	regular := filepath.Join(g.fontDir, regularFont)
	bold := filepath.Join(g.fontDir, boldFont)
	for _, path := range []string{regular, bold} {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("%w: font %s: %v", pdf.ErrUnavailable, path, err)
		}
	}
	g.log.Debug("quote pdf: load fonts", "regular", regular, "bold", bold)
	f.AddUTF8Font("DejaVu", "", regular)
	f.AddUTF8Font("DejaVu", "B", bold)
	if err := f.Error(); err != nil {
		return nil, fmt.Errorf("%w: %v", pdf.ErrUnavailable, err)
	}
	r.family = "DejaVu"
	r.tr = func(s string) string { return s }
	return r, nil
}

func (r *render) page(doc quote.Document, p quote.Page) {
	f := r.f
	f.AddPage()

	if p.First {
		r.header(doc)
	} else {
		f.SetXY(r.l.Margin, r.l.Margin)
		r.font("B", 11)
		f.CellFormat(0, 8, r.tr(fmt.Sprintf("Presupuesto N° %s (continuación)", doc.Meta.Number)), "", 1, "L", false, 0, "")
	}

	f.SetXY(r.l.Margin, r.l.Margin+r.l.HeaderHeight)
	r.table(p.Rows)

	if p.Totals != nil {
		r.totals(*p.Totals, doc.Meta.Discount)
	}
	r.footer()
}

func (r *render) header(doc quote.Document) {
	f := r.f
	m := r.l.Margin
	f.SetXY(m, m)
	r.font("B", 16)
	f.CellFormat(0, 10, r.tr("PRESUPUESTO DE VENTA"), "", 1, "C", false, 0, "")

	const gap, boxH = 6.0, 42.0
	boxW := (r.l.PageWidth - 2*m - gap) / 2
	top := m + 14

	r.box(m, top, boxW, boxH, "DATOS DEL CLIENTE", [][2]string{
		{"Nombre", doc.Client.Name},
		{"Contacto", doc.Client.Contact},
		{"Dirección", doc.Client.Address},
		{"Localidad", doc.Client.Location},
	})
	r.box(m+boxW+gap, top, boxW, boxH, "DATOS DEL PRESUPUESTO", [][2]string{
		{"N° de Presupuesto", doc.Meta.Number},
		{"Fecha", displayDate(doc.Meta.Date)},
	})
}

func (r *render) box(x, y, w, h float64, title string, lines [][2]string) {
	f := r.f
	f.SetDrawColor(204, 204, 204)
	f.Rect(x, y, w, h, "D")
	f.SetXY(x+4, y+4)
	r.font("B", 10)
	f.CellFormat(w-8, 6, r.tr(title), "", 2, "L", false, 0, "")
	for _, kv := range lines {
		f.SetX(x + 4)
		r.font("B", 9)
		label := r.tr(kv[0] + ": ")
		lw := f.GetStringWidth(label)
		f.CellFormat(lw, 6, label, "", 0, "L", false, 0, "")
		r.font("", 9)
		f.CellFormat(w-8-lw, 6, r.tr(trim(kv[1], 40)), "", 2, "L", false, 0, "")
	}
}

var columns = []struct {
	title string
	width float64
	align string
}{
	{"SKU", 30, "L"},
	{"Producto", 70, "L"},
	{"Cantidad", 20, "C"},
	{"P. Unitario", 30, "R"},
	{"Total", 30, "R"},
}

func (r *render) table(rows []quote.LineItem) {
	f := r.f
	f.SetDrawColor(204, 204, 204)
	f.SetFillColor(245, 245, 245)
	r.font("B", 9)
	for _, c := range columns {
		f.CellFormat(c.width, r.l.TableHeader, r.tr(c.title), "1", 0, c.align, true, 0, "")
	}
	f.Ln(-1)

	r.font("", 9)
	for _, it := range rows {
		cells := []string{
			it.SKU,
			trim(it.Name, 42),
			strconv.Itoa(it.Quantity),
			r.money(it.Price),
			r.money(it.Total()),
		}
		for i, c := range columns {
			f.CellFormat(c.width, r.l.RowHeight, r.tr(cells[i]), "1", 0, c.align, false, 0, "")
		}
		f.Ln(-1)
	}
}

func (r *render) totals(t quote.Totals, discount float64) {
	f := r.f
	const w = 80.0
	x := r.l.PageWidth - r.l.Margin - w
	y := f.GetY() + 4
	f.SetDrawColor(204, 204, 204)
	f.Rect(x, y, w, r.l.TotalsHeight-6, "D")

	line := func(label, value string) {
		f.SetX(x + 4)
		f.CellFormat(w/2-4, 6, r.tr(label), "", 0, "L", false, 0, "")
		f.CellFormat(w/2-4, 6, r.tr(value), "", 1, "R", false, 0, "")
	}
	f.SetY(y + 2)
	r.font("", 10)
	line("Subtotal:", r.money(t.Subtotal))
	line(fmt.Sprintf("Descuento (%s%%):", strconv.FormatFloat(discount, 'f', -1, 64)), "-"+r.money(t.DiscountAmount))
	f.Line(x+4, f.GetY()+1, x+w-4, f.GetY()+1)
	f.Ln(2)
	r.font("B", 12)
	line("TOTAL FINAL:", r.money(t.Total))
}

func (r *render) footer() {
	f := r.f
	f.SetXY(r.l.Margin, r.l.PageHeight-r.l.Margin-r.l.FooterHeight+2)
	f.SetTextColor(102, 102, 102)
	r.font("", 8)
	f.CellFormat(0, 5, r.tr(validityNote), "", 1, "C", false, 0, "")
	f.CellFormat(0, 5, r.tr(fmt.Sprintf("Página %d/{nb}", f.PageNo())), "", 0, "C", false, 0, "")
	f.SetTextColor(0, 0, 0)
}

func (r *render) font(style string, size float64) {
	r.f.SetFont(r.family, style, size)
}

func (r *render) money(v float64) string {
	return "$" + r.p.Sprintf("%v", number.Decimal(v, number.MaxFractionDigits(2)))
}

func displayDate(s string) string {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return s
	}
	return t.Format("02/01/2006")
}

func trim(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
