package quote

import "fmt"

// Page is one rendered page worth of line items. Totals is only set on the
// last page.
type Page struct {
	Index  int
	Rows   []LineItem
	First  bool
	Last   bool
	Totals *Totals
}

// Paginate splits items in order into pages of at most rowsPerPage rows.
// No items means no pages.
func Paginate(items []LineItem, rowsPerPage int, totals Totals) []Page {
	if rowsPerPage < 1 {
		panic(fmt.Sprintf("quote: rows per page must be positive, got %d", rowsPerPage))
	}
	n := len(items)
	if n == 0 {
		return []Page{}
	}
	// rowsPerPage may be as large as math.MaxInt; nothing here adds to it.
	count := n / rowsPerPage
	if n%rowsPerPage != 0 {
		count++
	}
	pages := make([]Page, count)
	start := 0
	for k := range pages {
		end := start + min(rowsPerPage, n-start)
		rows := make([]LineItem, end-start)
		copy(rows, items[start:end])
		pages[k] = Page{Index: k, Rows: rows, First: k == 0, Last: k == count-1}
		start = end
	}
	t := totals
	pages[count-1].Totals = &t
	return pages
}

// Document is the frozen view of a quote handed to a renderer.
type Document struct {
	Meta   Meta
	Client Client
	Items  []LineItem
	Pages  []Page
	Totals Totals
}

func (q *Quote) Document(rowsPerPage int) (Document, error) {
	if !q.IsReadyForDocument() {
		return Document{}, ErrEmptyQuote
	}
	items := make([]LineItem, len(q.Items))
	copy(items, q.Items)
	totals := q.ComputeTotals()
	return Document{
		Meta:   q.Meta,
		Client: q.Client,
		Items:  items,
		Pages:  Paginate(items, rowsPerPage, totals),
		Totals: totals,
	}, nil
}
