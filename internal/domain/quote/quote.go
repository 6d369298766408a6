package quote

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"cotizador/go_backend/internal/domain/catalog"
	"cotizador/go_backend/internal/domain/validate"
)

var ErrEmptyQuote = errors.New("quote has no line items")

type Meta struct {
	Number   string
	Date     string
	Discount float64
}

type Client struct {
	Name     string
	Contact  string
	Address  string
	Location string
}

type ClientField string

const (
	ClientName     ClientField = "name"
	ClientContact  ClientField = "contact"
	ClientAddress  ClientField = "address"
	ClientLocation ClientField = "location"
)

var ClientFields = []ClientField{ClientName, ClientContact, ClientAddress, ClientLocation}

type LineItem struct {
	catalog.Product
	Quantity int
}

func (it LineItem) Total() float64 { return it.Price * float64(it.Quantity) }

// Quote is the state of one quote being composed. It is not safe for
// concurrent use.
type Quote struct {
	Meta   Meta
	Client Client
	Items  []LineItem

	now func() time.Time
}

type Option func(*Quote)

// WithClock replaces time.Now as the source of "today" for date checks.
func WithClock(now func() time.Time) Option {
	return func(q *Quote) { q.now = now }
}

func New(opts ...Option) *Quote {
	q := &Quote{now: time.Now}
	for _, o := range opts {
		o(q)
	}
	return q
}

func (q *Quote) SetNumber(raw string) validate.Result[string] {
	r := validate.Required(raw, "Número de presupuesto requerido.")
	q.Meta.Number = r.Value
	return r
}

// SetDate only stores dates inside the allowed window; an invalid value
// leaves the previous date in place.
func (q *Quote) SetDate(raw string) validate.Result[string] {
	r := validate.Date(raw, q.now())
	if r.Valid {
		q.Meta.Date = r.Value
	}
	return r
}

func (q *Quote) SetDiscount(raw string) validate.Result[float64] {
	r := validate.Discount(raw)
	q.Meta.Discount = r.Value
	return r
}

func (q *Quote) SetClientField(field ClientField, value string) validate.Result[string] {
	r := validate.Required(value, "Campo requerido.")
	switch field {
	case ClientName:
		q.Client.Name = r.Value
	case ClientContact:
		q.Client.Contact = r.Value
	case ClientAddress:
		q.Client.Address = r.Value
	case ClientLocation:
		q.Client.Location = r.Value
	default:
		panic(fmt.Sprintf("quote: unknown client field %q", field))
	}
	return r
}

// AddOrMergeLineItem bumps the quantity of an existing row for p.SKU and
// refreshes its name and price from p, or appends a new row with quantity 1.
func (q *Quote) AddOrMergeLineItem(p catalog.Product) {
	q.mustAcceptItems()
	for i := range q.Items {
		if q.Items[i].SKU == p.SKU {
			q.Items[i].Product = p
			q.Items[i].Quantity = validate.QuantityValue(q.Items[i].Quantity + 1).Value
			return
		}
	}
	q.Items = append(q.Items, LineItem{Product: p, Quantity: 1})
}

// SetQuantity stores the clamped quantity even when raw is invalid.
func (q *Quote) SetQuantity(i int, raw string) validate.Result[int] {
	q.mustAcceptItems()
	q.mustIndex(i)
	r := validate.Quantity(raw)
	q.Items[i].Quantity = r.Value
	return r
}

// RemoveLineItem shifts later rows down by one.
func (q *Quote) RemoveLineItem(i int) {
	q.mustAcceptItems()
	q.mustIndex(i)
	q.Items = append(q.Items[:i], q.Items[i+1:]...)
}

// ApplyCatalogChange pushes a catalog edit into the open quote right away.
// A nil p means the product was deleted and its row is dropped. Unlike the
// other line item operations it does not require a complete quote: rows
// must follow the catalog even while the date or client data is invalid.
func (q *Quote) ApplyCatalogChange(originalSKU string, p *catalog.Product) {
	for i := 0; i < len(q.Items); i++ {
		if q.Items[i].SKU != originalSKU {
			continue
		}
		if p == nil {
			q.Items = append(q.Items[:i], q.Items[i+1:]...)
			return
		}
		q.Items[i].Product = *p
		q.dedupe(i)
		return
	}
}

// dedupe folds row i into an earlier row carrying the same SKU, which only
// happens when a catalog rename lands on a SKU already in the quote.
func (q *Quote) dedupe(i int) {
	for j := range q.Items {
		if j != i && q.Items[j].SKU == q.Items[i].SKU {
			q.Items[j].Product = q.Items[i].Product
			q.Items[j].Quantity = validate.QuantityValue(q.Items[j].Quantity + q.Items[i].Quantity).Value
			q.Items = append(q.Items[:i], q.Items[i+1:]...)
			return
		}
	}
}

func (q *Quote) IsReadyForLineItems() bool { return len(q.Missing()) == 0 }

func (q *Quote) IsReadyForDocument() bool { return len(q.Items) > 0 }

// Missing lists the fields that keep the quote from accepting line items.
func (q *Quote) Missing() []string {
	var out []string
	if strings.TrimSpace(q.Meta.Number) == "" {
		out = append(out, "number")
	}
	if !validate.IsValidDate(q.Meta.Date, q.now()) {
		out = append(out, "date")
	}
	for _, f := range ClientFields {
		if strings.TrimSpace(q.clientValue(f)) == "" {
			out = append(out, "client."+string(f))
		}
	}
	return out
}

func (q *Quote) clientValue(f ClientField) string {
	switch f {
	case ClientName:
		return q.Client.Name
	case ClientContact:
		return q.Client.Contact
	case ClientAddress:
		return q.Client.Address
	default:
		return q.Client.Location
	}
}

func (q *Quote) mustAcceptItems() {
	if !q.IsReadyForLineItems() {
		panic(fmt.Sprintf("quote: line items changed before quote is complete (missing %v)", q.Missing()))
	}
}

func (q *Quote) mustIndex(i int) {
	if i < 0 || i >= len(q.Items) {
		panic(fmt.Sprintf("quote: line item index %d out of range [0,%d)", i, len(q.Items)))
	}
}
