package quote

type Totals struct {
	Subtotal       float64
	DiscountAmount float64
	Total          float64
}

// ComputeTotals is recomputed from scratch on every call. No rounding is
// applied here.
func (q *Quote) ComputeTotals() Totals {
	return computeTotals(q.Items, q.Meta.Discount)
}

func computeTotals(items []LineItem, discount float64) Totals {
	var t Totals
	for _, it := range items {
		t.Subtotal += it.Total()
	}
	t.DiscountAmount = t.Subtotal * (discount / 100)
	t.Total = max(t.Subtotal-t.DiscountAmount, 0)
	return t
}
