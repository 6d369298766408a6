package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"cotizador/go_backend/internal/domain/quote"
	"cotizador/go_backend/internal/domain/quote/pdf"
	"cotizador/go_backend/internal/domain/validate"
)

type CreateQuoteRequest struct {
	Number string `json:"number"`
	Date   string `json:"date"`
	Client struct {
		Name     string `json:"name"`
		Contact  string `json:"contact"`
		Address  string `json:"address"`
		Location string `json:"location"`
	} `json:"client"`
	Items []struct {
		SKU      string      `json:"sku"`
		Quantity json.Number `json:"quantity"`
	} `json:"items"`
	Discount json.Number `json:"discount"`
}

type previewResponse struct {
	FileName       string  `json:"file_name"`
	Subtotal       float64 `json:"subtotal"`
	DiscountAmount float64 `json:"discount_amount"`
	Total          float64 `json:"total"`
	Pages          []int   `json:"pages"`
}

// CreateQuote renders the quote in the request body as a PDF attachment.
func (h *Handlers) CreateQuote(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.decodeDocument(w, r)
	if !ok {
		return
	}

	pdfBytes, err := h.PDF.Generate(doc)
	if err != nil {
		h.Log.Error("quote pdf: generation failed", "number", doc.Meta.Number, "error", err)
		if errors.Is(err, pdf.ErrUnavailable) {
			writeError(w, http.StatusBadGateway, "pdf renderer unavailable")
			return
		}
		writeError(w, http.StatusInternalServerError, "pdf generation failed")
		return
	}

	name := quote.FileName(doc.Meta.Number, doc.Client.Name)
	h.Log.Info("quote pdf: served", "file", name, "items", len(doc.Items), "pages", len(doc.Pages))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	w.WriteHeader(http.StatusOK)
	w.Write(pdfBytes)
}

// PreviewQuote returns the totals and page split without rendering.
func (h *Handlers) PreviewQuote(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.decodeDocument(w, r)
	if !ok {
		return
	}
	resp := previewResponse{
		FileName:       quote.FileName(doc.Meta.Number, doc.Client.Name),
		Subtotal:       doc.Totals.Subtotal,
		DiscountAmount: doc.Totals.DiscountAmount,
		Total:          doc.Totals.Total,
		Pages:          make([]int, len(doc.Pages)),
	}
	for i, p := range doc.Pages {
		resp.Pages[i] = len(p.Rows)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) decodeDocument(w http.ResponseWriter, r *http.Request) (quote.Document, bool) {
	var req CreateQuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad request")
		return quote.Document{}, false
	}

	q, violations := h.buildQuote(req)
	if len(violations) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Errors: violations})
		return quote.Document{}, false
	}

	doc, err := q.Document(h.RowsPerPage)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return quote.Document{}, false
	}
	return doc, true
}

// buildQuote replays the request through the quote operations and collects
// every validation message by field.
func (h *Handlers) buildQuote(req CreateQuoteRequest) (*quote.Quote, map[string]string) {
	q := quote.New(quote.WithClock(h.Now))
	violations := map[string]string{}
	note := func(field string, valid bool, msg string) {
		if !valid {
			violations[field] = msg
		}
	}

	r := q.SetNumber(req.Number)
	note("number", r.Valid, r.Err)
	r = q.SetDate(req.Date)
	note("date", r.Valid, r.Err)
	for field, v := range map[quote.ClientField]string{
		quote.ClientName:     req.Client.Name,
		quote.ClientContact:  req.Client.Contact,
		quote.ClientAddress:  req.Client.Address,
		quote.ClientLocation: req.Client.Location,
	} {
		r := q.SetClientField(field, v)
		note("client."+string(field), r.Valid, r.Err)
	}
	if req.Discount != "" {
		d := q.SetDiscount(req.Discount.String())
		note("discount", d.Valid, d.Err)
	}

	if !q.IsReadyForLineItems() {
		return q, violations
	}
	if len(req.Items) == 0 {
		violations["items"] = "Agregá al menos un producto."
		return q, violations
	}

	for i, it := range req.Items {
		field := "items[" + strconv.Itoa(i) + "]"
		p, ok := h.Catalog.Get(it.SKU)
		if !ok {
			violations[field+".sku"] = "Producto inexistente: " + validate.NormalizeSKU(it.SKU)
			continue
		}
		before := quantityOf(q, p.SKU)
		q.AddOrMergeLineItem(p)
		if it.Quantity == "" {
			continue
		}
		want := validate.Quantity(it.Quantity.String())
		if !want.Valid {
			violations[field+".quantity"] = want.Err
			continue
		}
		got := q.SetQuantity(indexOf(q, p.SKU), strconv.Itoa(before+want.Value))
		note(field+".quantity", got.Valid, got.Err)
	}
	return q, violations
}

func indexOf(q *quote.Quote, sku string) int {
	for i, it := range q.Items {
		if it.SKU == sku {
			return i
		}
	}
	return -1
}

func quantityOf(q *quote.Quote, sku string) int {
	if i := indexOf(q, sku); i >= 0 {
		return q.Items[i].Quantity
	}
	return 0
}
