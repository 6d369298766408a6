package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cotizador/go_backend/internal/app/config"
	"cotizador/go_backend/internal/app/http/handlers"
	"cotizador/go_backend/internal/domain/catalog"
	"cotizador/go_backend/internal/domain/quote"
	"cotizador/go_backend/internal/domain/quote/pdf"
	pdfgen "cotizador/go_backend/internal/domain/quote/pdf/gofpdf"
	"cotizador/go_backend/internal/platform/logger"
)

const token = "secret"

type failingGenerator struct{ err error }

func (g failingGenerator) Generate(quote.Document) ([]byte, error) { return nil, g.err }

func newTestServer(t *testing.T, gen pdf.Generator, rowsPerPage int) *httptest.Server {
	t.Helper()
	store, err := catalog.Open(context.Background(), catalog.NewMemory(), []catalog.Product{
		{SKU: "CAB-1", Name: "Cable", Price: 1000},
		{SKU: "CAJ-1", Name: "Caja", Price: 500},
	})
	if err != nil {
		t.Fatal(err)
	}
	h := handlers.New(store, gen, rowsPerPage, logger.Nop())
	h.Now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	srv := httptest.NewServer(NewRouter(config.Config{InternalToken: token}, logger.Nop(), h))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path, body string, auth bool) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if auth {
		req.Header.Set("X-Internal-Token", token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

const validQuote = `{
	"number": "P-0001",
	"date": "2024-03-10",
	"client": {"name": "Juan Pérez", "contact": "11 5555", "address": "Calle 1", "location": "Rosario"},
	"items": [{"sku": "cab-1", "quantity": 2}, {"sku": "CAJ-1"}],
	"discount": 10
}`

func TestHealth(t *testing.T) {
	srv := newTestServer(t, pdfgen.New("", pdfgen.DefaultLayout(), nil), 20)
	resp := do(t, srv, http.MethodGet, "/health", "", false)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
}

func TestCreateQuotePDF(t *testing.T) {
	srv := newTestServer(t, pdfgen.New("", pdfgen.DefaultLayout(), nil), 20)
	resp := do(t, srv, http.MethodPost, "/v1/quotes", validQuote, true)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("content type %q", ct)
	}
	if cd := resp.Header.Get("Content-Disposition"); cd != `attachment; filename="P-0001-JuanPrez-Presupuesto.pdf"` {
		t.Fatalf("content disposition %q", cd)
	}
	var buf bytes.Buffer
	buf.ReadFrom(resp.Body)
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatal("body is not a PDF")
	}
}

func TestPreviewQuote(t *testing.T) {
	srv := newTestServer(t, failingGenerator{}, 1)
	resp := do(t, srv, http.MethodPost, "/v1/quotes/preview", validQuote, true)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	var got struct {
		Subtotal       float64 `json:"subtotal"`
		DiscountAmount float64 `json:"discount_amount"`
		Total          float64 `json:"total"`
		Pages          []int   `json:"pages"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.Subtotal != 2500 || got.DiscountAmount != 250 || got.Total != 2250 {
		t.Fatalf("totals %+v", got)
	}
	if fmt.Sprint(got.Pages) != "[1 1]" {
		t.Fatalf("pages %v", got.Pages)
	}
}

func TestDuplicateItemsMerge(t *testing.T) {
	srv := newTestServer(t, failingGenerator{}, 20)
	body := strings.Replace(validQuote, `{"sku": "CAJ-1"}`, `{"sku": "CAB-1", "quantity": 3}`, 1)
	resp := do(t, srv, http.MethodPost, "/v1/quotes/preview", body, true)
	var got struct {
		Subtotal float64 `json:"subtotal"`
		Pages    []int   `json:"pages"`
	}
	json.NewDecoder(resp.Body).Decode(&got)
	if got.Subtotal != 5000 || fmt.Sprint(got.Pages) != "[1]" {
		t.Fatalf("expected a single merged row of 5, got %+v", got)
	}
}

func TestCreateQuoteValidation(t *testing.T) {
	srv := newTestServer(t, failingGenerator{}, 20)
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"past date", strings.Replace(validQuote, "2024-03-10", "2024-02-28", 1), "date"},
		{"missing client", strings.Replace(validQuote, `"location": "Rosario"`, `"location": ""`, 1), "client.location"},
		{"discount above 100", strings.Replace(validQuote, `"discount": 10`, `"discount": 150`, 1), "discount"},
		{"quantity zero", strings.Replace(validQuote, `"quantity": 2`, `"quantity": 0`, 1), "items[0].quantity"},
		{"unknown sku", strings.Replace(validQuote, "cab-1", "nope", 1), "items[0].sku"},
		{"no items", strings.Replace(validQuote, `[{"sku": "cab-1", "quantity": 2}, {"sku": "CAJ-1"}]`, `[]`, 1), "items"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, srv, http.MethodPost, "/v1/quotes", tt.body, true)
			if resp.StatusCode != http.StatusUnprocessableEntity {
				t.Fatalf("status %d", resp.StatusCode)
			}
			var got struct {
				Errors map[string]string `json:"errors"`
			}
			json.NewDecoder(resp.Body).Decode(&got)
			if got.Errors[tt.field] == "" {
				t.Fatalf("no error for %s in %v", tt.field, got.Errors)
			}
		})
	}
}

func TestRendererFailures(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: font missing", pdf.ErrUnavailable), http.StatusBadGateway},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		srv := newTestServer(t, failingGenerator{err: tt.err}, 20)
		if resp := do(t, srv, http.MethodPost, "/v1/quotes", validQuote, true); resp.StatusCode != tt.want {
			t.Fatalf("%v: status %d, want %d", tt.err, resp.StatusCode, tt.want)
		}
	}
}

func TestProductsCRUD(t *testing.T) {
	srv := newTestServer(t, failingGenerator{}, 20)

	if resp := do(t, srv, http.MethodPost, "/v1/products", `{"sku":"x","name":"y","price":1}`, false); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unauthenticated create: %d", resp.StatusCode)
	}

	steps := []struct {
		method, path, body string
		want               int
	}{
		{http.MethodPost, "/v1/products", `{"sku":" lla-1 ","name":"Llave","price":320}`, http.StatusCreated},
		{http.MethodPost, "/v1/products", `{"sku":"LLA-1","name":"Otra","price":1}`, http.StatusConflict},
		{http.MethodPost, "/v1/products", `{"sku":"NEG","name":"Neg","price":-1}`, http.StatusUnprocessableEntity},
		{http.MethodPost, "/v1/products", `{"sku":"NON","name":" ","price":1}`, http.StatusUnprocessableEntity},
		{http.MethodPut, "/v1/products/LLA-1", `{"sku":"lla-1","name":"Llave simple","price":350}`, http.StatusOK},
		{http.MethodPut, "/v1/products/LLA-1", `{"sku":"CAB-1","name":"x","price":1}`, http.StatusConflict},
		{http.MethodPut, "/v1/products/MISSING", `{"sku":"MISSING","name":"x","price":1}`, http.StatusNotFound},
		{http.MethodDelete, "/v1/products/CAJ-1", "", http.StatusNoContent},
	}
	for _, s := range steps {
		if resp := do(t, srv, s.method, s.path, s.body, true); resp.StatusCode != s.want {
			t.Fatalf("%s %s %s: status %d, want %d", s.method, s.path, s.body, resp.StatusCode, s.want)
		}
	}

	var list []catalog.Product
	json.NewDecoder(do(t, srv, http.MethodGet, "/v1/products", "", false).Body).Decode(&list)
	if len(list) != 2 || list[1].SKU != "LLA-1" || list[1].Price != 350 {
		t.Fatalf("unexpected catalog %+v", list)
	}

	var found []catalog.Product
	json.NewDecoder(do(t, srv, http.MethodGet, "/v1/products?q=llave", "", false).Body).Decode(&found)
	if len(found) != 1 {
		t.Fatalf("search returned %+v", found)
	}

	if resp := do(t, srv, http.MethodPost, "/v1/products/reset", "", true); resp.StatusCode != http.StatusOK {
		t.Fatalf("reset: %d", resp.StatusCode)
	}
	json.NewDecoder(do(t, srv, http.MethodGet, "/v1/products", "", false).Body).Decode(&list)
	if len(list) != 2 || list[1].SKU != "CAJ-1" {
		t.Fatalf("reset did not restore defaults: %+v", list)
	}
}
