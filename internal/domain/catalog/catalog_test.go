package catalog

import (
	"context"
	"errors"
	"testing"
)

var seed = []Product{
	{SKU: "ABC-1", Name: "Cable", Price: 100},
	{SKU: "XYZ", Name: "Llave térmica", Price: 2500},
}

func openStore(t *testing.T) (*Store, *Memory) {
	t.Helper()
	mem := NewMemory()
	s, err := Open(context.Background(), mem, seed)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	return s, mem
}

func TestOpenSeedsDefaults(t *testing.T) {
	s, _ := openStore(t)
	if got := s.List(); len(got) != 2 || got[0].SKU != "ABC-1" {
		t.Fatalf("unexpected catalog %+v", got)
	}
}

func TestOpenKeepsSavedEmptyCatalog(t *testing.T) {
	mem := NewMemory()
	if err := mem.Save(context.Background(), nil); err != nil {
		t.Fatal(err)
	}
	s, err := Open(context.Background(), mem, seed)
	if err != nil {
		t.Fatal(err)
	}
	if len(s.List()) != 0 {
		t.Fatal("an explicitly saved empty catalog must not be reseeded")
	}
}

func TestCreateRejectsDuplicateIgnoringCase(t *testing.T) {
	s, _ := openStore(t)
	_, err := s.Upsert(context.Background(), "", Product{SKU: "abc-1", Name: "Otro", Price: 1})
	if !errors.Is(err, ErrDuplicateSKU) {
		t.Fatalf("expected ErrDuplicateSKU, got %v", err)
	}
}

func TestCreateNormalizesAndAppends(t *testing.T) {
	s, mem := openStore(t)
	p, err := s.Upsert(context.Background(), "", Product{SKU: " new-1 ", Name: "  Caja  ", Price: 50})
	if err != nil {
		t.Fatal(err)
	}
	if p.SKU != "NEW-1" || p.Name != "Caja" {
		t.Fatalf("not normalized: %+v", p)
	}
	list := s.List()
	if list[len(list)-1].SKU != "NEW-1" {
		t.Fatal("new product should be appended")
	}
	saved, _ := mem.Load(context.Background())
	if len(saved) != 3 {
		t.Fatalf("expected write-through, persisted %d", len(saved))
	}
}

func TestUpdateOwnSKUSucceeds(t *testing.T) {
	s, _ := openStore(t)
	p, err := s.Upsert(context.Background(), "ABC-1", Product{SKU: "abc-1", Name: "Cable 2", Price: 120})
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := s.Get("abc-1"); got != p || got.Price != 120 {
		t.Fatalf("update not visible: %+v", got)
	}
	if s.List()[0].SKU != "ABC-1" {
		t.Fatal("update must keep position")
	}
}

func TestUpdateErrors(t *testing.T) {
	s, _ := openStore(t)
	ctx := context.Background()
	tests := []struct {
		name     string
		original string
		in       Product
		want     error
	}{
		{"rename onto other", "ABC-1", Product{SKU: "xyz", Name: "n", Price: 1}, ErrDuplicateSKU},
		{"unknown original", "NOPE", Product{SKU: "NOPE", Name: "n", Price: 1}, ErrNotFound},
		{"negative price", "ABC-1", Product{SKU: "ABC-1", Name: "n", Price: -1}, ErrInvalidProduct},
		{"blank name", "ABC-1", Product{SKU: "ABC-1", Name: " ", Price: 1}, ErrInvalidProduct},
		{"blank sku", "", Product{SKU: " ", Name: "n", Price: 1}, ErrInvalidProduct},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.Upsert(ctx, tt.original, tt.in); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestDeleteAndReset(t *testing.T) {
	s, _ := openStore(t)
	ctx := context.Background()
	if err := s.Delete(ctx, "xyz"); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.Get("XYZ"); ok {
		t.Fatal("product still present after delete")
	}
	if err := s.ResetToDefaults(ctx); err != nil {
		t.Fatal(err)
	}
	if len(s.List()) != len(seed) {
		t.Fatal("reset did not restore defaults")
	}
}

// brokenDisk loads like Memory but refuses every save once broken is set.
type brokenDisk struct {
	*Memory
	broken error
}

func (b *brokenDisk) Save(ctx context.Context, products []Product) error {
	if b.broken != nil {
		return b.broken
	}
	return b.Memory.Save(ctx, products)
}

func TestFailedSaveLeavesStateUntouched(t *testing.T) {
	disk := &brokenDisk{Memory: NewMemory()}
	s, err := Open(context.Background(), disk, seed)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	disk.broken = errors.New("disk full")
	if _, err := s.Upsert(context.Background(), "", Product{SKU: "N", Name: "n", Price: 1}); err == nil {
		t.Fatal("expected error")
	}
	if err := s.Delete(context.Background(), "ABC-1"); err == nil {
		t.Fatal("expected error")
	}
	if len(s.List()) != 2 {
		t.Fatal("in-memory catalog changed despite failed save")
	}
}

func TestSearch(t *testing.T) {
	s, _ := openStore(t)
	if got := s.Search("TÉRMICA"); len(got) != 1 || got[0].SKU != "XYZ" {
		t.Fatalf("name search: %+v", got)
	}
	if got := s.Search("abc"); len(got) != 1 {
		t.Fatalf("sku search: %+v", got)
	}
	if got := s.Search("  "); len(got) != 0 {
		t.Fatal("blank term must match nothing")
	}
}

func TestDefaultsParse(t *testing.T) {
	d, err := Defaults()
	if err != nil {
		t.Fatal(err)
	}
	if len(d) == 0 {
		t.Fatal("empty default catalog")
	}
	seen := map[string]bool{}
	for _, p := range d {
		if p.SKU == "" || p.Name == "" || p.Price < 0 || seen[p.SKU] {
			t.Fatalf("bad default product %+v", p)
		}
		seen[p.SKU] = true
	}
}
