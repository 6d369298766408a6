package catalog

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"cotizador/go_backend/internal/domain/validate"
)

type Product struct {
	SKU   string  `json:"sku" yaml:"sku"`
	Name  string  `json:"name" yaml:"name"`
	Price float64 `json:"price" yaml:"price"`
}

var (
	ErrDuplicateSKU   = errors.New("duplicate sku")
	ErrNotFound       = errors.New("product not found")
	ErrInvalidProduct = errors.New("invalid product")

	// ErrNoSnapshot is returned by Persistence.Load when nothing was saved yet.
	ErrNoSnapshot = errors.New("no catalog snapshot")
)

// Persistence stores the whole catalog as one ordered list of records.
type Persistence interface {
	Load(ctx context.Context) ([]Product, error)
	Save(ctx context.Context, products []Product) error
}

//go:embed defaults.yaml
var defaultsYAML []byte

func Defaults() ([]Product, error) {
	var out []Product
	if err := yaml.Unmarshal(defaultsYAML, &out); err != nil {
		return nil, fmt.Errorf("parse default catalog: %w", err)
	}
	return out, nil
}

type Store struct {
	mu       sync.RWMutex
	products []Product
	persist  Persistence
	defaults []Product
}

// Open loads the catalog from p, seeding it with defaults when p has never
// been written.
func Open(ctx context.Context, p Persistence, defaults []Product) (*Store, error) {
	s := &Store{persist: p, defaults: clone(defaults)}
	products, err := p.Load(ctx)
	switch {
	case errors.Is(err, ErrNoSnapshot):
		products = clone(defaults)
	case err != nil:
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	s.products = products
	return s, nil
}

func (s *Store) List() []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.products)
}

func (s *Store) Get(sku string) (Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.index(validate.NormalizeSKU(sku))
	if i < 0 {
		return Product{}, false
	}
	return s.products[i], true
}

// Search matches term against SKU and name, ignoring case. A blank term
// matches nothing.
func (s *Store) Search(term string) []Product {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Product
	for _, p := range s.products {
		if strings.Contains(strings.ToLower(p.SKU), term) || strings.Contains(strings.ToLower(p.Name), term) {
			out = append(out, p)
		}
	}
	return out
}

func (s *Store) SKUs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.skus()
}

// Upsert creates in when originalSKU is empty and otherwise replaces the
// product currently stored under originalSKU, keeping its position.
func (s *Store) Upsert(ctx context.Context, originalSKU string, in Product) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	originalSKU = validate.NormalizeSKU(originalSKU)
	pos := -1
	if originalSKU != "" {
		if pos = s.index(originalSKU); pos < 0 {
			return Product{}, fmt.Errorf("%w: %s", ErrNotFound, originalSKU)
		}
	}

	p, err := s.check(in, originalSKU)
	if err != nil {
		return Product{}, err
	}

	next := clone(s.products)
	if pos < 0 {
		next = append(next, p)
	} else {
		next[pos] = p
	}
	if err := s.commit(ctx, next); err != nil {
		return Product{}, err
	}
	return p, nil
}

func (s *Store) Delete(ctx context.Context, sku string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sku = validate.NormalizeSKU(sku)
	next := make([]Product, 0, len(s.products))
	for _, p := range s.products {
		if p.SKU != sku {
			next = append(next, p)
		}
	}
	return s.commit(ctx, next)
}

func (s *Store) ResetToDefaults(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commit(ctx, clone(s.defaults))
}

func (s *Store) check(in Product, originalSKU string) (Product, error) {
	sku := validate.SKU(in.SKU, s.skus(), originalSKU)
	if !sku.Valid {
		if sku.Value == "" {
			return Product{}, fmt.Errorf("%w: %s", ErrInvalidProduct, sku.Err)
		}
		return Product{}, fmt.Errorf("%w: %s", ErrDuplicateSKU, sku.Value)
	}
	price := validate.PriceValue(in.Price)
	if !price.Valid {
		return Product{}, fmt.Errorf("%w: %s", ErrInvalidProduct, price.Err)
	}
	name := validate.Required(in.Name, "Nombre del producto es requerido.")
	if !name.Valid {
		return Product{}, fmt.Errorf("%w: %s", ErrInvalidProduct, name.Err)
	}
	return Product{SKU: sku.Value, Name: name.Value, Price: price.Value}, nil
}

// commit saves next and only then makes it visible.
func (s *Store) commit(ctx context.Context, next []Product) error {
	if err := s.persist.Save(ctx, next); err != nil {
		return fmt.Errorf("save catalog: %w", err)
	}
	s.products = next
	return nil
}

func (s *Store) index(sku string) int {
	for i, p := range s.products {
		if p.SKU == sku {
			return i
		}
	}
	return -1
}

func (s *Store) skus() []string {
	out := make([]string, len(s.products))
	for i, p := range s.products {
		out[i] = p.SKU
	}
	return out
}

func clone(in []Product) []Product {
	if in == nil {
		return []Product{}
	}
	out := make([]Product, len(in))
	copy(out, in)
	return out
}
