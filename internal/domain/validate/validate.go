// Package validate holds the field-level rules of a quote and of the product
// catalog. Validators never fail with an error: they always hand back a
// best-effort value next to the validity flag so callers can apply the clamp
// and still show the message.
package validate

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

const (
	MinQuantity = 1
	MaxQuantity = 10000

	MinDiscount = 0
	MaxDiscount = 100
)

type Result[T any] struct {
	Valid bool
	Value T
	Err   string
}

func ok[T any](v T) Result[T] { return Result[T]{Valid: true, Value: v} }

func fail[T any](v T, msg string) Result[T] { return Result[T]{Value: v, Err: msg} }

// Quantity parses the leading integer of raw ("12abc" is 12, "1.5" is 1).
func Quantity(raw string) Result[int] {
	n, parsed := leadingInt(raw)
	if !parsed {
		return fail(MinQuantity, "Cantidad debe ser un número válido.")
	}
	return QuantityValue(n)
}

func QuantityValue(n int) Result[int] {
	switch {
	case n < MinQuantity:
		return fail(MinQuantity, "Cantidad mínima: 1.")
	case n > MaxQuantity:
		return fail(MaxQuantity, "Cantidad máxima: 10.000.")
	}
	return ok(n)
}

func Discount(raw string) Result[float64] {
	return DiscountValue(leadingFloat(raw))
}

func DiscountValue(v float64) Result[float64] {
	switch {
	case math.IsNaN(v):
		return fail(float64(MinDiscount), "Descuento debe ser un número válido.")
	case v < MinDiscount:
		return fail(float64(MinDiscount), "El descuento no puede ser menor a 0%.")
	case v > MaxDiscount:
		return fail(float64(MaxDiscount), "El descuento máximo es 100%.")
	}
	return ok(v)
}

func Price(raw string) Result[float64] {
	return PriceValue(leadingFloat(raw))
}

// PriceValue has no upper bound; +Inf is rejected as not a number.
func PriceValue(v float64) Result[float64] {
	switch {
	case math.IsNaN(v) || math.IsInf(v, 1):
		return fail(0.0, "Precio debe ser un número válido.")
	case v < 0:
		return fail(0.0, "El precio no puede ser negativo.")
	}
	return ok(v)
}

// SKU normalizes raw and checks it against existing. current is the SKU the
// product had before the edit, so resubmitting an unchanged SKU is allowed.
// existing is expected to hold normalized SKUs.
func SKU(raw string, existing []string, current string) Result[string] {
	sku := NormalizeSKU(raw)
	if sku == "" {
		return fail(sku, "SKU es requerido.")
	}
	if sku != NormalizeSKU(current) {
		for _, s := range existing {
			if s == sku {
				return fail(sku, "Ya existe un producto con ese SKU.")
			}
		}
	}
	return ok(sku)
}

func NormalizeSKU(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// Required trims raw and rejects it when nothing is left.
func Required(raw, msg string) Result[string] {
	v := strings.TrimSpace(raw)
	if v == "" {
		return fail(v, msg)
	}
	return ok(v)
}

var (
	intPrefix   = regexp.MustCompile(`^[+-]?\d+`)
	floatPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
)

func leadingInt(raw string) (int, bool) {
	m := intPrefix.FindString(strings.TrimSpace(raw))
	if m == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(m, 10, 64)
	if err != nil {
		// only range errors get here; the sign decides which bound wins
		if strings.HasPrefix(m, "-") {
			return math.MinInt32, true
		}
		return math.MaxInt32, true
	}
	if n > math.MaxInt32 {
		n = math.MaxInt32
	} else if n < math.MinInt32 {
		n = math.MinInt32
	}
	return int(n), true
}

func leadingFloat(raw string) float64 {
	m := floatPrefix.FindString(strings.TrimSpace(raw))
	if m == "" {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil && !math.IsInf(f, 0) {
		return math.NaN()
	}
	return f
}
