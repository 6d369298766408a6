package pdf

import (
	"errors"

	"cotizador/go_backend/internal/domain/quote"
)

// ErrUnavailable marks a renderer that cannot run, e.g. missing fonts.
var ErrUnavailable = errors.New("pdf renderer unavailable")

type Generator interface {
	Generate(doc quote.Document) ([]byte, error)
}
