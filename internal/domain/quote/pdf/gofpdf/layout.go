package gofpdf

import (
	"errors"
	"fmt"
	"math"
)

var ErrNoRoom = errors.New("layout leaves no room for a table row")

// Layout is the A4 page geometry in millimetres. Every page reserves room
// for the header blocks and the totals box, so any page can hold the
// maximum number of rows.
type Layout struct {
	PageWidth    float64
	PageHeight   float64
	Margin       float64
	HeaderHeight float64
	TableHeader  float64
	RowHeight    float64
	TotalsHeight float64
	FooterHeight float64
}

func DefaultLayout() Layout {
	return Layout{
		PageWidth:    210,
		PageHeight:   297,
		Margin:       15,
		HeaderHeight: 62,
		TableHeader:  8,
		RowHeight:    7,
		TotalsHeight: 32,
		FooterHeight: 14,
	}
}

func (l Layout) free() float64 {
	return l.PageHeight - 2*l.Margin - l.HeaderHeight - l.TableHeader - l.TotalsHeight - l.FooterHeight
}

// Validate reports ErrNoRoom when not even one row fits between the table
// header and the totals box.
func (l Layout) Validate() error {
	if l.RowHeight <= 0 || l.free() < l.RowHeight {
		return fmt.Errorf("%w: row height %gmm, free band %gmm", ErrNoRoom, l.RowHeight, l.free())
	}
	return nil
}

// RowsPerPage is only meaningful for a layout that passes Validate; an
// invalid one reports 1 so pagination stays well defined.
func (l Layout) RowsPerPage() int {
	if l.Validate() != nil {
		return 1
	}
	return int(math.Floor(l.free() / l.RowHeight))
}
