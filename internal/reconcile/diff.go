package reconcile

import (
	"time"

	"github.com/shopspring/decimal"
)

type presence interface {
	Has(field string) bool
}

// diff collects the columns a merge overwrote. Columns absent from the
// incoming record are never compared.
type diff struct {
	in      presence
	changed []string
}

func newDiff(in presence) *diff {
	return &diff{in: in}
}

func (d *diff) mark(column string) {
	d.changed = append(d.changed, column)
}

func set[T comparable](d *diff, column string, dst *T, src T) {
	if *dst != src {
		*dst = src
		d.mark(column)
	}
}

func setPtr[T comparable](d *diff, column string, dst **T, src *T) {
	if !d.in.Has(column) {
		return
	}
	switch {
	case *dst == nil && src == nil:
		return
	case *dst != nil && src != nil && **dst == *src:
		return
	}
	if src == nil {
		*dst = nil
	} else {
		v := *src
		*dst = &v
	}
	d.mark(column)
}

// setRequiredPtr stores a mandatory incoming value into a nullable column.
func setRequiredPtr[T comparable](d *diff, column string, dst **T, src T) {
	if *dst != nil && **dst == src {
		return
	}
	v := src
	*dst = &v
	d.mark(column)
}

func setTime(d *diff, column string, dst *time.Time, src time.Time) {
	if !dst.Equal(src) {
		*dst = src
		d.mark(column)
	}
}

func setTimePtr(d *diff, column string, dst **time.Time, src *time.Time) {
	if !d.in.Has(column) {
		return
	}
	switch {
	case *dst == nil && src == nil:
		return
	case *dst != nil && src != nil && (*dst).Equal(*src):
		return
	}
	if src == nil {
		*dst = nil
	} else {
		v := *src
		*dst = &v
	}
	d.mark(column)
}

func setDecimal(d *diff, column string, dst *decimal.Decimal, src decimal.Decimal) {
	if !dst.Equal(src) {
		*dst = src
		d.mark(column)
	}
}

func setNullDecimal(d *diff, column string, dst *decimal.NullDecimal, src *decimal.Decimal) {
	if !d.in.Has(column) {
		return
	}
	switch {
	case !dst.Valid && src == nil:
		return
	case dst.Valid && src != nil && dst.Decimal.Equal(*src):
		return
	}
	if src == nil {
		*dst = decimal.NullDecimal{}
	} else {
		*dst = decimal.NewNullDecimal(*src)
	}
	d.mark(column)
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*d)
}
