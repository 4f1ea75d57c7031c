package dataset

import (
	"github.com/pkg/errors"
)

// Dataset is an ordered collection of named columns of equal length.
type Dataset struct {
	cols  []*Column
	index map[string]int
	rows  int
}

// New creates a dataset from columns, in order.
func New(cols ...*Column) (*Dataset, error) {
	ds := &Dataset{
		cols:  make([]*Column, 0, len(cols)),
		index: make(map[string]int, len(cols)),
	}

	for i, col := range cols {
		if col == nil {
			return nil, errors.Wrapf(ErrColumnMustBeSet, "column %d", i)
		}

		if _, ok := ds.index[col.Name()]; ok {
			return nil, errors.Wrapf(ErrDuplicateColumn, "%q", col.Name())
		}

		if i == 0 {
			ds.rows = col.Len()
		} else if col.Len() != ds.rows {
			return nil, errors.Wrapf(ErrLengthMismatch, "column %q has %d rows, want %d", col.Name(), col.Len(), ds.rows)
		}

		ds.index[col.Name()] = len(ds.cols)
		ds.cols = append(ds.cols, col)
	}

	return ds, nil
}

// Len returns the number of rows.
func (d *Dataset) Len() int { return d.rows }

// Width returns the number of columns.
func (d *Dataset) Width() int { return len(d.cols) }

// Names returns the column names in order.
func (d *Dataset) Names() []string {
	names := make([]string, len(d.cols))
	for i, col := range d.cols {
		names[i] = col.Name()
	}

	return names
}

// Has reports whether a column exists.
func (d *Dataset) Has(name string) bool {
	_, ok := d.index[name]

	return ok
}

// Column returns the named column or ErrColumnNotFound.
func (d *Dataset) Column(name string) (*Column, error) {
	idx, ok := d.index[name]
	if !ok {
		return nil, errors.Wrapf(ErrColumnNotFound, "%q", name)
	}

	return d.cols[idx], nil
}

// Columns returns the columns in order.
func (d *Dataset) Columns() []*Column {
	out := make([]*Column, len(d.cols))
	copy(out, d.cols)

	return out
}

// With returns a new dataset where columns sharing a name with an existing column replace
// it at the same position and the other columns are appended in the given order.
func (d *Dataset) With(cols ...*Column) (*Dataset, error) {
	next := make([]*Column, len(d.cols), len(d.cols)+len(cols))
	copy(next, d.cols)

	seen := make(map[string]struct{}, len(cols))
	for i, col := range cols {
		if col == nil {
			return nil, errors.Wrapf(ErrColumnMustBeSet, "column %d", i)
		}

		if _, ok := seen[col.Name()]; ok {
			return nil, errors.Wrapf(ErrDuplicateColumn, "%q", col.Name())
		}
		seen[col.Name()] = struct{}{}

		if idx, ok := d.index[col.Name()]; ok {
			next[idx] = col

			continue
		}
		next = append(next, col)
	}

	return New(next...)
}

// Drop returns a new dataset without the named columns. Every name must exist.
func (d *Dataset) Drop(names ...string) (*Dataset, error) {
	drop := make(map[string]struct{}, len(names))
	for _, name := range names {
		if !d.Has(name) {
			return nil, errors.Wrapf(ErrColumnNotFound, "%q", name)
		}
		drop[name] = struct{}{}
	}

	kept := make([]*Column, 0, len(d.cols))
	for _, col := range d.cols {
		if _, ok := drop[col.Name()]; ok {
			continue
		}
		kept = append(kept, col)
	}

	if len(kept) == 0 {
		return &Dataset{index: map[string]int{}, rows: 0}, nil
	}

	return New(kept...)
}

// Select returns a new dataset holding only the named columns, in the given order.
func (d *Dataset) Select(names ...string) (*Dataset, error) {
	cols := make([]*Column, 0, len(names))
	for _, name := range names {
		col, err := d.Column(name)
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)
	}

	return New(cols...)
}

// Equal reports whether both datasets have the same columns, in the same order, with
// the same values.
func (d *Dataset) Equal(other *Dataset) bool {
	if d == nil || other == nil {
		return d == other
	}

	if d.rows != other.rows || len(d.cols) != len(other.cols) {
		return false
	}

	for i := range d.cols {
		if !d.cols[i].Equal(other.cols[i]) {
			return false
		}
	}

	return true
}
