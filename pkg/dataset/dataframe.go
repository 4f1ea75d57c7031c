package dataset

import (
	"io"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/pkg/errors"
)

// FromDataFrame converts a gota dataframe. Int and float series become numeric columns,
// string and bool series become categorical columns.
func FromDataFrame(df dataframe.DataFrame) (*Dataset, error) {
	if df.Err != nil {
		return nil, errors.Wrap(df.Err, "invalid dataframe")
	}

	names := df.Names()
	cols := make([]*Column, 0, len(names))

	for _, name := range names {
		s := df.Col(name)
		if s.Err != nil {
			return nil, errors.Wrapf(s.Err, "unable to read series %q", name)
		}

		switch s.Type() {
		case series.Int, series.Float:
			cols = append(cols, &Column{name: name, kind: Numeric, floats: s.Float()})
		default:
			cols = append(cols, &Column{name: name, kind: Categorical, strings: s.Records()})
		}
	}

	return New(cols...)
}

// DataFrame converts the dataset into a gota dataframe.
func (d *Dataset) DataFrame() dataframe.DataFrame {
	ss := make([]series.Series, len(d.cols))
	for i, col := range d.cols {
		if col.kind == Numeric {
			ss[i] = series.New(col.floats, series.Float, col.name)

			continue
		}
		ss[i] = series.New(col.strings, series.String, col.name)
	}

	return dataframe.New(ss...)
}

type csvOptions struct {
	categorical []string
}

// CSVOption configures ReadCSV.
type CSVOption func(o *csvOptions)

// AsCategorical forces the named columns to be read as categorical even when every
// value parses as a number.
func AsCategorical(names ...string) CSVOption {
	return func(o *csvOptions) {
		o.categorical = append(o.categorical, names...)
	}
}

// ReadCSV reads a CSV document with a header row. Column types are detected.
func ReadCSV(r io.Reader, opts ...CSVOption) (*Dataset, error) {
	o := &csvOptions{}
	for _, opt := range opts {
		opt(o)
	}

	loadOpts := []dataframe.LoadOption{dataframe.DetectTypes(true), dataframe.HasHeader(true)}
	if len(o.categorical) > 0 {
		types := make(map[string]series.Type, len(o.categorical))
		for _, name := range o.categorical {
			types[name] = series.String
		}
		loadOpts = append(loadOpts, dataframe.WithTypes(types))
	}

	df := dataframe.ReadCSV(r, loadOpts...)
	if df.Err != nil {
		return nil, errors.Wrap(df.Err, "unable to read csv")
	}

	return FromDataFrame(df)
}

// WriteCSV writes the dataset as CSV with a header row. Numeric values use FormatFloat
// so they read back unchanged.
func (d *Dataset) WriteCSV(w io.Writer) error {
	ss := make([]series.Series, len(d.cols))
	for i, col := range d.cols {
		ss[i] = series.New(col.Labels(), series.String, col.name)
	}

	err := dataframe.New(ss...).WriteCSV(w)
	if err != nil {
		return errors.Wrap(err, "unable to write csv")
	}

	return nil
}
