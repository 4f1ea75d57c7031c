// Package stats computes summary statistics over numeric dataset columns.
package stats

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"

	"github.com/askiada/go-preprocess/pkg/dataset"
)

var ErrNoNumericColumns = errors.New("no numeric columns")

// Matrix is a symmetric Pearson correlation matrix, row-major.
type Matrix struct {
	Columns []string
	Values  [][]float64
}

// At returns the correlation between two named columns.
func (m *Matrix) At(a, b string) (float64, error) {
	i, j := -1, -1
	for idx, name := range m.Columns {
		if name == a {
			i = idx
		}
		if name == b {
			j = idx
		}
	}

	if i < 0 {
		return 0, errors.Wrapf(dataset.ErrColumnNotFound, "%q", a)
	}
	if j < 0 {
		return 0, errors.Wrapf(dataset.ErrColumnNotFound, "%q", b)
	}

	return m.Values[i][j], nil
}

// Correlation computes pairwise Pearson correlations. With no names every numeric column
// of the dataset is used; named columns must exist and be numeric. Rows where either
// value is NaN are skipped for that pair. A pair with fewer than two rows or zero variance
// yields NaN.
func Correlation(ds *dataset.Dataset, names ...string) (*Matrix, error) {
	cols, err := numericColumns(ds, names)
	if err != nil {
		return nil, err
	}

	m := &Matrix{
		Columns: make([]string, len(cols)),
		Values:  make([][]float64, len(cols)),
	}
	values := make([][]float64, len(cols))

	for i, col := range cols {
		m.Columns[i] = col.Name()
		m.Values[i] = make([]float64, len(cols))
		values[i], _ = col.Floats()
	}

	for i := range cols {
		m.Values[i][i] = 1
		for j := i + 1; j < len(cols); j++ {
			r := pearson(values[i], values[j])
			m.Values[i][j] = r
			m.Values[j][i] = r
		}
	}

	return m, nil
}

func numericColumns(ds *dataset.Dataset, names []string) ([]*dataset.Column, error) {
	if len(names) == 0 {
		var cols []*dataset.Column
		for _, col := range ds.Columns() {
			if col.Kind() == dataset.Numeric {
				cols = append(cols, col)
			}
		}

		if len(cols) == 0 {
			return nil, ErrNoNumericColumns
		}

		return cols, nil
	}

	cols := make([]*dataset.Column, 0, len(names))
	for _, name := range names {
		col, err := ds.Column(name)
		if err != nil {
			return nil, err
		}

		if col.Kind() != dataset.Numeric {
			return nil, errors.Wrapf(dataset.ErrColumnKind, "%q is %s", name, col.Kind())
		}
		cols = append(cols, col)
	}

	return cols, nil
}

func pearson(x, y []float64) float64 {
	xs := make([]float64, 0, len(x))
	ys := make([]float64, 0, len(y))

	for i := range x {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}

	if len(xs) < 2 {
		return math.NaN()
	}

	return stat.Correlation(xs, ys, nil)
}
