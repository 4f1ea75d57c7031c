package transform_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/askiada/go-preprocess/pkg/dataset"
)

func newDataset(t *testing.T, cols ...*dataset.Column) *dataset.Dataset {
	t.Helper()

	ds, err := dataset.New(cols...)
	require.NoError(t, err)

	return ds
}

func floatsOf(t *testing.T, ds *dataset.Dataset, name string) []float64 {
	t.Helper()

	col, err := ds.Column(name)
	require.NoError(t, err)

	values, err := col.Floats()
	require.NoError(t, err)

	return values
}

func stringsOf(t *testing.T, ds *dataset.Dataset, name string) []string {
	t.Helper()

	col, err := ds.Column(name)
	require.NoError(t, err)

	values, err := col.Strings()
	require.NoError(t, err)

	return values
}

func diamonds(t *testing.T) *dataset.Dataset {
	t.Helper()

	return newDataset(t,
		dataset.NewNumeric("CARAT", []float64{0.2, 0.5, 1.0}),
		dataset.NewCategorical("CUT", []string{"IDEAL", "FAIR", "GOOD"}),
		dataset.NewCategorical("COLOR", []string{"E", "J", "E"}),
	)
}
