package transform_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-preprocess/pkg/dataset"
	"github.com/askiada/go-preprocess/pkg/transform"
)

func fittedSteps(t *testing.T, ds *dataset.Dataset) []transform.Step {
	t.Helper()

	ctx := context.Background()

	scaler, err := transform.NewMinMaxScaler(transform.MinMaxConfig{
		Columns: transform.ColumnSpec{Inputs: []string{"CARAT"}, Outputs: []string{"CARAT_NORM"}},
		Clip:    true,
	})
	require.NoError(t, err)

	ordinal, err := transform.NewOrdinalEncoder(transform.OrdinalConfig{
		Columns:    transform.ColumnSpec{Inputs: []string{"CUT"}, Outputs: []string{"CUT_ORD"}},
		Categories: map[string][]string{"CUT": cutCategories},
	})
	require.NoError(t, err)

	onehot, err := transform.NewOneHotEncoder(transform.OneHotConfig{
		Columns:       transform.ColumnSpec{Inputs: []string{"COLOR"}},
		HandleUnknown: transform.UnknownIgnore,
		Ordering:      transform.Lexical,
	})
	require.NoError(t, err)

	rounder, err := transform.NewRounder(transform.RounderConfig{
		Columns: transform.ColumnSpec{Inputs: []string{"CARAT"}, Outputs: []string{"CARAT_R"}},
		Places:  1,
	})
	require.NoError(t, err)

	steps := []transform.Step{scaler, ordinal, onehot, rounder}
	for _, step := range steps {
		require.NoError(t, step.Fit(ctx, ds))
	}

	return steps
}

func TestEncodeDecode(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ds := diamonds(t)

	for _, step := range fittedSteps(t, ds) {
		step := step

		t.Run(step.Kind(), func(t *testing.T) {
			t.Parallel()

			config, state, err := step.Encode()
			require.NoError(t, err)

			decoded, err := transform.Decode(step.Kind(), config, state, transform.StepConcurrency(2))
			require.NoError(t, err)
			assert.True(t, decoded.IsFitted())
			assert.Equal(t, step.Columns(), decoded.Columns())
			assert.Equal(t, step.OutputColumns(), decoded.OutputColumns())

			expected, err := step.Transform(ctx, ds)
			require.NoError(t, err)

			got, err := decoded.Transform(ctx, ds)
			require.NoError(t, err)
			assert.True(t, expected.Equal(got))

			config2, state2, err := decoded.Encode()
			require.NoError(t, err)
			assert.Equal(t, config, config2)
			assert.Equal(t, state, state2)
		})
	}
}

func TestDecodeUnfitted(t *testing.T) {
	t.Parallel()

	e, err := transform.NewOrdinalEncoder(transform.OrdinalConfig{Columns: transform.ColumnSpec{Inputs: []string{"CUT"}}})
	require.NoError(t, err)

	config, state, err := e.Encode()
	require.NoError(t, err)

	decoded, err := transform.Decode(transform.OrdinalEncoderKind, config, state)
	require.NoError(t, err)
	assert.False(t, decoded.IsFitted())
}

func TestDecodeErrors(t *testing.T) {
	t.Parallel()

	_, err := transform.Decode("no_such_kind", nil, nil)
	assert.ErrorIs(t, err, transform.ErrUnknownKind)
	assert.ErrorIs(t, err, transform.ErrSerialization)

	_, err = transform.Decode(transform.MinMaxScalerKind, []byte{0xc1}, nil)
	assert.ErrorIs(t, err, transform.ErrSerialization)

	steps := fittedSteps(t, diamonds(t))

	config, _, err := steps[0].Encode()
	require.NoError(t, err)

	badState, err := transform.Marshal(transform.MinMaxState{})
	require.NoError(t, err)

	_, err = transform.Decode(transform.MinMaxScalerKind, config, badState)
	assert.ErrorIs(t, err, transform.ErrSerialization)

	wrongRange, err := transform.Marshal(transform.MinMaxState{
		Ranges: []transform.Range{{Column: "DEPTH", Min: 0.2, Max: 1}},
	})
	require.NoError(t, err)

	_, err = transform.Decode(transform.MinMaxScalerKind, config, wrongRange)
	assert.ErrorIs(t, err, transform.ErrSerialization)

	rounderConfig, _, err := steps[3].Encode()
	require.NoError(t, err)

	for _, columns := range [][]string{{"DEPTH"}, {"CARAT", "CARAT"}, {}} {
		wrongColumns, err := transform.Marshal(transform.RounderState{Columns: columns})
		require.NoError(t, err)

		_, err = transform.Decode(transform.RounderKind, rounderConfig, wrongColumns)
		assert.ErrorIs(t, err, transform.ErrSerialization, "%q", columns)
	}

	config, _, err = steps[1].Encode()
	require.NoError(t, err)

	wrongColumn, err := transform.Marshal(transform.VocabularyState{
		Vocabularies: []transform.ColumnVocabulary{{Column: "COLOR", Labels: []string{"E"}}},
	})
	require.NoError(t, err)

	_, err = transform.Decode(transform.OrdinalEncoderKind, config, wrongColumn)
	assert.ErrorIs(t, err, transform.ErrSerialization)
}

func TestMarshalIsDeterministic(t *testing.T) {
	t.Parallel()

	categories := transform.Categories{"a": {"1"}, "b": {"2"}, "c": {"3"}, "d": {"4"}, "e": {"5"}, "f": {"6"}}

	first, err := transform.Marshal(categories)
	require.NoError(t, err)

	for i := 0; i < 50; i++ {
		next, err := transform.Marshal(categories)
		require.NoError(t, err)
		require.Equal(t, first, next)
	}

	var decoded transform.Categories
	require.NoError(t, transform.Unmarshal(first, &decoded))
	assert.Equal(t, categories, decoded)
}

func TestEncodeWithExplicitCategoriesIsDeterministic(t *testing.T) {
	t.Parallel()

	inputs := []string{"A", "B", "C", "D", "E", "F"}
	categories := make(transform.Categories, len(inputs))
	for _, in := range inputs {
		categories[in] = []string{in + "1", in + "2"}
	}

	tcs := map[string]struct {
		build func() (transform.Step, error)
	}{
		"ordinal encoder": {
			build: func() (transform.Step, error) {
				return transform.NewOrdinalEncoder(transform.OrdinalConfig{
					Columns:    transform.ColumnSpec{Inputs: inputs},
					Categories: categories,
				})
			},
		},
		"one hot encoder": {
			build: func() (transform.Step, error) {
				return transform.NewOneHotEncoder(transform.OneHotConfig{
					Columns:    transform.ColumnSpec{Inputs: inputs},
					Categories: categories,
				})
			},
		},
	}

	for name, tc := range tcs {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			step, err := tc.build()
			require.NoError(t, err)

			first, _, err := step.Encode()
			require.NoError(t, err)

			for i := 0; i < 50; i++ {
				other, err := tc.build()
				require.NoError(t, err)

				next, _, err := other.Encode()
				require.NoError(t, err)
				require.Equal(t, first, next)
			}
		})
	}
}

type passthrough struct {
	transform.Step
}

func TestRegister(t *testing.T) {
	t.Parallel()

	decode := func(config, state []byte, opts ...transform.StepOption) (transform.Step, error) {
		return passthrough{}, nil
	}

	require.NoError(t, transform.Register("test_passthrough", decode))
	assert.ErrorIs(t, transform.Register("test_passthrough", decode), transform.ErrKindRegistered)
	assert.ErrorIs(t, transform.Register(transform.RounderKind, decode), transform.ErrKindRegistered)

	step, err := transform.Decode("test_passthrough", nil, nil)
	require.NoError(t, err)
	assert.IsType(t, passthrough{}, step)
}
