package registry_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-preprocess/internal/registry"
	"github.com/askiada/go-preprocess/pkg/dataset"
	"github.com/askiada/go-preprocess/pkg/pipeline"
	"github.com/askiada/go-preprocess/pkg/transform"
)

func openStore(t *testing.T) *registry.Store {
	t.Helper()

	store, err := registry.Open(context.Background(), filepath.Join(t.TempDir(), "registry.db"))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, store.Close()) })

	return store
}

func fittedPipeline(t *testing.T, values ...float64) *pipeline.Pipeline {
	t.Helper()

	pipe, err := pipeline.New()
	require.NoError(t, err)

	scaler, err := transform.NewMinMaxScaler(transform.MinMaxConfig{
		Columns: transform.ColumnSpec{Inputs: []string{"X"}},
	})
	require.NoError(t, err)
	require.NoError(t, pipe.AddStep("scale", scaler))

	ds, err := dataset.New(dataset.NewNumeric("X", values))
	require.NoError(t, err)
	require.NoError(t, pipe.Fit(context.Background(), ds))

	return pipe
}

func TestStorePutGet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := openStore(t)

	first, err := store.Put(ctx, "carat", fittedPipeline(t, 0, 10))
	require.NoError(t, err)
	assert.Equal(t, 1, first.Version)
	assert.Equal(t, 1, first.Steps)

	second, err := store.Put(ctx, "carat", fittedPipeline(t, 0, 100))
	require.NoError(t, err)
	assert.Equal(t, 2, second.Version)

	other, err := store.Put(ctx, "cut", fittedPipeline(t, 1, 2))
	require.NoError(t, err)
	assert.Equal(t, 1, other.Version)

	pipe, entry, err := store.Load(ctx, "carat", 0)
	require.NoError(t, err)
	assert.Equal(t, 2, entry.Version)
	assert.Equal(t, second.PipelineID, pipe.ID().String())
	assert.Equal(t, second.CreatedAt, entry.CreatedAt)

	pipe, entry, err = store.Load(ctx, "carat", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, entry.Version)
	assert.Equal(t, first.PipelineID, pipe.ID().String())

	ds, err := dataset.New(dataset.NewNumeric("X", []float64{5}))
	require.NoError(t, err)

	out, err := pipe.Transform(ctx, ds)
	require.NoError(t, err)

	col, err := out.Column("X")
	require.NoError(t, err)
	values, err := col.Floats()
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5}, values)
}

func TestStoreGetErrors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := openStore(t)

	_, err := store.Put(ctx, "carat", fittedPipeline(t, 0, 1))
	require.NoError(t, err)

	tcs := map[string]struct {
		name    string
		version int
		wantErr error
	}{
		"unknown name": {
			name:    "price",
			wantErr: registry.ErrNotFound,
		},
		"unknown version": {
			name:    "carat",
			version: 4,
			wantErr: registry.ErrNotFound,
		},
		"negative version": {
			name:    "carat",
			version: -1,
			wantErr: registry.ErrInvalidVersion,
		},
	}

	for name, tc := range tcs {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, _, err := store.Get(ctx, tc.name, tc.version)
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestStorePutInvalidName(t *testing.T) {
	t.Parallel()

	store := openStore(t)

	_, err := store.Put(context.Background(), "carat@2", fittedPipeline(t, 0, 1))
	require.ErrorIs(t, err, registry.ErrInvalidName)
}

func TestStoreList(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := openStore(t)

	entries, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)

	for _, name := range []string{"cut", "carat", "cut"} {
		_, err = store.Put(ctx, name, fittedPipeline(t, 0, 1))
		require.NoError(t, err)
	}

	entries, err = store.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	got := make([]string, len(entries))
	for i, entry := range entries {
		got[i] = registry.Ref(entry.Name, entry.Version)
		assert.Positive(t, entry.Size)
	}

	assert.Equal(t, []string{"carat@1", "cut@1", "cut@2"}, got)
}

func TestStoreReopen(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "registry.db")

	store, err := registry.Open(ctx, path)
	require.NoError(t, err)

	entry, err := store.Put(ctx, "carat", fittedPipeline(t, 0, 1))
	require.NoError(t, err)
	require.NoError(t, store.Close())

	store, err = registry.Open(ctx, path)
	require.NoError(t, err)
	defer store.Close()

	_, got, err := store.Get(ctx, "carat", 0)
	require.NoError(t, err)
	assert.Equal(t, entry, got)
}

func TestParseRef(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		ref         string
		wantName    string
		wantVersion int
		wantErr     error
	}{
		"name only": {
			ref:      "carat",
			wantName: "carat",
		},
		"name and version": {
			ref:         "carat@3",
			wantName:    "carat",
			wantVersion: 3,
		},
		"empty name": {
			ref:     "@3",
			wantErr: registry.ErrInvalidName,
		},
		"zero version": {
			ref:     "carat@0",
			wantErr: registry.ErrInvalidVersion,
		},
		"bad version": {
			ref:     "carat@latest",
			wantErr: registry.ErrInvalidVersion,
		},
	}

	for name, tc := range tcs {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			gotName, gotVersion, err := registry.ParseRef(tc.ref)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.wantName, gotName)
			assert.Equal(t, tc.wantVersion, gotVersion)
			assert.Equal(t, tc.ref, registry.Ref(gotName, gotVersion))
		})
	}
}
