package feature_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmoretti/storeiq/internal/feature"
	domain "github.com/lmoretti/storeiq/pkg/types"
)

func testWeights() feature.Weights {
	return feature.Weights{Category: 0.4, Tag: 0.3, Price: 0.15, Keyword: 0.15}
}

func TestCosine_Identical(t *testing.T) {
	t.Parallel()

	v := []float64{0.4, 0.3, 0, 0.15}
	score, err := feature.Cosine(v, v)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, score, 1e-9)
}

func TestCosine_Orthogonal(t *testing.T) {
	t.Parallel()

	score, err := feature.Cosine([]float64{1, 0}, []float64{0, 1})
	require.NoError(t, err)
	assert.Zero(t, score)
}

func TestCosine_ZeroNorm(t *testing.T) {
	t.Parallel()

	score, err := feature.Cosine([]float64{0, 0}, []float64{1, 1})
	require.NoError(t, err)
	assert.Zero(t, score)
}

func TestCosine_DimensionMismatch(t *testing.T) {
	t.Parallel()

	_, err := feature.Cosine([]float64{1}, []float64{1, 2})
	assert.Error(t, err)
}

func TestSparseCosine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b map[string]float64
		want float64
	}{
		{
			name: "identical",
			a:    map[string]float64{"u1": 2, "u2": 1},
			b:    map[string]float64{"u1": 2, "u2": 1},
			want: 1.0,
		},
		{
			name: "disjoint users",
			a:    map[string]float64{"u1": 1},
			b:    map[string]float64{"u2": 1},
			want: 0,
		},
		{
			name: "empty side",
			a:    map[string]float64{},
			b:    map[string]float64{"u1": 3},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, feature.SparseCosine(tt.a, tt.b), 1e-9)
		})
	}
}

func TestSparseCosine_Symmetric(t *testing.T) {
	t.Parallel()

	a := map[string]float64{"u1": 3, "u2": 1, "u3": 2}
	b := map[string]float64{"u2": 2, "u3": 5}
	assert.InDelta(t, feature.SparseCosine(a, b), feature.SparseCosine(b, a), 1e-12)
}

func TestKeywords(t *testing.T) {
	t.Parallel()

	got := feature.Keywords("Great wireless mouse, great VALUE! 10m range")
	// "10m" and "great" duplicates drop; short tokens drop.
	assert.Equal(t, []string{"great", "mouse", "range", "value", "wireless"}, got)
}

func TestKeywords_Empty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, feature.Keywords(""))
	assert.Empty(t, feature.Keywords("a an of!"))
}

func TestSpace_VectorComparable(t *testing.T) {
	t.Parallel()

	products := []domain.Product{
		{ID: "p1", Price: 100, CategoryPaths: []string{"electronics.laptops"}, Tags: []string{"gaming"}},
		{ID: "p2", Price: 110, CategoryPaths: []string{"electronics.laptops"}, Tags: []string{"gaming"}},
		{ID: "p3", Price: 900, CategoryPaths: []string{"kitchen.pans"}, Tags: []string{"steel"}},
	}

	space := feature.NewSpace(products, testWeights())

	v1 := space.Vector(&products[0])
	v2 := space.Vector(&products[1])
	v3 := space.Vector(&products[2])
	require.Len(t, v1, space.Dims())

	near, err := feature.Cosine(v1, v2)
	require.NoError(t, err)
	far, err := feature.Cosine(v1, v3)
	require.NoError(t, err)

	assert.Greater(t, near, far)
	assert.InDelta(t, 1.0, near, 1e-9) // same category, tag, and price bucket
	assert.Zero(t, far)
}

func TestSpace_SharedCategoryPrefix(t *testing.T) {
	t.Parallel()

	products := []domain.Product{
		{ID: "p1", Price: 10, CategoryPaths: []string{"electronics.laptops"}},
		{ID: "p2", Price: 800, CategoryPaths: []string{"electronics.phones"}},
	}

	space := feature.NewSpace(products, testWeights())
	score, err := feature.Cosine(space.Vector(&products[0]), space.Vector(&products[1]))
	require.NoError(t, err)

	// They share the "electronics" prefix dimension but nothing else.
	assert.Greater(t, score, 0.0)
	assert.Less(t, score, 1.0)
}
