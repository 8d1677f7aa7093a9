package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProduct_Categories(t *testing.T) {
	p := &Product{CategoryPaths: []string{"electronics.laptops", "electronics.accessories"}}

	assert.Equal(t, []string{"electronics", "electronics.laptops", "electronics.accessories"}, p.Categories())
}

func TestProduct_LeafCategory(t *testing.T) {
	tests := []struct {
		name  string
		paths []string
		want  string
	}{
		{"nested path", []string{"electronics.laptops.gaming"}, "gaming"},
		{"single segment", []string{"kitchen"}, "kitchen"},
		{"uses first path", []string{"home.kitchen", "appliances"}, "kitchen"},
		{"no categories", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Product{CategoryPaths: tt.paths}
			assert.Equal(t, tt.want, p.LeafCategory())
		})
	}
}

func TestOrder_DistinctProducts(t *testing.T) {
	o := &Order{ProductIDs: []string{"p1", "p2", "p1", "p3", "p2"}}

	assert.Equal(t, []string{"p1", "p2", "p3"}, o.DistinctProducts())
}

func TestBucketChurn(t *testing.T) {
	assert.Equal(t, ChurnLow, BucketChurn(0.29))
	assert.Equal(t, ChurnMedium, BucketChurn(0.3))
	assert.Equal(t, ChurnMedium, BucketChurn(0.69))
	assert.Equal(t, ChurnHigh, BucketChurn(0.7))
}
