// Package feature builds per-product feature vectors for content-based
// similarity. Vectors are derived artifacts: always recomputable from the
// catalog, cached only as an optimization.
package feature

import (
	"fmt"
	"math"
	"sort"
	"strings"

	domain "github.com/lmoretti/storeiq/pkg/types"
)

// priceBuckets is the number of one-hot price range slots.
const priceBuckets = 5

// minKeywordLen filters stopword-length tokens out of keyword extraction.
const minKeywordLen = 4

// Weights mirror config.FeatureWeights without importing config here.
type Weights struct {
	Category float64
	Tag      float64
	Price    float64
	Keyword  float64
}

// Space is the fixed dimension layout shared by all vectors of one refresh
// cycle. It indexes every category prefix, tag, and keyword observed in the
// catalog plus the price buckets.
type Space struct {
	categories map[string]int
	tags       map[string]int
	keywords   map[string]int
	priceBase  int
	dims       int
	maxPrice   float64
	weights    Weights
}

// NewSpace scans the catalog once and fixes the dimension layout.
func NewSpace(products []domain.Product, w Weights) *Space {
	s := &Space{
		categories: make(map[string]int),
		tags:       make(map[string]int),
		keywords:   make(map[string]int),
		weights:    w,
	}

	for i := range products {
		p := &products[i]
		for _, c := range p.Categories() {
			if _, ok := s.categories[c]; !ok {
				s.categories[c] = len(s.categories)
			}
		}
		for _, t := range p.Tags {
			t = strings.ToLower(t)
			if _, ok := s.tags[t]; !ok {
				s.tags[t] = len(s.tags)
			}
		}
		for _, k := range Keywords(p.Description) {
			if _, ok := s.keywords[k]; !ok {
				s.keywords[k] = len(s.keywords)
			}
		}
		if p.Price > s.maxPrice {
			s.maxPrice = p.Price
		}
	}

	s.priceBase = len(s.categories) + len(s.tags) + len(s.keywords)
	s.dims = s.priceBase + priceBuckets
	return s
}

// Dims returns the total vector dimension.
func (s *Space) Dims() int { return s.dims }

// Vector builds the weighted dense feature vector for a product.
// Vectors from the same Space are directly comparable with Cosine.
func (s *Space) Vector(p *domain.Product) []float64 {
	v := make([]float64, s.dims)

	base := 0
	for _, c := range p.Categories() {
		if idx, ok := s.categories[c]; ok {
			v[base+idx] = s.weights.Category
		}
	}

	base = len(s.categories)
	for _, t := range p.Tags {
		if idx, ok := s.tags[strings.ToLower(t)]; ok {
			v[base+idx] = s.weights.Tag
		}
	}

	base += len(s.tags)
	for _, k := range Keywords(p.Description) {
		if idx, ok := s.keywords[k]; ok {
			v[base+idx] = s.weights.Keyword
		}
	}

	v[s.priceBase+s.priceBucket(p.Price)] = s.weights.Price

	return v
}

func (s *Space) priceBucket(price float64) int {
	if s.maxPrice <= 0 {
		return 0
	}
	b := int(price / s.maxPrice * priceBuckets)
	if b >= priceBuckets {
		b = priceBuckets - 1
	}
	if b < 0 {
		b = 0
	}
	return b
}

// Keywords tokenizes free text into lowercase keyword terms, dropping
// short tokens and duplicates. Order is deterministic.
func Keywords(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})

	seen := make(map[string]bool, len(fields))
	var out []string
	for _, f := range fields {
		if len(f) < minKeywordLen || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Cosine returns dot(a,b)/(|a|*|b|). Defined as 0 when either vector has
// zero norm, so products with no features never error out.
func Cosine(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("vector dimensions differ: %d vs %d", len(a), len(b))
	}

	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}

	if na == 0 || nb == 0 {
		return 0, nil
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb)), nil
}

// SparseCosine computes cosine similarity between two sparse vectors keyed
// by id (user id for item-based collaborative filtering). Zero-norm inputs
// yield 0.
func SparseCosine(a, b map[string]float64) float64 {
	var dot, na, nb float64
	for k, av := range a {
		na += av * av
		if bv, ok := b[k]; ok {
			dot += av * bv
		}
	}
	for _, bv := range b {
		nb += bv * bv
	}

	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
