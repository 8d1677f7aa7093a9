// Package sentiment scores products by lexicon-matching five text sources
// and aggregating with a fixed weight table. Every score carries its full
// per-source arithmetic: the trace the debug surface returns is the same
// struct the final number is computed from, never a re-derivation.
package sentiment

import (
	"sort"
	"strings"
	"time"

	domain "github.com/lmoretti/storeiq/pkg/types"
)

// Band thresholds: score > positiveBand is positive, < negativeBand negative.
const (
	positiveBand = 0.1
	negativeBand = -0.1
)

// Weights is the per-source weight table. Must sum to 1.0; this is checked
// at config load, not here.
type Weights struct {
	Opinions    float64
	Description float64
	Name        float64
	Specs       float64
	Categories  float64
}

// DefaultWeights returns the standard source weighting.
func DefaultWeights() Weights {
	return Weights{
		Opinions:    0.40,
		Description: 0.25,
		Name:        0.15,
		Specs:       0.12,
		Categories:  0.08,
	}
}

// source pairs an extractor with its weight so sources can be added or
// removed without touching the aggregation loop.
type source struct {
	name    string
	weight  float64
	extract func(p *domain.Product, opinions []domain.Opinion) string
}

func sources(w Weights) []source {
	return []source{
		{"opinions", w.Opinions, func(_ *domain.Product, ops []domain.Opinion) string {
			parts := make([]string, len(ops))
			for i, o := range ops {
				parts[i] = o.Text
			}
			return strings.Join(parts, " ")
		}},
		{"description", w.Description, func(p *domain.Product, _ []domain.Opinion) string {
			return p.Description
		}},
		{"name", w.Name, func(p *domain.Product, _ []domain.Opinion) string {
			return p.Name
		}},
		{"specs", w.Specs, func(p *domain.Product, _ []domain.Opinion) string {
			keys := make([]string, 0, len(p.Specs))
			for k := range p.Specs {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			var b strings.Builder
			for _, k := range keys {
				b.WriteString(k)
				b.WriteByte(' ')
				b.WriteString(p.Specs[k])
				b.WriteByte(' ')
			}
			return b.String()
		}},
		{"categories", w.Categories, func(p *domain.Product, _ []domain.Opinion) string {
			return strings.Join(p.CategoryPaths, " ")
		}},
	}
}

// Score computes the product's SentimentRecord with the full per-source
// breakdown. Absent sources (no text) contribute 0 to the weighted sum and
// are flagged rather than treated as neutral text.
func Score(p *domain.Product, opinions []domain.Opinion, w Weights) domain.SentimentRecord {
	rec := domain.SentimentRecord{
		ProductID:  p.ID,
		ComputedAt: time.Now().UTC(),
	}

	var weighted float64
	for _, src := range sources(w) {
		ss := scoreText(src.extract(p, opinions))
		ss.Source = src.name
		ss.Weight = src.weight

		weighted += ss.Score * src.weight
		rec.Sources = append(rec.Sources, ss)
	}

	// Opinion counts come from per-opinion classification, not from the
	// merged opinions source text.
	for _, o := range opinions {
		switch classify(scoreText(o.Text).Score) {
		case domain.SentimentPositive:
			rec.PositiveCount++
		case domain.SentimentNegative:
			rec.NegativeCount++
		default:
			rec.NeutralCount++
		}
	}

	rec.Score = clamp(weighted)
	rec.Category = classify(rec.Score)
	return rec
}

// scoreText applies the lexicon method to one text blob:
// (positive - negative) / total words, clipped to [-1,1].
func scoreText(text string) domain.SourceScore {
	words := tokenize(text)
	ss := domain.SourceScore{TotalWords: len(words)}

	if len(words) == 0 {
		ss.Absent = true
		ss.Category = domain.SentimentNeutral
		return ss
	}

	for _, word := range words {
		if positiveWords[word] {
			ss.PositiveCount++
			ss.PositiveWords = append(ss.PositiveWords, word)
		} else if negativeWords[word] {
			ss.NegativeCount++
			ss.NegativeWords = append(ss.NegativeWords, word)
		}
	}

	ss.Score = clamp(float64(ss.PositiveCount-ss.NegativeCount) / float64(ss.TotalWords))
	ss.Category = classify(ss.Score)
	return ss
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})
}

func classify(score float64) domain.SentimentCategory {
	switch {
	case score > positiveBand:
		return domain.SentimentPositive
	case score < negativeBand:
		return domain.SentimentNegative
	default:
		return domain.SentimentNeutral
	}
}

func clamp(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
