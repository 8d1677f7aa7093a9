package fuzzy

import (
	"sort"

	domain "github.com/lmoretti/storeiq/pkg/types"
)

// Candidate is a product plus the crisp signals the recommender fuzzifies.
type Candidate struct {
	Product    domain.Product
	Rating     float64 // mean opinion rating, 0-5 scale
	Popularity float64 // purchase count or equivalent
}

// Bounds normalize crisp inputs to [0,1] before fuzzification.
type Bounds struct {
	MaxPrice      float64
	MaxPopularity float64
}

// Recommender evaluates a rule base against a user profile.
type Recommender struct {
	rules  []Rule
	bounds Bounds

	price       Variable
	rating      Variable
	popularity  Variable
	category    Variable
	sensitivity Variable
	quality     Variable
}

// NewRecommender builds a Recommender over the given rule base. A nil or
// empty rule set falls back to DefaultRules.
func NewRecommender(rules []Rule, bounds Bounds) *Recommender {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Recommender{
		rules:       rules,
		bounds:      bounds,
		price:       priceVariable(),
		rating:      three("rating"),
		popularity:  three("popularity"),
		category:    three("category"),
		sensitivity: three("sensitivity"),
		quality:     three("quality"),
	}
}

// Recommend scores every candidate for the profile and returns them ranked
// by fuzzy score descending, ties broken by category match descending.
// Every result carries its per-rule activation trace.
func (r *Recommender) Recommend(profile domain.FuzzyProfile, candidates []Candidate) []domain.FuzzyResult {
	results := make([]domain.FuzzyResult, 0, len(candidates))
	for i := range candidates {
		results = append(results, r.scoreCandidate(profile, &candidates[i]))
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].CategoryMatch > results[j].CategoryMatch
	})
	return results
}

func (r *Recommender) scoreCandidate(profile domain.FuzzyProfile, c *Candidate) domain.FuzzyResult {
	match := categoryMatch(profile, &c.Product)

	memberships := make(map[string]float64)
	r.price.Fuzzify(normalize(c.Product.Price, r.bounds.MaxPrice), memberships)
	r.rating.Fuzzify(c.Rating/5, memberships)
	r.popularity.Fuzzify(normalize(c.Popularity, r.bounds.MaxPopularity), memberships)
	r.category.Fuzzify(match, memberships)
	r.sensitivity.Fuzzify(profile.PriceSensitivity, memberships)
	r.quality.Fuzzify(profile.QualityPreference, memberships)

	res := domain.FuzzyResult{
		ProductID:     c.Product.ID,
		CategoryMatch: match,
	}

	// Rule evaluation, then max-aggregation per consequent region.
	aggregated := make(map[float64]float64)
	for _, rule := range r.rules {
		strength := rule.Antecedent.Eval(memberships)
		res.Activations = append(res.Activations, domain.RuleActivation{
			Rule:       rule.Name,
			Strength:   strength,
			Consequent: rule.Consequent,
		})
		if strength > aggregated[rule.Consequent] {
			aggregated[rule.Consequent] = strength
		}
	}

	res.Score = defuzzify(aggregated)
	return res
}

// defuzzify reduces the aggregated consequent memberships to a crisp score
// with the weighted average (centroid over singleton regions). No fired
// rules means no evidence: score 0.
func defuzzify(aggregated map[float64]float64) float64 {
	var num, den float64
	for consequent, strength := range aggregated {
		num += consequent * strength
		den += strength
	}
	if den == 0 {
		return 0
	}
	return num / den
}

// categoryMatch is the profile's strongest interest over any of the
// product's category prefixes.
func categoryMatch(profile domain.FuzzyProfile, p *domain.Product) float64 {
	var best float64
	for _, c := range p.Categories() {
		if d := profile.CategoryInterest[c]; d > best {
			best = d
		}
	}
	return best
}

func normalize(v, max float64) float64 {
	if max <= 0 {
		return 0
	}
	n := v / max
	if n > 1 {
		return 1
	}
	if n < 0 {
		return 0
	}
	return n
}
