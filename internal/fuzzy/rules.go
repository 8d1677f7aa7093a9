package fuzzy

// Expr is a fuzzy antecedent expression evaluated against the fuzzified
// input map ("variable.term" -> degree).
type Expr interface {
	Eval(memberships map[string]float64) float64
	String() string
}

type term string

func (t term) Eval(m map[string]float64) float64 { return m[string(t)] }
func (t term) String() string                    { return string(t) }

// Term references a fuzzified input by "variable.term" key.
func Term(name string) Expr { return term(name) }

type and struct{ exprs []Expr }

// And combines antecedents with the min T-norm.
func And(exprs ...Expr) Expr { return and{exprs} }

func (a and) Eval(m map[string]float64) float64 {
	v := 1.0
	for _, e := range a.exprs {
		if d := e.Eval(m); d < v {
			v = d
		}
	}
	return v
}

func (a and) String() string { return join(a.exprs, " AND ") }

type or struct{ exprs []Expr }

// Or combines antecedents with the max T-conorm.
func Or(exprs ...Expr) Expr { return or{exprs} }

func (o or) Eval(m map[string]float64) float64 {
	v := 0.0
	for _, e := range o.exprs {
		if d := e.Eval(m); d > v {
			v = d
		}
	}
	return v
}

func (o or) String() string { return join(o.exprs, " OR ") }

func join(exprs []Expr, sep string) string {
	s := "("
	for i, e := range exprs {
		if i > 0 {
			s += sep
		}
		s += e.String()
	}
	return s + ")"
}

// Rule maps an antecedent expression to a consequent region, identified by
// the region's representative value in [0,1].
type Rule struct {
	Name       string
	Antecedent Expr
	Consequent float64
}

// DefaultRules is the built-in recommendation rule base. Consequent values
// are the representative points of the suitability regions.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:       "cheap for price-sensitive user",
			Antecedent: And(Term("price.cheap"), Term("sensitivity.high")),
			Consequent: 0.9,
		},
		{
			Name:       "high rating for quality-focused user",
			Antecedent: And(Term("rating.high"), Term("quality.high")),
			Consequent: 0.9,
		},
		{
			Name:       "well-rated in a preferred category",
			Antecedent: And(Term("category.high"), Term("rating.high")),
			Consequent: 0.8,
		},
		{
			Name:       "popular or well-rated",
			Antecedent: Or(Term("popularity.high"), Term("rating.high")),
			Consequent: 0.6,
		},
		{
			Name:       "moderate price, decent rating",
			Antecedent: And(Term("price.moderate"), Term("rating.medium")),
			Consequent: 0.5,
		},
		{
			Name:       "expensive for price-sensitive user",
			Antecedent: And(Term("price.expensive"), Term("sensitivity.high")),
			Consequent: 0.15,
		},
		{
			Name:       "poorly rated",
			Antecedent: Term("rating.low"),
			Consequent: 0.1,
		},
		{
			Name:       "unpopular outside preferred categories",
			Antecedent: And(Term("category.low"), Term("popularity.low")),
			Consequent: 0.2,
		},
	}
}
