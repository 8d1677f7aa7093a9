// Package fuzzy implements Mamdani-style fuzzy inference for recommendation
// scoring: fuzzification over triangular/trapezoidal membership functions,
// min/max rule evaluation, and weighted-average defuzzification.
package fuzzy

// MembershipFunc maps a crisp value to a membership degree in [0,1].
type MembershipFunc interface {
	Degree(x float64) float64
}

// Triangular is the classic triangle (a, b, c): 0 outside [a,c], 1 at b.
type Triangular struct {
	A, B, C float64
}

// Degree implements MembershipFunc.
func (t Triangular) Degree(x float64) float64 {
	switch {
	case x <= t.A || x >= t.C:
		return 0
	case x == t.B:
		return 1
	case x < t.B:
		return (x - t.A) / (t.B - t.A)
	default:
		return (t.C - x) / (t.C - t.B)
	}
}

// Trapezoidal is the trapezoid (a, b, c, d): 1 on [b,c], 0 outside [a,d].
type Trapezoidal struct {
	A, B, C, D float64
}

// Degree implements MembershipFunc.
func (t Trapezoidal) Degree(x float64) float64 {
	switch {
	case x >= t.B && x <= t.C:
		return 1
	case x <= t.A || x >= t.D:
		return 0
	case x < t.B:
		return (x - t.A) / (t.B - t.A)
	default:
		return (t.D - x) / (t.D - t.C)
	}
}

// Variable is a linguistic variable: a named set of terms over one crisp
// input. The crisp input is expected normalized to [0,1].
type Variable struct {
	Name  string
	Terms map[string]MembershipFunc
}

// Fuzzify computes every term's degree for the crisp value, keyed
// "variable.term".
func (v Variable) Fuzzify(x float64, into map[string]float64) {
	for term, mf := range v.Terms {
		into[v.Name+"."+term] = mf.Degree(x)
	}
}

// three builds the standard low/medium/high partition over [0,1]. The
// shoulders mirror each other so the three degrees sum to 1 everywhere
// (a Ruspini partition); without that, scores can dip as an input crosses
// between terms.
func three(name string) Variable {
	return Variable{
		Name: name,
		Terms: map[string]MembershipFunc{
			"low":    Trapezoidal{A: -1, B: 0, C: 0.2, D: 0.5},
			"medium": Triangular{A: 0.2, B: 0.5, C: 0.8},
			"high":   Trapezoidal{A: 0.5, B: 0.8, C: 1, D: 2},
		},
	}
}

// priceVariable partitions normalized price into cheap/moderate/expensive,
// shifted low of center; same Ruspini structure as three.
func priceVariable() Variable {
	return Variable{
		Name: "price",
		Terms: map[string]MembershipFunc{
			"cheap":     Trapezoidal{A: -1, B: 0, C: 0.15, D: 0.45},
			"moderate":  Triangular{A: 0.15, B: 0.45, C: 0.75},
			"expensive": Trapezoidal{A: 0.45, B: 0.75, C: 1, D: 2},
		},
	}
}
