// Package assoc mines "frequently bought together" association rules from
// order transactions with a pair-restricted Apriori pass.
package assoc

import (
	"sort"

	domain "github.com/lmoretti/storeiq/pkg/types"
)

// Thresholds are the minimum metrics a rule must clear to be retained.
type Thresholds struct {
	MinSupport    float64
	MinConfidence float64
	MinLift       float64
}

type pair struct {
	a, b string // a < b
}

// MineRules runs the level-wise Apriori pass over the transactions and
// returns every directional rule clearing all three thresholds, plus the
// counts the run was computed over. Deterministic for identical input;
// re-running replaces rather than accumulates. An empty transaction set
// yields an empty rule list with the stats explaining why.
func MineRules(orders []domain.Order, th Thresholds) ([]domain.AssociationRule, domain.MiningStats) {
	stats := domain.MiningStats{TotalTransactions: len(orders)}
	if len(orders) == 0 {
		return []domain.AssociationRule{}, stats
	}

	total := float64(len(orders))

	// Pass 1: single-item supports. Single-product orders count here (they
	// grow the denominators) but never form pairs.
	itemCount := make(map[string]int)
	txns := make([][]string, 0, len(orders))
	for i := range orders {
		items := orders[i].DistinctProducts()
		for _, id := range items {
			itemCount[id]++
		}
		if len(items) > 1 {
			sort.Strings(items)
			txns = append(txns, items)
			stats.MultiItemTransactions++
		}
	}

	// Apriori pruning: only items individually frequent enough can appear
	// in a frequent pair, so everything else is dropped before the O(n^2)
	// candidate generation.
	frequent := make(map[string]bool, len(itemCount))
	for id, n := range itemCount {
		if float64(n)/total >= th.MinSupport {
			frequent[id] = true
		}
	}

	// Pass 2: count co-occurrence of candidate pairs.
	pairCount := make(map[pair]int)
	for _, items := range txns {
		for i := 0; i < len(items); i++ {
			if !frequent[items[i]] {
				continue
			}
			for j := i + 1; j < len(items); j++ {
				if !frequent[items[j]] {
					continue
				}
				pairCount[pair{items[i], items[j]}]++
			}
		}
	}
	stats.CandidatePairs = len(pairCount)

	// Pass 3: metrics per direction.
	var rules []domain.AssociationRule
	for p, n := range pairCount {
		support := float64(n) / total
		if support < th.MinSupport {
			continue
		}

		supportA := float64(itemCount[p.a]) / total
		supportB := float64(itemCount[p.b]) / total

		rules = appendRule(rules, p.a, p.b, support, supportA, supportB, th)
		rules = appendRule(rules, p.b, p.a, support, supportB, supportA, th)
	}

	sort.Slice(rules, func(i, j int) bool {
		if rules[i].Lift != rules[j].Lift {
			return rules[i].Lift > rules[j].Lift
		}
		if rules[i].Antecedent != rules[j].Antecedent {
			return rules[i].Antecedent < rules[j].Antecedent
		}
		return rules[i].Consequent < rules[j].Consequent
	})

	stats.RulesGenerated = len(rules)
	if rules == nil {
		rules = []domain.AssociationRule{}
	}
	return rules, stats
}

// appendRule computes confidence and lift for one direction and appends the
// rule when it clears the thresholds.
//
//	confidence(A->B) = support(A,B) / support(A)
//	lift(A->B)       = confidence(A->B) / support(B)
func appendRule(
	rules []domain.AssociationRule,
	antecedent, consequent string,
	support, supportAnte, supportCons float64,
	th Thresholds,
) []domain.AssociationRule {
	if supportAnte == 0 || supportCons == 0 {
		return rules
	}

	confidence := support / supportAnte
	lift := confidence / supportCons

	if confidence < th.MinConfidence || lift < th.MinLift {
		return rules
	}

	return append(rules, domain.AssociationRule{
		Antecedent: antecedent,
		Consequent: consequent,
		Support:    support,
		Confidence: confidence,
		Lift:       lift,
	})
}
