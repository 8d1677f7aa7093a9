package engine

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/lmoretti/storeiq/internal/fuzzy"
	domain "github.com/lmoretti/storeiq/pkg/types"
)

const debugTopN = 5

// AlgorithmReport explains one subsystem: what it computes, over which
// dataset, and a sample of its top artifacts so an operator can check the
// arithmetic by hand.
type AlgorithmReport struct {
	Algorithm  string         `json:"algorithm"`
	Formula    string         `json:"formula"`
	Stats      map[string]any `json:"stats"`
	Top        any            `json:"top,omitempty"`
	CanCompute bool           `json:"can_compute"`
	Issues     []string       `json:"issues,omitempty"`
}

// DebugReport aggregates every subsystem's report plus the active strategy.
type DebugReport struct {
	ActiveStrategy domain.Strategy  `json:"active_strategy"`
	Similarity     *AlgorithmReport `json:"similarity"`
	Association    *AlgorithmReport `json:"association"`
	Sentiment      *AlgorithmReport `json:"sentiment"`
	Fuzzy          *AlgorithmReport `json:"fuzzy"`
	Forecast       *AlgorithmReport `json:"forecast"`
	GeneratedAt    time.Time        `json:"generated_at"`
}

// Debug assembles the full introspection report.
func (e *Engine) Debug(ctx context.Context) (*DebugReport, error) {
	simReport, err := e.debugSimilarity()
	if err != nil {
		return nil, err
	}
	assocReport, err := e.debugAssociation(ctx)
	if err != nil {
		return nil, err
	}
	sentReport, err := e.debugSentiment(ctx)
	if err != nil {
		return nil, err
	}
	forecastReport, err := e.debugForecast(ctx)
	if err != nil {
		return nil, err
	}

	return &DebugReport{
		ActiveStrategy: e.ActiveStrategy(),
		Similarity:     simReport,
		Association:    assocReport,
		Sentiment:      sentReport,
		Fuzzy:          e.debugFuzzy(),
		Forecast:       forecastReport,
		GeneratedAt:    time.Now().UTC(),
	}, nil
}

func (e *Engine) debugSimilarity() (*AlgorithmReport, error) {
	report := &AlgorithmReport{
		Algorithm: "cosine similarity (content-based + item-based collaborative)",
		Formula:   "cos(a,b) = dot(a,b) / (|a| * |b|)",
		Stats:     map[string]any{},
	}

	for _, strategy := range []domain.Strategy{domain.StrategyContentBased, domain.StrategyCollaborative} {
		stats, refreshed, err := e.sim.StrategyStats(strategy)
		if err != nil {
			return nil, err
		}
		report.Stats[string(strategy)] = map[string]any{
			"refreshed":  refreshed,
			"products":   stats.Products,
			"users":      stats.Users,
			"dimensions": stats.Dimensions,
			"pairs":      stats.Pairs,
			"kept":       stats.Kept,
			"skipped":    stats.Skipped,
			"sparsity":   stats.Sparsity,
		}
		if !refreshed {
			report.Issues = append(report.Issues,
				fmt.Sprintf("%s snapshot has never been refreshed", strategy))
		} else if stats.Kept == 0 {
			report.Issues = append(report.Issues,
				fmt.Sprintf("%s snapshot kept no pairs; thresholds may be too strict for this catalog", strategy))
		}
	}

	active := e.ActiveStrategy()
	if stats, refreshed, _ := e.sim.StrategyStats(active); refreshed && stats.Kept > 0 {
		report.CanCompute = true
		if entries, err := e.sim.Entries(active); err == nil {
			report.Top = topEntries(entries, debugTopN)
		}
	}
	return report, nil
}

func (e *Engine) debugAssociation(ctx context.Context) (*AlgorithmReport, error) {
	rules, err := e.store.ListRules(ctx, debugTopN)
	if err != nil {
		return nil, fmt.Errorf("loading rules: %w", err)
	}

	e.jobMu.Lock()
	stats := e.lastMining
	minedAt := e.lastMiningAt
	e.jobMu.Unlock()

	report := &AlgorithmReport{
		Algorithm: "apriori pair mining",
		Formula:   "support(A,B) = count(A,B)/N; confidence(A=>B) = support(A,B)/support(A); lift = confidence/support(B)",
		Stats: map[string]any{
			"total_transactions":      stats.TotalTransactions,
			"multi_item_transactions": stats.MultiItemTransactions,
			"candidate_pairs":         stats.CandidatePairs,
			"rules_generated":         stats.RulesGenerated,
		},
		Top:        rules,
		CanCompute: len(rules) > 0,
	}
	if !minedAt.IsZero() {
		report.Stats["mined_at"] = minedAt.UTC()
	}
	if stats.TotalTransactions == 0 {
		report.Issues = append(report.Issues, "no orders available; mining produces an empty rule set")
	} else if stats.MultiItemTransactions == 0 {
		report.Issues = append(report.Issues, "no multi-item orders; pair mining needs baskets with at least two distinct products")
	} else if len(rules) == 0 {
		report.Issues = append(report.Issues, "all candidate pairs fell below the support/confidence/lift thresholds")
	}
	return report, nil
}

func (e *Engine) debugSentiment(ctx context.Context) (*AlgorithmReport, error) {
	state, err := e.store.GetSystemState(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading system state: %w", err)
	}

	records, err := e.store.ListSentiments(ctx, debugTopN)
	if err != nil {
		return nil, fmt.Errorf("loading sentiments: %w", err)
	}

	report := &AlgorithmReport{
		Algorithm: "weighted multi-source lexicon sentiment",
		Formula:   "score(source) = (positive - negative) / total_words; total = sum(weight_i * score_i), clipped to [-1,1]",
		Stats: map[string]any{
			"products":          state.Products,
			"opinions":          state.Opinions,
			"sentiment_records": state.SentimentRecords,
			"last_run":          state.LastSentimentRun,
		},
		// Each record's Sources breakdown carries the word counts and
		// per-source arithmetic behind the final score.
		Top:        records,
		CanCompute: state.Products > 0,
	}
	if state.Products == 0 {
		report.Issues = append(report.Issues, "empty catalog; nothing to score")
	} else if state.SentimentRecords == 0 {
		report.Issues = append(report.Issues, "no sentiment records yet; run the sentiment refresh")
	}
	return report, nil
}

func (e *Engine) debugFuzzy() *AlgorithmReport {
	return &AlgorithmReport{
		Algorithm: "mamdani fuzzy inference",
		Formula:   "activation = min over AND terms, max over OR terms; score = sum(activation_i * consequent_i) / sum(activation_i)",
		Stats: map[string]any{
			"rules":          len(e.fuzzyRuleNames()),
			"rule_names":     e.fuzzyRuleNames(),
			"max_price":      e.cfg.Fuzzy.MaxPrice,
			"max_popularity": e.cfg.Fuzzy.MaxPopularity,
		},
		// The rule base is static; fuzzy scoring is always available, it
		// just degrades to the neutral profile for unknown users.
		CanCompute: true,
	}
}

func (e *Engine) debugForecast(ctx context.Context) (*AlgorithmReport, error) {
	state, err := e.store.GetSystemState(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading system state: %w", err)
	}

	report := &AlgorithmReport{
		Algorithm: "moving-average demand forecast + markov next-purchase + bayesian preference/churn",
		Formula:   "predicted(d) = MA7 + trend*d; CI = predicted +/- 1.96*stddev; P(next|current) from row-stochastic transition counts",
		Stats: map[string]any{
			"products":         state.Products,
			"orders":           state.Orders,
			"forecast_points":  state.ForecastPoints,
			"horizon_days":     e.cfg.Forecast.HorizonDays,
			"window_days":      e.cfg.Forecast.WindowDays,
			"min_observations": e.cfg.Forecast.MinObservations,
			"last_run":         state.LastForecastRun,
		},
		CanCompute: state.Orders > 0,
	}
	if state.Orders == 0 {
		report.Issues = append(report.Issues, "no purchase history; forecasts need observed demand")
	} else if state.ForecastPoints == 0 {
		report.Issues = append(report.Issues, "no forecast points yet; run the forecast refresh or lower min_observations")
	}
	return report, nil
}

func (e *Engine) fuzzyRuleNames() []string {
	rules := fuzzy.DefaultRules()
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.Name
	}
	return names
}

func topEntries(entries []domain.SimilarityEntry, n int) []domain.SimilarityEntry {
	sorted := make([]domain.SimilarityEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Score != sorted[j].Score {
			return sorted[i].Score > sorted[j].Score
		}
		if sorted[i].ProductA != sorted[j].ProductA {
			return sorted[i].ProductA < sorted[j].ProductA
		}
		return sorted[i].ProductB < sorted[j].ProductB
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
