package forecast

import (
	"fmt"
	"math"
	"sort"
	"time"

	domain "github.com/lmoretti/storeiq/pkg/types"
)

// churnHalfLife controls how fast inactivity raises churn risk.
const churnHalfLife = 60 * 24 * time.Hour

// CategoryPosterior is a user's category-preference belief distribution.
type CategoryPosterior struct {
	UserID       string             `json:"user_id"`
	Probs        map[string]float64 `json:"probs"`
	Observations int                `json:"observations"`
}

// NewCategoryPosterior starts from a uniform prior over the known
// categories and folds in every purchase as likelihood evidence.
func NewCategoryPosterior(userID string, categories []string, events []domain.PurchaseEvent) CategoryPosterior {
	post := CategoryPosterior{
		UserID: userID,
		Probs:  make(map[string]float64, len(categories)),
	}
	if len(categories) == 0 {
		return post
	}

	// Uniform prior.
	u := 1 / float64(len(categories))
	for _, c := range categories {
		post.Probs[c] = u
	}

	for _, ev := range events {
		if _, ok := post.Probs[ev.Category]; !ok {
			continue
		}
		post.Update(ev.Category)
	}
	return post
}

// Update performs one Bayesian update for an observed category purchase:
// posterior = prior * likelihood, renormalized. The likelihood boosts the
// observed category and flattens the rest.
func (p *CategoryPosterior) Update(category string) {
	const boost = 2.0

	for c := range p.Probs {
		if c == category {
			p.Probs[c] *= boost
		}
	}
	p.Probs = Normalize(p.Probs)
	p.Observations++
}

// Top returns the k most probable categories, descending.
func (p *CategoryPosterior) Top(k int) []domain.ScoredProduct {
	out := make([]domain.ScoredProduct, 0, len(p.Probs))
	for c, prob := range p.Probs {
		out = append(out, domain.ScoredProduct{ProductID: c, Score: prob})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].ProductID < out[j].ProductID
	})
	if k > 0 && len(out) > k {
		out = out[:k]
	}
	return out
}

// ChurnInsight is the derived churn risk for one user.
type ChurnInsight struct {
	UserID       string           `json:"user_id"`
	Score        float64          `json:"score"`
	Risk         domain.ChurnRisk `json:"risk"`
	DaysSince    float64          `json:"days_since_last_purchase"`
	MeanInterval float64          `json:"mean_interval_days"`
	Observations int              `json:"observations"`
	Insufficient bool             `json:"insufficient_data"`
}

// ChurnRisk scores churn from recency and frequency decay. A user whose
// silence is long relative to their own purchase rhythm scores high. With
// fewer than minObs purchases the result is the neutral medium bucket,
// flagged insufficient, alongside ErrInsufficientData.
func ChurnRiskFor(userID string, events []domain.PurchaseEvent, minObs int, now time.Time) (ChurnInsight, error) {
	out := ChurnInsight{UserID: userID, Observations: len(events)}

	if len(events) < minObs {
		out.Score = 0.5
		out.Risk = domain.BucketChurn(out.Score)
		out.Insufficient = true
		return out, fmt.Errorf("user %s: %d purchases: %w", userID, len(events), ErrInsufficientData)
	}

	sorted := make([]domain.PurchaseEvent, len(events))
	copy(sorted, events)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].OccurredAt.Before(sorted[j].OccurredAt)
	})

	last := sorted[len(sorted)-1].OccurredAt
	out.DaysSince = now.Sub(last).Hours() / 24

	intervals := make([]float64, 0, len(sorted)-1)
	for i := 1; i < len(sorted); i++ {
		intervals = append(intervals,
			sorted[i].OccurredAt.Sub(sorted[i-1].OccurredAt).Hours()/24)
	}
	out.MeanInterval = Mean(intervals)

	// Recency component: decays toward 1 as silence grows.
	recency := 1 - math.Exp2(-now.Sub(last).Hours()/churnHalfLife.Hours())

	// Frequency component: silence measured in units of the user's own
	// mean interval; overdue users trend toward 1.
	frequency := 0.5
	if out.MeanInterval > 0 {
		frequency = 1 - math.Exp2(-out.DaysSince/(2*out.MeanInterval))
	}

	out.Score = clamp01(0.5*recency + 0.5*frequency)
	out.Risk = domain.BucketChurn(out.Score)
	return out, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
