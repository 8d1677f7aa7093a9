// Package domain defines the core business types for storeiq.
package domain

import (
	"strings"
	"time"
)

// Strategy identifies a similarity/recommendation strategy.
type Strategy string

// Strategy constants.
const (
	StrategyContentBased  Strategy = "content_based"
	StrategyCollaborative Strategy = "collaborative"
)

// Valid reports whether s is a known strategy.
func (s Strategy) Valid() bool {
	return s == StrategyContentBased || s == StrategyCollaborative
}

// Product is a catalog product as read from the catalog store.
// Identity is immutable; attributes are maintained externally.
type Product struct {
	ID            string            `json:"id"                    db:"id"`
	Name          string            `json:"name"                  db:"name"`
	Price         float64           `json:"price"                 db:"price"`
	CategoryPaths []string          `json:"category_paths"        db:"category_paths"`
	Tags          []string          `json:"tags"                  db:"tags"`
	Description   string            `json:"description,omitempty" db:"description"`
	Specs         map[string]string `json:"specs,omitempty"       db:"specs"`
	CreatedAt     time.Time         `json:"created_at"            db:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"            db:"updated_at"`
}

// Categories returns every category prefix of every path, so
// "electronics.laptops" yields "electronics" and "electronics.laptops".
func (p *Product) Categories() []string {
	var out []string
	seen := make(map[string]bool)
	for _, path := range p.CategoryPaths {
		segs := strings.Split(path, ".")
		for i := range segs {
			prefix := strings.Join(segs[:i+1], ".")
			if !seen[prefix] {
				seen[prefix] = true
				out = append(out, prefix)
			}
		}
	}
	return out
}

// LeafCategory returns the last segment of the first category path,
// or "" when the product has no category.
func (p *Product) LeafCategory() string {
	if len(p.CategoryPaths) == 0 {
		return ""
	}
	segs := strings.Split(p.CategoryPaths[0], ".")
	return segs[len(segs)-1]
}

// Opinion is a user review of a product.
type Opinion struct {
	ID        string    `json:"id"         db:"id"`
	ProductID string    `json:"product_id" db:"product_id"`
	UserID    string    `json:"user_id"    db:"user_id"`
	Rating    int       `json:"rating"     db:"rating"`
	Text      string    `json:"text"       db:"text"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Order is a purchase transaction. For itemset mining an order reduces to
// its distinct product id set; quantities collapse to presence.
type Order struct {
	ID         string    `json:"id"          db:"id"`
	UserID     string    `json:"user_id"     db:"user_id"`
	ProductIDs []string  `json:"product_ids" db:"product_ids"`
	PlacedAt   time.Time `json:"placed_at"   db:"placed_at"`
}

// DistinctProducts returns the deduplicated product id set of the order.
func (o *Order) DistinctProducts() []string {
	seen := make(map[string]bool, len(o.ProductIDs))
	out := make([]string, 0, len(o.ProductIDs))
	for _, id := range o.ProductIDs {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// PurchaseEvent is a single (user, product, category, time) purchase
// observation, the unit of history for forecasting and fuzzy profiles.
type PurchaseEvent struct {
	UserID     string    `json:"user_id"     db:"user_id"`
	ProductID  string    `json:"product_id"  db:"product_id"`
	Category   string    `json:"category"    db:"category"`
	Quantity   int       `json:"quantity"    db:"quantity"`
	OccurredAt time.Time `json:"occurred_at" db:"occurred_at"`
}

// SimilarityEntry is one cached pairwise similarity score. Pairs are stored
// once with ProductA < ProductB; the relation is symmetric.
type SimilarityEntry struct {
	ProductA   string    `json:"product_a"   db:"product_a"`
	ProductB   string    `json:"product_b"   db:"product_b"`
	Score      float64   `json:"score"       db:"score"`
	Strategy   Strategy  `json:"strategy"    db:"strategy"`
	ComputedAt time.Time `json:"computed_at" db:"computed_at"`
}

// ScoredProduct is a (product, score) pair in a ranked result.
type ScoredProduct struct {
	ProductID string  `json:"product_id"`
	Score     float64 `json:"score"`
}

// AssociationRule is a directional "frequently bought together" rule.
type AssociationRule struct {
	Antecedent string  `json:"antecedent" db:"antecedent"`
	Consequent string  `json:"consequent" db:"consequent"`
	Support    float64 `json:"support"    db:"support"`
	Confidence float64 `json:"confidence" db:"confidence"`
	Lift       float64 `json:"lift"       db:"lift"`
}

// MiningStats reports the transaction counts a mining run was computed
// over. Returned alongside rules so callers can diagnose empty results.
type MiningStats struct {
	TotalTransactions     int `json:"total_transactions"`
	MultiItemTransactions int `json:"multi_item_transactions"`
	CandidatePairs        int `json:"candidate_pairs"`
	RulesGenerated        int `json:"rules_generated"`
}

// SentimentCategory is the banded classification of a sentiment score.
type SentimentCategory string

// Sentiment category constants (score > 0.1 positive, < -0.1 negative).
const (
	SentimentPositive SentimentCategory = "positive"
	SentimentNeutral  SentimentCategory = "neutral"
	SentimentNegative SentimentCategory = "negative"
)

// SourceScore is the per-source sentiment breakdown, including the exact
// word-level matches the score was computed from.
type SourceScore struct {
	Source        string            `json:"source"`
	Weight        float64           `json:"weight"`
	Score         float64           `json:"score"`
	Category      SentimentCategory `json:"category"`
	PositiveWords []string          `json:"positive_words,omitempty"`
	NegativeWords []string          `json:"negative_words,omitempty"`
	PositiveCount int               `json:"positive_count"`
	NegativeCount int               `json:"negative_count"`
	TotalWords    int               `json:"total_words"`
	Absent        bool              `json:"absent"`
}

// SentimentRecord is the per-product aggregate sentiment.
type SentimentRecord struct {
	ProductID     string            `json:"product_id"     db:"product_id"`
	Score         float64           `json:"score"          db:"score"`
	Category      SentimentCategory `json:"category"       db:"category"`
	PositiveCount int               `json:"positive_count" db:"positive_count"`
	NegativeCount int               `json:"negative_count" db:"negative_count"`
	NeutralCount  int               `json:"neutral_count"  db:"neutral_count"`
	Sources       []SourceScore     `json:"sources"`
	ComputedAt    time.Time         `json:"computed_at"    db:"computed_at"`
}

// FuzzyProfile holds a user's membership degrees over the linguistic
// variables the fuzzy recommender reasons about. Degrees are in [0,1];
// with no history every degree sits at the neutral prior 0.5.
type FuzzyProfile struct {
	UserID            string             `json:"user_id"`
	PriceSensitivity  float64            `json:"price_sensitivity"`
	QualityPreference float64            `json:"quality_preference"`
	CategoryInterest  map[string]float64 `json:"category_interest"`
}

// RuleActivation is one fuzzy rule's firing trace for a product.
type RuleActivation struct {
	Rule       string  `json:"rule"`
	Strength   float64 `json:"strength"`
	Consequent float64 `json:"consequent"`
}

// FuzzyResult is a ranked candidate with its full activation trace.
type FuzzyResult struct {
	ProductID     string           `json:"product_id"`
	Score         float64          `json:"score"`
	CategoryMatch float64          `json:"category_match"`
	Activations   []RuleActivation `json:"activations"`
}

// ForecastPoint is one day of a demand forecast. By construction
// Low <= Predicted <= High and the interval is non-negative.
type ForecastPoint struct {
	ProductID string    `json:"product_id" db:"product_id"`
	Date      time.Time `json:"date"       db:"date"`
	Predicted float64   `json:"predicted"  db:"predicted"`
	Low       float64   `json:"low"        db:"low"`
	High      float64   `json:"high"       db:"high"`
	Accuracy  float64   `json:"accuracy"   db:"accuracy"`
}

// ChurnRisk buckets a churn score with fixed thresholds.
type ChurnRisk string

// Churn risk constants (<0.3 low, <0.7 medium, >=0.7 high).
const (
	ChurnLow    ChurnRisk = "low"
	ChurnMedium ChurnRisk = "medium"
	ChurnHigh   ChurnRisk = "high"
)

// BucketChurn maps a churn score to its risk bucket.
func BucketChurn(score float64) ChurnRisk {
	switch {
	case score < 0.3:
		return ChurnLow
	case score < 0.7:
		return ChurnMedium
	default:
		return ChurnHigh
	}
}

// JobRun records one execution of a scheduled or triggered recompute job.
type JobRun struct {
	ID           string     `json:"id"                    db:"id"`
	JobName      string     `json:"job_name"              db:"job_name"`
	Status       string     `json:"status"                db:"status"`
	Error        string     `json:"error,omitempty"       db:"error"`
	RowsAffected int        `json:"rows_affected"         db:"rows_affected"`
	StartedAt    time.Time  `json:"started_at"            db:"started_at"`
	FinishedAt   *time.Time `json:"finished_at,omitempty" db:"finished_at"`
}

// SystemState is the aggregate count snapshot for operator tooling.
type SystemState struct {
	Products            int        `json:"products"`
	Orders              int        `json:"orders"`
	Opinions            int        `json:"opinions"`
	ContentSimilarities int        `json:"content_similarities"`
	CollabSimilarities  int        `json:"collab_similarities"`
	AssociationRules    int        `json:"association_rules"`
	SentimentRecords    int        `json:"sentiment_records"`
	ForecastPoints      int        `json:"forecast_points"`
	LastSimilarityRun   *time.Time `json:"last_similarity_run,omitempty"`
	LastRuleMiningRun   *time.Time `json:"last_rule_mining_run,omitempty"`
	LastSentimentRun    *time.Time `json:"last_sentiment_run,omitempty"`
	LastForecastRun     *time.Time `json:"last_forecast_run,omitempty"`
}
