// Package engine implements the core business logic loops: derived-artifact
// refresh, recommendation serving, forecasting, and debug introspection.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/lmoretti/storeiq/internal/assoc"
	"github.com/lmoretti/storeiq/internal/config"
	"github.com/lmoretti/storeiq/internal/feature"
	"github.com/lmoretti/storeiq/internal/forecast"
	"github.com/lmoretti/storeiq/internal/fuzzy"
	"github.com/lmoretti/storeiq/internal/metrics"
	"github.com/lmoretti/storeiq/internal/sentiment"
	"github.com/lmoretti/storeiq/internal/similarity"
	"github.com/lmoretti/storeiq/internal/store"
	domain "github.com/lmoretti/storeiq/pkg/types"
)

const coldStartSampleSize = 20

// Engine orchestrates the five subsystems: similarity, association mining,
// sentiment, fuzzy recommendation, and forecasting. It holds the
// process-wide active strategy behind a mutex so an administrator can
// switch it at runtime without racing readers.
type Engine struct {
	store    store.Store
	sim      *similarity.Engine
	cfg      *config.Config
	log      *slog.Logger
	triggers *rate.Limiter

	mu     sync.RWMutex
	active domain.Strategy

	jobMu        sync.Mutex
	lastMining   domain.MiningStats
	lastMiningAt time.Time
}

// NewEngine creates a new Engine with injected dependencies.
func NewEngine(s store.Store, cfg *config.Config, opts ...EngineOption) *Engine {
	eng := &Engine{
		store: s,
		cfg:   cfg,
		sim: similarity.NewEngine(similarity.Config{
			Weights:          toFeatureWeights(cfg.Similarity.Weights),
			ContentThreshold: cfg.Similarity.ContentThreshold,
			CollabThreshold:  cfg.Similarity.CollabThreshold,
		}),
		log:    slog.Default(),
		active: domain.Strategy(cfg.Similarity.DefaultStrategy),
		triggers: rate.NewLimiter(
			rate.Limit(cfg.Triggers.PerMinute/60),
			cfg.Triggers.Burst,
		),
	}
	for _, opt := range opts {
		opt(eng)
	}
	return eng
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.log = l
	}
}

// ActiveStrategy returns the currently selected recommendation strategy.
func (e *Engine) ActiveStrategy() domain.Strategy {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.active
}

// SetActiveStrategy switches the serving strategy at runtime.
func (e *Engine) SetActiveStrategy(s domain.Strategy) error {
	if !s.Valid() {
		return fmt.Errorf("unknown strategy %q", s)
	}
	e.mu.Lock()
	e.active = s
	e.mu.Unlock()
	e.log.Info("active strategy changed", "strategy", s)
	return nil
}

// AllowTrigger reports whether a manual recompute trigger is within the
// rate budget. Refresh storms from admin tooling must not stack
// full-catalog recomputes.
func (e *Engine) AllowTrigger() bool {
	return e.triggers.Allow()
}

// Recommendation is a ranked product list plus how it was produced.
type Recommendation struct {
	Products []domain.ScoredProduct `json:"products"`
	Strategy domain.Strategy        `json:"strategy"`
	Fallback bool                   `json:"fallback"`
}

// SimilarProducts returns the top-k neighbors of a product under the
// active strategy. An unknown product yields an empty list.
func (e *Engine) SimilarProducts(ctx context.Context, productID string, k int) (*Recommendation, error) {
	strategy := e.ActiveStrategy()

	neighbors, err := e.sim.Similar(productID, strategy, k)
	if err != nil {
		return nil, fmt.Errorf("similarity lookup for %s: %w", productID, err)
	}

	metrics.RecommendationsTotal.WithLabelValues(string(strategy)).Inc()
	return &Recommendation{Products: neighbors, Strategy: strategy}, nil
}

// RecommendForUser recommends products for a user by merging the neighbor
// lists of their purchase history under the active strategy. Users with no
// history get the cold-start fallback: a sample of recent products.
func (e *Engine) RecommendForUser(ctx context.Context, userID string, k int) (*Recommendation, error) {
	strategy := e.ActiveStrategy()

	history, err := e.store.ListUserPurchases(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading purchases for %s: %w", userID, err)
	}

	owned := make(map[string]bool, len(history))
	for _, ev := range history {
		owned[ev.ProductID] = true
	}

	// Accumulate neighbor scores across everything the user bought.
	scores := make(map[string]float64)
	for id := range owned {
		neighbors, err := e.sim.Similar(id, strategy, 0)
		if err != nil {
			return nil, err
		}
		for _, n := range neighbors {
			if !owned[n.ProductID] {
				scores[n.ProductID] += n.Score
			}
		}
	}

	if len(scores) == 0 {
		return e.coldStart(ctx, strategy, k)
	}

	ranked := make([]domain.ScoredProduct, 0, len(scores))
	for id, score := range scores {
		ranked = append(ranked, domain.ScoredProduct{ProductID: id, Score: score})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].ProductID < ranked[j].ProductID
	})
	if k > 0 && len(ranked) > k {
		ranked = ranked[:k]
	}

	metrics.RecommendationsTotal.WithLabelValues(string(strategy)).Inc()
	return &Recommendation{Products: ranked, Strategy: strategy}, nil
}

// coldStart serves a recent-product sample when no personalization data
// exists for the user yet.
func (e *Engine) coldStart(ctx context.Context, strategy domain.Strategy, k int) (*Recommendation, error) {
	if k <= 0 || k > coldStartSampleSize {
		k = coldStartSampleSize
	}

	products, err := e.store.ListRecentProducts(ctx, k)
	if err != nil {
		return nil, fmt.Errorf("cold start sample: %w", err)
	}

	out := make([]domain.ScoredProduct, len(products))
	for i := range products {
		out[i] = domain.ScoredProduct{ProductID: products[i].ID}
	}

	metrics.ColdStartTotal.Inc()
	return &Recommendation{Products: out, Strategy: strategy, Fallback: true}, nil
}

// FuzzyRecommend ranks all products for a user with the fuzzy rule base,
// returning per-rule activation traces.
func (e *Engine) FuzzyRecommend(ctx context.Context, userID string, k int) ([]domain.FuzzyResult, error) {
	products, err := e.store.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	opinions, err := e.store.ListOpinions(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading opinions: %w", err)
	}
	events, err := e.store.ListPurchaseEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading purchase events: %w", err)
	}

	prices := make(map[string]float64, len(products))
	for i := range products {
		prices[products[i].ID] = products[i].Price
	}

	var history []domain.PurchaseEvent
	popularity := make(map[string]float64)
	for _, ev := range events {
		popularity[ev.ProductID]++
		if ev.UserID == userID {
			history = append(history, ev)
		}
	}

	profile := fuzzy.BuildProfile(userID, history, func(id string) float64 {
		return prices[id]
	}, time.Now())

	ratingSum := make(map[string]float64)
	ratingCount := make(map[string]float64)
	for _, o := range opinions {
		ratingSum[o.ProductID] += float64(o.Rating)
		ratingCount[o.ProductID]++
	}

	candidates := make([]fuzzy.Candidate, 0, len(products))
	var maxPop float64
	for _, n := range popularity {
		if n > maxPop {
			maxPop = n
		}
	}
	for i := range products {
		p := products[i]
		var rating float64
		if ratingCount[p.ID] > 0 {
			rating = ratingSum[p.ID] / ratingCount[p.ID]
		}
		candidates = append(candidates, fuzzy.Candidate{
			Product:    p,
			Rating:     rating,
			Popularity: popularity[p.ID],
		})
	}

	rec := fuzzy.NewRecommender(nil, fuzzy.Bounds{
		MaxPrice:      e.cfg.Fuzzy.MaxPrice,
		MaxPopularity: maxIfPositive(maxPop, e.cfg.Fuzzy.MaxPopularity),
	})

	results := rec.Recommend(profile, candidates)
	if k > 0 && len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// DemandForecast projects a product's demand over the configured horizon.
// Products with too little history yield an insufficient-data result,
// never an error surfaced to callers.
func (e *Engine) DemandForecast(ctx context.Context, productID string) (forecast.DemandForecast, error) {
	events, err := e.store.ListPurchaseEvents(ctx)
	if err != nil {
		return forecast.DemandForecast{}, fmt.Errorf("loading purchase events: %w", err)
	}

	var own []domain.PurchaseEvent
	for _, ev := range events {
		if ev.ProductID == productID {
			own = append(own, ev)
		}
	}

	f := e.demandForecaster()
	df, err := f.Forecast(productID, own, time.Now())
	if err != nil {
		// Insufficient history is a soft degradation; the flagged result
		// carries the explanation.
		e.log.Debug("demand forecast degraded", "product", productID, "error", err)
	}
	return df, nil
}

// NextPurchase predicts a user's next purchase category distribution and
// expected days to the next purchase.
func (e *Engine) NextPurchase(ctx context.Context, userID string) (forecast.NextPurchase, error) {
	events, err := e.store.ListPurchaseEvents(ctx)
	if err != nil {
		return forecast.NextPurchase{}, fmt.Errorf("loading purchase events: %w", err)
	}

	matrix := forecast.NewTransitionMatrix(events)

	var history []domain.PurchaseEvent
	for _, ev := range events {
		if ev.UserID == userID {
			history = append(history, ev)
		}
	}

	np, err := forecast.PredictNextPurchase(matrix, userID, history, e.cfg.Forecast.MinObservations, time.Now())
	if err != nil {
		e.log.Debug("next purchase degraded", "user", userID, "error", err)
	}
	return np, nil
}

// UserInsights returns a user's Bayesian category preferences and churn
// risk.
func (e *Engine) UserInsights(ctx context.Context, userID string) (forecast.CategoryPosterior, forecast.ChurnInsight, error) {
	events, err := e.store.ListPurchaseEvents(ctx)
	if err != nil {
		return forecast.CategoryPosterior{}, forecast.ChurnInsight{}, fmt.Errorf("loading purchase events: %w", err)
	}

	categorySet := make(map[string]bool)
	var history []domain.PurchaseEvent
	for _, ev := range events {
		if ev.Category != "" {
			categorySet[ev.Category] = true
		}
		if ev.UserID == userID {
			history = append(history, ev)
		}
	}
	categories := make([]string, 0, len(categorySet))
	for c := range categorySet {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	posterior := forecast.NewCategoryPosterior(userID, categories, history)

	churn, err := forecast.ChurnRiskFor(userID, history, e.cfg.Forecast.MinObservations, time.Now())
	if err != nil {
		e.log.Debug("churn insight degraded", "user", userID, "error", err)
	}

	return posterior, churn, nil
}

func (e *Engine) demandForecaster() *forecast.DemandForecaster {
	return &forecast.DemandForecaster{
		HorizonDays:     e.cfg.Forecast.HorizonDays,
		WindowDays:      e.cfg.Forecast.WindowDays,
		MinObservations: e.cfg.Forecast.MinObservations,
	}
}

func (e *Engine) miningThresholds() assoc.Thresholds {
	return assoc.Thresholds{
		MinSupport:    e.cfg.Mining.MinSupport,
		MinConfidence: e.cfg.Mining.MinConfidence,
		MinLift:       e.cfg.Mining.MinLift,
	}
}

func (e *Engine) sentimentWeights() sentiment.Weights {
	return sentiment.Weights{
		Opinions:    e.cfg.Sentiment.Weights.Opinions,
		Description: e.cfg.Sentiment.Weights.Description,
		Name:        e.cfg.Sentiment.Weights.Name,
		Specs:       e.cfg.Sentiment.Weights.Specs,
		Categories:  e.cfg.Sentiment.Weights.Categories,
	}
}

func toFeatureWeights(w config.FeatureWeights) feature.Weights {
	return feature.Weights{
		Category: w.Category,
		Tag:      w.Tag,
		Price:    w.Price,
		Keyword:  w.Keyword,
	}
}

func maxIfPositive(observed, configured float64) float64 {
	if observed > 0 {
		return observed
	}
	return configured
}
