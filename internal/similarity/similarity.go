// Package similarity computes and caches pairwise product similarity for
// the content-based and collaborative strategies. Both strategies share one
// snapshot cache; a refresh builds a complete new snapshot and swaps it in
// atomically, so readers never observe a half-updated strategy.
package similarity

import (
	"errors"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"github.com/lmoretti/storeiq/internal/feature"
	domain "github.com/lmoretti/storeiq/pkg/types"
)

// Config holds the engine's thresholds and feature weighting.
type Config struct {
	Weights          feature.Weights
	ContentThreshold float64
	CollabThreshold  float64
}

// snapshot is one strategy's complete similarity table plus the dataset
// statistics it was computed from.
type snapshot struct {
	neighbors  map[string][]domain.ScoredProduct
	entries    []domain.SimilarityEntry
	stats      Stats
	computedAt time.Time
}

// Stats describes the dataset a snapshot was computed over.
type Stats struct {
	Products   int     `json:"products"`
	Users      int     `json:"users"`
	Dimensions int     `json:"dimensions"`
	Pairs      int     `json:"pairs"`
	Kept       int     `json:"kept"`
	Skipped    int     `json:"skipped"`
	Sparsity   float64 `json:"sparsity"`
}

// Engine serves similarity lookups over the current snapshots.
type Engine struct {
	cfg     Config
	content atomic.Pointer[snapshot]
	collab  atomic.Pointer[snapshot]
}

// NewEngine creates an Engine with empty snapshots. Lookups against an
// unrefreshed strategy return empty results, never errors.
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Similar returns the top-k neighbors of productID under the strategy,
// ordered by score descending, then product id ascending. An unknown
// product or unrefreshed strategy yields an empty list.
func (e *Engine) Similar(productID string, strategy domain.Strategy, k int) ([]domain.ScoredProduct, error) {
	snap, err := e.load(strategy)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return []domain.ScoredProduct{}, nil
	}

	neighbors := snap.neighbors[productID]
	if k > 0 && len(neighbors) > k {
		neighbors = neighbors[:k]
	}

	out := make([]domain.ScoredProduct, len(neighbors))
	copy(out, neighbors)
	return out, nil
}

// Entries returns the full entry list of a strategy's current snapshot,
// for persistence after a refresh.
func (e *Engine) Entries(strategy domain.Strategy) ([]domain.SimilarityEntry, error) {
	snap, err := e.load(strategy)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return []domain.SimilarityEntry{}, nil
	}
	return snap.entries, nil
}

// StrategyStats returns the dataset statistics of a strategy's snapshot
// and whether the strategy has been refreshed at all.
func (e *Engine) StrategyStats(strategy domain.Strategy) (Stats, bool, error) {
	snap, err := e.load(strategy)
	if err != nil {
		return Stats{}, false, err
	}
	if snap == nil {
		return Stats{}, false, nil
	}
	return snap.stats, true, nil
}

func (e *Engine) load(strategy domain.Strategy) (*snapshot, error) {
	switch strategy {
	case domain.StrategyContentBased:
		return e.content.Load(), nil
	case domain.StrategyCollaborative:
		return e.collab.Load(), nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", strategy)
	}
}

// RefreshContent rebuilds the content-based snapshot from the catalog and
// swaps it in. Individual malformed products are skipped and counted, never
// aborting the batch.
func (e *Engine) RefreshContent(products []domain.Product) (Stats, error) {
	space := feature.NewSpace(products, e.cfg.Weights)

	vectors := make(map[string][]float64, len(products))
	ids := make([]string, 0, len(products))
	for i := range products {
		p := &products[i]
		vectors[p.ID] = space.Vector(p)
		ids = append(ids, p.ID)
	}
	sort.Strings(ids)

	// Per-pair failures are counted in stats and reported, but a snapshot
	// is still installed so one malformed record cannot abort the batch.
	snap, err := buildPairwise(ids, func(a, b string) (float64, error) {
		return feature.Cosine(vectors[a], vectors[b])
	}, e.cfg.ContentThreshold, domain.StrategyContentBased)

	snap.stats.Products = len(products)
	snap.stats.Dimensions = space.Dims()
	e.content.Store(snap)
	return snap.stats, err
}

// RefreshCollaborative rebuilds the collaborative snapshot from purchase
// history. Item-based: products are compared over their user purchase-count
// columns, which reuses the cache better than user-based because the
// catalog is smaller and more stable than the user base.
func (e *Engine) RefreshCollaborative(events []domain.PurchaseEvent) (Stats, error) {
	// product -> user -> purchase count
	columns := make(map[string]map[string]float64)
	users := make(map[string]bool)
	for _, ev := range events {
		if ev.ProductID == "" || ev.UserID == "" {
			continue
		}
		col := columns[ev.ProductID]
		if col == nil {
			col = make(map[string]float64)
			columns[ev.ProductID] = col
		}
		col[ev.UserID]++
		users[ev.UserID] = true
	}

	ids := make([]string, 0, len(columns))
	for id := range columns {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	snap, err := buildPairwise(ids, func(a, b string) (float64, error) {
		return feature.SparseCosine(columns[a], columns[b]), nil
	}, e.cfg.CollabThreshold, domain.StrategyCollaborative)

	snap.stats.Products = len(columns)
	snap.stats.Users = len(users)
	snap.stats.Dimensions = len(users)
	e.collab.Store(snap)
	return snap.stats, err
}

// buildPairwise computes all pairs over sorted ids, keeps those at or above
// threshold, and assembles per-product neighbor lists with the canonical
// ordering: score descending, then product id ascending.
func buildPairwise(
	ids []string,
	sim func(a, b string) (float64, error),
	threshold float64,
	strategy domain.Strategy,
) (*snapshot, error) {
	now := time.Now().UTC()
	snap := &snapshot{
		neighbors:  make(map[string][]domain.ScoredProduct, len(ids)),
		computedAt: now,
	}

	var errs []error
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			snap.stats.Pairs++

			score, err := sim(ids[i], ids[j])
			if err != nil {
				snap.stats.Skipped++
				errs = append(errs, fmt.Errorf("pair (%s,%s): %w", ids[i], ids[j], err))
				continue
			}
			if score < threshold {
				continue
			}

			snap.stats.Kept++
			snap.entries = append(snap.entries, domain.SimilarityEntry{
				ProductA:   ids[i],
				ProductB:   ids[j],
				Score:      score,
				Strategy:   strategy,
				ComputedAt: now,
			})
			snap.neighbors[ids[i]] = append(snap.neighbors[ids[i]], domain.ScoredProduct{ProductID: ids[j], Score: score})
			snap.neighbors[ids[j]] = append(snap.neighbors[ids[j]], domain.ScoredProduct{ProductID: ids[i], Score: score})
		}
	}

	for _, list := range snap.neighbors {
		sort.Slice(list, func(a, b int) bool {
			if list[a].Score != list[b].Score {
				return list[a].Score > list[b].Score
			}
			return list[a].ProductID < list[b].ProductID
		})
	}

	if snap.stats.Pairs > 0 {
		snap.stats.Sparsity = 1 - float64(snap.stats.Kept)/float64(snap.stats.Pairs)
	}

	// Per-pair failures are reported but do not invalidate the snapshot.
	return snap, errors.Join(errs...)
}
