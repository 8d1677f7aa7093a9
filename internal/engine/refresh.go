package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lmoretti/storeiq/internal/assoc"
	"github.com/lmoretti/storeiq/internal/metrics"
	"github.com/lmoretti/storeiq/internal/sentiment"
	domain "github.com/lmoretti/storeiq/pkg/types"
)

// Job names as recorded in the job_runs ledger.
const (
	JobSimilarity = "similarity_refresh"
	JobRuleMining = "rule_mining"
	JobSentiment  = "sentiment_refresh"
	JobForecast   = "forecast_refresh"
)

// Job run statuses.
const (
	statusSucceeded = "succeeded"
	statusFailed    = "failed"
)

// runJob wraps a refresh with the job_runs ledger and Prometheus
// instrumentation. The ledger row is opened before the work starts so an
// operator can see a run in flight.
func (e *Engine) runJob(ctx context.Context, name string, fn func(context.Context) (int, error)) error {
	id, err := e.store.InsertJobRun(ctx, name)
	if err != nil {
		return fmt.Errorf("opening job run %s: %w", name, err)
	}

	start := time.Now()
	rows, err := fn(ctx)
	metrics.RefreshDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.RefreshErrorsTotal.WithLabelValues(name).Inc()
		e.log.Error("refresh job failed", "job", name, "error", err, "duration", time.Since(start))
		if cerr := e.store.CompleteJobRun(ctx, id, statusFailed, err.Error(), rows); cerr != nil {
			return errors.Join(err, fmt.Errorf("closing job run %s: %w", name, cerr))
		}
		return err
	}

	e.log.Info("refresh job finished", "job", name, "rows", rows, "duration", time.Since(start))
	return e.store.CompleteJobRun(ctx, id, statusSucceeded, "", rows)
}

// RunSimilarityRefresh recomputes both similarity strategies from the
// current catalog and purchase history, swaps the in-memory snapshots,
// and persists the kept pairs. A failure of one strategy does not stop
// the other.
func (e *Engine) RunSimilarityRefresh(ctx context.Context) error {
	return e.runJob(ctx, JobSimilarity, func(ctx context.Context) (int, error) {
		products, err := e.store.ListProducts(ctx)
		if err != nil {
			return 0, fmt.Errorf("loading catalog: %w", err)
		}
		events, err := e.store.ListPurchaseEvents(ctx)
		if err != nil {
			return 0, fmt.Errorf("loading purchase events: %w", err)
		}

		var errs []error
		total := 0

		contentStats, err := e.sim.RefreshContent(products)
		if err != nil {
			errs = append(errs, fmt.Errorf("content refresh: %w", err))
		}
		if contentStats.Skipped > 0 {
			metrics.RecordsSkippedTotal.WithLabelValues(JobSimilarity).Add(float64(contentStats.Skipped))
		}
		if entries, err := e.sim.Entries(domain.StrategyContentBased); err == nil {
			if err := e.store.ReplaceSimilarities(ctx, domain.StrategyContentBased, entries); err != nil {
				errs = append(errs, fmt.Errorf("persisting content pairs: %w", err))
			} else {
				metrics.SimilarityEntries.WithLabelValues(string(domain.StrategyContentBased)).Set(float64(len(entries)))
				total += len(entries)
			}
		}

		collabStats, err := e.sim.RefreshCollaborative(events)
		if err != nil {
			errs = append(errs, fmt.Errorf("collaborative refresh: %w", err))
		}
		if collabStats.Skipped > 0 {
			metrics.RecordsSkippedTotal.WithLabelValues(JobSimilarity).Add(float64(collabStats.Skipped))
		}
		if entries, err := e.sim.Entries(domain.StrategyCollaborative); err == nil {
			if err := e.store.ReplaceSimilarities(ctx, domain.StrategyCollaborative, entries); err != nil {
				errs = append(errs, fmt.Errorf("persisting collaborative pairs: %w", err))
			} else {
				metrics.SimilarityEntries.WithLabelValues(string(domain.StrategyCollaborative)).Set(float64(len(entries)))
				total += len(entries)
			}
		}

		return total, errors.Join(errs...)
	})
}

// RunRuleMining mines association rules from order history and replaces
// the persisted rule set. An empty order set yields an empty rule set
// and a successful run.
func (e *Engine) RunRuleMining(ctx context.Context) error {
	return e.runJob(ctx, JobRuleMining, func(ctx context.Context) (int, error) {
		orders, err := e.store.ListOrders(ctx)
		if err != nil {
			return 0, fmt.Errorf("loading orders: %w", err)
		}

		rules, stats := assoc.MineRules(orders, e.miningThresholds())

		if err := e.store.ReplaceRules(ctx, rules); err != nil {
			return 0, fmt.Errorf("persisting rules: %w", err)
		}

		e.jobMu.Lock()
		e.lastMining = stats
		e.lastMiningAt = time.Now()
		e.jobMu.Unlock()

		metrics.AssociationRules.Set(float64(len(rules)))
		return len(rules), nil
	})
}

// RunSentimentRefresh rescores sentiment for every product from the five
// text sources. A product whose scoring degrades (no scorable text at
// all) still gets a record; nothing aborts the batch.
func (e *Engine) RunSentimentRefresh(ctx context.Context) error {
	return e.runJob(ctx, JobSentiment, func(ctx context.Context) (int, error) {
		products, err := e.store.ListProducts(ctx)
		if err != nil {
			return 0, fmt.Errorf("loading catalog: %w", err)
		}
		opinions, err := e.store.ListOpinions(ctx)
		if err != nil {
			return 0, fmt.Errorf("loading opinions: %w", err)
		}

		byProduct := make(map[string][]domain.Opinion)
		for _, o := range opinions {
			byProduct[o.ProductID] = append(byProduct[o.ProductID], o)
		}

		w := e.sentimentWeights()
		records := make([]domain.SentimentRecord, 0, len(products))
		for i := range products {
			p := products[i]
			records = append(records, sentiment.Score(&p, byProduct[p.ID], w))
		}

		if err := e.store.ReplaceSentiments(ctx, records); err != nil {
			return 0, fmt.Errorf("persisting sentiment records: %w", err)
		}

		metrics.SentimentRecords.Set(float64(len(records)))
		return len(records), nil
	})
}

// RunForecastRefresh recomputes the demand forecast for every product
// with enough history and replaces the persisted forecast points.
// Products below the observation floor are skipped, not failed.
func (e *Engine) RunForecastRefresh(ctx context.Context) error {
	return e.runJob(ctx, JobForecast, func(ctx context.Context) (int, error) {
		products, err := e.store.ListProducts(ctx)
		if err != nil {
			return 0, fmt.Errorf("loading catalog: %w", err)
		}
		events, err := e.store.ListPurchaseEvents(ctx)
		if err != nil {
			return 0, fmt.Errorf("loading purchase events: %w", err)
		}

		byProduct := make(map[string][]domain.PurchaseEvent)
		for _, ev := range events {
			byProduct[ev.ProductID] = append(byProduct[ev.ProductID], ev)
		}

		f := e.demandForecaster()
		now := time.Now()

		var points []domain.ForecastPoint
		skipped := 0
		for i := range products {
			df, err := f.Forecast(products[i].ID, byProduct[products[i].ID], now)
			if err != nil {
				skipped++
				continue
			}
			points = append(points, df.Points...)
		}
		if skipped > 0 {
			metrics.RecordsSkippedTotal.WithLabelValues(JobForecast).Add(float64(skipped))
		}

		if err := e.store.ReplaceForecasts(ctx, points); err != nil {
			return 0, fmt.Errorf("persisting forecast points: %w", err)
		}

		metrics.ForecastPoints.Set(float64(len(points)))
		return len(points), nil
	})
}

// RefreshAll runs all four refresh jobs in dependency-free order. Used by
// the CLI and on startup warm-up. Each job's failure is recorded in its
// own ledger row; the others still run.
func (e *Engine) RefreshAll(ctx context.Context) error {
	return errors.Join(
		e.RunSimilarityRefresh(ctx),
		e.RunRuleMining(ctx),
		e.RunSentimentRefresh(ctx),
		e.RunForecastRefresh(ctx),
	)
}

// RunRefresh dispatches a named refresh job. Unknown names are an error.
func (e *Engine) RunRefresh(ctx context.Context, job string) error {
	switch job {
	case JobSimilarity:
		return e.RunSimilarityRefresh(ctx)
	case JobRuleMining:
		return e.RunRuleMining(ctx)
	case JobSentiment:
		return e.RunSentimentRefresh(ctx)
	case JobForecast:
		return e.RunForecastRefresh(ctx)
	case "all":
		return e.RefreshAll(ctx)
	default:
		return fmt.Errorf("unknown refresh job %q", job)
	}
}
