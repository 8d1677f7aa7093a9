// Package store defines the datastore abstraction for storeiq. All business
// logic depends on the Store interface, never on concrete implementations,
// so the engine and handlers are testable without a running database.
package store

import (
	"context"

	domain "github.com/lmoretti/storeiq/pkg/types"
)

// Store defines all data access operations for storeiq.
//
// The catalog side (products, opinions, orders) is read-only here: it is
// maintained by an external catalog system. The derived-artifact side
// (similarities, rules, sentiments, forecasts) is replaced wholesale per
// refresh, never mutated entry by entry.
type Store interface {
	// Catalog (read side)
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	ListRecentProducts(ctx context.Context, limit int) ([]domain.Product, error)
	ListOpinions(ctx context.Context) ([]domain.Opinion, error)
	ListProductOpinions(ctx context.Context, productID string) ([]domain.Opinion, error)
	ListOrders(ctx context.Context) ([]domain.Order, error)
	ListPurchaseEvents(ctx context.Context) ([]domain.PurchaseEvent, error)
	ListUserPurchases(ctx context.Context, userID string) ([]domain.PurchaseEvent, error)

	// Derived artifacts. Each Replace* swaps the whole table (or the whole
	// strategy's slice of it) in one transaction.
	ReplaceSimilarities(ctx context.Context, strategy domain.Strategy, entries []domain.SimilarityEntry) error
	ListSimilarities(ctx context.Context, strategy domain.Strategy, limit int) ([]domain.SimilarityEntry, error)
	ReplaceRules(ctx context.Context, rules []domain.AssociationRule) error
	ListRules(ctx context.Context, limit int) ([]domain.AssociationRule, error)
	ListProductRules(ctx context.Context, antecedent string, limit int) ([]domain.AssociationRule, error)
	ReplaceSentiments(ctx context.Context, records []domain.SentimentRecord) error
	GetSentiment(ctx context.Context, productID string) (*domain.SentimentRecord, error)
	ListSentiments(ctx context.Context, limit int) ([]domain.SentimentRecord, error)
	ReplaceForecasts(ctx context.Context, points []domain.ForecastPoint) error
	ListForecasts(ctx context.Context, productID string) ([]domain.ForecastPoint, error)

	// Job ledger
	InsertJobRun(ctx context.Context, jobName string) (id string, err error)
	CompleteJobRun(ctx context.Context, id string, status string, errText string, rowsAffected int) error
	ListJobRuns(ctx context.Context, jobName string, limit int) ([]domain.JobRun, error)

	// Operator tooling
	GetSystemState(ctx context.Context) (*domain.SystemState, error)

	// Migrations
	Migrate(ctx context.Context) error

	// Health
	Ping(ctx context.Context) error
}
