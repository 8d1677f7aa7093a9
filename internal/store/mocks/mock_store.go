// Package mocks holds a testify mock of store.Store, maintained by hand
// alongside the interface.
package mocks

import (
	context "context"

	mock "github.com/stretchr/testify/mock"

	domain "github.com/lmoretti/storeiq/pkg/types"
)

// MockStore is a mock implementation of the Store interface.
type MockStore struct {
	mock.Mock
}

// NewMockStore creates a new instance of MockStore. It also registers a
// testing interface on the mock and a cleanup function to assert the mocks
// expectations.
func NewMockStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockStore {
	m := &MockStore{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (_m *MockStore) ListProducts(ctx context.Context) ([]domain.Product, error) {
	ret := _m.Called(ctx)

	var r0 []domain.Product
	if rf, ok := ret.Get(0).(func(context.Context) []domain.Product); ok {
		r0 = rf(ctx)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.Product)
	}

	return r0, ret.Error(1)
}

func (_m *MockStore) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	ret := _m.Called(ctx, id)

	var r0 *domain.Product
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.Product)
	}

	return r0, ret.Error(1)
}

func (_m *MockStore) ListRecentProducts(ctx context.Context, limit int) ([]domain.Product, error) {
	ret := _m.Called(ctx, limit)

	var r0 []domain.Product
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.Product)
	}

	return r0, ret.Error(1)
}

func (_m *MockStore) ListOpinions(ctx context.Context) ([]domain.Opinion, error) {
	ret := _m.Called(ctx)

	var r0 []domain.Opinion
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.Opinion)
	}

	return r0, ret.Error(1)
}

func (_m *MockStore) ListProductOpinions(ctx context.Context, productID string) ([]domain.Opinion, error) {
	ret := _m.Called(ctx, productID)

	var r0 []domain.Opinion
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.Opinion)
	}

	return r0, ret.Error(1)
}

func (_m *MockStore) ListOrders(ctx context.Context) ([]domain.Order, error) {
	ret := _m.Called(ctx)

	var r0 []domain.Order
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.Order)
	}

	return r0, ret.Error(1)
}

func (_m *MockStore) ListPurchaseEvents(ctx context.Context) ([]domain.PurchaseEvent, error) {
	ret := _m.Called(ctx)

	var r0 []domain.PurchaseEvent
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.PurchaseEvent)
	}

	return r0, ret.Error(1)
}

func (_m *MockStore) ListUserPurchases(ctx context.Context, userID string) ([]domain.PurchaseEvent, error) {
	ret := _m.Called(ctx, userID)

	var r0 []domain.PurchaseEvent
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.PurchaseEvent)
	}

	return r0, ret.Error(1)
}

func (_m *MockStore) ReplaceSimilarities(ctx context.Context, strategy domain.Strategy, entries []domain.SimilarityEntry) error {
	ret := _m.Called(ctx, strategy, entries)
	return ret.Error(0)
}

func (_m *MockStore) ListSimilarities(ctx context.Context, strategy domain.Strategy, limit int) ([]domain.SimilarityEntry, error) {
	ret := _m.Called(ctx, strategy, limit)

	var r0 []domain.SimilarityEntry
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.SimilarityEntry)
	}

	return r0, ret.Error(1)
}

func (_m *MockStore) ReplaceRules(ctx context.Context, rules []domain.AssociationRule) error {
	ret := _m.Called(ctx, rules)
	return ret.Error(0)
}

func (_m *MockStore) ListRules(ctx context.Context, limit int) ([]domain.AssociationRule, error) {
	ret := _m.Called(ctx, limit)

	var r0 []domain.AssociationRule
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.AssociationRule)
	}

	return r0, ret.Error(1)
}

func (_m *MockStore) ListProductRules(ctx context.Context, antecedent string, limit int) ([]domain.AssociationRule, error) {
	ret := _m.Called(ctx, antecedent, limit)

	var r0 []domain.AssociationRule
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.AssociationRule)
	}

	return r0, ret.Error(1)
}

func (_m *MockStore) ReplaceSentiments(ctx context.Context, records []domain.SentimentRecord) error {
	ret := _m.Called(ctx, records)
	return ret.Error(0)
}

func (_m *MockStore) GetSentiment(ctx context.Context, productID string) (*domain.SentimentRecord, error) {
	ret := _m.Called(ctx, productID)

	var r0 *domain.SentimentRecord
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.SentimentRecord)
	}

	return r0, ret.Error(1)
}

func (_m *MockStore) ListSentiments(ctx context.Context, limit int) ([]domain.SentimentRecord, error) {
	ret := _m.Called(ctx, limit)

	var r0 []domain.SentimentRecord
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.SentimentRecord)
	}

	return r0, ret.Error(1)
}

func (_m *MockStore) ReplaceForecasts(ctx context.Context, points []domain.ForecastPoint) error {
	ret := _m.Called(ctx, points)
	return ret.Error(0)
}

func (_m *MockStore) ListForecasts(ctx context.Context, productID string) ([]domain.ForecastPoint, error) {
	ret := _m.Called(ctx, productID)

	var r0 []domain.ForecastPoint
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.ForecastPoint)
	}

	return r0, ret.Error(1)
}

func (_m *MockStore) InsertJobRun(ctx context.Context, jobName string) (string, error) {
	ret := _m.Called(ctx, jobName)
	return ret.String(0), ret.Error(1)
}

func (_m *MockStore) CompleteJobRun(ctx context.Context, id string, status string, errText string, rowsAffected int) error {
	ret := _m.Called(ctx, id, status, errText, rowsAffected)
	return ret.Error(0)
}

func (_m *MockStore) ListJobRuns(ctx context.Context, jobName string, limit int) ([]domain.JobRun, error) {
	ret := _m.Called(ctx, jobName, limit)

	var r0 []domain.JobRun
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.JobRun)
	}

	return r0, ret.Error(1)
}

func (_m *MockStore) GetSystemState(ctx context.Context) (*domain.SystemState, error) {
	ret := _m.Called(ctx)

	var r0 *domain.SystemState
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.SystemState)
	}

	return r0, ret.Error(1)
}

func (_m *MockStore) Migrate(ctx context.Context) error {
	ret := _m.Called(ctx)
	return ret.Error(0)
}

func (_m *MockStore) Ping(ctx context.Context) error {
	ret := _m.Called(ctx)
	return ret.Error(0)
}
