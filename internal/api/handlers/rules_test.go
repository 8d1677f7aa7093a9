package handlers_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lmoretti/storeiq/internal/api/handlers"
	storeMocks "github.com/lmoretti/storeiq/internal/store/mocks"
	domain "github.com/lmoretti/storeiq/pkg/types"
)

func TestRulesHandler_List(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		path       string
		setupMock  func(*storeMocks.MockStore)
		wantStatus int
		wantBody   string
	}{
		{
			name: "returns rules",
			path: "/api/v1/rules",
			setupMock: func(m *storeMocks.MockStore) {
				m.On("ListRules", mock.Anything, 50).Return([]domain.AssociationRule{
					{Antecedent: "A", Consequent: "B", Support: 0.5, Confidence: 0.8, Lift: 1.6},
				}, nil).Once()
			},
			wantStatus: http.StatusOK,
			wantBody:   `"antecedent":"A"`,
		},
		{
			name: "custom limit",
			path: "/api/v1/rules?limit=5",
			setupMock: func(m *storeMocks.MockStore) {
				m.On("ListRules", mock.Anything, 5).Return(nil, nil).Once()
			},
			wantStatus: http.StatusOK,
			wantBody:   `[]`,
		},
		{
			name: "store error",
			path: "/api/v1/rules",
			setupMock: func(m *storeMocks.MockStore) {
				m.On("ListRules", mock.Anything, 50).Return(nil, errors.New("db error")).Once()
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   `failed to list rules`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ms := storeMocks.NewMockStore(t)
			tt.setupMock(ms)
			h := handlers.NewRulesHandler(ms)

			_, api := humatest.New(t)
			handlers.RegisterRuleRoutes(api, h)

			resp := api.Get(tt.path)
			require.Equal(t, tt.wantStatus, resp.Code)
			assert.Contains(t, resp.Body.String(), tt.wantBody)
		})
	}
}

func TestRulesHandler_ProductRules(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		path       string
		setupMock  func(*storeMocks.MockStore)
		wantStatus int
		wantBody   string
	}{
		{
			name: "returns product rules",
			path: "/api/v1/products/A/rules",
			setupMock: func(m *storeMocks.MockStore) {
				m.On("GetProduct", mock.Anything, "A").
					Return(&domain.Product{ID: "A"}, nil).Once()
				m.On("ListProductRules", mock.Anything, "A", 10).
					Return([]domain.AssociationRule{
						{Antecedent: "A", Consequent: "B", Lift: 2.1},
					}, nil).Once()
			},
			wantStatus: http.StatusOK,
			wantBody:   `"consequent":"B"`,
		},
		{
			name: "unknown product",
			path: "/api/v1/products/nope/rules",
			setupMock: func(m *storeMocks.MockStore) {
				m.On("GetProduct", mock.Anything, "nope").
					Return(nil, errors.New("not found")).Once()
			},
			wantStatus: http.StatusNotFound,
			wantBody:   `product not found`,
		},
		{
			name: "no rules yields empty list",
			path: "/api/v1/products/A/rules",
			setupMock: func(m *storeMocks.MockStore) {
				m.On("GetProduct", mock.Anything, "A").
					Return(&domain.Product{ID: "A"}, nil).Once()
				m.On("ListProductRules", mock.Anything, "A", 10).
					Return(nil, nil).Once()
			},
			wantStatus: http.StatusOK,
			wantBody:   `[]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ms := storeMocks.NewMockStore(t)
			tt.setupMock(ms)
			h := handlers.NewRulesHandler(ms)

			_, api := humatest.New(t)
			handlers.RegisterRuleRoutes(api, h)

			resp := api.Get(tt.path)
			require.Equal(t, tt.wantStatus, resp.Code)
			assert.Contains(t, resp.Body.String(), tt.wantBody)
		})
	}
}
