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

func TestSentimentHandler_Get(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		path       string
		setupMock  func(*storeMocks.MockStore)
		wantStatus int
		wantBody   string
	}{
		{
			name: "returns sentiment with source breakdown",
			path: "/api/v1/products/p1/sentiment",
			setupMock: func(m *storeMocks.MockStore) {
				m.On("GetSentiment", mock.Anything, "p1").
					Return(&domain.SentimentRecord{
						ProductID: "p1",
						Score:     0.42,
						Category:  domain.SentimentPositive,
						Sources: []domain.SourceScore{
							{Source: "opinions", Score: 0.6, Weight: 0.4},
						},
					}, nil).Once()
			},
			wantStatus: http.StatusOK,
			wantBody:   `"category":"positive"`,
		},
		{
			name: "no record yet",
			path: "/api/v1/products/p2/sentiment",
			setupMock: func(m *storeMocks.MockStore) {
				m.On("GetSentiment", mock.Anything, "p2").
					Return(nil, errors.New("no rows")).Once()
			},
			wantStatus: http.StatusNotFound,
			wantBody:   `sentiment record not found`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ms := storeMocks.NewMockStore(t)
			tt.setupMock(ms)
			h := handlers.NewSentimentHandler(ms)

			_, api := humatest.New(t)
			handlers.RegisterSentimentRoutes(api, h)

			resp := api.Get(tt.path)
			require.Equal(t, tt.wantStatus, resp.Code)
			assert.Contains(t, resp.Body.String(), tt.wantBody)
		})
	}
}
