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

func TestSystemStateHandler_Get(t *testing.T) {
	t.Parallel()

	ms := storeMocks.NewMockStore(t)
	ms.On("GetSystemState", mock.Anything).Return(&domain.SystemState{
		Products:            120,
		Orders:              900,
		Opinions:            340,
		ContentSimilarities: 4000,
		CollabSimilarities:  2600,
		AssociationRules:    75,
		SentimentRecords:    120,
		ForecastPoints:      3600,
	}, nil).Once()

	h := handlers.NewSystemStateHandler(ms)

	_, api := humatest.New(t)
	handlers.RegisterSystemStateRoutes(api, h)

	resp := api.Get("/api/v1/system/state")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"products":120`)
	assert.Contains(t, resp.Body.String(), `"association_rules":75`)
}

func TestSystemStateHandler_StoreError(t *testing.T) {
	t.Parallel()

	ms := storeMocks.NewMockStore(t)
	ms.On("GetSystemState", mock.Anything).
		Return(nil, errors.New("db error")).Once()

	h := handlers.NewSystemStateHandler(ms)

	_, api := humatest.New(t)
	handlers.RegisterSystemStateRoutes(api, h)

	resp := api.Get("/api/v1/system/state")
	require.Equal(t, http.StatusInternalServerError, resp.Code)
}
