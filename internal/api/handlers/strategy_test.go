package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmoretti/storeiq/internal/api/handlers"
	domain "github.com/lmoretti/storeiq/pkg/types"
)

// mockSwitcher implements StrategySwitcher for testing.
type mockSwitcher struct {
	active domain.Strategy
}

func (m *mockSwitcher) ActiveStrategy() domain.Strategy { return m.active }

func (m *mockSwitcher) SetActiveStrategy(s domain.Strategy) error {
	if !s.Valid() {
		return fmt.Errorf("unknown strategy %q", s)
	}
	m.active = s
	return nil
}

func TestStrategyHandler_Get(t *testing.T) {
	t.Parallel()

	h := handlers.NewStrategyHandler(&mockSwitcher{active: domain.StrategyCollaborative})

	_, api := humatest.New(t)
	handlers.RegisterStrategyRoutes(api, h)

	resp := api.Get("/api/v1/strategy")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"strategy":"collaborative"`)
}

func TestStrategyHandler_Set(t *testing.T) {
	t.Parallel()

	sw := &mockSwitcher{active: domain.StrategyCollaborative}
	h := handlers.NewStrategyHandler(sw)

	_, api := humatest.New(t)
	handlers.RegisterStrategyRoutes(api, h)

	resp := api.Put("/api/v1/strategy", map[string]any{
		"strategy": "content_based",
	})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"strategy":"content_based"`)
	assert.Equal(t, domain.StrategyContentBased, sw.active)
}

func TestStrategyHandler_SetUnknown(t *testing.T) {
	t.Parallel()

	sw := &mockSwitcher{active: domain.StrategyCollaborative}
	h := handlers.NewStrategyHandler(sw)

	_, api := humatest.New(t)
	handlers.RegisterStrategyRoutes(api, h)

	resp := api.Put("/api/v1/strategy", map[string]any{
		"strategy": "hybrid",
	})
	require.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	assert.Equal(t, domain.StrategyCollaborative, sw.active)
}
