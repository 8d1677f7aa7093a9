package forecast_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmoretti/storeiq/internal/forecast"
	domain "github.com/lmoretti/storeiq/pkg/types"
)

func event(userID, category string, occurredAt time.Time) domain.PurchaseEvent {
	return domain.PurchaseEvent{
		UserID:     userID,
		ProductID:  "p-" + category,
		Category:   category,
		Quantity:   1,
		OccurredAt: occurredAt,
	}
}

func TestNewTransitionMatrix(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m := forecast.NewTransitionMatrix([]domain.PurchaseEvent{
		event("u1", "books", base),
		event("u1", "games", base.Add(24*time.Hour)),
		event("u1", "books", base.Add(48*time.Hour)),
		event("u2", "books", base),
		event("u2", "games", base.Add(24*time.Hour)),
	})

	require.Equal(t, []string{"books", "games"}, m.States)

	// books -> games twice, books -> books never.
	assert.InDelta(t, 0.0, m.Rows["books"][0], 1e-9)
	assert.InDelta(t, 1.0, m.Rows["books"][1], 1e-9)
	assert.Equal(t, 2, m.Observed["books"])

	// games -> books once.
	assert.InDelta(t, 1.0, m.Rows["games"][0], 1e-9)
	assert.Equal(t, 1, m.Observed["games"])
}

func TestTransitionMatrix_RowsAreStochastic(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var events []domain.PurchaseEvent
	cats := []string{"a", "b", "c", "a", "c", "b", "a"}
	for i, c := range cats {
		events = append(events, event("u1", c, base.Add(time.Duration(i)*24*time.Hour)))
	}
	// A state with no outgoing transitions gets the uniform row.
	events = append(events, event("u2", "d", base))

	m := forecast.NewTransitionMatrix(events)
	require.NotEmpty(t, m.States)

	for state, row := range m.Rows {
		var sum float64
		for _, p := range row {
			assert.GreaterOrEqual(t, p, 0.0)
			sum += p
		}
		assert.InDelta(t, 1.0, sum, 1e-6, "row %s must sum to 1", state)
	}
	assert.Zero(t, m.Observed["d"])
}

func TestNextDistribution_UnknownState(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m := forecast.NewTransitionMatrix([]domain.PurchaseEvent{
		event("u1", "books", base),
		event("u1", "games", base.Add(24*time.Hour)),
	})

	dist := m.NextDistribution("never-seen")
	require.Len(t, dist, 2)
	for _, d := range dist {
		assert.InDelta(t, 0.5, d.Score, 1e-9)
	}
}

func TestPredictNextPurchase(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	events := []domain.PurchaseEvent{
		event("u1", "books", base),
		event("u1", "games", base.Add(10*24*time.Hour)),
		event("u1", "books", base.Add(20*24*time.Hour)),
	}
	m := forecast.NewTransitionMatrix(events)

	pred, err := forecast.PredictNextPurchase(m, "u1", events, 2, base.Add(21*24*time.Hour))
	require.NoError(t, err)

	assert.Equal(t, "books", pred.CurrentState)
	assert.False(t, pred.Insufficient)
	assert.Equal(t, 3, pred.Observations)
	// Mean inter-purchase interval: two gaps of 10 days each.
	assert.InDelta(t, 10.0, pred.ExpectedDays, 1e-9)
	require.NotEmpty(t, pred.Distribution)
}

func TestPredictNextPurchase_InsufficientHistory(t *testing.T) {
	t.Parallel()

	m := forecast.NewTransitionMatrix(nil)

	pred, err := forecast.PredictNextPurchase(m, "u1", nil, 3, time.Now())
	require.ErrorIs(t, err, forecast.ErrInsufficientData)

	assert.True(t, pred.Insufficient)
	assert.Empty(t, pred.Distribution)
	assert.Zero(t, pred.ExpectedDays)
}
