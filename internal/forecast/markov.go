package forecast

import (
	"fmt"
	"sort"
	"time"

	domain "github.com/lmoretti/storeiq/pkg/types"
)

// TransitionMatrix is a row-stochastic matrix over a finite category state
// set. Every row sums to 1; rows with no observed transitions default to
// the uniform distribution.
type TransitionMatrix struct {
	States []string             `json:"states"`
	Rows   map[string][]float64 `json:"rows"`
	// Observed counts transitions seen per source state, 0 for defaulted rows.
	Observed map[string]int `json:"observed"`
}

// NewTransitionMatrix builds the matrix from per-user chronological
// purchase sequences. The state set is the union of categories seen.
func NewTransitionMatrix(events []domain.PurchaseEvent) *TransitionMatrix {
	byUser := make(map[string][]domain.PurchaseEvent)
	stateSet := make(map[string]bool)
	for _, ev := range events {
		if ev.Category == "" {
			continue
		}
		stateSet[ev.Category] = true
		byUser[ev.UserID] = append(byUser[ev.UserID], ev)
	}

	states := make([]string, 0, len(stateSet))
	for s := range stateSet {
		states = append(states, s)
	}
	sort.Strings(states)

	index := make(map[string]int, len(states))
	for i, s := range states {
		index[s] = i
	}

	counts := make(map[string][]float64, len(states))
	observed := make(map[string]int, len(states))
	for s := range stateSet {
		counts[s] = make([]float64, len(states))
	}

	for _, seq := range byUser {
		sort.Slice(seq, func(i, j int) bool {
			return seq[i].OccurredAt.Before(seq[j].OccurredAt)
		})
		for i := 1; i < len(seq); i++ {
			from, to := seq[i-1].Category, seq[i].Category
			counts[from][index[to]]++
			observed[from]++
		}
	}

	m := &TransitionMatrix{
		States:   states,
		Rows:     make(map[string][]float64, len(states)),
		Observed: observed,
	}
	for s, row := range counts {
		m.Rows[s] = normalizeRow(row, observed[s])
	}
	return m
}

func normalizeRow(counts []float64, total int) []float64 {
	row := make([]float64, len(counts))
	if total == 0 {
		// No observations: uniform next-state distribution.
		u := 1 / float64(len(counts))
		for i := range row {
			row[i] = u
		}
		return row
	}
	for i, c := range counts {
		row[i] = c / float64(total)
	}
	return row
}

// NextDistribution returns the next-state probabilities conditioned on the
// current state, as (state, probability) pairs sorted descending. An
// unknown state yields the uniform distribution over known states.
func (m *TransitionMatrix) NextDistribution(current string) []domain.ScoredProduct {
	if len(m.States) == 0 {
		return []domain.ScoredProduct{}
	}

	row, ok := m.Rows[current]
	if !ok {
		row = normalizeRow(make([]float64, len(m.States)), 0)
	}

	out := make([]domain.ScoredProduct, len(m.States))
	for i, s := range m.States {
		out[i] = domain.ScoredProduct{ProductID: s, Score: row[i]}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].ProductID < out[j].ProductID
	})
	return out
}

// NextPurchase is the Markov next-purchase prediction for one user.
type NextPurchase struct {
	UserID       string                 `json:"user_id"`
	CurrentState string                 `json:"current_state"`
	Distribution []domain.ScoredProduct `json:"distribution"`
	ExpectedDays float64                `json:"expected_days"`
	Observations int                    `json:"observations"`
	Insufficient bool                   `json:"insufficient_data"`
}

// PredictNextPurchase combines the user's last purchase category with the
// matrix, and derives expected days to the next purchase from the user's
// inter-purchase intervals under an exponential assumption (the expectation
// is the mean interval). Fewer than minObs purchases flags the result.
func PredictNextPurchase(
	m *TransitionMatrix,
	userID string,
	events []domain.PurchaseEvent,
	minObs int,
	now time.Time,
) (NextPurchase, error) {
	out := NextPurchase{UserID: userID, Observations: len(events)}

	if len(events) < minObs {
		out.Insufficient = true
		out.Distribution = []domain.ScoredProduct{}
		return out, fmt.Errorf("user %s: %d purchases: %w", userID, len(events), ErrInsufficientData)
	}

	sorted := make([]domain.PurchaseEvent, len(events))
	copy(sorted, events)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].OccurredAt.Before(sorted[j].OccurredAt)
	})

	out.CurrentState = sorted[len(sorted)-1].Category
	out.Distribution = m.NextDistribution(out.CurrentState)

	intervals := make([]float64, 0, len(sorted)-1)
	for i := 1; i < len(sorted); i++ {
		intervals = append(intervals,
			sorted[i].OccurredAt.Sub(sorted[i-1].OccurredAt).Hours()/24)
	}
	out.ExpectedDays = Mean(intervals)

	return out, nil
}
