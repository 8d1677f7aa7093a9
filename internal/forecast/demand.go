package forecast

import (
	"fmt"
	"time"

	domain "github.com/lmoretti/storeiq/pkg/types"
)

// ciMultiplier approximates a 95% interval from the historical std dev.
const ciMultiplier = 1.96

// DemandForecast is the full demand projection for one product.
type DemandForecast struct {
	ProductID      string                 `json:"product_id"`
	Points         []domain.ForecastPoint `json:"points"`
	ExpectedDemand float64                `json:"expected_demand"`
	DailyRate      float64                `json:"daily_rate"`
	ReorderPoint   int                    `json:"reorder_point"`
	SuggestedStock int                    `json:"suggested_stock"`
	Observations   int                    `json:"observations"`
	Insufficient   bool                   `json:"insufficient_data"`
}

// DemandForecaster extrapolates per-product daily sales.
type DemandForecaster struct {
	HorizonDays     int
	WindowDays      int
	MinObservations int
}

// Forecast projects daily quantities over the horizon from the product's
// sales history. With fewer than MinObservations non-empty days it returns
// a zeroed forecast flagged insufficient together with ErrInsufficientData.
func (f *DemandForecaster) Forecast(productID string, events []domain.PurchaseEvent, now time.Time) (DemandForecast, error) {
	out := DemandForecast{ProductID: productID}

	daily := dailySeries(events, now, f.WindowDays)
	out.Observations = observedDays(daily)

	if out.Observations < f.MinObservations {
		out.Insufficient = true
		return out, fmt.Errorf("product %s: %d observed days: %w",
			productID, out.Observations, ErrInsufficientData)
	}

	avg := MovingAverage(daily, 7)
	trend := LinearTrend(daily)
	spread := ciMultiplier * StdDev(daily)
	accuracy := historicalAccuracy(daily)

	today := now.UTC().Truncate(24 * time.Hour)
	var total float64
	for day := 1; day <= f.HorizonDays; day++ {
		predicted := avg + trend*float64(day)
		if predicted < 0 {
			predicted = 0
		}
		total += predicted

		low := predicted - spread
		if low < 0 {
			low = 0
		}

		out.Points = append(out.Points, domain.ForecastPoint{
			ProductID: productID,
			Date:      today.AddDate(0, 0, day),
			Predicted: predicted,
			Low:       low,
			High:      predicted + spread,
			Accuracy:  accuracy,
		})
	}

	out.ExpectedDemand = total
	out.DailyRate = Mean(daily)
	// Reorder when stock covers less than a week of expected demand.
	out.ReorderPoint = int(out.ExpectedDemand / float64(f.HorizonDays) * 7)
	out.SuggestedStock = int(total + spread)
	return out, nil
}

// dailySeries buckets quantities by UTC day over the trailing window,
// zero-filling days with no sales.
func dailySeries(events []domain.PurchaseEvent, now time.Time, windowDays int) []float64 {
	series := make([]float64, windowDays)
	start := now.UTC().Truncate(24*time.Hour).AddDate(0, 0, -windowDays+1)

	for _, ev := range events {
		day := int(ev.OccurredAt.UTC().Truncate(24*time.Hour).Sub(start).Hours() / 24)
		if day < 0 || day >= windowDays {
			continue
		}
		q := ev.Quantity
		if q <= 0 {
			q = 1
		}
		series[day] += float64(q)
	}
	return series
}

func observedDays(daily []float64) int {
	var n int
	for _, v := range daily {
		if v > 0 {
			n++
		}
	}
	return n
}

// historicalAccuracy scores how well a one-step moving average would have
// predicted the observed series, mapped into [0,1].
func historicalAccuracy(daily []float64) float64 {
	if len(daily) < 8 {
		return 0.5
	}

	var absErr, total float64
	for i := 7; i < len(daily); i++ {
		pred := MovingAverage(daily[:i], 7)
		diff := daily[i] - pred
		if diff < 0 {
			diff = -diff
		}
		absErr += diff
		total += daily[i]
	}
	if total == 0 {
		return 0.5
	}

	acc := 1 - absErr/total
	if acc < 0 {
		return 0
	}
	return acc
}
