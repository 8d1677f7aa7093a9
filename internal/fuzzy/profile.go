package fuzzy

import (
	"math"
	"time"

	domain "github.com/lmoretti/storeiq/pkg/types"
)

// neutralPrior is the membership degree every profile dimension decays
// toward when history is absent.
const neutralPrior = 0.5

// profileHalfLife controls how quickly old purchases stop informing the
// profile.
const profileHalfLife = 90 * 24 * time.Hour

// BuildProfile derives a FuzzyProfile from the user's purchase history.
// With no events every degree sits at the neutral prior.
func BuildProfile(userID string, events []domain.PurchaseEvent, avgPrice func(productID string) float64, now time.Time) domain.FuzzyProfile {
	profile := domain.FuzzyProfile{
		UserID:            userID,
		PriceSensitivity:  neutralPrior,
		QualityPreference: neutralPrior,
		CategoryInterest:  make(map[string]float64),
	}
	if len(events) == 0 {
		return profile
	}

	var weightSum, priceSum float64
	categoryWeight := make(map[string]float64)

	for _, ev := range events {
		// Recency decay so old behavior fades toward the prior.
		age := now.Sub(ev.OccurredAt)
		w := math.Exp2(-float64(age) / float64(profileHalfLife))
		weightSum += w

		if avgPrice != nil {
			priceSum += avgPrice(ev.ProductID) * w
		}
		if ev.Category != "" {
			categoryWeight[ev.Category] += w
		}
	}

	if weightSum == 0 {
		return profile
	}

	// Cheaper-than-average buying reads as higher price sensitivity. The
	// mean paid price is squashed into [0,1] against a soft reference.
	meanPrice := priceSum / weightSum
	profile.PriceSensitivity = clamp01(1 - sigmoidish(meanPrice))
	profile.QualityPreference = clamp01(sigmoidish(meanPrice))

	var maxW float64
	for _, w := range categoryWeight {
		if w > maxW {
			maxW = w
		}
	}
	for c, w := range categoryWeight {
		profile.CategoryInterest[c] = w / maxW
	}

	return profile
}

// sigmoidish maps a non-negative price onto (0,1) with 0.5 around 100.
func sigmoidish(price float64) float64 {
	return price / (price + 100)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
