// Package forecast provides the probabilistic estimators: demand
// forecasting, Markov next-purchase prediction, and Bayesian behavioral
// insights. They share the statistical primitives in this file but are
// otherwise independent.
package forecast

import (
	"errors"
	"math"
)

// ErrInsufficientData marks results degraded for lack of history. Callers
// receive defaulted values alongside it, never a hard failure.
var ErrInsufficientData = errors.New("insufficient data")

// Mean returns the arithmetic mean, 0 for an empty series.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// MovingAverage returns the mean of the last window values.
func MovingAverage(xs []float64, window int) float64 {
	if window <= 0 || window > len(xs) {
		window = len(xs)
	}
	return Mean(xs[len(xs)-window:])
}

// Variance returns the sample variance, 0 when fewer than two values.
func Variance(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := Mean(xs)
	var ss float64
	for _, x := range xs {
		d := x - m
		ss += d * d
	}
	return ss / float64(len(xs)-1)
}

// StdDev returns the sample standard deviation.
func StdDev(xs []float64) float64 {
	return math.Sqrt(Variance(xs))
}

// LinearTrend fits a least-squares line over the series indexed 0..n-1 and
// returns its slope per step. A flat or too-short series yields 0.
func LinearTrend(xs []float64) float64 {
	n := float64(len(xs))
	if n < 2 {
		return 0
	}

	// x values are the indices, so their mean and spread are closed-form.
	meanX := (n - 1) / 2
	meanY := Mean(xs)

	var num, den float64
	for i, y := range xs {
		dx := float64(i) - meanX
		num += dx * (y - meanY)
		den += dx * dx
	}
	if den == 0 {
		return 0
	}
	return num / den
}

// Normalize scales a non-negative weight map into a probability
// distribution. An all-zero map becomes uniform.
func Normalize(weights map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(weights))
	var sum float64
	for _, w := range weights {
		sum += w
	}
	if sum == 0 {
		u := 1 / float64(len(weights))
		for k := range weights {
			out[k] = u
		}
		return out
	}
	for k, w := range weights {
		out[k] = w / sum
	}
	return out
}
