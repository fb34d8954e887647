// Package analysis characterizes recorded residual histories.
package analysis

import "math"

// Summary describes how a residual history behaved.
type Summary struct {
	// Rate is the estimated geometric contraction factor per step,
	// fitted over the whole history. Below 1 means convergence.
	Rate float64
	// Steps is the number of samples analyzed.
	Steps int
	// StagnationFrom is the first step index at which the residual
	// stopped improving, or -1 if it never stagnated.
	StagnationFrom int
}

// EstimateRate fits log10 ||r|| against the step index by least
// squares and returns the implied per-step contraction factor. A
// history shorter than two steps yields the neutral rate 1.
func EstimateRate(residuals []float64) float64 {
	logs := logNorms(residuals)
	n := len(logs)
	if n < 2 {
		return 1.0
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, y := range logs {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	den := float64(n)*sumXX - sumX*sumX
	if den == 0 {
		return 1.0
	}
	slope := (float64(n)*sumXY - sumX*sumY) / den
	return math.Pow(10, slope)
}

// DetectStagnation returns the first index from which the residual
// norm failed to shrink by at least relTol over each subsequent step,
// or -1 if the history kept improving.
func DetectStagnation(residuals []float64, relTol float64) int {
	logs := logNorms(residuals)
	for i := 1; i < len(logs); i++ {
		improved := false
		for j := i; j < len(logs); j++ {
			if logs[j] < logs[j-1]-relTol {
				improved = true
				break
			}
		}
		if !improved {
			return i
		}
	}
	return -1
}

// Analyze summarizes a stored residual history.
func Analyze(residuals []float64) Summary {
	return Summary{
		Rate:           EstimateRate(residuals),
		Steps:          len(residuals),
		StagnationFrom: DetectStagnation(residuals, 1e-3),
	}
}

func logNorms(residuals []float64) []float64 {
	logs := make([]float64, len(residuals))
	for i, rs := range residuals {
		norm := math.Sqrt(rs)
		if norm > 0 {
			logs[i] = math.Max(math.Log10(norm), -16)
		} else {
			logs[i] = -16
		}
	}
	return logs
}
