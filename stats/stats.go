// Package stats summarizes enumeration results.
package stats

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

const Epsilon = 1e-6

func FuzzyEqual(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}

// RunningStat accumulates mean and variance in one pass (Welford).
type RunningStat struct {
	n    int
	mean float64
	m2   float64
}

func (s *RunningStat) Push(x float64) {
	s.n++
	delta := x - s.mean
	s.mean += delta / float64(s.n)
	s.m2 += delta * (x - s.mean)
}

func (s *RunningStat) Iterations() int {
	return s.n
}

func (s *RunningStat) Mean() float64 {
	return s.mean
}

// Variance is the sample variance.
func (s *RunningStat) Variance() float64 {
	if s.n <= 1 {
		return 0
	}
	return s.m2 / float64(s.n-1)
}

func (s *RunningStat) Stdev() float64 {
	return math.Sqrt(s.Variance())
}

func (s *RunningStat) StandardError() float64 {
	if s.n == 0 {
		return 0
	}
	return math.Sqrt(s.Variance() / float64(s.n))
}

// ConfidenceInterval returns the two-sided interval around the mean for a
// confidence level given in percent.
func (s *RunningStat) ConfidenceInterval(confidence float64) (lo, hi float64) {
	half := zScore(confidence) * s.StandardError()
	return s.mean - half, s.mean + half
}

// zScore is the two-sided critical value of the unit normal for a
// confidence level in percent: the point with (100-confidence)/2 percent
// of the mass above it.
func zScore(confidence float64) float64 {
	tail := (100 - confidence) / 200
	return -distuv.UnitNormal.Quantile(tail)
}
