package util

import (
	"math"
	"math/bits"
	"slices"
)

// Stats summarizes a sample of values, e.g. the palette lengths of all
// sections of a store.
type Stats struct {
	Count        int     `json:"count"`
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	Mean         float64 `json:"mean"`
	Median       float64 `json:"median"`
	StdDeviation float64 `json:"std_deviation"`
}

// NewStats computes the statistics of values. The input is not modified.
func NewStats(values []float64) Stats {
	if len(values) == 0 {
		return Stats{}
	}
	sorted := slices.Sorted(slices.Values(values))
	n := len(sorted)

	s := Stats{Count: n, Min: sorted[0], Max: sorted[n-1]}
	var sum float64
	for _, v := range sorted {
		sum += v
	}
	s.Mean = sum / float64(n)

	if n%2 == 0 {
		s.Median = (sorted[n/2-1] + sorted[n/2]) / 2
	} else {
		s.Median = sorted[n/2]
	}

	var sumSquaredDiffs float64
	for _, v := range sorted {
		diff := v - s.Mean
		sumSquaredDiffs += diff * diff
	}
	// population formula
	s.StdDeviation = math.Sqrt(sumSquaredDiffs / float64(n))
	return s
}

// ----------------------------------------------------------------------------
// SizeHistogram
// ----------------------------------------------------------------------------

// SizeHistogram counts sizes in power of two buckets: bucket i holds the
// sizes in (2^(i-1), 2^i], bucket 0 holds 0 and 1. Packed sections are whole
// words, so their sizes cluster on these bounds.
//
// A SizeHistogram is not safe for concurrent use.
type SizeHistogram struct {
	buckets [bits.UintSize + 1]int64
	count   int64
	sum     int64
}

// NewSizeHistogram creates an empty histogram
func NewSizeHistogram() *SizeHistogram {
	return &SizeHistogram{}
}

// Add records one size, negative sizes count as 0
func (h *SizeHistogram) Add(size int) {
	size = max(size, 0)
	h.buckets[bits.Len(uint(max(size-1, 0)))]++
	h.count++
	h.sum += int64(size)
}

// Count returns the number of recorded sizes
func (h *SizeHistogram) Count() int64 {
	return h.count
}

// Mean returns the average size, 0 if nothing was recorded
func (h *SizeHistogram) Mean() int {
	if h.count == 0 {
		return 0
	}
	return int(h.sum / h.count)
}

// Percentile returns the upper bound of the bucket holding the given
// percentile (0-100), 0 if nothing was recorded or percentile is invalid.
func (h *SizeHistogram) Percentile(percentile int) int {
	if h.count == 0 || percentile < 0 || percentile > 100 {
		return 0
	}
	target := max(int64(math.Ceil(float64(h.count)*float64(percentile)/100)), 1)
	var seen int64
	for i, n := range h.buckets {
		seen += n
		if seen >= target {
			return 1 << i
		}
	}
	return math.MaxInt
}
