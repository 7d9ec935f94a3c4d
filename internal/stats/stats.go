// Package stats holds the order-statistic and dispersion kernel shared by
// every aggregation backend. Keeping median, std-dev and mode in one place
// guarantees the backends cannot drift on tie-breaking: the libraries they
// build on define these estimators differently (empirical quantiles,
// compensated variance), and grouped output must agree exactly.
package stats

import "math"

// Median returns the median of a sorted, non-empty slice: the middle
// element for odd lengths, the average of the two middle elements for even
// lengths.
func Median(sorted []float64) float64 {
	n := len(sorted)
	mid := n / 2
	if n%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// StdDev returns the sample standard deviation (n-1 denominator) of a
// non-empty slice given its mean. A single observation has no spread,
// so n == 1 yields 0.
func StdDev(values []float64, mean float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	var ss float64
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(n-1))
}

// Mode returns the most frequent value and its count. Ties break toward
// the value whose first occurrence comes earliest. An empty input returns
// ("", 0).
func Mode(values []string) (string, int) {
	counts := make(map[string]int, len(values))
	var order []string
	for _, v := range values {
		if counts[v] == 0 {
			order = append(order, v)
		}
		counts[v]++
	}
	var mode string
	var best int
	for _, v := range order {
		if counts[v] > best {
			mode, best = v, counts[v]
		}
	}
	return mode, best
}
