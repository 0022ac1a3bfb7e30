package scene

import (
	"math"

	"github.com/montanaflynn/stats"
)

// DepthStats computes min, max, mean and median over the finite positive
// samples of a depth raster. Zeros, negatives, NaN and +Inf mark invalid
// pixels and are excluded; a raster with no valid pixel yields all zeros.
func DepthStats(vals []float32) (min, max, mean, median float64) {
	samples := make([]float64, 0, len(vals))
	for _, v := range vals {
		f := float64(v)
		if f > 0 && !math.IsInf(f, 1) {
			samples = append(samples, f)
		}
	}
	if len(samples) == 0 {
		return 0, 0, 0, 0
	}
	min, _ = stats.Min(samples)
	max, _ = stats.Max(samples)
	mean, _ = stats.Mean(samples)
	median, _ = stats.Median(samples)
	return min, max, mean, median
}
