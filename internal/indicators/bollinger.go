package indicators

import "math"

// BollingerBands computes the middle/lower/upper volatility bands around a
// simple moving average.
type BollingerBands struct {
	length int
	stdDev float64
}

// NewBollingerBands creates a new Bollinger Bands indicator.
func NewBollingerBands(length int, stdDev float64) *BollingerBands {
	return &BollingerBands{length: length, stdDev: stdDev}
}

// Compute returns the middle, lower and upper band series, ready from
// index length-1. The deviation is the sample standard deviation of the
// window; a window of one bar has no deviation and stays NotReady.
func (b *BollingerBands) Compute(values []float64) (middle, lower, upper []float64) {
	middle = notReadySeries(len(values))
	lower = notReadySeries(len(values))
	upper = notReadySeries(len(values))
	if b.length <= 1 || len(values) < b.length {
		return middle, lower, upper
	}

	for i := b.length - 1; i < len(values); i++ {
		window := values[i-b.length+1 : i+1]

		mean := 0.0
		for _, v := range window {
			mean += v
		}
		mean /= float64(b.length)

		variance := 0.0
		for _, v := range window {
			variance += (v - mean) * (v - mean)
		}
		sd := math.Sqrt(variance / float64(b.length-1))

		middle[i] = mean
		lower[i] = mean - b.stdDev*sd
		upper[i] = mean + b.stdDev*sd
	}
	return middle, lower, upper
}
