package indicators

import "math"

// ATR is the Average True Range, a rolling mean of the true range.
type ATR struct {
	length int
}

// NewATR creates a new ATR indicator.
func NewATR(length int) *ATR {
	return &ATR{length: length}
}

// Compute returns the ATR series. The true range of the first bar falls
// back to high-low since there is no prior close. Ready from index
// length-1.
func (a *ATR) Compute(high, low, closes []float64) []float64 {
	out := notReadySeries(len(closes))
	if a.length <= 0 || len(closes) < a.length {
		return out
	}

	tr := make([]float64, len(closes))
	for i := range closes {
		rangeHL := high[i] - low[i]
		if i == 0 {
			tr[i] = rangeHL
			continue
		}
		tr[i] = math.Max(rangeHL, math.Max(
			math.Abs(high[i]-closes[i-1]),
			math.Abs(low[i]-closes[i-1]),
		))
	}

	sum := 0.0
	for i, v := range tr {
		sum += v
		if i >= a.length {
			sum -= tr[i-a.length]
		}
		if i >= a.length-1 {
			out[i] = sum / float64(a.length)
		}
	}
	return out
}
