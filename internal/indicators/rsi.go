package indicators

// RSI is the Relative Strength Index over rolling mean gains/losses.
type RSI struct {
	length int
}

// NewRSI creates a new RSI indicator with the given lookback length.
func NewRSI(length int) *RSI {
	return &RSI{length: length}
}

// Compute returns the RSI series. The first usable value appears at index
// length (one price change per lookback slot). A perfectly flat window has
// neither gains nor losses and stays NotReady rather than reporting a
// misleading midpoint.
func (r *RSI) Compute(values []float64) []float64 {
	out := notReadySeries(len(values))
	if r.length <= 0 || len(values) < r.length+1 {
		return out
	}

	gains := make([]float64, len(values))
	losses := make([]float64, len(values))
	for i := 1; i < len(values); i++ {
		change := values[i] - values[i-1]
		if change > 0 {
			gains[i] = change
		} else {
			losses[i] = -change
		}
	}

	gainSum := 0.0
	lossSum := 0.0
	for i := 1; i < len(values); i++ {
		gainSum += gains[i]
		lossSum += losses[i]
		if i > r.length {
			gainSum -= gains[i-r.length]
			lossSum -= losses[i-r.length]
		}
		if i < r.length {
			continue
		}

		avgGain := gainSum / float64(r.length)
		avgLoss := lossSum / float64(r.length)
		switch {
		case avgLoss == 0 && avgGain == 0:
			// degenerate flat window
		case avgLoss == 0:
			out[i] = 100
		default:
			rs := avgGain / avgLoss
			out[i] = 100 - (100 / (1 + rs))
		}
	}
	return out
}
