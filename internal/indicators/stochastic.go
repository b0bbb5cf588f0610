package indicators

// Stochastic is the stochastic oscillator with %K and %D lines.
type Stochastic struct {
	kPeriod int
	dPeriod int
}

// NewStochastic creates a new stochastic oscillator.
func NewStochastic(kPeriod, dPeriod int) *Stochastic {
	return &Stochastic{kPeriod: kPeriod, dPeriod: dPeriod}
}

// Compute returns the %K and %D series. %K is ready from index kPeriod-1;
// %D smooths %K over dPeriod and warms up accordingly. A flat window
// (highest high equals lowest low) would divide by zero and stays
// NotReady for that bar.
func (s *Stochastic) Compute(high, low, closes []float64) (kLine, dLine []float64) {
	kLine = notReadySeries(len(closes))
	dLine = notReadySeries(len(closes))
	if s.kPeriod <= 0 || s.dPeriod <= 0 || len(closes) < s.kPeriod {
		return kLine, dLine
	}

	for i := s.kPeriod - 1; i < len(closes); i++ {
		hh := high[i]
		ll := low[i]
		for j := i - s.kPeriod + 1; j <= i; j++ {
			if high[j] > hh {
				hh = high[j]
			}
			if low[j] < ll {
				ll = low[j]
			}
		}
		if hh == ll {
			continue
		}
		kLine[i] = 100 * (closes[i] - ll) / (hh - ll)
	}

	// %D is a simple moving average of %K; propagate NotReady windows.
	for i := s.kPeriod + s.dPeriod - 2; i < len(closes); i++ {
		sum := 0.0
		ready := true
		for j := i - s.dPeriod + 1; j <= i; j++ {
			if !Ready(kLine[j]) {
				ready = false
				break
			}
			sum += kLine[j]
		}
		if ready {
			dLine[i] = sum / float64(s.dPeriod)
		}
	}
	return kLine, dLine
}
