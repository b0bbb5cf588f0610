package indicators

// SMA is the simple moving average over a fixed length.
type SMA struct {
	length int
}

// NewSMA creates a new SMA indicator.
func NewSMA(length int) *SMA {
	return &SMA{length: length}
}

// Compute returns the SMA series. Indices before length-1 are NotReady.
func (s *SMA) Compute(values []float64) []float64 {
	out := notReadySeries(len(values))
	if s.length <= 0 || len(values) < s.length {
		return out
	}

	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= s.length {
			sum -= values[i-s.length]
		}
		if i >= s.length-1 {
			out[i] = sum / float64(s.length)
		}
	}
	return out
}

// EMA is the exponential moving average seeded from the first value
// (pandas ewm adjust=false semantics). Values are computed recursively
// from index 0 but masked as NotReady until a full length has been seen,
// so early bars never leak a half-warmed average into a rule.
type EMA struct {
	length int
}

// NewEMA creates a new EMA indicator.
func NewEMA(length int) *EMA {
	return &EMA{length: length}
}

// Compute returns the EMA series. Indices before length-1 are NotReady.
func (e *EMA) Compute(values []float64) []float64 {
	out := notReadySeries(len(values))
	if e.length <= 0 || len(values) < e.length {
		return out
	}

	raw := emaSeries(values, e.length)
	for i := e.length - 1; i < len(values); i++ {
		out[i] = raw[i]
	}
	return out
}

// emaSeries computes the unmasked recursive EMA, defined from index 0.
// MACD builds on this directly because its own warm-up accounting differs.
func emaSeries(values []float64, length int) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}

	alpha := 2.0 / (float64(length) + 1.0)
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out
}

func notReadySeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = NotReady
	}
	return out
}
