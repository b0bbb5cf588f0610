package indicators

// OBV is On-Balance Volume, a cumulative volume flow series.
type OBV struct{}

// NewOBV creates a new OBV indicator.
func NewOBV() *OBV {
	return &OBV{}
}

// Compute returns the OBV series. It is cumulative from the first bar and
// has no warm-up window; the first value is zero by convention.
func (o *OBV) Compute(closes, volume []float64) []float64 {
	out := make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		switch {
		case closes[i] > closes[i-1]:
			out[i] = out[i-1] + volume[i]
		case closes[i] < closes[i-1]:
			out[i] = out[i-1] - volume[i]
		default:
			out[i] = out[i-1]
		}
	}
	return out
}
