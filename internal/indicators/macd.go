package indicators

// MACD is the moving average convergence/divergence oscillator. It is the
// one multi-output trend indicator in the vocabulary: line, signal line and
// histogram are exposed as separate columns.
type MACD struct {
	fast   int
	slow   int
	signal int
}

// NewMACD creates a new MACD indicator with the given fast, slow and
// signal periods.
func NewMACD(fast, slow, signal int) *MACD {
	return &MACD{fast: fast, slow: slow, signal: signal}
}

// Compute returns the MACD line, signal line and histogram series. The
// line warms up at index slow-1; the signal line and histogram need a
// further signal-1 bars of line history on top of that.
func (m *MACD) Compute(values []float64) (line, signalLine, histogram []float64) {
	line = notReadySeries(len(values))
	signalLine = notReadySeries(len(values))
	histogram = notReadySeries(len(values))
	if m.slow <= 0 || m.fast <= 0 || m.signal <= 0 || len(values) < m.slow {
		return line, signalLine, histogram
	}

	fastEMA := emaSeries(values, m.fast)
	slowEMA := emaSeries(values, m.slow)

	lineStart := m.slow - 1
	rawLine := make([]float64, 0, len(values)-lineStart)
	for i := lineStart; i < len(values); i++ {
		line[i] = fastEMA[i] - slowEMA[i]
		rawLine = append(rawLine, line[i])
	}

	if len(rawLine) < m.signal {
		return line, signalLine, histogram
	}

	rawSignal := emaSeries(rawLine, m.signal)
	signalStart := lineStart + m.signal - 1
	for i := signalStart; i < len(values); i++ {
		signalLine[i] = rawSignal[i-lineStart]
		histogram[i] = line[i] - signalLine[i]
	}
	return line, signalLine, histogram
}
