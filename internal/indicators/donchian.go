package indicators

// DonchianChannels tracks rolling extrema: the highest high and lowest low
// over a fixed window, plus their midpoint.
type DonchianChannels struct {
	length int
}

// NewDonchianChannels creates a new Donchian Channels indicator.
func NewDonchianChannels(length int) *DonchianChannels {
	return &DonchianChannels{length: length}
}

// Compute returns the middle, lower and upper channel series, ready from
// index length-1.
func (dc *DonchianChannels) Compute(high, low []float64) (middle, lower, upper []float64) {
	middle = notReadySeries(len(high))
	lower = notReadySeries(len(high))
	upper = notReadySeries(len(high))
	if dc.length <= 0 || len(high) < dc.length {
		return middle, lower, upper
	}

	for i := dc.length - 1; i < len(high); i++ {
		hh := high[i]
		ll := low[i]
		for j := i - dc.length + 1; j <= i; j++ {
			if high[j] > hh {
				hh = high[j]
			}
			if low[j] < ll {
				ll = low[j]
			}
		}
		upper[i] = hh
		lower[i] = ll
		middle[i] = (hh + ll) / 2
	}
	return middle, lower, upper
}
