package data

import (
	"fmt"
	"sort"
	"time"

	"github.com/ducminhle1904/options-dsl-bot/pkg/types"
)

// DefaultDataFilter implements DataFilter for common filtering operations
type DefaultDataFilter struct{}

// NewDefaultDataFilter creates a new default data filter
func NewDefaultDataFilter() *DefaultDataFilter {
	return &DefaultDataFilter{}
}

// FilterByPeriod filters data to the last N period
func (f *DefaultDataFilter) FilterByPeriod(data []types.OHLCV, period time.Duration) []types.OHLCV {
	if period <= 0 || len(data) == 0 {
		return data
	}

	latestTime := data[len(data)-1].Timestamp
	cutoffTime := latestTime.Add(-period)

	startIdx := 0
	for i, bar := range data {
		if !bar.Timestamp.Before(cutoffTime) {
			startIdx = i
			break
		}
	}

	return data[startIdx:]
}

// FilterByDateRange filters data to a specific date range, inclusive
func (f *DefaultDataFilter) FilterByDateRange(data []types.OHLCV, start, end time.Time) []types.OHLCV {
	if len(data) == 0 {
		return data
	}

	var filtered []types.OHLCV
	for _, bar := range data {
		if !bar.Timestamp.Before(start) && !bar.Timestamp.After(end) {
			filtered = append(filtered, bar)
		}
	}

	return filtered
}

// ValidateTimeSequence ensures timestamps are strictly increasing. Both
// out-of-order and duplicate timestamps are rejected; indicator state is
// only meaningful over a strictly ordered series.
func (f *DefaultDataFilter) ValidateTimeSequence(data []types.OHLCV) error {
	for i := 1; i < len(data); i++ {
		if !data[i].Timestamp.After(data[i-1].Timestamp) {
			return fmt.Errorf("timestamps not strictly increasing at index %d: %s after %s",
				i, data[i].Timestamp.Format(time.RFC3339), data[i-1].Timestamp.Format(time.RFC3339))
		}
	}
	return nil
}

// SortByTimestamp returns a copy sorted in chronological order
func (f *DefaultDataFilter) SortByTimestamp(data []types.OHLCV) []types.OHLCV {
	if len(data) <= 1 {
		return data
	}

	sorted := make([]types.OHLCV, len(data))
	copy(sorted, data)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	return sorted
}

// RemoveDuplicates removes duplicate timestamps, keeping the first occurrence
func (f *DefaultDataFilter) RemoveDuplicates(data []types.OHLCV) []types.OHLCV {
	if len(data) <= 1 {
		return data
	}

	var filtered []types.OHLCV
	seen := make(map[int64]bool)

	for _, bar := range data {
		key := bar.Timestamp.UnixNano()
		if !seen[key] {
			seen[key] = true
			filtered = append(filtered, bar)
		}
	}

	return filtered
}
