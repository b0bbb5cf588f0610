package data

import (
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ducminhle1904/options-dsl-bot/pkg/types"
)

// DataManager combines provider selection, caching and filtering in one
// convenient interface.
type DataManager struct {
	csv    DataProvider
	json   DataProvider
	filter *DefaultDataFilter
}

// NewDataManager creates a data manager with cached CSV and JSON providers
func NewDataManager() *DataManager {
	return &DataManager{
		csv:    NewCachedProvider(NewCSVProvider()),
		json:   NewCachedProvider(NewJSONProvider()),
		filter: NewDefaultDataFilter(),
	}
}

// LoadHistoricalData loads bars from a file, choosing the provider by
// extension (.json gets the JSON provider, everything else CSV)
func (dm *DataManager) LoadHistoricalData(filename string) ([]types.OHLCV, error) {
	if strings.EqualFold(filepath.Ext(filename), ".json") {
		return dm.json.LoadData(filename)
	}
	return dm.csv.LoadData(filename)
}

// FilterDataByPeriod filters data to the trailing period
func (dm *DataManager) FilterDataByPeriod(data []types.OHLCV, period time.Duration) []types.OHLCV {
	return dm.filter.FilterByPeriod(data, period)
}

// FilterDataByDateRange filters data to a date range
func (dm *DataManager) FilterDataByDateRange(data []types.OHLCV, start, end time.Time) []types.OHLCV {
	return dm.filter.FilterByDateRange(data, start, end)
}

// ValidateData validates loaded data
func (dm *DataManager) ValidateData(data []types.OHLCV) error {
	if len(data) == 0 {
		return dm.csv.ValidateData(data)
	}
	return dm.filter.ValidateTimeSequence(data)
}

// ParseTrailingPeriod parses period strings like "7d", "30d", "180d"
func ParseTrailingPeriod(s string) (time.Duration, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if strings.HasSuffix(s, "days") {
		s = strings.TrimSuffix(s, "days") + "d"
	}
	if strings.HasSuffix(s, "d") {
		nStr := strings.TrimSuffix(s, "d")
		if nStr == "" {
			return 0, false
		}
		n, err := strconv.Atoi(nStr)
		if err != nil || n <= 0 {
			return 0, false
		}
		return time.Duration(n) * 24 * time.Hour, true
	}
	// allow raw durations too (e.g., 168h)
	if d, err := time.ParseDuration(s); err == nil {
		return d, true
	}
	return 0, false
}
