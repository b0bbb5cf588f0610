package data

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/ducminhle1904/options-dsl-bot/pkg/types"
)

// JSONProvider implements DataProvider for JSON bar files: an array of
// objects with timestamp (RFC 3339 or epoch ms) and OHLCV fields.
type JSONProvider struct{}

// NewJSONProvider creates a new JSON data provider
func NewJSONProvider() *JSONProvider {
	return &JSONProvider{}
}

// GetName returns the name of the data provider
func (p *JSONProvider) GetName() string {
	return "JSON Provider"
}

type jsonBar struct {
	Timestamp json.RawMessage `json:"timestamp"`
	Open      float64         `json:"open"`
	High      float64         `json:"high"`
	Low       float64         `json:"low"`
	Close     float64         `json:"close"`
	Volume    float64         `json:"volume"`
}

// LoadData loads historical bars from a JSON file
func (p *JSONProvider) LoadData(source string) ([]types.OHLCV, error) {
	raw, err := os.ReadFile(source)
	if err != nil {
		return nil, err
	}

	var bars []jsonBar
	if err := json.Unmarshal(raw, &bars); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", source, err)
	}

	data := make([]types.OHLCV, 0, len(bars))
	for i, b := range bars {
		ts, err := parseJSONTimestamp(b.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("bar %d: %w", i, err)
		}
		if b.Open <= 0 || b.High <= 0 || b.Low <= 0 || b.Close <= 0 {
			return nil, fmt.Errorf("bar %d: non-positive price", i)
		}
		data = append(data, types.OHLCV{
			Timestamp: ts,
			Open:      b.Open,
			High:      b.High,
			Low:       b.Low,
			Close:     b.Close,
			Volume:    b.Volume,
		})
	}

	if err := p.ValidateData(data); err != nil {
		return nil, err
	}

	return data, nil
}

func parseJSONTimestamp(raw json.RawMessage) (time.Time, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
		}
		return t, nil
	}

	var epoch int64
	if err := json.Unmarshal(raw, &epoch); err == nil {
		if epoch > 1e12 {
			return time.UnixMilli(epoch).UTC(), nil
		}
		return time.Unix(epoch, 0).UTC(), nil
	}

	return time.Time{}, fmt.Errorf("unrecognized timestamp %s", string(raw))
}

// ValidateData rejects empty series and non-increasing timestamps
func (p *JSONProvider) ValidateData(data []types.OHLCV) error {
	if len(data) == 0 {
		return fmt.Errorf("no data rows")
	}
	return NewDefaultDataFilter().ValidateTimeSequence(data)
}
