package data

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/ducminhle1904/options-dsl-bot/pkg/types"
)

// CSVProvider implements DataProvider for CSV files. Malformed rows are
// errors, not skips; a backtest over silently thinned data is worse than
// no backtest.
type CSVProvider struct {
	format CSVColumnMapping
}

// NewCSVProvider creates a new CSV data provider with default format
func NewCSVProvider() *CSVProvider {
	return &CSVProvider{
		format: DefaultCSVFormat,
	}
}

// NewCSVProviderWithFormat creates a new CSV data provider with custom format
func NewCSVProviderWithFormat(format CSVColumnMapping) *CSVProvider {
	return &CSVProvider{
		format: format,
	}
}

// GetName returns the name of the data provider
func (p *CSVProvider) GetName() string {
	return "CSV Provider"
}

// LoadData loads historical bars from a CSV file
func (p *CSVProvider) LoadData(source string) ([]types.OHLCV, error) {
	file, err := os.Open(source)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)

	// Skip header
	if _, err := reader.Read(); err != nil {
		return nil, err
	}

	var data []types.OHLCV

	lineNum := 1
	for {
		record, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("error reading CSV at line %d: %v", lineNum, err)
		}
		lineNum++

		if len(record) < p.format.MinColumns {
			return nil, fmt.Errorf("insufficient columns at line %d (expected %d, got %d)", lineNum, p.format.MinColumns, len(record))
		}

		timestamp, err := p.parseTimestamp(record[p.format.TimestampCol])
		if err != nil {
			return nil, fmt.Errorf("invalid timestamp %q at line %d: %v", record[p.format.TimestampCol], lineNum, err)
		}

		bar := types.OHLCV{Timestamp: timestamp}
		fields := []struct {
			name string
			col  int
			dst  *float64
		}{
			{"open", p.format.OpenCol, &bar.Open},
			{"high", p.format.HighCol, &bar.High},
			{"low", p.format.LowCol, &bar.Low},
			{"close", p.format.CloseCol, &bar.Close},
			{"volume", p.format.VolumeCol, &bar.Volume},
		}
		for _, f := range fields {
			v, err := strconv.ParseFloat(record[f.col], 64)
			if err != nil {
				return nil, fmt.Errorf("invalid %s %q at line %d: %v", f.name, record[f.col], lineNum, err)
			}
			*f.dst = v
		}

		if bar.Open <= 0 || bar.High <= 0 || bar.Low <= 0 || bar.Close <= 0 {
			return nil, fmt.Errorf("non-positive price at line %d", lineNum)
		}
		if bar.High < bar.Low {
			return nil, fmt.Errorf("high below low at line %d", lineNum)
		}

		data = append(data, bar)
	}

	if err := p.ValidateData(data); err != nil {
		return nil, err
	}

	return data, nil
}

// parseTimestamp accepts the configured layout as well as RFC 3339 and
// unix epoch seconds or milliseconds.
func (p *CSVProvider) parseTimestamp(raw string) (time.Time, error) {
	if t, err := time.Parse(p.format.DateFormat, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if epoch, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if epoch > 1e12 {
			return time.UnixMilli(epoch).UTC(), nil
		}
		return time.Unix(epoch, 0).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp format")
}

// ValidateData rejects empty series and non-increasing timestamps
func (p *CSVProvider) ValidateData(data []types.OHLCV) error {
	if len(data) == 0 {
		return fmt.Errorf("no data rows")
	}
	return NewDefaultDataFilter().ValidateTimeSequence(data)
}
