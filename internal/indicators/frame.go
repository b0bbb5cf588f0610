package indicators

import (
	"fmt"
	"math"
	"time"

	"github.com/ducminhle1904/options-dsl-bot/pkg/types"
)

// NotReady is the sentinel for bars inside an indicator's warm-up window.
// Consumers must treat it as "no value", never as zero.
var NotReady = math.NaN()

// Ready reports whether v carries a usable value.
func Ready(v float64) bool {
	return !math.IsNaN(v)
}

// Frame is an OHLCV series annotated with named indicator columns. All
// columns have the same length as the bar series; warm-up indices hold
// NotReady. A Frame is built once per run and read-only afterwards.
type Frame struct {
	bars    []types.OHLCV
	order   []string
	columns map[string][]float64
}

// NewFrame seeds a frame with the base OHLCV columns.
func NewFrame(bars []types.OHLCV) *Frame {
	f := &Frame{
		bars:    bars,
		columns: make(map[string][]float64),
	}

	open := make([]float64, len(bars))
	high := make([]float64, len(bars))
	low := make([]float64, len(bars))
	closes := make([]float64, len(bars))
	volume := make([]float64, len(bars))
	for i, bar := range bars {
		open[i] = bar.Open
		high[i] = bar.High
		low[i] = bar.Low
		closes[i] = bar.Close
		volume[i] = bar.Volume
	}

	f.mustAdd("open", open)
	f.mustAdd("high", high)
	f.mustAdd("low", low)
	f.mustAdd("close", closes)
	f.mustAdd("volume", volume)
	return f
}

func (f *Frame) mustAdd(name string, values []float64) {
	if err := f.AddColumn(name, values); err != nil {
		panic(err)
	}
}

// AddColumn attaches a named series to the frame.
func (f *Frame) AddColumn(name string, values []float64) error {
	if _, exists := f.columns[name]; exists {
		return fmt.Errorf("duplicate column %q", name)
	}
	if len(values) != len(f.bars) {
		return fmt.Errorf("column %q has %d values for %d bars", name, len(values), len(f.bars))
	}
	f.columns[name] = values
	f.order = append(f.order, name)
	return nil
}

// Len returns the number of bars.
func (f *Frame) Len() int {
	return len(f.bars)
}

// Bar returns the raw OHLCV bar at index i.
func (f *Frame) Bar(i int) types.OHLCV {
	return f.bars[i]
}

// Has reports whether a column exists.
func (f *Frame) Has(name string) bool {
	_, ok := f.columns[name]
	return ok
}

// Columns returns column names in insertion order.
func (f *Frame) Columns() []string {
	return f.order
}

// Value returns the column value at index i, or NotReady when the column
// does not exist or i is out of range.
func (f *Frame) Value(name string, i int) float64 {
	col, ok := f.columns[name]
	if !ok || i < 0 || i >= len(col) {
		return NotReady
	}
	return col[i]
}

// Row is a read-only view of one bar of the frame. An out-of-range row
// (e.g. the row before the first bar) answers NotReady for every column,
// which makes the one-bar lookback of crossing operators fall out naturally.
type Row struct {
	frame *Frame
	index int
}

// Row returns the row view at index i. i may be -1 (or otherwise out of
// range) to represent a missing previous row.
func (f *Frame) Row(i int) Row {
	return Row{frame: f, index: i}
}

// Value returns the named column at this row, or NotReady.
func (r Row) Value(name string) float64 {
	if r.frame == nil {
		return NotReady
	}
	return r.frame.Value(name, r.index)
}

// Has reports whether the column exists in the underlying frame.
func (r Row) Has(name string) bool {
	return r.frame != nil && r.frame.Has(name)
}

// Index returns the bar index of this row.
func (r Row) Index() int {
	return r.index
}

// Timestamp returns the bar timestamp, or the zero time for an
// out-of-range row.
func (r Row) Timestamp() time.Time {
	if r.frame == nil || r.index < 0 || r.index >= len(r.frame.bars) {
		return time.Time{}
	}
	return r.frame.bars[r.index].Timestamp
}
