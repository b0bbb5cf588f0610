package live

import (
	"context"
	"io"
	"time"

	"github.com/ducminhle1904/options-dsl-bot/pkg/types"
)

// ReplaySource replays a recorded bar series as if it were live, with an
// optional delay between bars. Returns io.EOF when exhausted.
type ReplaySource struct {
	bars  []types.OHLCV
	index int
	delay time.Duration
}

// NewReplaySource creates a source that replays bars in order.
func NewReplaySource(bars []types.OHLCV, delay time.Duration) *ReplaySource {
	return &ReplaySource{bars: bars, delay: delay}
}

func (s *ReplaySource) Next(ctx context.Context) (types.OHLCV, error) {
	if s.index >= len(s.bars) {
		return types.OHLCV{}, io.EOF
	}

	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return types.OHLCV{}, ctx.Err()
		}
	} else if ctx.Err() != nil {
		return types.OHLCV{}, ctx.Err()
	}

	bar := s.bars[s.index]
	s.index++
	return bar, nil
}

func (s *ReplaySource) Close() error { return nil }
