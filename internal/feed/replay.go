package feed

import (
	"context"
	"sync"
	"time"

	"github.com/silverfox-lab/silverfox/internal/types"
)

// ReplayFeed plays prepared quote frames to the handler at a fixed
// interval, one frame per tick. Used for dry runs against recorded or
// synthesized data; the push cadence mimics the broker stream.
type ReplayFeed struct {
	mu       sync.Mutex
	frames   [][]types.Quote
	interval time.Duration
	cancel   context.CancelFunc
}

// NewReplayFeed creates a replay feed over the given frames.
func NewReplayFeed(frames [][]types.Quote, interval time.Duration) *ReplayFeed {
	return &ReplayFeed{
		frames:   frames,
		interval: interval,
	}
}

// Subscribe implements Feed. Only quotes for subscribed symbols are
// delivered; the stream stops after the last frame or on Unsubscribe.
func (f *ReplayFeed) Subscribe(ctx context.Context, symbols []string, handler func([]types.Quote)) error {
	wanted := make(map[string]struct{}, len(symbols))
	for _, s := range symbols {
		wanted[s] = struct{}{}
	}

	f.mu.Lock()
	if f.cancel != nil {
		f.cancel()
	}

	runCtx, cancel := context.WithCancel(ctx)
	f.cancel = cancel
	frames := f.frames
	f.mu.Unlock()

	go func() {
		ticker := time.NewTicker(f.interval)
		defer ticker.Stop()

		for _, frame := range frames {
			select {
			case <-runCtx.Done():
				return
			case <-ticker.C:
			}

			batch := make([]types.Quote, 0, len(frame))
			for _, q := range frame {
				if _, ok := wanted[q.Symbol]; ok {
					batch = append(batch, q)
				}
			}

			if len(batch) > 0 {
				handler(batch)
			}
		}
	}()

	return nil
}

// Unsubscribe implements Feed.
func (f *ReplayFeed) Unsubscribe(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}

	return nil
}

var _ Feed = (*ReplayFeed)(nil)
