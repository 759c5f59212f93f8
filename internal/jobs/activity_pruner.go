package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// PruneInterval is how often old activity entries are removed.
const PruneInterval = 6 * time.Hour

// Pruner deletes activity entries older than keep.
type Pruner interface {
	Prune(ctx context.Context, keep time.Duration) (int64, error)
}

// ActivityPruner keeps the activity log to a retention window.
type ActivityPruner struct {
	log      Pruner
	keep     time.Duration
	interval time.Duration

	ticker *time.Ticker
	done   chan struct{}
	wg     sync.WaitGroup
	once   sync.Once
}

func NewActivityPruner(log Pruner, keep time.Duration) *ActivityPruner {
	return &ActivityPruner{
		log:      log,
		keep:     keep,
		interval: PruneInterval,
		done:     make(chan struct{}),
	}
}

// Start prunes once and then on every interval until Stop or ctx ends.
func (p *ActivityPruner) Start(ctx context.Context) {
	slog.Info("starting activity pruner", "interval", p.interval, "retention", p.keep)

	p.prune(ctx)

	p.ticker = time.NewTicker(p.interval)
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		for {
			select {
			case <-p.ticker.C:
				p.prune(ctx)
			case <-ctx.Done():
				return
			case <-p.done:
				slog.Info("activity pruner stopped")
				return
			}
		}
	}()
}

// Stop ends the background loop and waits for it to exit.
func (p *ActivityPruner) Stop() {
	p.once.Do(func() {
		if p.ticker != nil {
			p.ticker.Stop()
		}
		close(p.done)
	})
	p.wg.Wait()
}

func (p *ActivityPruner) prune(ctx context.Context) {
	removed, err := p.log.Prune(ctx, p.keep)
	if err != nil {
		slog.Error("failed to prune activity log", "error", err)
		return
	}
	if removed > 0 {
		slog.Info("pruned activity log", "removed", removed)
	}
}
