package edushare

import (
	"context"
	"sync"
	"time"
)

// DefaultPollInterval matches the refresh cadence of the inbox view.
const DefaultPollInterval = 5 * time.Second

// FetchFunc produces one snapshot of the polled resource.
type FetchFunc func(ctx context.Context) (interface{}, error)

// Update is one poll result. Seq increases with each issued fetch;
// out-of-order results are dropped before they reach the channel, so
// consumers always observe snapshots in issuance order.
type Update struct {
	Seq   uint64
	Value interface{}
	Err   error
}

// Poller periodically invokes a fetch function and delivers results to
// subscribers. Each Subscribe call gets an independent subscription
// with its own lifecycle.
type Poller struct {
	interval time.Duration
	fetch    FetchFunc
}

// NewPoller creates a Poller. A non-positive interval falls back to
// DefaultPollInterval.
func NewPoller(interval time.Duration, fetch FetchFunc) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{interval: interval, fetch: fetch}
}

// Subscription is a running poll loop. Stop ends it; the Updates
// channel is closed once the loop has fully wound down.
type Subscription struct {
	updates chan Update
	cancel  context.CancelFunc
	done    chan struct{}
	stop    sync.Once
}

// Updates returns the channel poll results arrive on.
func (s *Subscription) Updates() <-chan Update {
	return s.updates
}

// Stop ends the subscription. Safe to call more than once.
func (s *Subscription) Stop() {
	s.stop.Do(func() {
		s.cancel()
	})
	<-s.done
}

// Subscribe starts polling immediately and then on every interval tick.
// The subscription stops when Stop is called or ctx is cancelled.
func (p *Poller) Subscribe(ctx context.Context) *Subscription {
	ctx, cancel := context.WithCancel(ctx)
	sub := &Subscription{
		updates: make(chan Update, 1),
		cancel:  cancel,
		done:    make(chan struct{}),
	}

	results := make(chan Update)
	var seq uint64

	issue := func() {
		seq++
		go func(n uint64) {
			value, err := p.fetch(ctx)
			select {
			case results <- Update{Seq: n, Value: value, Err: err}:
			case <-ctx.Done():
			}
		}(seq)
	}

	go func() {
		defer close(sub.done)
		defer close(sub.updates)

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		// A slow fetch can finish after a newer one. Track the last
		// delivered sequence and drop anything older.
		var delivered uint64

		issue()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				issue()
			case update := <-results:
				if update.Seq <= delivered {
					continue
				}
				delivered = update.Seq
				select {
				case sub.updates <- update:
				default:
					// Consumer is behind; replace the stale
					// pending update with the fresh one.
					select {
					case <-sub.updates:
					default:
					}
					sub.updates <- update
				}
			}
		}
	}()

	return sub
}
