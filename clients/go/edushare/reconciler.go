package edushare

import (
	"context"
	"sync"
)

// ReadReconciler pushes local read-state to the server while keeping at
// most one mark-read request in flight per message. The server call is
// idempotent, so duplicates would be harmless but wasteful; collapsing
// them keeps a busy thread view from stacking identical mutations.
type ReadReconciler struct {
	client  *Client
	mu      sync.Mutex
	pending map[uint]struct{}
}

// NewReadReconciler creates a ReadReconciler over an API client.
func NewReadReconciler(client *Client) *ReadReconciler {
	return &ReadReconciler{
		client:  client,
		pending: make(map[uint]struct{}),
	}
}

// MarkRead marks a message as read on the server. If a mark-read for
// the same message is already in flight, the call returns immediately
// without issuing another request.
func (r *ReadReconciler) MarkRead(ctx context.Context, id uint) error {
	r.mu.Lock()
	if _, inFlight := r.pending[id]; inFlight {
		r.mu.Unlock()
		return nil
	}
	r.pending[id] = struct{}{}
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		delete(r.pending, id)
		r.mu.Unlock()
	}()

	return r.client.MarkRead(ctx, id)
}

// MarkAllRead marks each of the given messages as read, skipping any
// with a request already in flight. The first error stops the sweep.
func (r *ReadReconciler) MarkAllRead(ctx context.Context, ids []uint) error {
	for _, id := range ids {
		if err := r.MarkRead(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// Pending reports how many mark-read requests are currently in flight.
func (r *ReadReconciler) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}
