package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Shivanand-hulikatti/booking-admin/internal/model"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Reconciler fills in booking emails by walking a priority-ordered list of
// sources and stopping at the first one that yields an email.
type Reconciler struct {
	sources []EmailSource
	log     *zap.Logger

	// limit caps concurrent bookings in flight; <= 0 means unbounded.
	limit int
	// timeout bounds each source lookup; 0 means none.
	timeout time.Duration
}

// ReconcilerOption configures a Reconciler.
type ReconcilerOption func(*Reconciler)

// WithConcurrency caps how many bookings are resolved at once.
func WithConcurrency(n int) ReconcilerOption {
	return func(r *Reconciler) { r.limit = n }
}

// WithLookupTimeout bounds every individual source lookup.
func WithLookupTimeout(d time.Duration) ReconcilerOption {
	return func(r *Reconciler) { r.timeout = d }
}

// NewReconciler constructs a Reconciler consulting sources in order.
func NewReconciler(log *zap.Logger, sources []EmailSource, opts ...ReconcilerOption) *Reconciler {
	r := &Reconciler{sources: sources, log: log}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reconcile returns a copy of bookings with Email set wherever a source
// could provide one. Order is preserved and no booking is dropped; source
// errors are logged and count as a miss for that source only.
func (r *Reconciler) Reconcile(ctx context.Context, bookings []model.Booking) []model.Booking {
	out := make([]model.Booking, len(bookings))
	copy(out, bookings)

	var g errgroup.Group
	if r.limit > 0 {
		g.SetLimit(r.limit)
	}
	for i := range out {
		i := i
		g.Go(func() error {
			out[i].Email = r.resolve(ctx, out[i])
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func (r *Reconciler) resolve(ctx context.Context, b model.Booking) string {
	for _, src := range r.sources {
		email, err := r.lookup(ctx, src, b)
		if err != nil {
			r.log.Warn("email lookup failed",
				zap.String("booking_id", b.ID),
				zap.String("user_id", b.UserID),
				zap.String("source", src.Name()),
				zap.Error(err),
			)
			continue
		}
		if email != "" {
			return email
		}
	}
	r.log.Debug("no email found for booking", zap.String("booking_id", b.ID))
	return ""
}

type lookupResult struct {
	email string
	err   error
}

// lookup runs one source call, bounded by the configured timeout. The
// platform client does not take a context, so the call runs in its own
// goroutine and is abandoned once the deadline passes; its late result is
// discarded.
func (r *Reconciler) lookup(ctx context.Context, src EmailSource, b model.Booking) (string, error) {
	if r.timeout <= 0 {
		return src.Lookup(ctx, b)
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	done := make(chan lookupResult, 1)
	go func() {
		email, err := src.Lookup(ctx, b)
		done <- lookupResult{email: email, err: err}
	}()

	select {
	case res := <-done:
		return res.email, res.err
	case <-ctx.Done():
		return "", fmt.Errorf("%s lookup: %w", src.Name(), ctx.Err())
	}
}
