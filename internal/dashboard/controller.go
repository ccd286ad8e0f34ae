// Package dashboard owns the admin dashboard state: the loading flag and
// the booking and feedback collections shown to the admin.
package dashboard

import (
	"context"
	"sync"

	"github.com/Shivanand-hulikatti/booking-admin/internal/model"
	"go.uber.org/zap"
)

// BookingFetcher fetches reconciled bookings.
type BookingFetcher interface {
	FetchBookings(ctx context.Context) ([]model.Booking, error)
}

// FeedbackFetcher fetches feedback records.
type FeedbackFetcher interface {
	FetchFeedback(ctx context.Context) ([]model.Feedback, error)
}

// Notifier surfaces a toast to the admin.
type Notifier interface {
	Notify(t model.Toast) model.Toast
}

var (
	bookingsFailedToast = model.Toast{
		Title:       "Error",
		Description: "Failed to load bookings. Please try again.",
		Variant:     model.VariantDestructive,
	}
	feedbackFailedToast = model.Toast{
		Title:       "Error",
		Description: "Failed to load feedback data. Please try again.",
		Variant:     model.VariantDestructive,
	}
)

// Controller holds dashboard state. Loading starts true and only the
// booking fetch moves it; it stays true while any booking fetch is in
// flight.
type Controller struct {
	bookingsSrc BookingFetcher
	feedbackSrc FeedbackFetcher
	notifier    Notifier
	log         *zap.Logger
	onLoading   func(bool)

	mu       sync.RWMutex
	loading  bool
	inflight int
	bookings []model.Booking
	feedback []model.Feedback
}

// Option configures a Controller.
type Option func(*Controller)

// WithLoadingObserver registers fn to be called on every loading transition.
func WithLoadingObserver(fn func(loading bool)) Option {
	return func(c *Controller) { c.onLoading = fn }
}

// NewController constructs a Controller.
func NewController(bookings BookingFetcher, feedback FeedbackFetcher, notifier Notifier, log *zap.Logger, opts ...Option) *Controller {
	c := &Controller{
		bookingsSrc: bookings,
		feedbackSrc: feedback,
		notifier:    notifier,
		log:         log,
		loading:     true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load runs the booking and feedback fetches concurrently and waits for
// both. Failures are reported through the notifier.
func (c *Controller) Load(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_ = c.RefreshBookings(ctx)
	}()
	go func() {
		defer wg.Done()
		c.refreshFeedback(ctx)
	}()
	wg.Wait()
}

// RefreshBookings re-runs the booking fetch. On failure the previous
// bookings are kept, a toast is raised and the error is returned.
func (c *Controller) RefreshBookings(ctx context.Context) error {
	c.beginFetch()
	defer c.endFetch()

	bookings, err := c.bookingsSrc.FetchBookings(ctx)
	if err != nil {
		c.log.Error("error fetching bookings", zap.Error(err))
		c.notifier.Notify(bookingsFailedToast)
		return err
	}

	c.mu.Lock()
	c.bookings = bookings
	c.mu.Unlock()
	c.log.Info("bookings loaded", zap.Int("count", len(bookings)))
	return nil
}

func (c *Controller) refreshFeedback(ctx context.Context) {
	feedback, err := c.feedbackSrc.FetchFeedback(ctx)
	if err != nil {
		c.log.Error("error fetching feedback", zap.Error(err))
		c.notifier.Notify(feedbackFailedToast)
		return
	}

	c.mu.Lock()
	c.feedback = feedback
	c.mu.Unlock()
	c.log.Info("feedback loaded", zap.Int("count", len(feedback)))
}

func (c *Controller) beginFetch() {
	c.mu.Lock()
	c.inflight++
	c.loading = true
	c.mu.Unlock()
	c.notifyLoading(true)
}

func (c *Controller) endFetch() {
	c.mu.Lock()
	c.inflight--
	loading := c.inflight > 0
	c.loading = loading
	c.mu.Unlock()
	c.notifyLoading(loading)
}

func (c *Controller) notifyLoading(v bool) {
	if c.onLoading != nil {
		c.onLoading(v)
	}
}

// Snapshot returns a copy of the current state. Collections are never nil.
func (c *Controller) Snapshot() model.DashboardState {
	c.mu.RLock()
	defer c.mu.RUnlock()

	state := model.DashboardState{
		Loading:  c.loading,
		Bookings: make([]model.Booking, len(c.bookings)),
		Feedback: make([]model.Feedback, len(c.feedback)),
	}
	copy(state.Bookings, c.bookings)
	copy(state.Feedback, c.feedback)
	return state
}
