package dashboard

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Shivanand-hulikatti/booking-admin/internal/model"
	"go.uber.org/zap"
)

type stubBookings struct {
	bookings []model.Booking
	err      error
	calls    int
}

func (s *stubBookings) FetchBookings(ctx context.Context) ([]model.Booking, error) {
	s.calls++
	return s.bookings, s.err
}

type stubFeedback struct {
	feedback []model.Feedback
	err      error
}

func (s *stubFeedback) FetchFeedback(ctx context.Context) ([]model.Feedback, error) {
	return s.feedback, s.err
}

type recordingNotifier struct {
	mu     sync.Mutex
	toasts []model.Toast
}

func (n *recordingNotifier) Notify(t model.Toast) model.Toast {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.toasts = append(n.toasts, t)
	return t
}

type loadingRecorder struct {
	mu          sync.Mutex
	transitions []bool
}

func (r *loadingRecorder) observe(v bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transitions = append(r.transitions, v)
}

func TestController_InitialState(t *testing.T) {
	c := NewController(&stubBookings{}, &stubFeedback{}, &recordingNotifier{}, zap.NewNop())
	state := c.Snapshot()
	if !state.Loading {
		t.Error("Loading = false before first fetch, want true")
	}
	if state.Bookings == nil || state.Feedback == nil {
		t.Error("collections should be empty, not nil")
	}
}

func TestController_LoadSuccess(t *testing.T) {
	bookings := &stubBookings{bookings: []model.Booking{{ID: "b1", Email: "a@x.com"}}}
	feedback := &stubFeedback{feedback: []model.Feedback{{ID: "f1"}}}
	notifier := &recordingNotifier{}
	c := NewController(bookings, feedback, notifier, zap.NewNop())

	c.Load(context.Background())

	state := c.Snapshot()
	if state.Loading {
		t.Error("Loading = true after load")
	}
	if len(state.Bookings) != 1 || state.Bookings[0].Email != "a@x.com" {
		t.Errorf("bookings = %+v", state.Bookings)
	}
	if len(state.Feedback) != 1 {
		t.Errorf("feedback = %+v", state.Feedback)
	}
	if len(notifier.toasts) != 0 {
		t.Errorf("toasts = %+v, want none", notifier.toasts)
	}
}

func TestController_FeedbackFailureDoesNotTouchLoading(t *testing.T) {
	rec := &loadingRecorder{}
	notifier := &recordingNotifier{}
	c := NewController(
		&stubBookings{bookings: []model.Booking{{ID: "b1"}}},
		&stubFeedback{err: errors.New("feedback table missing")},
		notifier,
		zap.NewNop(),
		WithLoadingObserver(rec.observe),
	)

	c.Load(context.Background())

	if len(rec.transitions) != 2 || !rec.transitions[0] || rec.transitions[1] {
		t.Errorf("loading transitions = %v, want [true false]", rec.transitions)
	}
	state := c.Snapshot()
	if state.Loading || len(state.Bookings) != 1 {
		t.Errorf("state = %+v", state)
	}
	if len(notifier.toasts) != 1 {
		t.Fatalf("toasts = %d, want 1", len(notifier.toasts))
	}
	toast := notifier.toasts[0]
	if toast.Description != "Failed to load feedback data. Please try again." || toast.Variant != model.VariantDestructive {
		t.Errorf("toast = %+v", toast)
	}
}

func TestController_BookingFailureClearsLoadingAndNotifies(t *testing.T) {
	rec := &loadingRecorder{}
	notifier := &recordingNotifier{}
	bookings := &stubBookings{bookings: []model.Booking{{ID: "old"}}}
	c := NewController(bookings, &stubFeedback{}, notifier, zap.NewNop(), WithLoadingObserver(rec.observe))

	if err := c.RefreshBookings(context.Background()); err != nil {
		t.Fatalf("first refresh: %v", err)
	}
	bookings.err = errors.New("timeout")

	if err := c.RefreshBookings(context.Background()); err == nil {
		t.Fatal("expected error from failing refresh")
	}

	want := []bool{true, false, true, false}
	if len(rec.transitions) != len(want) {
		t.Fatalf("transitions = %v, want %v", rec.transitions, want)
	}
	for i := range want {
		if rec.transitions[i] != want[i] {
			t.Errorf("transitions = %v, want %v", rec.transitions, want)
			break
		}
	}
	state := c.Snapshot()
	if len(state.Bookings) != 1 || state.Bookings[0].ID != "old" {
		t.Errorf("bookings = %+v, want previous bookings kept", state.Bookings)
	}
	if len(notifier.toasts) != 1 || notifier.toasts[0].Description != "Failed to load bookings. Please try again." {
		t.Errorf("toasts = %+v", notifier.toasts)
	}
}

func TestController_RefreshRerunsBookingFetchOnly(t *testing.T) {
	bookings := &stubBookings{}
	c := NewController(bookings, &stubFeedback{}, &recordingNotifier{}, zap.NewNop())

	c.Load(context.Background())
	_ = c.RefreshBookings(context.Background())

	if bookings.calls != 2 {
		t.Errorf("booking fetches = %d, want 2", bookings.calls)
	}
}

// gatedBookings blocks its first fetch until gate is closed.
type gatedBookings struct {
	mu      sync.Mutex
	calls   int
	started chan struct{}
	gate    chan struct{}
}

func (g *gatedBookings) FetchBookings(ctx context.Context) ([]model.Booking, error) {
	g.mu.Lock()
	g.calls++
	first := g.calls == 1
	g.mu.Unlock()
	if first {
		close(g.started)
		<-g.gate
		return []model.Booking{{ID: "slow"}}, nil
	}
	return []model.Booking{{ID: "fast"}}, nil
}

func TestController_OverlappingRefreshesKeepLoading(t *testing.T) {
	bookings := &gatedBookings{started: make(chan struct{}), gate: make(chan struct{})}
	c := NewController(bookings, &stubFeedback{}, &recordingNotifier{}, zap.NewNop())

	done := make(chan error, 1)
	go func() { done <- c.RefreshBookings(context.Background()) }()
	<-bookings.started

	if err := c.RefreshBookings(context.Background()); err != nil {
		t.Fatalf("second refresh: %v", err)
	}
	if !c.Snapshot().Loading {
		t.Error("Loading = false while the first fetch is still running")
	}

	close(bookings.gate)
	if err := <-done; err != nil {
		t.Fatalf("first refresh: %v", err)
	}
	if c.Snapshot().Loading {
		t.Error("Loading = true after every fetch finished")
	}
}
