// Package service implements the dashboard's data fetches: bookings with
// email reconciliation, and feedback.
package service

import (
	"context"
	"fmt"

	"github.com/Shivanand-hulikatti/booking-admin/internal/model"
	"go.uber.org/zap"
)

// FetchError reports that the initial query for a resource failed.
type FetchError struct {
	Resource string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Resource, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// BookingLister reads bookings joined with their profiles.
type BookingLister interface {
	ListWithProfiles(ctx context.Context) ([]model.Booking, error)
}

// FeedbackLister reads feedback records.
type FeedbackLister interface {
	List(ctx context.Context) ([]model.Feedback, error)
}

// BookingService fetches bookings and reconciles their emails.
type BookingService struct {
	bookings   BookingLister
	reconciler *Reconciler
	log        *zap.Logger
}

// NewBookingService constructs a BookingService.
func NewBookingService(bookings BookingLister, reconciler *Reconciler, log *zap.Logger) *BookingService {
	return &BookingService{bookings: bookings, reconciler: reconciler, log: log}
}

// FetchBookings returns all bookings, newest date first, each carrying a
// best-effort email.
func (s *BookingService) FetchBookings(ctx context.Context) ([]model.Booking, error) {
	bookings, err := s.bookings.ListWithProfiles(ctx)
	if err != nil {
		return nil, &FetchError{Resource: "bookings", Err: err}
	}
	s.log.Debug("fetched bookings", zap.Int("count", len(bookings)))
	return s.reconciler.Reconcile(ctx, bookings), nil
}

// FeedbackService fetches feedback records.
type FeedbackService struct {
	feedback FeedbackLister
	log      *zap.Logger
}

// NewFeedbackService constructs a FeedbackService.
func NewFeedbackService(feedback FeedbackLister, log *zap.Logger) *FeedbackService {
	return &FeedbackService{feedback: feedback, log: log}
}

// FetchFeedback returns all feedback ordered by creation time descending.
func (s *FeedbackService) FetchFeedback(ctx context.Context) ([]model.Feedback, error) {
	feedback, err := s.feedback.List(ctx)
	if err != nil {
		return nil, &FetchError{Resource: "feedback", Err: err}
	}
	s.log.Debug("fetched feedback", zap.Int("count", len(feedback)))
	return feedback, nil
}
