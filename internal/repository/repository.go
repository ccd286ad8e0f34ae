// Package repository implements all reads against the hosted platform.
// Table queries go through PostgREST; identity lookups through either an
// RPC function or a direct pgx connection.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Shivanand-hulikatti/booking-admin/internal/model"
	postgrest "github.com/supabase-community/postgrest-go"
	supa "github.com/supabase-community/supabase-go"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// bookingColumns selects every booking column plus the owner's profile.
const bookingColumns = "*, profiles(id, full_name, email)"

var newestFirst = &postgrest.OrderOpts{Ascending: false}

// BookingRepository reads the bookings table.
type BookingRepository struct {
	client *supa.Client
}

// NewBookingRepository constructs a BookingRepository.
func NewBookingRepository(client *supa.Client) *BookingRepository {
	return &BookingRepository{client: client}
}

// ListWithProfiles returns all bookings joined with their profile, newest
// date first. Bookings without a profile carry a nil Profile.
func (r *BookingRepository) ListWithProfiles(ctx context.Context) ([]model.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, _, err := r.client.From("bookings").
		Select(bookingColumns, "", false).
		Order("date", newestFirst).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	var bookings []model.Booking
	if err := json.Unmarshal(data, &bookings); err != nil {
		return nil, fmt.Errorf("decode bookings: %w", err)
	}
	return bookings, nil
}

// ProfileRepository reads the profiles table.
type ProfileRepository struct {
	client *supa.Client
}

// NewProfileRepository constructs a ProfileRepository.
func NewProfileRepository(client *supa.Client) *ProfileRepository {
	return &ProfileRepository{client: client}
}

// EmailByUserID returns the email stored on the profile with the given id.
// It returns ErrNotFound when no profile row exists.
func (r *ProfileRepository) EmailByUserID(ctx context.Context, userID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, _, err := r.client.From("profiles").
		Select("email", "", false).
		Eq("id", userID).
		Limit(1, "").
		Execute()
	if err != nil {
		return "", fmt.Errorf("get profile email: %w", err)
	}
	return firstEmail(data)
}

// FeedbackRepository reads the feedback table.
type FeedbackRepository struct {
	client *supa.Client
}

// NewFeedbackRepository constructs a FeedbackRepository.
func NewFeedbackRepository(client *supa.Client) *FeedbackRepository {
	return &FeedbackRepository{client: client}
}

// List returns all feedback ordered by creation time descending.
func (r *FeedbackRepository) List(ctx context.Context) ([]model.Feedback, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, _, err := r.client.From("feedback").
		Select("*", "", false).
		Order("created_at", newestFirst).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}

	var feedback []model.Feedback
	if err := json.Unmarshal(data, &feedback); err != nil {
		return nil, fmt.Errorf("decode feedback: %w", err)
	}
	return feedback, nil
}

type emailRow struct {
	Email *string `json:"email"`
}

// firstEmail decodes a JSON array of {email} rows and returns the first
// row's email. An empty array is ErrNotFound; a null email is "".
func firstEmail(data []byte) (string, error) {
	var rows []emailRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return "", fmt.Errorf("decode email rows: %w", err)
	}
	if len(rows) == 0 {
		return "", ErrNotFound
	}
	if rows[0].Email == nil {
		return "", nil
	}
	return *rows[0].Email, nil
}
