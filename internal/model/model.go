// Package model defines the core domain types for the booking admin service.
package model

import "time"

// Profile is the user record kept alongside the auth identity.
// It is the authoritative source of a booking's email when present.
type Profile struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// Booking is a scheduled session as stored in the bookings table, optionally
// joined with the owner's profile.
type Booking struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	Date      string     `json:"date"`
	Time      string     `json:"time,omitempty"`
	Status    string     `json:"status"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	Profile   *Profile   `json:"profiles"`

	// Email is filled by reconciliation and left empty when no source
	// could provide one.
	Email string `json:"email,omitempty"`
}

// JoinedEmail returns the email carried by the joined profile, if any.
func (b *Booking) JoinedEmail() string {
	if b.Profile == nil {
		return ""
	}
	return b.Profile.Email
}

// Feedback is a user-submitted review.
type Feedback struct {
	ID        string    `json:"id"`
	UserID    *string   `json:"user_id,omitempty"`
	Rating    *int      `json:"rating,omitempty"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// Toast variants.
const (
	VariantDefault     = "default"
	VariantDestructive = "destructive"
)

// Toast is a user-visible notification raised by the dashboard.
type Toast struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Variant     string    `json:"variant"`
	CreatedAt   time.Time `json:"created_at"`
}

// DashboardState is a point-in-time copy of the dashboard controller state.
type DashboardState struct {
	Loading  bool       `json:"loading"`
	Bookings []Booking  `json:"bookings"`
	Feedback []Feedback `json:"feedback"`
}

// Bucket is a storage bucket as reported by the storage service.
type Bucket struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Public bool   `json:"public"`
}

// BucketSpec describes the bucket the provisioner guarantees.
type BucketSpec struct {
	Name             string
	Public           bool
	FileSizeLimit    int64
	AllowedMimeTypes []string
}

// ProvisionResponse is the payload of the bucket function endpoint.
type ProvisionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ErrorResponse is a standard JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}
