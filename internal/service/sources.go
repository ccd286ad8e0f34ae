package service

import (
	"context"
	"errors"

	"github.com/Shivanand-hulikatti/booking-admin/internal/model"
	"github.com/Shivanand-hulikatti/booking-admin/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EmailSource is one strategy for recovering a booking's email.
// Lookup returns "" with a nil error when the source has nothing for the
// booking.
type EmailSource interface {
	Name() string
	Lookup(ctx context.Context, b model.Booking) (string, error)
}

// EmailLookup finds an email by user id. Implementations return
// repository.ErrNotFound when no row exists.
type EmailLookup interface {
	EmailByUserID(ctx context.Context, userID string) (string, error)
}

// JoinedProfileSource reads the email from the profile joined into the
// booking row. It never performs I/O.
type JoinedProfileSource struct{}

func (JoinedProfileSource) Name() string { return "joined_profile" }

func (JoinedProfileSource) Lookup(_ context.Context, b model.Booking) (string, error) {
	return b.JoinedEmail(), nil
}

// ProfileStoreSource looks the booking's user up in the profile store.
type ProfileStoreSource struct {
	Profiles EmailLookup
}

func (ProfileStoreSource) Name() string { return "profile_store" }

func (s ProfileStoreSource) Lookup(ctx context.Context, b model.Booking) (string, error) {
	if b.UserID == "" {
		return "", nil
	}
	return missIfNotFound(s.Profiles.EmailByUserID(ctx, b.UserID))
}

// IdentityStoreSource queries the identity store's email column with
// privileged credentials. Identity ids are UUIDs; anything else is skipped.
type IdentityStoreSource struct {
	Identities EmailLookup
}

func (IdentityStoreSource) Name() string { return "identity_store" }

func (s IdentityStoreSource) Lookup(ctx context.Context, b model.Booking) (string, error) {
	id, err := uuid.Parse(b.UserID)
	if err != nil {
		return "", nil
	}
	return missIfNotFound(s.Identities.EmailByUserID(ctx, id.String()))
}

func missIfNotFound(email string, err error) (string, error) {
	if errors.Is(err, repository.ErrNotFound) {
		return "", nil
	}
	return email, err
}

// EmailCache is the store behind CachedSource.
type EmailCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, email string) error
}

// CachedSource serves a wrapped source's results from a cache. Only
// non-empty emails are stored; cache failures fall through to the source.
type CachedSource struct {
	Source EmailSource
	Cache  EmailCache
	Log    *zap.Logger
}

func (s CachedSource) Name() string { return s.Source.Name() }

func (s CachedSource) Lookup(ctx context.Context, b model.Booking) (string, error) {
	if b.UserID == "" {
		return s.Source.Lookup(ctx, b)
	}
	key := s.Source.Name() + ":" + b.UserID

	email, ok, err := s.Cache.Get(ctx, key)
	if err != nil {
		s.Log.Warn("email cache read failed", zap.String("key", key), zap.Error(err))
	} else if ok {
		return email, nil
	}

	email, err = s.Source.Lookup(ctx, b)
	if err != nil || email == "" {
		return email, err
	}
	if err := s.Cache.Set(ctx, key, email); err != nil {
		s.Log.Warn("email cache write failed", zap.String("key", key), zap.Error(err))
	}
	return email, nil
}
