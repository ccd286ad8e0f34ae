package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Shivanand-hulikatti/booking-admin/internal/model"
	"github.com/Shivanand-hulikatti/booking-admin/internal/repository"
	supa "github.com/supabase-community/supabase-go"
	"go.uber.org/zap"
)

// slowPlatform answers every request after release is closed or wait elapses.
func slowPlatform(t *testing.T, wait time.Duration, body string) *supa.Client {
	t.Helper()
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-time.After(wait):
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	client, err := supa.NewClient(srv.URL, "service-key", nil)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestReconcile_LookupTimeoutBoundsPlatformCall(t *testing.T) {
	client := slowPlatform(t, 1500*time.Millisecond, `[{"email":"late@x.com"}]`)
	identities := &spyLookup{emails: map[string]string{userA: "identity@x.com"}}

	rec := NewReconciler(zap.NewNop(), []EmailSource{
		JoinedProfileSource{},
		ProfileStoreSource{Profiles: repository.NewProfileRepository(client)},
		IdentityStoreSource{Identities: identities},
	}, WithLookupTimeout(50*time.Millisecond))

	start := time.Now()
	got := rec.Reconcile(context.Background(), []model.Booking{{ID: "b1", UserID: userA}})
	elapsed := time.Since(start)

	if elapsed > time.Second {
		t.Errorf("reconcile took %v, want the profile call cut off at the timeout", elapsed)
	}
	if got[0].Email != "identity@x.com" {
		t.Errorf("email = %q, want identity@x.com from the next source", got[0].Email)
	}
}

func TestReconcile_LookupWithinTimeoutIsUsed(t *testing.T) {
	client := slowPlatform(t, 0, `[{"email":"profile@x.com"}]`)

	rec := NewReconciler(zap.NewNop(), []EmailSource{
		JoinedProfileSource{},
		ProfileStoreSource{Profiles: repository.NewProfileRepository(client)},
	}, WithLookupTimeout(2*time.Second))

	got := rec.Reconcile(context.Background(), []model.Booking{{ID: "b1", UserID: userA}})
	if got[0].Email != "profile@x.com" {
		t.Errorf("email = %q, want profile@x.com", got[0].Email)
	}
}
