// Package notify keeps the user-visible notifications raised by the
// dashboard.
package notify

import (
	"sync"
	"time"

	"github.com/Shivanand-hulikatti/booking-admin/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultLimit is the number of toasts kept when no limit is configured.
const DefaultLimit = 20

// Toaster is an in-memory, newest-first list of toasts capped at a limit.
type Toaster struct {
	mu     sync.Mutex
	toasts []model.Toast
	limit  int
	log    *zap.Logger
	now    func() time.Time
}

// NewToaster constructs a Toaster keeping at most limit toasts.
func NewToaster(limit int, log *zap.Logger) *Toaster {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Toaster{limit: limit, log: log, now: time.Now}
}

// Notify records t, filling in its id, variant and timestamp.
func (n *Toaster) Notify(t model.Toast) model.Toast {
	t.ID = uuid.NewString()
	t.CreatedAt = n.now().UTC()
	if t.Variant == "" {
		t.Variant = model.VariantDefault
	}

	n.mu.Lock()
	n.toasts = append([]model.Toast{t}, n.toasts...)
	if len(n.toasts) > n.limit {
		n.toasts = n.toasts[:n.limit]
	}
	n.mu.Unlock()

	n.log.Info("toast",
		zap.String("id", t.ID),
		zap.String("title", t.Title),
		zap.String("description", t.Description),
		zap.String("variant", t.Variant),
	)
	return t
}

// List returns the current toasts, newest first.
func (n *Toaster) List() []model.Toast {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]model.Toast, len(n.toasts))
	copy(out, n.toasts)
	return out
}

// Dismiss removes the toast with the given id and reports whether it existed.
func (n *Toaster) Dismiss(id string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i, t := range n.toasts {
		if t.ID == id {
			n.toasts = append(n.toasts[:i], n.toasts[i+1:]...)
			return true
		}
	}
	return false
}
