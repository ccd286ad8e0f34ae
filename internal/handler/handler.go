// Package handler contains chi HTTP handlers that expose the dashboard,
// its notifications and the bucket provisioning function.
package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/Shivanand-hulikatti/booking-admin/internal/model"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Dashboard is the controller surface served over HTTP.
type Dashboard interface {
	Snapshot() model.DashboardState
	RefreshBookings(ctx context.Context) error
}

// Notifications is the toast store surface served over HTTP.
type Notifications interface {
	List() []model.Toast
	Dismiss(id string) bool
}

// DashboardHandler holds the admin dashboard handlers.
type DashboardHandler struct {
	dashboard     Dashboard
	notifications Notifications
	log           *zap.Logger
}

// NewDashboardHandler constructs a DashboardHandler.
func NewDashboardHandler(dashboard Dashboard, notifications Notifications, log *zap.Logger) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard, notifications: notifications, log: log}
}

// ─── Helper utilities ─────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}

// ─── Handlers ─────────────────────────────────────────────────────────────────

// GetDashboard handles GET /admin/dashboard
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.dashboard.Snapshot())
}

// RefreshBookings handles POST /admin/dashboard/refresh
// Re-runs the booking fetch, typically after an administrative action.
func (h *DashboardHandler) RefreshBookings(w http.ResponseWriter, r *http.Request) {
	if err := h.dashboard.RefreshBookings(r.Context()); err != nil {
		writeError(w, http.StatusBadGateway, "failed to load bookings")
		return
	}
	writeJSON(w, http.StatusOK, h.dashboard.Snapshot())
}

// ListNotifications handles GET /admin/notifications
func (h *DashboardHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	toasts := h.notifications.List()
	if toasts == nil {
		toasts = []model.Toast{}
	}
	writeJSON(w, http.StatusOK, toasts)
}

// DismissNotification handles DELETE /admin/notifications/{id}
func (h *DashboardHandler) DismissNotification(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.notifications.Dismiss(id) {
		writeError(w, http.StatusNotFound, "notification not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ─── Health check ─────────────────────────────────────────────────────────────

// HealthCheck handles GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
