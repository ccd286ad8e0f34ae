package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Shivanand-hulikatti/booking-admin/internal/model"
	"go.uber.org/zap"
)

// functionCORSHeaders are sent on every response of the bucket function,
// including its pre-flight.
var functionCORSHeaders = map[string]string{
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Headers": "authorization, x-client-info, apikey, content-type",
}

// BucketEnsurer provisions the storage bucket.
type BucketEnsurer interface {
	Ensure(ctx context.Context) (created bool, err error)
	BucketName() string
}

// BucketHandler serves the bucket provisioning function.
type BucketHandler struct {
	provisioner BucketEnsurer
	log         *zap.Logger
}

// NewBucketHandler constructs a BucketHandler.
func NewBucketHandler(provisioner BucketEnsurer, log *zap.Logger) *BucketHandler {
	return &BucketHandler{provisioner: provisioner, log: log}
}

// EnsureBucket handles any method on /functions/v1/ensure-storage-bucket.
// OPTIONS is answered with an empty 200 without touching storage.
func (h *BucketHandler) EnsureBucket(w http.ResponseWriter, r *http.Request) {
	for k, v := range functionCORSHeaders {
		w.Header().Set(k, v)
	}
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	name := h.provisioner.BucketName()
	created, err := h.provisioner.Ensure(r.Context())
	if err != nil {
		h.log.Error("error ensuring bucket", zap.String("bucket", name), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, model.ProvisionResponse{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	h.log.Info("bucket ensured", zap.String("bucket", name), zap.Bool("created", created))
	writeJSON(w, http.StatusOK, model.ProvisionResponse{
		Success: true,
		Message: fmt.Sprintf("%s bucket ensured", name),
	})
}
