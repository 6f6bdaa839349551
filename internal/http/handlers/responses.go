package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/satriastudio/studio-be/internal/http/respond"
	"github.com/satriastudio/studio-be/internal/logging"
	"github.com/satriastudio/studio-be/internal/middleware"
	"github.com/satriastudio/studio-be/internal/storage"
)

const maxBodyBytes = 16 << 10

// decodeJSON reads a single JSON object into dst, rejecting oversized bodies
// and unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("request body must contain a single JSON object")
	}
	return nil
}

// writeStorageError maps storage failures to responses without leaking detail.
func writeStorageError(w http.ResponseWriter, r *http.Request, op string, err error) {
	entry := logging.Logger.WithError(err).WithField("op", op).WithField("request_id", middleware.RequestIDFromContext(r.Context()))
	switch {
	case errors.Is(err, storage.ErrNotFound):
		respond.Error(w, http.StatusNotFound, respond.CodeNotFound, "not found")
	case errors.Is(err, storage.ErrAlreadyExists):
		respond.Error(w, http.StatusConflict, respond.CodeConflict, "already exists")
	case errors.Is(err, storage.ErrUnavailable):
		entry.Error("storage unavailable")
		respond.Error(w, http.StatusServiceUnavailable, respond.CodeUnavailable, "service unavailable")
	default:
		entry.Error("storage operation failed")
		respond.Error(w, http.StatusInternalServerError, respond.CodeInternal, "internal server error")
	}
}
