package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"poi-route-service/internal/domain"
	"poi-route-service/internal/platform/obs"

	"go.uber.org/zap"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("encode failed",
			zap.String("req_id", obs.RequestID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, msg string) {
	writeJSON(w, r, status, errorResponse{Error: msg, Code: code})
}

// errorStatus maps domain errors onto HTTP statuses and stable error codes.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrUnknownNode):
		return http.StatusNotFound, "unknown_node"
	case errors.Is(err, domain.ErrInvalidParameter):
		return http.StatusBadRequest, "invalid_parameter"
	case errors.Is(err, domain.ErrNoPath):
		return http.StatusUnprocessableEntity, "no_path"
	case errors.Is(err, domain.ErrSearchLimit):
		return http.StatusServiceUnavailable, "search_limit"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, "canceled"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

// writeServiceError reports err to the client. Internal errors are logged and
// replaced with a generic message.
func writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, code := errorStatus(err)
	if status == http.StatusInternalServerError {
		zap.L().Error(op+" failed", zap.String("req_id", obs.RequestID(r.Context())), zap.Error(err))
		writeError(w, r, status, code, "internal server error")
		return
	}
	writeError(w, r, status, code, err.Error())
}

// decodeJSON decodes exactly one JSON object with no unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid json body: %w", err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("body must contain only one JSON object")
	}
	return nil
}

func NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, http.StatusNotFound, "not_found", "not found")
}

func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
}
