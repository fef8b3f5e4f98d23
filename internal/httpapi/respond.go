package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"acredge.in/internal/assets"
	"acredge.in/internal/auth"
	"acredge.in/internal/catalog"
	"acredge.in/internal/docstore"
	"acredge.in/internal/obs"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError emits the `{error}` shape used for client mistakes and
// internal failures.
func writeError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	payload := map[string]any{
		"error": msg,
	}
	if rid := RequestIDFromContext(r.Context()); rid != "" {
		payload["request_id"] = rid
	}
	writeJSON(w, code, payload)
}

// writeMessage emits the `{message}` shape used for auth and not-found
// responses.
func writeMessage(w http.ResponseWriter, r *http.Request, code int, msg string) {
	payload := map[string]any{
		"message": msg,
	}
	if rid := RequestIDFromContext(r.Context()); rid != "" {
		payload["request_id"] = rid
	}
	writeJSON(w, code, payload)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	reader := http.MaxBytesReader(w, r.Body, 1<<20)
	defer reader.Close()
	dec := json.NewDecoder(reader)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is required")
		}
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			return errors.New("unexpected data after JSON body")
		}
		return err
	}
	return nil
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
}

// handleCatalogError maps service failures onto the response taxonomy.
func handleCatalogError(w http.ResponseWriter, r *http.Request, err error) {
	if ve, ok := catalog.AsValidation(err); ok {
		payload := map[string]any{"errors": ve.Errors}
		writeJSON(w, http.StatusBadRequest, payload)
		return
	}
	switch {
	case errors.Is(err, docstore.ErrNotFound):
		writeMessage(w, r, http.StatusNotFound, "record not found")
	case errors.Is(err, assets.ErrUpload):
		obs.LogError("asset upload failed", err, requestFields(r))
		writeError(w, r, http.StatusInternalServerError, "file upload failed")
	default:
		obs.LogError("request failed", err, requestFields(r))
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}

// handleAuthError maps token and identity failures onto 401/403/400.
func handleAuthError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, auth.ErrForbidden):
		writeMessage(w, r, http.StatusForbidden, "operation not allowed for this domain")
	case errors.Is(err, auth.ErrInvalidToken):
		writeMessage(w, r, http.StatusUnauthorized, "invalid or expired token")
	case errors.Is(err, auth.ErrInvalidIdentity):
		writeError(w, r, http.StatusBadRequest, "invalid email or phone number")
	case errors.Is(err, auth.ErrInvalidCode):
		writeMessage(w, r, http.StatusUnauthorized, "invalid or expired otp")
	default:
		obs.LogError("auth failed", err, requestFields(r))
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}

func requestFields(r *http.Request) map[string]any {
	return map[string]any{
		"method":     r.Method,
		"path":       r.URL.Path,
		"request_id": RequestIDFromContext(r.Context()),
	}
}
