package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"
)

type responseEnvelope struct {
	Data  any    `json:"data,omitempty"`
	Time  string `json:"time"`
	Error any    `json:"error,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(responseEnvelope{
		Data: v,
		Time: time.Now().UTC().Format(time.RFC3339),
	})
}

func WriteError[T any](w http.ResponseWriter, status int, errBody ErrorResponse[T]) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(responseEnvelope{
		Time:  time.Now().UTC().Format(time.RFC3339),
		Error: errBody,
	})
}

// WriteUnauthorized renders the single 401 body shared by every rejection on the
// auth chain, so callers cannot tell which step failed.
func WriteUnauthorized(w http.ResponseWriter) {
	WriteError(w, http.StatusUnauthorized, ErrorResponse[any]{
		Code:    ErrUnauthorized,
		Message: "unauthorized",
	})
}

// ReadJSON applies the shared request-body discipline: size cap, content type,
// unknown-field rejection and a trailing-data check. On failure it writes the
// error response itself and returns a non-nil error so the handler can return.
func ReadJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB
	if ct := r.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		WriteError(w, http.StatusUnsupportedMediaType, ErrorResponse[any]{
			Code:    ErrUnsupportedMedia,
			Message: "Content-Type must be application/json",
		})
		return errors.New("unsupported media type")
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		WriteError(w, http.StatusBadRequest, ErrorResponse[any]{
			Code:    ErrInvalidJSON,
			Message: "invalid request body",
		})
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF { // check if there's any trailing data
		WriteError(w, http.StatusBadRequest, ErrorResponse[any]{
			Code:    ErrInvalidJSON,
			Message: "request body must contain a single JSON object",
		})
		return errors.New("trailing data after JSON body")
	}
	return nil
}
