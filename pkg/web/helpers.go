package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

// maxBodyBytes limits the size of decoded request bodies.
const maxBodyBytes = 1 << 20

func RespondJSON(w http.ResponseWriter, logger *slog.Logger, status int, payload any) {
	// Handle nil payload
	if payload == nil {
		w.WriteHeader(status)
		return
	}

	response, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Error encoding response to JSON", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(response)
}

func RespondError(w http.ResponseWriter, logger *slog.Logger, status int, message string) {
	RespondJSON(w, logger, status, map[string]string{"error": message})
}

// DecodeJSON decodes the request body into dst. On failure it writes a 400 response and returns false.
func DecodeJSON(w http.ResponseWriter, r *http.Request, logger *slog.Logger, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		message := "Invalid request body"
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			message = "Request body is empty"
		case errors.As(err, &maxErr):
			message = fmt.Sprintf("Request body exceeds %d bytes", maxErr.Limit)
		}
		logger.Warn("Failed to decode request body", "error", err)
		RespondError(w, logger, http.StatusBadRequest, message)
		return false
	}
	return true
}
