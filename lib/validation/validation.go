package validation

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
)

// ValidateAgeRange checks that an age range is usable as a filter bound.
// A range that selects nobody is fine; a reversed or negative one is not.
func ValidateAgeRange(ageMin, ageMax int) error {
	if ageMin < 0 || ageMax < 0 {
		return fmt.Errorf("age bounds must not be negative")
	}
	if ageMin > ageMax {
		return fmt.Errorf("age_min (%d) must not exceed age_max (%d)", ageMin, ageMax)
	}
	return nil
}

// WriteError writes a validation error response to the HTTP response writer.
// It takes a response writer, error message, and HTTP status code.
func WriteError(w http.ResponseWriter, err error, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{
		"error": err.Error(),
	}); err != nil {
		slog.Error("Failed to encode error response", slog.Any("error", err))
	}
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode JSON response", slog.Any("error", err))
	}
}
