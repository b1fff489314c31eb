package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"skillbridge/internal/common"
)

func decodeJSON(r *http.Request, v interface{}) error {
	defer func() {
		_, _ = io.Copy(io.Discard, r.Body)
	}()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return common.NewError(common.CodeValidation, "request body is required", err)
		}
		return common.NewError(common.CodeValidation, "invalid request body", err)
	}
	return nil
}

// idFromPath extracts the path segment at offset positions from the end:
// idFromPath(r, 1) on /applications/{id}/status returns {id}.
func idFromPath(r *http.Request, fromEnd int) (common.UUID, error) {
	raw, err := segmentFromPath(r, fromEnd)
	if err != nil {
		return "", err
	}
	parsed, err := common.ParseUUID(raw)
	if err != nil {
		return "", common.NewValidationError("invalid id", map[string]string{"id": "invalid uuid"})
	}
	return parsed, nil
}

func segmentFromPath(r *http.Request, fromEnd int) (string, error) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	idx := len(parts) - 1 - fromEnd
	if idx < 0 || idx >= len(parts) || parts[idx] == "" {
		return "", common.NewValidationError("invalid path", map[string]string{"path": "missing identifier"})
	}
	return parts[idx], nil
}

func queryInt(r *http.Request, key string, fallback int) int {
	if value := r.URL.Query().Get(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed >= 0 {
			return parsed
		}
	}
	return fallback
}

func errUnauthorized() error {
	return common.NewError(common.CodeUnauthorized, "authentication required", nil)
}
