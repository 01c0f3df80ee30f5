// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/olegiv/spacetraveling/internal/middleware"
)

// writeJSON writes v as a JSON response.
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set(HeaderContentType, contentTypeJSON)
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("failed to encode response", "error", err)
	}
}

// writeJSONError writes a JSON error response in the same envelope the rate
// limiter uses.
func writeJSONError(w http.ResponseWriter, statusCode int, code, message string) {
	middleware.WriteAPIError(w, statusCode, code, message)
}
