package shared

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

// ErrorBody is the payload inside the error envelope.
type ErrorBody struct {
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	// Timestamp is the RFC 3339 time at which the error response was built.
	Timestamp string `json:"timestamp"`
}

// ErrorResponse is the standard error envelope returned by every endpoint:
//
//	{"error": {"message": ..., "details": ..., "timestamp": ...}}
type ErrorResponse struct {
	Error   ErrorBody `json:"error"`
	TraceID string    `json:"trace_id,omitempty"`
}

// RespondWithJSON writes a JSON response with the given status code and data.
func RespondWithJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// RespondWithError writes the standard error envelope with the given status
// code, message and optional structured details. It also sets the trace ID
// from the request context if available.
func RespondWithError(w http.ResponseWriter, r *http.Request, status int, message string, details any) {
	traceID := GetTraceID(r.Context())

	response := ErrorResponse{
		Error: ErrorBody{
			Message:   message,
			Details:   details,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
		TraceID: traceID,
	}

	slog.Debug("sending error response",
		"status_code", status,
		"message", message,
		"trace_id", traceID,
		"path", r.URL.Path,
		"method", r.Method)

	RespondWithJSON(w, r, status, response)
}

// RespondWithErrorAndLog writes the error envelope and also logs the detailed
// error. The raw error never reaches the client; only the given user message
// does, while the redacted detail goes to the logs for operators.
//
// Log level strategy: 5xx at ERROR, 429 at WARN, everything else at DEBUG.
func RespondWithErrorAndLog(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	userMessage string,
	err error,
) {
	traceID := GetTraceID(r.Context())

	logAttrs := []slog.Attr{
		slog.String("trace_id", traceID),
		slog.String("path", r.URL.Path),
		slog.String("method", r.Method),
		slog.Int("status_code", status),
		slog.String("user_message", userMessage),
	}
	if err != nil {
		logAttrs = append(logAttrs, slog.String("error", err.Error()))
	}

	logLevel := slog.LevelDebug
	if status >= http.StatusInternalServerError {
		logLevel = slog.LevelError
	} else if status == http.StatusTooManyRequests {
		logLevel = slog.LevelWarn
	}

	slog.LogAttrs(r.Context(), logLevel, "API error response", logAttrs...)

	RespondWithError(w, r, status, userMessage, nil)
}
