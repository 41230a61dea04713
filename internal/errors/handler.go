package errors

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"campuscli/internal/infrastructure"
)

// ErrorHandler provides centralized error handling for HTTP handlers
type ErrorHandler struct {
	logger *slog.Logger
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *slog.Logger) *ErrorHandler {
	return &ErrorHandler{
		logger: logger.With(slog.String("component", "error_handler")),
	}
}

// HandleError converts any error to an APIError response and logs it
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	ctx := r.Context()
	h.logger.ErrorContext(ctx, "request failed",
		slog.String("error", err.Error()),
		slog.String("trace_id", infrastructure.GetTraceID(ctx)),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)

	apiErr := toAPIError(err)
	if renderErr := render.Render(w, r, apiErr); renderErr != nil {
		h.logger.ErrorContext(ctx, "failed to render error response",
			slog.String("error", renderErr.Error()))
		http.Error(w, apiErr.Message, apiErr.StatusCode)
	}
}

// toAPIError normalizes arbitrary errors into an APIError
func toAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return NewWithDetails(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error", err.Error())
}
