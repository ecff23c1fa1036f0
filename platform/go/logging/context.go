package logging

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// TraceField is the structured key Cloud Logging uses to correlate entries with a trace.
const TraceField = "logging.googleapis.com/trace"

const cloudTraceHeader = "X-Cloud-Trace-Context"

type ctxKey struct{}

// WithLogger stores the provided logger on the context.
func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext retrieves the logger from context, if present.
func FromContext(ctx context.Context) (*zap.Logger, bool) {
	logger, ok := ctx.Value(ctxKey{}).(*zap.Logger)
	return logger, ok && logger != nil
}

// FromContextOr returns the request-scoped logger or fallback.
func FromContextOr(ctx context.Context, fallback *zap.Logger) *zap.Logger {
	if logger, ok := FromContext(ctx); ok {
		return logger
	}
	return fallback
}

// FromRequest is FromContextOr on the request context.
func FromRequest(r *http.Request, fallback *zap.Logger) *zap.Logger {
	return FromContextOr(r.Context(), fallback)
}

// RequestLogger stores a request-scoped logger on the context and logs one line per request:
// error for 5xx, warn for 4xx, info otherwise. When projectID is set, an incoming
// X-Cloud-Trace-Context header is attached as TraceField.
func RequestLogger(base *zap.Logger, projectID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			fields := []zap.Field{
				zap.String("http_method", r.Method),
				zap.String("path", r.URL.Path),
			}
			if requestID := middleware.GetReqID(r.Context()); requestID != "" {
				fields = append(fields, zap.String("request_id", requestID))
			}
			if trace := traceResource(projectID, r.Header.Get(cloudTraceHeader)); trace != "" {
				fields = append(fields, zap.String(TraceField, trace))
			}
			logger := base.With(fields...)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(WithLogger(r.Context(), logger)))

			done := []zap.Field{
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
			}
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				done = append(done, zap.String("route", rctx.RoutePattern()))
			}

			switch status := ww.Status(); {
			case status >= http.StatusInternalServerError:
				logger.Error("request completed", done...)
			case status >= http.StatusBadRequest:
				logger.Warn("request completed", done...)
			default:
				logger.Info("request completed", done...)
			}
		})
	}
}

// traceResource turns "TRACE_ID/SPAN_ID;o=1" into projects/<project>/traces/TRACE_ID.
func traceResource(projectID, header string) string {
	if projectID == "" || header == "" {
		return ""
	}
	traceID, _, _ := strings.Cut(header, "/")
	if traceID == "" {
		return ""
	}
	return "projects/" + projectID + "/traces/" + traceID
}
