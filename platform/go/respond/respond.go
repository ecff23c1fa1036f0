// Package respond writes the JSON envelope shared by every API route and maps domain errors onto it.
package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/oapi-codegen/runtime"
	"go.uber.org/zap"

	"github.com/zenGate-Global/wedding-marketplace/platform/go/content"
	platformlogging "github.com/zenGate-Global/wedding-marketplace/platform/go/logging"
)

// maxBodyBytes bounds request payloads.
const maxBodyBytes = 1 << 20

// Envelope is the body of every API response.
type Envelope struct {
	Success bool                `json:"success"`
	Data    any                 `json:"data"`
	Message string              `json:"message,omitempty"`
	Errors  content.FieldErrors `json:"errors,omitempty"`
}

// JSON writes env with status.
func JSON(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

// OK writes a 200 envelope around data.
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, Envelope{Success: true, Data: data})
}

// Created writes a 201 envelope around data.
func Created(w http.ResponseWriter, data any, message string) {
	JSON(w, http.StatusCreated, Envelope{Success: true, Data: data, Message: message})
}

// Done writes a 200 envelope without data.
func Done(w http.ResponseWriter, message string) {
	JSON(w, http.StatusOK, Envelope{Success: true, Message: message})
}

// Error classifies err, logs it on the request logger and writes the failure envelope.
// Store failures keep their cause out of the response.
func Error(w http.ResponseWriter, r *http.Request, fallback *zap.Logger, operation string, err error) {
	status, message, fields := ClassifyError(err)

	logger := platformlogging.FromRequest(r, fallback)
	logFields := []zap.Field{
		zap.String("operation", operation),
		zap.Int("status", status),
		zap.Error(err),
	}

	switch {
	case status >= http.StatusInternalServerError:
		logger.Error("content operation failed", logFields...)
	case status == http.StatusNotFound:
		logger.Info("content resource not found", logFields...)
	default:
		logger.Warn("content request rejected", logFields...)
	}

	JSON(w, status, Envelope{Success: false, Message: message, Errors: fields})
}

// ClassifyError maps the content error taxonomy onto an HTTP status and a user-facing message.
func ClassifyError(err error) (status int, message string, fields content.FieldErrors) {
	var (
		validationErr *content.ValidationError
		storeErr      *content.StoreError
	)

	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, "Validation failed", validationErr.Fields
	case errors.Is(err, content.ErrNotFound):
		return http.StatusNotFound, err.Error(), nil
	case errors.Is(err, content.ErrAccessDenied):
		return http.StatusForbidden, err.Error(), nil
	case errors.Is(err, content.ErrConflict):
		return http.StatusConflict, err.Error(), nil
	case errors.As(err, &storeErr):
		return http.StatusInternalServerError, storeErr.Error(), nil
	default:
		return http.StatusInternalServerError, "An unexpected error occurred", nil
	}
}

// Decode reads a JSON object body. Malformed bodies are reported as validation errors.
func Decode(r *http.Request) (map[string]any, error) {
	if r.Body == nil {
		return nil, content.NewValidationError(map[string]string{"body": "request body is required"})
	}

	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.UseNumber()

	var payload map[string]any
	if err := dec.Decode(&payload); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, content.NewValidationError(map[string]string{"body": "request body is required"})
		}
		return nil, content.NewValidationError(map[string]string{"body": "request body must be a JSON object"})
	}
	if payload == nil {
		return nil, content.NewValidationError(map[string]string{"body": "request body must be a JSON object"})
	}

	return normalizeNumbers(payload).(map[string]any), nil
}

// ForceRefresh binds the optional forceRefresh query parameter, returning def when absent.
func ForceRefresh(r *http.Request, def bool) (bool, error) {
	var value *bool
	if err := runtime.BindQueryParameter("form", true, false, "forceRefresh", r.URL.Query(), &value); err != nil {
		return false, content.NewValidationError(map[string]string{"forceRefresh": fmt.Sprintf("invalid boolean: %v", err)})
	}
	if value == nil {
		return def, nil
	}
	return *value, nil
}

// normalizeNumbers turns json.Number into int64 when integral and float64 otherwise, so stores see
// native numbers and integer fields such as order keep their type.
func normalizeNumbers(v any) any {
	switch t := v.(type) {
	case json.Number:
		if !strings.ContainsAny(t.String(), ".eE") {
			if i, err := t.Int64(); err == nil {
				return i
			}
		}
		f, _ := t.Float64()
		return f
	case map[string]any:
		for k, inner := range t {
			t[k] = normalizeNumbers(inner)
		}
		return t
	case []any:
		for i, inner := range t {
			t[i] = normalizeNumbers(inner)
		}
		return t
	default:
		return v
	}
}
