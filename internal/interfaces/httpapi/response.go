package httpapi

import (
	"context"
	"errors"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/carelink/internal/usecase"
)

const (
	envelopeAPIVersion = "2.0"
	errorDomain        = "carelink"
	internalMessage    = "internal server error"
)

// envelope follows the Google JSON style guide: exactly one of data or error.
type envelope struct {
	APIVersion string         `json:"apiVersion"`
	Data       any            `json:"data,omitempty"`
	Error      *errorEnvelope `json:"error,omitempty"`
}

type errorEnvelope struct {
	Code      int          `json:"code"`
	Message   string       `json:"message"`
	Status    string       `json:"status"`
	RequestID string       `json:"requestId,omitempty"`
	Errors    []errorEntry `json:"errors,omitempty"`
}

type errorEntry struct {
	Domain  string `json:"domain"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type errorClass struct {
	target     error
	HTTPStatus int
	Reason     string
	Status     string
}

var (
	errorClasses = []errorClass{
		{usecase.ErrInvalidInput, http.StatusBadRequest, "invalidInput", "INVALID_ARGUMENT"},
		{usecase.ErrNotFound, http.StatusNotFound, "notFound", "NOT_FOUND"},
		{usecase.ErrUnauthorized, http.StatusUnauthorized, "unauthorized", "UNAUTHENTICATED"},
		{usecase.ErrConflict, http.StatusConflict, "conflict", "FAILED_PRECONDITION"},
		{usecase.ErrDependencyUnavailable, http.StatusServiceUnavailable, "dependencyUnavailable", "UNAVAILABLE"},
	}
	internalClass = errorClass{HTTPStatus: http.StatusInternalServerError, Reason: "internalError", Status: "INTERNAL"}
)

func mapError(_ context.Context, err error) errorClass {
	for _, class := range errorClasses {
		if errors.Is(err, class.target) {
			return class
		}
	}
	return internalClass
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(payload)
}

func writeSuccess(_ context.Context, w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{APIVersion: envelopeAPIVersion, Data: data})
}

// writeError maps err onto its usecase class. Unclassified errors are
// reported as a bare 500 so driver and upstream messages stay server-side.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	class := mapError(ctx, err)
	message := internalMessage
	if class.HTTPStatus != http.StatusInternalServerError {
		message = err.Error()
	}
	writeClassError(ctx, w, class, message)
}

func writeInternalError(ctx context.Context, w http.ResponseWriter) {
	writeClassError(ctx, w, internalClass, internalMessage)
}

func writeClassError(ctx context.Context, w http.ResponseWriter, class errorClass, message string) {
	writeJSON(w, class.HTTPStatus, envelope{
		APIVersion: envelopeAPIVersion,
		Error: &errorEnvelope{
			Code:      class.HTTPStatus,
			Message:   message,
			Status:    class.Status,
			RequestID: requestIDFromContext(ctx),
			Errors:    []errorEntry{{Domain: errorDomain, Reason: class.Reason, Message: message}},
		},
	})
}
