// Package httputil writes JSON responses and maps domain errors to HTTP statuses.
package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/gastos/internal/api"
	"github.com/MrJamesThe3rd/gastos/internal/expense"
	"github.com/MrJamesThe3rd/gastos/internal/importer/statement"
	"github.com/MrJamesThe3rd/gastos/internal/receipt"
)

// RequestError is a malformed request. It maps to its Status.
type RequestError struct {
	Status int
	Msg    string
}

func (e *RequestError) Error() string {
	return e.Msg
}

func BadRequest(format string, args ...any) error {
	return &RequestError{Status: http.StatusBadRequest, Msg: fmt.Sprintf(format, args...)}
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func Detail(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, api.ErrorResponse{Detail: msg})
}

// Error writes err using the status its kind maps to. Unknown errors are
// logged and reported as 500 without their message.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	var (
		ve  *expense.ValidationError
		req *RequestError
	)

	switch {
	case errors.As(err, &ve):
		JSON(w, http.StatusUnprocessableEntity, validationResponse(ve))
	case errors.As(err, &req):
		Detail(w, req.Status, req.Msg)
	case errors.Is(err, expense.ErrNotFound), errors.Is(err, receipt.ErrNotFound):
		Detail(w, http.StatusNotFound, err.Error())
	case errors.Is(err, expense.ErrForbidden):
		Detail(w, http.StatusForbidden, err.Error())
	case errors.Is(err, expense.ErrSheetLocked), errors.Is(err, expense.ErrInvalidTransition):
		Detail(w, http.StatusConflict, err.Error())
	case errors.Is(err, receipt.ErrTooLarge):
		Detail(w, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, receipt.ErrUnsupportedType), errors.Is(err, statement.ErrUnknownFormat):
		Detail(w, http.StatusBadRequest, err.Error())
	default:
		slog.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()),
			"error", err,
		)
		Detail(w, http.StatusInternalServerError, "internal server error")
	}
}

func validationResponse(ve *expense.ValidationError) api.ValidationErrorResponse {
	fields := make([]string, 0, len(ve.Fields))
	for f := range ve.Fields {
		fields = append(fields, f)
	}

	slices.Sort(fields)

	resp := api.ValidationErrorResponse{Errors: make([]api.FieldError, 0, len(fields))}
	for _, f := range fields {
		resp.Errors = append(resp.Errors, api.FieldError{
			Loc:  []string{"body", f},
			Msg:  ve.Fields[f],
			Type: "value_error",
		})
	}

	return resp
}

// Decode reads a JSON body into v, rejecting unknown fields.
func Decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		return BadRequest("invalid request body: %s", strings.TrimPrefix(err.Error(), "json: "))
	}

	return nil
}

// UUIDParam parses the chi URL parameter name as a UUID.
func UUIDParam(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, BadRequest("invalid %s", name)
	}

	return id, nil
}
