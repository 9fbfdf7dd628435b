package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/MKhiriev/go-natours/internal/apperr"
	"github.com/MKhiriev/go-natours/internal/logger"
	"github.com/MKhiriev/go-natours/internal/store"
	"github.com/MKhiriev/go-natours/internal/utils"
	"github.com/MKhiriev/go-natours/internal/validators"
	"github.com/MKhiriev/go-natours/models"
)

const (
	genericErrorMessage = "Something went wrong"
	invalidJSONMessage  = "Invalid input data. Please send a valid JSON document"
)

// Error kinds reported in development responses.
const (
	kindOperational = "operational"
	kindProgramming = "programming"
)

// normalizeError maps err onto the operational error that describes it to a
// client. The boolean is false when err is a programming error: the result
// is then a generic 500 whose message must not leave the server.
func normalizeError(err error) (*apperr.Error, bool) {
	if e, ok := apperr.As(err); ok {
		return e, true
	}

	var castErr *store.CastError
	if errors.As(err, &castErr) {
		return apperr.Wrap(err, http.StatusBadRequest, fmt.Sprintf("Invalid %s: %s", castErr.Field, castErr.Value)), true
	}

	var dupErr *store.DuplicateError
	if errors.As(err, &dupErr) {
		msg := fmt.Sprintf("Duplicate field value for %s: %s. Please use another value!",
			strings.Join(dupErr.Fields, ", "), strings.Join(dupErr.Values, ", "))
		return apperr.Wrap(err, http.StatusBadRequest, msg), true
	}

	var validationErr *validators.ValidationError
	if errors.As(err, &validationErr) {
		msg := "Invalid input data. " + strings.Join(validationErr.Messages(), ". ")
		return apperr.Wrap(err, http.StatusBadRequest, msg).WithDetails(validationErr.Violations), true
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) || errors.Is(err, io.ErrUnexpectedEOF) {
		return apperr.Wrap(err, http.StatusBadRequest, invalidJSONMessage), true
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return apperr.Wrap(err, http.StatusBadRequest, fmt.Sprintf("Invalid %s: %s", typeErr.Field, typeErr.Value)), true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		msg := fmt.Sprintf("Request body is too large. The limit is %d bytes", tooLarge.Limit)
		return apperr.Wrap(err, http.StatusRequestEntityTooLarge, msg), true
	}

	if ce, ok := clientErrorFor(err); ok {
		return apperr.Wrap(err, ce.status, ce.message), true
	}

	return apperr.Wrap(err, http.StatusInternalServerError, genericErrorMessage), false
}

// writeError is the single place that renders failures.
//
// In production only operational errors keep their message; everything else
// is logged and answered with a generic 500. In development the response
// also carries the raw error text, its kind and the captured stack.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromRequest(r)

	appErr, operational := normalizeError(err)
	kind := kindOperational
	if !operational {
		kind = kindProgramming
		log.Error().Err(err).Str("path", r.URL.Path).Msg("unexpected error")
	} else {
		log.Debug().Err(err).Int("status", appErr.StatusCode).Msg("request failed")
	}

	body := models.ErrorEnvelope{
		Status:  appErr.Status(),
		Message: appErr.Message,
		Details: appErr.Details,
	}
	if !h.cfg.App.IsProduction() {
		body.Error = err.Error()
		body.Kind = kind
		body.Stack = appErr.Stack()
		if !operational {
			body.Message = err.Error()
		}
	}

	if _, writeErr := utils.WriteJSON(w, body, appErr.StatusCode); writeErr != nil {
		log.Err(writeErr).Msg("error writing error response")
	}
}
