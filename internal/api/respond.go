package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/zzenonn/go-mckp"
	"github.com/zzenonn/go-mckp/internal/dataset"
	"github.com/zzenonn/go-mckp/internal/logging"
)

// Error codes returned in APIError.Code.
const (
	CodeBadRequest       = "BAD_REQUEST"
	CodeValidation       = "VALIDATION_ERROR"
	CodeInvalidInput     = "INVALID_INPUT"
	CodeUnknownAttribute = "UNKNOWN_ATTRIBUTE"
	CodeInfeasible       = "INFEASIBLE"
	CodeNoDataset        = "NO_DATASET"
	CodeTimeout          = "TIMEOUT"
	CodeInternal         = "INTERNAL_ERROR"
)

// respondJSON writes a JSON response with an ETag of its body.
func respondJSON(w http.ResponseWriter, r *http.Request, status int, resp *Response) {
	resp.Metadata.Timestamp = time.Now().UTC()
	resp.Metadata.RequestID = logging.RequestIDFromContext(r.Context())

	data, err := json.Marshal(resp)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("ETag", strconv.FormatUint(xxhash.Sum64(data), 16))
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("failed to write JSON response")
	}
}

func respondData(w http.ResponseWriter, r *http.Request, data any, cached bool) {
	respondJSON(w, r, http.StatusOK, &Response{
		Status:   "success",
		Data:     data,
		Metadata: Metadata{Cached: cached},
	})
}

func respondError(w http.ResponseWriter, r *http.Request, status int, apiErr *APIError) {
	respondJSON(w, r, status, &Response{Status: "error", Error: apiErr})
}

// respondSolveError maps solver and loader errors onto HTTP statuses.
func respondSolveError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		infeasible *mckp.InfeasibleError
		unknown    *mckp.UnknownAttributeError
		invalid    *mckp.InvalidInputError
	)
	switch {
	case errors.As(err, &infeasible):
		respondError(w, r, http.StatusUnprocessableEntity, &APIError{
			Code:    CodeInfeasible,
			Message: err.Error(),
			Details: map[string]any{"budget": infeasible.Budget, "min_weight": infeasible.MinWeight},
		})
	case errors.As(err, &unknown):
		respondError(w, r, http.StatusBadRequest, &APIError{
			Code:    CodeUnknownAttribute,
			Message: err.Error(),
			Details: map[string]any{"attribute": unknown.Attribute},
		})
	case errors.As(err, &invalid):
		respondError(w, r, http.StatusBadRequest, &APIError{
			Code:    CodeInvalidInput,
			Message: err.Error(),
			Details: map[string]any{"reason": string(invalid.Reason)},
		})
	case errors.Is(err, dataset.ErrMalformed):
		respondError(w, r, http.StatusBadRequest, &APIError{Code: CodeInvalidInput, Message: err.Error()})
	case errors.Is(err, mckp.ErrInvalidConfiguration), errors.Is(err, mckp.ErrUnknownStrategy):
		respondError(w, r, http.StatusBadRequest, &APIError{Code: CodeBadRequest, Message: err.Error()})
	case errors.Is(err, context.DeadlineExceeded):
		respondError(w, r, http.StatusServiceUnavailable, &APIError{Code: CodeTimeout, Message: "solve timed out"})
	default:
		logging.Ctx(r.Context()).Error().Err(err).Msg("solve failed")
		respondError(w, r, http.StatusInternalServerError, &APIError{Code: CodeInternal, Message: "internal error"})
	}
}

// respondValidationError reports failed validate tags field by field.
func respondValidationError(w http.ResponseWriter, r *http.Request, err error) {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		respondError(w, r, http.StatusBadRequest, &APIError{Code: CodeValidation, Message: err.Error()})
		return
	}
	details := make(map[string]any, len(fieldErrs))
	for _, fe := range fieldErrs {
		details[fe.Field()] = fe.ActualTag()
	}
	respondError(w, r, http.StatusBadRequest, &APIError{
		Code:    CodeValidation,
		Message: "request validation failed",
		Details: details,
	})
}
