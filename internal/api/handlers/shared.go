package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/topmart/Investment-Engine-Backend/internal/api/response"
	"github.com/topmart/Investment-Engine-Backend/internal/apperrors"
)

// parseJSON decodes a request body into the given request type, rejecting
// unknown fields.
func parseJSON[T any](r *http.Request) (T, error) {
	var req T
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	err := dec.Decode(&req)
	return req, err
}

// respondServiceError maps service-layer sentinel errors to HTTP statuses
// and stable error kinds. The fallback message covers unclassified
// (internal) failures.
func respondServiceError(w http.ResponseWriter, err error, fallback error) {
	switch {
	case errors.Is(err, apperrors.ErrPlanNotFound),
		errors.Is(err, apperrors.ErrInvestmentNotFound),
		errors.Is(err, apperrors.ErrAccountNotFound):
		response.RespondError(w, http.StatusNotFound, "not_found", err.Error(), nil)

	case errors.Is(err, apperrors.ErrInvalidTransition):
		response.RespondError(w, http.StatusBadRequest, "invalid_transition", err.Error(), nil)

	case errors.Is(err, apperrors.ErrPlanLimitExceeded):
		response.RespondError(w, http.StatusBadRequest, "plan_limit_exceeded", err.Error(), nil)

	case errors.Is(err, apperrors.ErrInvalidPlanTerms):
		response.RespondError(w, http.StatusBadRequest, "invalid_plan_terms", err.Error(), nil)

	case errors.Is(err, apperrors.ErrUnauthorized):
		response.RespondError(w, http.StatusForbidden, "unauthorized", err.Error(), nil)

	default:
		response.RespondError(w, http.StatusInternalServerError, "internal", fallback.Error(), err.Error())
	}
}
