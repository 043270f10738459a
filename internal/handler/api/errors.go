package api

import (
	"errors"

	"ForecastAI/internal/domain/models"
	"ForecastAI/internal/services/advisory"
	xhttp "ForecastAI/pkg/http"
)

// ToAppError maps domain errors onto HTTP errors. Advisory failures carry a
// generic message only; the cause stays in the logs.
func ToAppError(err error) *xhttp.AppError {
	var appErr *xhttp.AppError
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, models.ErrSessionNotFound):
		return xhttp.NotFoundError("ERR_SESSION_NOT_FOUND", "session not found or expired").WithError(err)
	case errors.Is(err, models.ErrInsufficientData):
		return xhttp.UnprocessableError("ERR_INSUFFICIENT_DATA", models.InsufficientDataMessage).
			WithParam("min", advisory.MinAdvisoryPoints).
			WithError(err)
	case errors.Is(err, models.ErrAdvisoryInFlight):
		return xhttp.ConflictError("ERR_ADVISORY_IN_FLIGHT", "an advisory request is already in progress").WithError(err)
	case errors.Is(err, models.ErrAdvisoryRateLimited):
		return xhttp.TooManyRequestsError("ERR_RATE_LIMITED", "too many advisory requests, try again later").WithError(err)
	case errors.Is(err, models.ErrRowOutOfRange):
		return xhttp.BadRequestError("ERR_ROW_OUT_OF_RANGE", "row index out of range").WithError(err)
	case errors.Is(err, models.ErrAdvisoryFailure):
		return xhttp.BadGatewayError("ERR_ADVISORY_FAILED", models.AdvisoryFailedMessage).WithError(err)
	default:
		return xhttp.InternalError("something went wrong").WithError(err)
	}
}
