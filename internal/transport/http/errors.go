package http

import (
	"errors"
	"net/http"

	apierrors "lasanalyzer/internal/errors"
	"lasanalyzer/internal/services"
)

// toAPIError maps service errors onto API errors. Unknown errors are returned as is and
// rendered as 500 by the error handler.
func toAPIError(err error) error {
	switch {
	case errors.Is(err, services.ErrWellNotFound):
		return apierrors.ErrWellNotFound
	case errors.Is(err, services.ErrInvalidDepthRange):
		return apierrors.ErrInvalidDepth
	case errors.Is(err, services.ErrNoCurvesSelected):
		return apierrors.ErrNoCurves
	case errors.Is(err, services.ErrTooManyCurves):
		return apierrors.ErrValidation("curves", err.Error())
	case errors.Is(err, services.ErrMissingFile), errors.Is(err, http.ErrMissingFile):
		return apierrors.ErrMissingFile
	case errors.Is(err, services.ErrNoCurveDefinitions):
		return apierrors.ErrNoCurveDefinitions
	case errors.Is(err, services.ErrArchiveFailed):
		return apierrors.ErrArchiveFailed
	case errors.Is(err, services.ErrServiceUnavailable):
		return apierrors.ErrServiceUnavailable
	}
	return err
}
