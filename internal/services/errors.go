package services

import "errors"

// Service errors. Handlers map them to HTTP problems.
var (
	// Well errors
	ErrWellNotFound = errors.New("well not found")

	// Upload errors
	ErrMissingFile        = errors.New("no LAS file uploaded")
	ErrNoCurveDefinitions = errors.New("LAS file declares no curves")
	ErrArchiveFailed      = errors.New("failed to archive uploaded file")

	// Query errors
	ErrInvalidDepthRange = errors.New("invalid depth range")
	ErrNoCurvesSelected  = errors.New("no curves selected")
	ErrTooManyCurves     = errors.New("too many curves selected")

	// General errors
	ErrServiceUnavailable = errors.New("service temporarily unavailable")
)
