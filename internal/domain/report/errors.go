package report

import "errors"

var (
	ErrReportNotFound          = errors.New("health report not found")
	ErrInvalidStatus           = errors.New("invalid processing status")
	ErrInvalidStatusTransition = errors.New("invalid processing status transition")
	ErrAlreadyAssigned         = errors.New("report already has an assigned doctor")
	ErrInvalidReportType       = errors.New("invalid report type")
)
