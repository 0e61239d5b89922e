package models

import "errors"

// Application-wide standard errors
var (
	// Validation errors: действие блокируется локально, сервис не вызывается.
	ErrOfferRequired           = errors.New("offer is required")
	ErrInvalidConfig           = errors.New("invalid generation config")
	ErrNotArchive              = errors.New("only archive files (.zip) are accepted")
	ErrInvalidExportFormat     = errors.New("invalid export format, use text or html")
	ErrInvalidScenario         = errors.New("invalid scenario data")
	ErrInvalidGeneratorRequest = errors.New("invalid generator request")

	// State errors
	ErrSubmissionInProgress = errors.New("generation is already in progress")
	ErrOperationInProgress  = errors.New("operation is already in progress")
	ErrNoResult             = errors.New("no generation result to export")
	ErrCancelled            = errors.New("action cancelled by user")
	ErrSessionClosed        = errors.New("session is closed")

	// Transport/service errors
	ErrServiceUnavailable = errors.New("generation service unavailable")
)

// IsValidationError сообщает, относится ли ошибка к локальной валидации.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrOfferRequired) ||
		errors.Is(err, ErrInvalidConfig) ||
		errors.Is(err, ErrNotArchive) ||
		errors.Is(err, ErrInvalidExportFormat) ||
		errors.Is(err, ErrInvalidScenario) ||
		errors.Is(err, ErrInvalidGeneratorRequest)
}
