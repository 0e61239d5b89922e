package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"prelanding-studio/internal/client"
	"prelanding-studio/internal/models"
	"prelanding-studio/internal/session"
)

// Коды ошибок в ответах BFF
const (
	ErrCodeBadRequest  = "bad_request"
	ErrCodeValidation  = "validation"
	ErrCodeInProgress  = "in_progress"
	ErrCodeCancelled   = "cancelled"
	ErrCodeNotFound    = "not_found"
	ErrCodeUpstream    = "upstream"
	ErrCodeSessionGone = "session_closed"
	ErrCodeInternal    = "internal"
)

// ErrorResponse - тело ответа с ошибкой.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// handleServiceError переводит ошибку операции в HTTP ответ.
// fallback показывается, если сервис генерации не прислал detail.
func handleServiceError(c *gin.Context, log *zap.Logger, err error, fallback string) {
	var statusCode int
	var errResp ErrorResponse

	var apiErr *client.APIError
	switch {
	case models.IsValidationError(err):
		statusCode = http.StatusUnprocessableEntity
		errResp = ErrorResponse{Code: ErrCodeValidation, Message: validationMessage(err)}
	case errors.Is(err, models.ErrSubmissionInProgress), errors.Is(err, models.ErrOperationInProgress):
		statusCode = http.StatusConflict
		errResp = ErrorResponse{Code: ErrCodeInProgress, Message: "Операция уже выполняется"}
	case errors.Is(err, models.ErrCancelled):
		statusCode = http.StatusBadRequest
		errResp = ErrorResponse{Code: ErrCodeCancelled, Message: "Действие не подтверждено"}
	case errors.Is(err, models.ErrNoResult):
		statusCode = http.StatusNotFound
		errResp = ErrorResponse{Code: ErrCodeNotFound, Message: "Нет результата генерации"}
	case errors.Is(err, models.ErrSessionClosed):
		statusCode = http.StatusConflict
		errResp = ErrorResponse{Code: ErrCodeSessionGone, Message: "Сессия закрыта, обновите страницу"}
	case errors.As(err, &apiErr):
		statusCode = http.StatusBadGateway
		errResp = ErrorResponse{Code: ErrCodeUpstream, Message: client.UserMessage(err, fallback)}
	case errors.Is(err, models.ErrServiceUnavailable), errors.Is(err, session.ErrMalformedResult):
		statusCode = http.StatusBadGateway
		errResp = ErrorResponse{Code: ErrCodeUpstream, Message: fallback}
	default:
		log.Error("Unhandled internal error in handleServiceError", zap.Error(err))
		statusCode = http.StatusInternalServerError
		errResp = ErrorResponse{Code: ErrCodeInternal, Message: "An unexpected internal error occurred"}
	}

	c.AbortWithStatusJSON(statusCode, errResp)
}

func validationMessage(err error) string {
	switch {
	case errors.Is(err, models.ErrOfferRequired):
		return session.UserMessage(err, "")
	case errors.Is(err, models.ErrNotArchive):
		return "Только ZIP файлы!"
	}
	return err.Error()
}

func badRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Code: ErrCodeBadRequest, Message: message})
}
