package responses

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jan-server/services/thread-api/internal/infrastructure/logger"
	"jan-server/services/thread-api/internal/utils/platformerrors"
)

// ErrorResponse is the error payload returned by every endpoint.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries the caller-safe message plus a stable code for
// support lookups.
type ErrorDetail struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code,omitempty"`
}

// StatusForErrorType maps a platform error classification to an HTTP status.
func StatusForErrorType(errType platformerrors.ErrorType) int {
	switch errType {
	case platformerrors.ErrorTypeValidation:
		return http.StatusBadRequest
	case platformerrors.ErrorTypeUnauthorized:
		return http.StatusUnauthorized
	case platformerrors.ErrorTypeForbidden:
		return http.StatusForbidden
	case platformerrors.ErrorTypeNotFound:
		return http.StatusNotFound
	case platformerrors.ErrorTypeConflict:
		return http.StatusConflict
	case platformerrors.ErrorTypeTimeout:
		return http.StatusGatewayTimeout
	case platformerrors.ErrorTypeExternal:
		return http.StatusBadGateway
	case platformerrors.ErrorTypeUnavailable, platformerrors.ErrorTypeDatabaseError:
		return http.StatusServiceUnavailable
	case platformerrors.ErrorTypeNotImplemented:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// HandleError writes err as a JSON error response, deriving the status from
// the platform error type. fallbackMessage is used when err carries no
// caller-safe message of its own.
func HandleError(reqCtx *gin.Context, err error, fallbackMessage string) {
	errType := platformerrors.TypeOf(err)
	status := StatusForErrorType(errType)

	message := platformerrors.MessageOf(err)
	if message == "" || message == "internal server error" {
		message = fallbackMessage
	}

	log := logger.GetLogger()
	event := log.Warn()
	if status >= http.StatusInternalServerError {
		event = log.Error()
	}
	event.
		Err(err).
		Int("status", status).
		Str("path", reqCtx.FullPath()).
		Str("method", reqCtx.Request.Method).
		Msg(fallbackMessage)

	reqCtx.AbortWithStatusJSON(status, ErrorResponse{
		Error: ErrorDetail{
			Message: message,
			Type:    string(errType),
		},
	})
}

// HandleNewError writes a fresh error of the given type without a wrapped
// cause. code is a stable identifier included in the payload.
func HandleNewError(reqCtx *gin.Context, errType platformerrors.ErrorType, message string, code string) {
	status := StatusForErrorType(errType)
	reqCtx.AbortWithStatusJSON(status, ErrorResponse{
		Error: ErrorDetail{
			Message: message,
			Type:    string(errType),
			Code:    code,
		},
	})
}

// HandleErrorWithStatus writes err with an explicit HTTP status, bypassing
// type-based mapping.
func HandleErrorWithStatus(reqCtx *gin.Context, status int, err error, message string) {
	if message == "" && err != nil {
		message = platformerrors.MessageOf(err)
	}
	reqCtx.AbortWithStatusJSON(status, ErrorResponse{
		Error: ErrorDetail{
			Message: message,
			Type:    string(platformerrors.TypeOf(err)),
		},
	})
}
